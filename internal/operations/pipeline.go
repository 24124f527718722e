package operations

import (
	"fmt"
)

// PrepareSteps returns the data preparation group.
func PrepareSteps(opts *StageOptions) []Step {
	return []Step{NewPrepareStage(opts)}
}

// FeatureSteps returns the feature and reconciliation group. The event
// features come first because event to hour reconciliation reads them.
func FeatureSteps(opts *StageOptions) []Step {
	return []Step{
		NewDowntimeFeaturesStage(opts),
		NewHourlyFeaturesStage(opts),
		NewDailyFeaturesStage(opts),
		NewEventHourReconciliationStage(opts),
		NewHourDayReconciliationStage(opts),
	}
}

// AnalysisSteps returns the descriptive analysis group.
func AnalysisSteps(opts *StageOptions) []Step {
	return []Step{
		NewDurationAnalysisStage(opts),
		NewBurstAnalysisStage(opts),
	}
}

// NewPipelineRegistry registers the steps of a stage group in execution
// order. StageAll runs prepare, features and analysis.
func NewPipelineRegistry(stage string, opts *StageOptions) (*Registry, error) {
	var steps []Step
	switch stage {
	case StagePrepare:
		steps = PrepareSteps(opts)
	case StageFeatures:
		steps = FeatureSteps(opts)
	case StageAnalysis:
		steps = AnalysisSteps(opts)
	case StageAll, "":
		steps = append(PrepareSteps(opts), FeatureSteps(opts)...)
		steps = append(steps, AnalysisSteps(opts)...)
	default:
		return nil, NewValidationError("", fmt.Sprintf("unknown stage %q (want %s, %s, %s or %s)",
			stage, StagePrepare, StageFeatures, StageAnalysis, StageAll))
	}

	registry := NewRegistry()
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
