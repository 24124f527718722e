package operations

// Step identifiers, in pipeline order.
const (
	StepIDPrepare                 = "prepare"
	StepIDDowntimeFeatures        = "downtime_features"
	StepIDHourlyFeatures          = "hourly_features"
	StepIDDailyFeatures           = "daily_features"
	StepIDEventHourReconciliation = "event_hour_reconciliation"
	StepIDHourDayReconciliation   = "hour_day_reconciliation"
	StepIDDurationAnalysis        = "duration_analysis"
	StepIDBurstAnalysis           = "burst_analysis"
)

// Step names
const (
	StepNamePrepare                 = "Data Preparation"
	StepNameDowntimeFeatures        = "Downtime Event Features"
	StepNameHourlyFeatures          = "Hourly Features"
	StepNameDailyFeatures           = "Daily Features"
	StepNameEventHourReconciliation = "Event to Hour Reconciliation"
	StepNameHourDayReconciliation   = "Hour to Day Reconciliation"
	StepNameDurationAnalysis        = "Downtime Duration Analysis"
	StepNameBurstAnalysis           = "Burst Analysis"
)

// Stage groups selectable from the command line.
const (
	StagePrepare  = "prepare"
	StageFeatures = "features"
	StageAnalysis = "analysis"
	StageAll      = "all"
)

// Metadata keys reported by steps.
const (
	MetadataRows      = "rows"
	MetadataCoercions = "coerced_cells"
)

// RunRequest selects what a Manager runs.
type RunRequest struct {
	// ID becomes the run's trace ID. Empty generates a UUID.
	ID string
	// Stage labels the run in logs and the manifest.
	Stage string
}

// RunResponse summarizes a finished run.
type RunResponse struct {
	ID       string               `json:"id"`
	Status   OperationStatusValue `json:"status"`
	Steps    []*StepState         `json:"steps"`
	Manifest *PipelineManifest    `json:"manifest"`
	Error    string               `json:"error,omitempty"`
}
