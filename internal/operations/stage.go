package operations

import (
	"context"
	"time"
)

// DataRequirement is a file a step reads. The step cannot start unless every
// non-optional requirement exists.
type DataRequirement struct {
	Type     string `json:"type"`     // table name, e.g. "downtime_cleaned"
	Location string `json:"location"` // file path
	Optional bool   `json:"optional"`
}

// DataOutput is a file a step writes.
type DataOutput struct {
	Type     string `json:"type"`
	Location string `json:"location"`
}

// Step represents a single Step in the operation
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// Execute runs the Step with the given context and operation state
	Execute(ctx context.Context, state *OperationState) error

	// RequiredInputs returns the data requirements for this step to run
	RequiredInputs() []DataRequirement

	// ProducedOutputs returns the data outputs this step produces
	ProducedOutputs() []DataOutput
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Message   string                 `json:"message"`
	Error     error                  `json:"-"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Step as completed and sets the end time
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the Step as failed with the given error
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the Step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusSkipped
	s.Message = reason
}

// SetMetadata records a value reported by the step, such as a row count.
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.Metadata[key] = value
}

// Duration returns the duration of the Step execution
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStage provides common functionality for Step implementations
type BaseStage struct {
	id      string
	name    string
	inputs  []DataRequirement
	outputs []DataOutput
}

// NewBaseStage creates a new base Step
func NewBaseStage(id, name string, inputs []DataRequirement, outputs []DataOutput) BaseStage {
	return BaseStage{
		id:      id,
		name:    name,
		inputs:  inputs,
		outputs: outputs,
	}
}

// ID returns the Step ID
func (b *BaseStage) ID() string {
	return b.id
}

// Name returns the Step name
func (b *BaseStage) Name() string {
	return b.name
}

// RequiredInputs returns the files the step reads.
func (b *BaseStage) RequiredInputs() []DataRequirement {
	return b.inputs
}

// ProducedOutputs returns the files the step writes.
func (b *BaseStage) ProducedOutputs() []DataOutput {
	return b.outputs
}

// outputPath returns the location of the output of the given type.
func (b *BaseStage) outputPath(dataType string) string {
	for _, o := range b.outputs {
		if o.Type == dataType {
			return o.Location
		}
	}
	return ""
}

// inputPath returns the location of the input of the given type.
func (b *BaseStage) inputPath(dataType string) string {
	for _, in := range b.inputs {
		if in.Type == dataType {
			return in.Location
		}
	}
	return ""
}
