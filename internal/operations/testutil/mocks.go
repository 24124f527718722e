package testutil

import (
	"context"

	"downtimecli/internal/operations"
)

// MockStage is a configurable mock implementation of the step interface
type MockStage struct {
	IDValue      string
	NameValue    string
	InputsValue  []operations.DataRequirement
	OutputsValue []operations.DataOutput

	// Configurable functions
	ExecuteFunc func(ctx context.Context, state *operations.OperationState) error

	// Call tracking
	ExecuteCalls int
	ExecuteCtx   context.Context
}

// ID returns the step ID
func (m *MockStage) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStage) Name() string {
	return m.NameValue
}

// RequiredInputs returns the configured inputs
func (m *MockStage) RequiredInputs() []operations.DataRequirement {
	return m.InputsValue
}

// ProducedOutputs returns the configured outputs
func (m *MockStage) ProducedOutputs() []operations.DataOutput {
	return m.OutputsValue
}

// Execute runs the mock execute function
func (m *MockStage) Execute(ctx context.Context, state *operations.OperationState) error {
	m.ExecuteCalls++
	m.ExecuteCtx = ctx
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string) *MockStage {
	return &MockStage{IDValue: id, NameValue: name}
}

// CreateFailingStage creates a step that always returns err
func CreateFailingStage(id, name string, err error) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(context.Context, *operations.OperationState) error {
			return err
		},
	}
}

// StageBuilder builds a MockStage step by step
type StageBuilder struct {
	stage *MockStage
}

// NewStageBuilder creates a new stage builder
func NewStageBuilder(id, name string) *StageBuilder {
	return &StageBuilder{stage: &MockStage{IDValue: id, NameValue: name}}
}

// WithInput adds a required input file
func (b *StageBuilder) WithInput(dataType, location string) *StageBuilder {
	b.stage.InputsValue = append(b.stage.InputsValue, operations.DataRequirement{Type: dataType, Location: location})
	return b
}

// WithOutput adds a produced output file
func (b *StageBuilder) WithOutput(dataType, location string) *StageBuilder {
	b.stage.OutputsValue = append(b.stage.OutputsValue, operations.DataOutput{Type: dataType, Location: location})
	return b
}

// WithExecute sets the execute function
func (b *StageBuilder) WithExecute(fn func(context.Context, *operations.OperationState) error) *StageBuilder {
	b.stage.ExecuteFunc = fn
	return b
}

// Build returns the configured stage
func (b *StageBuilder) Build() *MockStage {
	return b.stage
}
