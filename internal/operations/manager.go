package operations

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"downtimecli/internal/config"
	apperrors "downtimecli/internal/errors"
	"downtimecli/internal/infrastructure"
)

// Manager runs the registered steps in order. The first failure aborts the
// run; nothing is retried and later steps are marked skipped.
type Manager struct {
	registry     *Registry
	logger       *slog.Logger
	tracer       *OperationTracer
	manifestPath string
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer sets the telemetry used for spans and metrics.
func WithTracer(tracer *OperationTracer) ManagerOption {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithManifestPath makes every run write its manifest to path.
func WithManifestPath(path string) ManagerOption {
	return func(m *Manager) {
		m.manifestPath = path
	}
}

// NewManager creates a manager for the steps in registry.
func NewManager(registry *Registry, opts ...ManagerOption) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	m := &Manager{
		registry: registry,
		logger:   slog.Default(),
		tracer:   NoopOperationTracer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = infrastructure.WithComponent(m.logger, "manager")
	return m
}

// GetRegistry returns the registry for accessing registered stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Run executes every registered step. The run ID doubles as the trace ID
// in ctx so all log records of the run carry it. Without an explicit ID
// the run adopts the trace ID already in ctx, or generates one.
func (m *Manager) Run(ctx context.Context, req RunRequest) (*RunResponse, error) {
	if req.ID != "" {
		ctx = infrastructure.WithTraceID(ctx, req.ID)
	}
	ctx = infrastructure.EnsureTraceID(ctx)
	req.ID = infrastructure.GetTraceID(ctx)
	if req.Stage == "" {
		req.Stage = StageAll
	}

	steps := m.registry.List()
	state := NewOperationState(req.ID)
	state.Telemetry = m.tracer
	for _, step := range steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}
	manifest := NewPipelineManifest(req.ID, req.Stage)

	ctx, span := m.tracer.TraceRun(ctx, req.ID, req.Stage, len(steps))
	state.Start()
	m.logger.InfoContext(ctx, "pipeline_run_start",
		slog.String("stage", req.Stage),
		slog.Int("step_count", len(steps)))

	var runErr error
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			runErr = NewCancellationError(step.ID(), err)
			m.skipRemaining(state, steps[i:], "run cancelled")
			break
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, manifest, step); err != nil {
			runErr = err
			m.skipRemaining(state, steps[i+1:], "previous step "+step.ID()+" failed")
			break
		}
	}

	if runErr != nil {
		state.Fail(runErr)
		manifest.Fail(runErr)
		infrastructure.WithError(m.logger, runErr).ErrorContext(ctx, "pipeline_run_failed")
	} else {
		state.Complete()
		manifest.Complete()
		m.logger.InfoContext(ctx, "pipeline_run_completed",
			slog.Duration("duration", time.Since(state.StartTime)))
	}
	m.tracer.RecordRunCompletion(span, state.Status, runErr)

	if m.manifestPath != "" {
		if err := manifest.SaveToFile(m.manifestPath); err != nil {
			infrastructure.WithError(m.logger, err).ErrorContext(ctx, "manifest_write_failed",
				slog.String("path", m.manifestPath))
			if runErr == nil {
				runErr = apperrors.NewStorageError("failed to write run manifest", err).WithPath(m.manifestPath)
			}
		}
	}

	return m.createResponse(state, manifest, runErr), runErr
}

// executeStep runs one step after checking its inputs exist.
func (m *Manager) executeStep(ctx context.Context, state *OperationState, manifest *PipelineManifest, step Step) error {
	stepState := state.GetStage(step.ID())
	manifest.RecordStageStart(step.ID(), step.Name())

	if err := m.checkInputs(step); err != nil {
		stepState.Fail(err)
		manifest.RecordStageFailure(step.ID(), err)
		infrastructure.WithError(m.logger, err).ErrorContext(ctx, "step_input_missing",
			slog.String("step", step.ID()))
		return err
	}

	stepCtx, span := m.tracer.TraceStep(ctx, state.ID, step.ID())
	stepState.Start()
	err := step.Execute(stepCtx, state)
	if err != nil {
		stepState.Fail(err)
	} else {
		stepState.Complete()
	}
	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), stepState.Duration(), err)

	if err != nil {
		opErr := WrapError(err, step.ID())
		manifest.RecordStageFailure(step.ID(), opErr)
		infrastructure.WithError(m.logger, opErr).ErrorContext(ctx, "step_failed",
			slog.String("step", step.ID()))
		return opErr
	}

	rows, _ := stepState.Metadata[MetadataRows].(map[string]int)
	outputs := make([]string, 0, len(step.ProducedOutputs()))
	for _, out := range step.ProducedOutputs() {
		manifest.AddData(step.ID(), out, rows[out.Type])
		outputs = append(outputs, out.Location)
	}
	manifest.RecordStageCompletion(step.ID(), outputs, stepState.Metadata)

	m.logger.InfoContext(ctx, "step_completed",
		slog.String("step", step.ID()),
		slog.Duration("duration", stepState.Duration()),
		slog.Any("rows", sortedRows(rows)))
	return nil
}

// checkInputs verifies every non-optional input of step is on disk.
func (m *Manager) checkInputs(step Step) error {
	for _, in := range step.RequiredInputs() {
		if in.Optional {
			continue
		}
		if !config.FileExists(in.Location) {
			return NewDependencyError(step.ID(), in.Type, in.Location)
		}
	}
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStage(step.ID()); s != nil && s.Status == StepStatusPending {
			s.Skip(reason)
		}
	}
}

func (m *Manager) createResponse(state *OperationState, manifest *PipelineManifest, err error) *RunResponse {
	resp := &RunResponse{
		ID:       state.ID,
		Status:   state.Status,
		Steps:    state.OrderedSteps(),
		Manifest: manifest,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// sortedRows renders a row count map as "table=n" pairs in table order.
func sortedRows(rows map[string]int) []string {
	out := make([]string, 0, len(rows))
	for table := range rows {
		out = append(out, table)
	}
	sort.Strings(out)
	for i, table := range out {
		out[i] = table + "=" + strconv.Itoa(rows[table])
	}
	return out
}
