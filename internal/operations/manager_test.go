package operations_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "downtimecli/internal/errors"
	"downtimecli/internal/infrastructure"
	"downtimecli/internal/operations"
	"downtimecli/internal/operations/testutil"
	sharedtest "downtimecli/internal/shared/testutil"
)

func newManager(t *testing.T, steps ...operations.Step) (*operations.Manager, *sharedtest.BufferedSlogHandler, string) {
	t.Helper()
	logger, handler := sharedtest.NewTestLogger(t)
	manifest := filepath.Join(t.TempDir(), "manifest.json")
	registry := operations.NewRegistry().MustRegister(steps...)
	return operations.NewManager(registry,
		operations.WithLogger(logger),
		operations.WithManifestPath(manifest)), handler, manifest
}

func TestManager(t *testing.T) {
	manager := operations.NewManager(nil)
	require.NotNil(t, manager)
	assert.Equal(t, 0, manager.GetRegistry().Count())

	resp, err := manager.Run(context.Background(), operations.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, resp.Status)
	assert.Len(t, resp.ID, 36, "run ID should be a UUID")
}

func TestManagerRunsStepsInOrder(t *testing.T) {
	var order []string
	record := func(id string) func(context.Context, *operations.OperationState) error {
		return func(ctx context.Context, _ *operations.OperationState) error {
			order = append(order, id)
			return nil
		}
	}
	first := testutil.NewStageBuilder("first", "First").WithExecute(record("first")).Build()
	second := testutil.NewStageBuilder("second", "Second").WithExecute(record("second")).Build()
	third := testutil.NewStageBuilder("third", "Third").WithExecute(record("third")).Build()

	manager, handler, manifestPath := newManager(t, first, second, third)

	resp, err := manager.Run(context.Background(), operations.RunRequest{ID: "run-42", Stage: "features"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, "run-42", resp.ID)
	require.Len(t, resp.Steps, 3)
	for _, s := range resp.Steps {
		assert.Equal(t, operations.StepStatusCompleted, s.Status)
	}

	// the run ID travels in the context as the trace ID
	assert.Equal(t, "run-42", infrastructure.GetTraceID(second.ExecuteCtx))

	loaded := readManifest(t, manifestPath)
	assert.Equal(t, "run-42", loaded.ID)
	assert.Equal(t, "features", loaded.Stage)
	assert.Equal(t, "completed", loaded.Status)
	assert.Len(t, loaded.CompletedStages, 3)

	sharedtest.AssertLogContains(t, handler, slog.LevelInfo, "pipeline_run_completed")
	sharedtest.AssertNoErrors(t, handler)
}

func TestManagerFailFast(t *testing.T) {
	boom := errors.New("boom")
	first := testutil.CreateSuccessfulStage("first", "First")
	failing := testutil.CreateFailingStage("failing", "Failing", boom)
	last := testutil.CreateSuccessfulStage("last", "Last")

	manager, handler, manifestPath := newManager(t, first, failing, last)

	resp, err := manager.Run(context.Background(), operations.RunRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(err))

	assert.Equal(t, 1, failing.ExecuteCalls, "no retries")
	assert.Equal(t, 0, last.ExecuteCalls, "later steps must not run")

	assert.Equal(t, operations.OperationStatusFailed, resp.Status)
	assert.Equal(t, operations.StepStatusCompleted, resp.Steps[0].Status)
	assert.Equal(t, operations.StepStatusFailed, resp.Steps[1].Status)
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[2].Status)

	loaded := readManifest(t, manifestPath)
	assert.Equal(t, "failed", loaded.Status)
	assert.Contains(t, loaded.Error, "failing")

	failed, ok := handler.Find("step_failed")
	require.True(t, ok)
	assert.Equal(t, "failing", failed.Attrs["step"])
	assert.Equal(t, "manager", failed.Attrs["component"])
	assert.Contains(t, failed.Attrs["error"], "boom")
	assert.Equal(t, resp.ID, infrastructure.GetTraceID(failed.Context))
}

func TestManagerAdoptsContextTraceID(t *testing.T) {
	step := testutil.CreateSuccessfulStage("prepare", "Prepare")
	manager, handler, _ := newManager(t, step)

	ctx := infrastructure.WithTraceID(context.Background(), "trace-7")
	resp, err := manager.Run(ctx, operations.RunRequest{})
	require.NoError(t, err)
	assert.Equal(t, "trace-7", resp.ID)
	assert.Equal(t, "trace-7", resp.Manifest.ID)
	assert.Equal(t, "trace-7", infrastructure.GetTraceID(step.ExecuteCtx))

	// an explicit run ID wins over the one in ctx
	resp, err = manager.Run(ctx, operations.RunRequest{ID: "run-8"})
	require.NoError(t, err)
	assert.Equal(t, "run-8", resp.ID)
	assert.Equal(t, "run-8", infrastructure.GetTraceID(step.ExecuteCtx))

	started, ok := handler.Find("pipeline_run_start")
	require.True(t, ok)
	assert.Equal(t, "manager", started.Attrs["component"])
}

func TestManagerMissingInput(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.csv")
	require.NoError(t, os.WriteFile(present, []byte("a\n"), 0644))
	missing := filepath.Join(dir, "hourly_cleaned.csv")

	step := testutil.NewStageBuilder("hourly_features", "Hourly").
		WithInput("downtime_cleaned", present).
		WithInput("hourly_cleaned", missing).
		Build()

	manager, _, _ := newManager(t, step)

	_, err := manager.Run(context.Background(), operations.RunRequest{})
	require.Error(t, err)
	assert.Equal(t, 0, step.ExecuteCalls)
	assert.Equal(t, operations.ErrorTypeDependency, operations.GetErrorType(err))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Contains(t, err.Error(), missing)
}

func TestManagerRecordsOutputs(t *testing.T) {
	out := filepath.Join(t.TempDir(), "table.csv")
	step := testutil.NewStageBuilder("writer", "Writer").
		WithOutput("table", out).
		WithExecute(func(ctx context.Context, state *operations.OperationState) error {
			state.GetStage("writer").SetMetadata(operations.MetadataRows, map[string]int{"table": 3})
			return os.WriteFile(out, []byte("a\n1\n2\n3\n"), 0644)
		}).
		Build()

	manager, _, _ := newManager(t, step)

	resp, err := manager.Run(context.Background(), operations.RunRequest{})
	require.NoError(t, err)

	data, ok := resp.Manifest.GetData("table")
	require.True(t, ok)
	assert.Equal(t, 3, data.Rows)
	assert.Equal(t, out, data.Location)
	assert.Equal(t, []string{out}, resp.Manifest.CompletedStages[0].OutputData)
}

func TestManagerCancelledContext(t *testing.T) {
	step := testutil.CreateSuccessfulStage("prepare", "Prepare")
	manager, _, _ := newManager(t, step)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := manager.Run(ctx, operations.RunRequest{})
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(err))
	assert.Equal(t, 0, step.ExecuteCalls)
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[0].Status)
}
