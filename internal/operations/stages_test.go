package operations_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/internal/config"
	apperrors "downtimecli/internal/errors"
	"downtimecli/internal/exporter"
	"downtimecli/internal/operations"
	"downtimecli/internal/shared/testutil"
)

// pipelineFixture resolves a fresh output tree around a standard workbook.
func pipelineFixture(t *testing.T, workbook string) *operations.StageOptions {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RawWorkbook = workbook
	paths, err := cfg.ResolvePaths(t.TempDir())
	require.NoError(t, err)
	logger, _ := testutil.NewTestLogger(nil)
	return operations.StageOptionsFromConfig(cfg, paths, logger)
}

func runStage(t *testing.T, stage string, opts *operations.StageOptions) (*operations.RunResponse, error) {
	t.Helper()
	registry, err := operations.NewPipelineRegistry(stage, opts)
	require.NoError(t, err)
	manager := operations.NewManager(registry,
		operations.WithLogger(opts.Logger),
		operations.WithManifestPath(opts.Paths.ManifestFile))
	return manager.Run(context.Background(), operations.RunRequest{Stage: stage})
}

func TestNewPipelineRegistry(t *testing.T) {
	opts := pipelineFixture(t, "dataset.xlsx")

	tests := []struct {
		stage string
		want  []string
	}{
		{operations.StagePrepare, []string{"prepare"}},
		{operations.StageFeatures, []string{
			"downtime_features", "hourly_features", "daily_features",
			"event_hour_reconciliation", "hour_day_reconciliation",
		}},
		{operations.StageAnalysis, []string{"duration_analysis", "burst_analysis"}},
		{operations.StageAll, []string{
			"prepare",
			"downtime_features", "hourly_features", "daily_features",
			"event_hour_reconciliation", "hour_day_reconciliation",
			"duration_analysis", "burst_analysis",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.stage, func(t *testing.T) {
			registry, err := operations.NewPipelineRegistry(tt.stage, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, registry.ListIDs())
		})
	}

	_, err := operations.NewPipelineRegistry("report", opts)
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeValidation, operations.GetErrorType(err))
}

func TestFullPipeline(t *testing.T) {
	opts := pipelineFixture(t, testutil.NewWorkbook().WithStandardSheets().Save(t))
	paths := opts.Paths

	resp, err := runStage(t, operations.StageAll, opts)
	require.NoError(t, err)
	assert.Equal(t, operations.OperationStatusCompleted, resp.Status)

	for _, f := range []string{
		paths.CleanedPath(exporter.DowntimeCleanedFile),
		paths.CleanedPath(exporter.HourlyCleanedFile),
		paths.CleanedPath(exporter.DailyCleanedFile),
		paths.CleanedPath(exporter.ProcessedCleanedFile),
		paths.FeaturedPath(exporter.DowntimeFeaturesFile),
		paths.FeaturedPath(exporter.HourlyFeaturesFile),
		paths.FeaturedPath(exporter.DailyFeaturesFile),
		paths.FeaturedPath(exporter.EventHourReconFile),
		paths.FeaturedPath(exporter.HourDayReconFile),
		paths.TablePath(exporter.DurationSummaryFile),
		paths.TablePath(exporter.DurationDistFile),
		paths.TablePath(exporter.BurstSummaryFile),
	} {
		assert.FileExists(t, f)
	}

	prepare := resp.Steps[0]
	assert.Equal(t, 1, prepare.Metadata[operations.MetadataCoercions])
	assert.Equal(t, 5, prepare.Metadata[operations.MetadataRows].(map[string]int)["downtime_cleaned"])

	t.Run("downtime features", func(t *testing.T) {
		events, err := exporter.DowntimeFeatures.Read(paths.FeaturedPath(exporter.DowntimeFeaturesFile))
		require.NoError(t, err)
		require.Len(t, events, 5)

		assert.Nil(t, events[0].GapFromPrevSec)
		assert.Nil(t, events[0].IsBurst)
		assert.Equal(t, 3600.0, *events[0].DurationSec)

		require.NotNil(t, events[1].IsBurst)
		assert.True(t, *events[1].IsBurst)
		assert.Equal(t, 120.0, *events[1].GapFromPrevSec)

		// the bad end clock leaves the duration null, the blank event sorts last
		assert.Nil(t, events[3].DurationSec)
		assert.Nil(t, events[4].StartTS)
		assert.Nil(t, events[4].IsBurst)
	})

	t.Run("event to hour reconciliation", func(t *testing.T) {
		rows, err := exporter.EventHourReconciliation.Read(paths.FeaturedPath(exporter.EventHourReconFile))
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, 3600.0, rows[0].DurationSec)
		assert.InDelta(t, 0, *rows[0].DiffSec, 1e-9)
		assert.InDelta(t, 120, *rows[1].DiffSec, 1e-9)
		assert.Equal(t, 0.0, rows[3].DurationSec)
	})

	t.Run("hour to day reconciliation", func(t *testing.T) {
		rows, err := exporter.HourDayReconciliation.Read(paths.FeaturedPath(exporter.HourDayReconFile))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		jan5 := rows[1]
		assert.InDelta(t, 1.7, *jan5.HourlyDowntimeSum, 1e-9)
		assert.InDelta(t, 1.3, *jan5.HourlyOperationSum, 1e-9)
		assert.InDelta(t, 1.3/3, *jan5.HourlyEfficiencyMean, 1e-9)
		assert.InDelta(t, 0.43-1.3/3, *jan5.EfficiencyDiff, 1e-9)
	})

	t.Run("burst summary", func(t *testing.T) {
		content, err := os.ReadFile(paths.TablePath(exporter.BurstSummaryFile))
		require.NoError(t, err)
		assert.Equal(t,
			"is_burst,event_count,total_downtime_sec,downtime_share\n"+
				"false,2,1800,0.3\n"+
				"true,1,600,0.1\n"+
				",2,3600,0.6\n",
			string(content))
	})

	t.Run("manifest", func(t *testing.T) {
		m := readManifest(t, paths.ManifestFile)
		assert.Equal(t, resp.ID, m.ID)
		assert.Len(t, m.CompletedStages, 8)
		data, ok := m.GetData("hourly_features")
		require.True(t, ok)
		assert.Equal(t, 4, data.Rows)
		assert.Equal(t, "hourly_features", data.CreatedBy)
	})
}

func TestFeaturesRequireCleanedTables(t *testing.T) {
	opts := pipelineFixture(t, testutil.NewWorkbook().WithStandardSheets().Save(t))

	_, err := runStage(t, operations.StageFeatures, opts)
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeDependency, operations.GetErrorType(err))
	assert.Contains(t, err.Error(), opts.Paths.CleanedPath(exporter.DowntimeCleanedFile))
}

func TestFeaturesRejectNonCSVInput(t *testing.T) {
	opts := pipelineFixture(t, testutil.NewWorkbook().WithStandardSheets().Save(t))
	_, err := runStage(t, operations.StagePrepare, opts)
	require.NoError(t, err)

	// a directory where the cleaned table should be passes the existence
	// check but not the file validation
	downtime := opts.Paths.CleanedPath(exporter.DowntimeCleanedFile)
	require.NoError(t, os.Remove(downtime))
	require.NoError(t, os.Mkdir(downtime, 0755))

	resp, err := runStage(t, operations.StageFeatures, opts)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), downtime)
	assert.Equal(t, operations.StepStatusFailed, resp.Steps[0].Status)
	assert.Equal(t, operations.StepStatusSkipped, resp.Steps[1].Status)
}

func TestStagesRunSeparately(t *testing.T) {
	opts := pipelineFixture(t, testutil.NewWorkbook().WithStandardSheets().Save(t))

	for _, stage := range []string{operations.StagePrepare, operations.StageFeatures, operations.StageAnalysis} {
		_, err := runStage(t, stage, opts)
		require.NoError(t, err, stage)
	}
	assert.FileExists(t, opts.Paths.TablePath(exporter.DurationSummaryFile))

	summary, err := exporter.DurationSummary.Read(opts.Paths.TablePath(exporter.DurationSummaryFile))
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, 1800.0, *summary[0].Value)
	assert.Equal(t, 2000.0, *summary[1].Value)
	assert.InDelta(t, 3420, *summary[2].Value, 1e-6)
	assert.InDelta(t, 0.6, *summary[3].Value, 1e-9)
}

func TestPrepareFailures(t *testing.T) {
	t.Run("missing sheet", func(t *testing.T) {
		workbook := testutil.NewWorkbook().WithStandardSheets().Without(testutil.DailySheet).Save(t)
		opts := pipelineFixture(t, workbook)

		resp, err := runStage(t, operations.StageAll, opts)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		assert.Contains(t, err.Error(), testutil.DailySheet)
		assert.Contains(t, err.Error(), workbook)
		assert.Equal(t, operations.StepStatusSkipped, resp.Steps[1].Status)
		assert.NoFileExists(t, opts.Paths.CleanedPath(exporter.DowntimeCleanedFile))
	})

	t.Run("missing workbook", func(t *testing.T) {
		workbook := filepath.Join(t.TempDir(), "absent.xlsx")
		opts := pipelineFixture(t, workbook)

		_, err := runStage(t, operations.StagePrepare, opts)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		assert.Contains(t, err.Error(), workbook)
	})
}
