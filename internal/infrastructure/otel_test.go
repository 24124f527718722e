package infrastructure

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/internal/config"
	"downtimecli/internal/shared/testutil"
)

func TestOTelConfigFrom(t *testing.T) {
	cfg := config.Default()
	otelCfg := OTelConfigFrom(cfg.Telemetry)

	assert.Equal(t, config.AppName, otelCfg.ServiceName)
	assert.Equal(t, config.AppVersion, otelCfg.ServiceVersion)
	assert.Equal(t, "none", otelCfg.TraceExporter)
	assert.Equal(t, "prometheus", otelCfg.MetricExporter)
}

func TestOTelInitialization(t *testing.T) {
	t.Run("exporters disabled", func(t *testing.T) {
		logger, _ := testutil.NewTestLogger(t)
		providers, err := InitializeOTel(&OTelConfig{
			ServiceName:    "test",
			TraceExporter:  "none",
			MetricExporter: "none",
		}, logger)
		require.NoError(t, err)

		assert.Nil(t, providers.TracerProvider)
		assert.Nil(t, providers.MeterProvider)
		assert.Nil(t, providers.Registry)
		assert.NotNil(t, providers.Tracer)
		assert.NotNil(t, providers.Meter)

		// metrics are still recordable against the no-op meter
		metrics, err := CreatePipelineMetrics(providers.Meter)
		require.NoError(t, err)
		metrics.RecordStep(context.Background(), "prepare", 0.1, true)

		assert.NoError(t, providers.WriteMetricsTextfile(filepath.Join(t.TempDir(), "m.prom")))
		assert.NoError(t, providers.Shutdown(context.Background()))
	})

	t.Run("stdout tracing", func(t *testing.T) {
		var buf bytes.Buffer
		providers, err := InitializeOTel(&OTelConfig{
			ServiceName:    "test",
			ServiceVersion: "0.0.1",
			TraceExporter:  "stdout",
			MetricExporter: "none",
			TraceWriter:    &buf,
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, providers.TracerProvider)

		_, span := providers.Tracer.Start(context.Background(), "step.prepare")
		span.End()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, providers.Shutdown(ctx))

		assert.Contains(t, buf.String(), "step.prepare")
	})

	t.Run("unsupported exporters", func(t *testing.T) {
		_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger", MetricExporter: "none"}, nil)
		assert.Error(t, err)

		_, err = InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "otlp"}, nil)
		assert.Error(t, err)
	})
}

func TestPipelineMetricsTextfile(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())
	require.NotNil(t, providers.Registry)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordStep(ctx, "prepare", 0.25, true)
	metrics.RecordStep(ctx, "burst_analysis", 0.01, false)
	metrics.RecordRows(ctx, "downtime_cleaned", 4)
	metrics.RecordCoercions(ctx, "downtime", "downtime_end_time", 1)

	path := filepath.Join(t.TempDir(), "metrics", "pipeline.prom")
	require.NoError(t, providers.WriteMetricsTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, `pipeline_step_executions_total{status="success",step="prepare"} 1`)
	assert.Contains(t, text, `pipeline_step_executions_total{status="failure",step="burst_analysis"} 1`)
	assert.Contains(t, text, "pipeline_step_duration_seconds_bucket")
	assert.Contains(t, text, `pipeline_rows_written_total{table="downtime_cleaned"} 4`)
	assert.Contains(t, text, `pipeline_cells_coerced_total{column="downtime_end_time",table="downtime"} 1`)

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "Metrics written")
}
