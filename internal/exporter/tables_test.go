package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/internal/errors"
	"downtimecli/pkg/contracts/domain"
)

func TestColumnContracts(t *testing.T) {
	downtimeCleaned := []string{"date", "downtime_start_time", "downtime_end_time", "start_clock", "end_clock", "downtime_start_ts", "downtime_end_ts"}
	hourlyCleaned := []string{"date", "hour_start", "hour_end", "timestamp_start", "timestamp_end", "monitored_time_h", "operation_time_h", "downtime_h", "efficiency"}
	dailyCleaned := []string{"date", "production_start_time", "production_end_time", "start_clock", "end_clock", "production_start_ts", "production_end_ts", "monitored_time_dec", "operation_time_dec", "pause_time_dec", "efficiency"}

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"downtime_cleaned", DowntimeCleaned.Headers(), downtimeCleaned},
		{"hourly_cleaned", HourlyCleaned.Headers(), hourlyCleaned},
		{"daily_cleaned", DailyCleaned.Headers(), dailyCleaned},
		{"processed_hourly_cleaned", ProcessedCleaned.Headers(), []string{"date", "hour_start", "hour_end", "timestamp_start", "timestamp_end", "production_gallons"}},
		{"downtime_features", DowntimeFeatures.Headers(), append(append([]string{}, downtimeCleaned...),
			"downtime_duration_sec", "downtime_hour", "downtime_weekday", "prev_downtime_end_ts", "gap_from_prev_sec", "recovery_time_sec", "is_burst")},
		{"hourly_features", HourlyFeatures.Headers(), append(append([]string{}, hourlyCleaned...),
			"downtime_ratio", "efficiency_loss", "zero_operation_flag", "throughput_per_hour", "production_gallons", "hour", "weekday")},
		{"daily_features", DailyFeatures.Headers(), append(append([]string{}, dailyCleaned...),
			"pause_ratio", "operation_pause_balance", "efficiency_rolling_std")},
		{"event_hour_reconciliation", EventHourReconciliation.Headers(), append(append([]string{}, hourlyCleaned...),
			"duration_sec", "hourly_downtime_sec", "event_vs_hour_downtime_diff_sec")},
		{"hour_day_reconciliation", HourDayReconciliation.Headers(), append(append([]string{}, dailyCleaned...),
			"hourly_downtime_sum", "hourly_operation_sum", "hourly_efficiency_mean", "hour_vs_day_efficiency_diff")},
		{"downtime_duration_summary", DurationSummary.Headers(), []string{"metric", "value"}},
		{"downtime_duration_distribution", DurationDistribution.Headers(), []string{"downtime_duration_sec", "is_burst"}},
		{"downtime_burst_summary", BurstSummary.Headers(), []string{"is_burst", "event_count", "total_downtime_sec", "downtime_share"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func sampleFeatures() []domain.DowntimeFeature {
	day := civil.Date{Year: 2024, Month: time.January, Day: 5}
	start := time.Date(2024, 1, 5, 10, 2, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 10, 12, 0, 0, time.UTC)
	prev := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	return []domain.DowntimeFeature{
		{
			DowntimeEvent: domain.DowntimeEvent{
				Date:         &day,
				StartTimeRaw: "0.375",
				EndTimeRaw:   "bad",
				StartClock:   &civil.Time{Hour: 9},
				StartTS:      domain.Ptr(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
			},
			Hour:    domain.Ptr(9),
			Weekday: domain.Ptr(4),
		},
		{
			DowntimeEvent: domain.DowntimeEvent{
				Date:         &day,
				StartTimeRaw: "10:02:00",
				EndTimeRaw:   "10:12:00",
				StartClock:   &civil.Time{Hour: 10, Minute: 2},
				EndClock:     &civil.Time{Hour: 10, Minute: 12},
				StartTS:      &start,
				EndTS:        &end,
			},
			DurationSec:     domain.Ptr(600.0),
			Hour:            domain.Ptr(10),
			Weekday:         domain.Ptr(4),
			PrevEndTS:       &prev,
			GapFromPrevSec:  domain.Ptr(120.0),
			RecoveryTimeSec: domain.Ptr(120.0),
			IsBurst:         domain.Ptr(true),
		},
	}
}

func TestTableCodec_Encode(t *testing.T) {
	rows := DowntimeFeatures.Encode(sampleFeatures())
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"2024-01-05", "0.375", "bad", "09:00:00", "", "2024-01-05 09:00:00", "",
		"", "9", "4", "", "", "", "",
	}, rows[0])
	assert.Equal(t, []string{
		"2024-01-05", "10:02:00", "10:12:00", "10:02:00", "10:12:00", "2024-01-05 10:02:00", "2024-01-05 10:12:00",
		"600", "10", "4", "2024-01-05 10:00:00", "120", "120", "true",
	}, rows[1])
}

func TestTableCodec_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DowntimeFeaturesFile)
	want := sampleFeatures()

	require.NoError(t, DowntimeFeatures.Write(NewCSVWriter(nil), path, want))
	got, err := DowntimeFeatures.Read(path)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTableCodec_RequiredColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), BurstSummaryFile)
	groups := []domain.BurstGroup{
		{IsBurst: domain.Ptr(false), EventCount: 2, TotalDowntimeSec: 5400, DowntimeShare: domain.Ptr(0.9)},
		{IsBurst: nil, EventCount: 1, TotalDowntimeSec: 0},
	}
	require.NoError(t, BurstSummary.Write(NewCSVWriter(nil), path, groups))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "is_burst,event_count,total_downtime_sec,downtime_share\nfalse,2,5400,0.9\n,1,0,\n", string(data))

	got, err := BurstSummary.Read(path)
	require.NoError(t, err)
	assert.Equal(t, groups, got)
}

func TestTableCodec_DecodeByHeaderName(t *testing.T) {
	header := []string{"extra", "value", "metric"}
	rows := [][]string{{"ignored", "12.5", "median_duration_sec"}, {"", "", "mean_duration_sec"}}

	got, err := DurationSummary.Decode("summary.csv", header, rows)
	require.NoError(t, err)
	assert.Equal(t, []domain.SummaryMetric{
		{Metric: "median_duration_sec", Value: domain.Ptr(12.5)},
		{Metric: "mean_duration_sec"},
	}, got)
}

func TestTableCodec_DecodeErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := DurationDistribution.Decode("features.csv", []string{"downtime_duration_sec"}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
		v, _ := errors.ContextValue(err, errors.ContextColumn)
		assert.Equal(t, "is_burst", v)
		assert.Contains(t, err.Error(), "features.csv")
	})

	t.Run("malformed cell", func(t *testing.T) {
		_, err := DurationDistribution.Decode("features.csv",
			[]string{"downtime_duration_sec", "is_burst"},
			[][]string{{"10", "maybe"}})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("short row reads as nulls", func(t *testing.T) {
		got, err := DurationDistribution.Decode("features.csv",
			[]string{"downtime_duration_sec", "is_burst"},
			[][]string{{"10"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].IsBurst)
	})
}
