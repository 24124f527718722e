package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/pkg/contracts/domain"
)

func feature(duration *float64, burst *bool) domain.DowntimeFeature {
	return domain.DowntimeFeature{DurationSec: duration, IsBurst: burst}
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		q      float64
		want   float64
	}{
		{"single value", []float64{42}, 0.95, 42},
		{"median odd", []float64{1, 2, 3}, 0.5, 2},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p95 interpolates", []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 0.95, 95},
		{"minimum", []float64{3, 7}, 0, 3},
		{"maximum", []float64{3, 7}, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.q), 1e-9)
		})
	}
}

func TestDurationSummary(t *testing.T) {
	events := []domain.DowntimeFeature{
		feature(domain.Ptr(3600.0), nil),
		feature(domain.Ptr(600.0), domain.Ptr(true)),
		feature(nil, domain.Ptr(false)),
		feature(domain.Ptr(1800.0), domain.Ptr(false)),
	}

	got := DurationSummary(events)
	require.Len(t, got, 4)

	assert.Equal(t, MetricMedian, got[0].Metric)
	assert.Equal(t, domain.Ptr(1800.0), got[0].Value)
	assert.Equal(t, domain.Ptr(2000.0), got[1].Value)
	// sorted [600 1800 3600], position 1.9 -> 1800 + 0.9*1800
	require.NotNil(t, got[2].Value)
	assert.InDelta(t, 3420.0, *got[2].Value, 1e-9)
	require.NotNil(t, got[3].Value)
	assert.InDelta(t, 3600.0/6000.0, *got[3].Value, 1e-12)
}

func TestDurationSummary_TiesAtP95(t *testing.T) {
	got := DurationSummary([]domain.DowntimeFeature{
		feature(domain.Ptr(60.0), nil),
		feature(domain.Ptr(600.0), nil),
		feature(domain.Ptr(600.0), nil),
	})
	require.NotNil(t, got[2].Value)
	assert.Equal(t, 600.0, *got[2].Value)
	// both 600s events sit at the 95th percentile and count as long
	require.NotNil(t, got[3].Value)
	assert.InDelta(t, 1200.0/1260.0, *got[3].Value, 1e-12)
}

func TestDurationSummary_NoDurations(t *testing.T) {
	got := DurationSummary([]domain.DowntimeFeature{feature(nil, nil)})
	want := []domain.SummaryMetric{
		{Metric: MetricMedian},
		{Metric: MetricMean},
		{Metric: MetricP95},
		{Metric: MetricLongEventShare},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestDurationSummary_ZeroTotal(t *testing.T) {
	got := DurationSummary([]domain.DowntimeFeature{feature(domain.Ptr(0.0), nil)})
	assert.Equal(t, domain.Ptr(0.0), got[0].Value)
	assert.Nil(t, got[3].Value)
}

func TestDurationDistribution(t *testing.T) {
	events := []domain.DowntimeFeature{
		feature(domain.Ptr(3600.0), nil),
		feature(nil, domain.Ptr(true)),
	}
	assert.Equal(t, []domain.DurationPoint{
		{DurationSec: domain.Ptr(3600.0)},
		{IsBurst: domain.Ptr(true)},
	}, DurationDistribution(events))
}

func TestBurstSummary(t *testing.T) {
	events := []domain.DowntimeFeature{
		feature(domain.Ptr(3600.0), nil),
		feature(domain.Ptr(600.0), domain.Ptr(true)),
		feature(domain.Ptr(1800.0), domain.Ptr(false)),
		feature(nil, domain.Ptr(false)),
	}

	want := []domain.BurstGroup{
		{IsBurst: domain.Ptr(false), EventCount: 2, TotalDowntimeSec: 1800, DowntimeShare: domain.Ptr(0.3)},
		{IsBurst: domain.Ptr(true), EventCount: 1, TotalDowntimeSec: 600, DowntimeShare: domain.Ptr(0.1)},
		{IsBurst: nil, EventCount: 1, TotalDowntimeSec: 3600, DowntimeShare: domain.Ptr(0.6)},
	}
	got := BurstSummary(events)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("burst summary mismatch (-want +got):\n%s", diff)
	}
}

func TestBurstSummary_OmitsEmptyGroups(t *testing.T) {
	got := BurstSummary([]domain.DowntimeFeature{feature(nil, nil)})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].IsBurst)
	assert.Equal(t, 1, got[0].EventCount)
	assert.Nil(t, got[0].DowntimeShare)

	assert.Empty(t, BurstSummary(nil))
}
