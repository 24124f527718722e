package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"downtimecli/pkg/contracts/domain"
)

// Metric names of the duration summary table.
const (
	MetricMedian         = "median_duration_sec"
	MetricMean           = "mean_duration_sec"
	MetricP95            = "95th_percentile_duration_sec"
	MetricLongEventShare = "long_event_downtime_share"
)

// LongEventQuantile marks the start of the long tail.
const LongEventQuantile = 0.95

// DurationSummary returns the median, mean and 95th percentile of event
// durations and the share of total downtime caused by events at or above
// the 95th percentile. Null durations are excluded; with no durations every
// value is null.
func DurationSummary(events []domain.DowntimeFeature) []domain.SummaryMetric {
	durations := knownDurations(events)
	sort.Float64s(durations)

	summary := []domain.SummaryMetric{
		{Metric: MetricMedian},
		{Metric: MetricMean},
		{Metric: MetricP95},
		{Metric: MetricLongEventShare},
	}
	if len(durations) == 0 {
		return summary
	}

	p95 := Quantile(durations, LongEventQuantile)

	summary[0].Value = domain.Ptr(Quantile(durations, 0.5))
	summary[1].Value = domain.Ptr(stat.Mean(durations, nil))
	summary[2].Value = domain.Ptr(p95)

	if total := floats.Sum(durations); total != 0 {
		// durations is ascending, so the long tail is a suffix
		long := floats.Sum(durations[sort.SearchFloat64s(durations, p95):])
		summary[3].Value = domain.Ptr(long / total)
	}
	return summary
}

// Quantile returns the q-quantile of sorted, interpolating linearly between
// the two nearest order statistics at position q*(n-1). stat.Quantile's
// LinInterp places the sample points at i/n instead and yields 2, not 2.5,
// for the median of 1 2 3 4. sorted must be non-empty and ascending.
func Quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := math.Floor(pos)
	hi := math.Ceil(pos)
	if lo == hi {
		return sorted[int(lo)]
	}
	frac := pos - lo
	return sorted[int(lo)] + (sorted[int(hi)]-sorted[int(lo)])*frac
}

// DurationDistribution projects each event to its duration and burst label.
func DurationDistribution(events []domain.DowntimeFeature) []domain.DurationPoint {
	out := make([]domain.DurationPoint, len(events))
	for i, e := range events {
		out[i] = domain.DurationPoint{DurationSec: e.DurationSec, IsBurst: e.IsBurst}
	}
	return out
}

func knownDurations(events []domain.DowntimeFeature) []float64 {
	out := make([]float64, 0, len(events))
	for _, e := range events {
		if e.DurationSec != nil {
			out = append(out, *e.DurationSec)
		}
	}
	return out
}
