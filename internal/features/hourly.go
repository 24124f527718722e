package features

import (
	"downtimecli/pkg/contracts/domain"
)

// BuildThroughputRates normalizes each processed bucket's volume to a
// per-hour rate using the bucket's own duration, so partial hours compare
// with full ones.
func BuildThroughputRates(records []domain.ThroughputRecord) []domain.ThroughputRate {
	out := make([]domain.ThroughputRate, len(records))
	for i, r := range records {
		rate := domain.ThroughputRate{ThroughputRecord: r}
		rate.HourDurationSec = secondsBetween(r.TimestampStart, r.TimestampEnd)
		if d := rate.HourDurationSec; d != nil && *d > 0 && r.ProductionGallons != nil {
			rate.ThroughputPerHour = domain.Ptr(*r.ProductionGallons / *d * 3600)
		}
		out[i] = rate
	}
	return out
}

// BuildHourlyFeatures left joins the hourly breakdown with the processed
// throughput on timestamp_start and derives the per-hour ratios. An hourly
// row matching several processed rows is repeated once per match; an
// unmatched row keeps null throughput.
func BuildHourlyFeatures(hourly []domain.HourlyRecord, processed []domain.ThroughputRecord) []domain.HourlyFeature {
	byStart := make(map[int64][]domain.ThroughputRate)
	for _, rate := range BuildThroughputRates(processed) {
		if key, ok := timeKey(rate.TimestampStart); ok {
			byStart[key] = append(byStart[key], rate)
		}
	}

	out := make([]domain.HourlyFeature, 0, len(hourly))
	for _, h := range hourly {
		base := hourlyFeature(h)

		var matches []domain.ThroughputRate
		if key, ok := timeKey(h.TimestampStart); ok {
			matches = byStart[key]
		}
		if len(matches) == 0 {
			out = append(out, base)
			continue
		}
		for _, m := range matches {
			f := base
			f.ThroughputPerHour = m.ThroughputPerHour
			f.ProductionGallons = m.ProductionGallons
			out = append(out, f)
		}
	}
	return out
}

func hourlyFeature(h domain.HourlyRecord) domain.HourlyFeature {
	f := domain.HourlyFeature{
		HourlyRecord:      h,
		DowntimeRatio:     ratio(h.DowntimeH, h.MonitoredTimeH),
		ZeroOperationFlag: h.OperationTimeH != nil && *h.OperationTimeH == 0,
		Hour:              hourOf(h.TimestampStart),
		Weekday:           weekdayOf(h.TimestampStart),
	}
	if h.Efficiency != nil {
		f.EfficiencyLoss = domain.Ptr(1 - *h.Efficiency)
	}
	return f
}

// ratio is num / den, undefined unless both are present and den is positive.
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den <= 0 {
		return nil
	}
	return domain.Ptr(*num / *den)
}
