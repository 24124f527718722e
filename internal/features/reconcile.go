package features

import (
	"time"

	"cloud.google.com/go/civil"

	"downtimecli/pkg/contracts/domain"
)

// ReconcileEventsToHours sums event durations per start hour and compares
// them with each hourly row's reported downtime. Hours without events get a
// recomputed duration of zero: no events is a real observation, not missing
// data. The diff is reported minus recomputed, in seconds.
func ReconcileEventsToHours(events []domain.DowntimeFeature, hourly []domain.HourlyRecord) []domain.EventHourReconciliation {
	perHour := make(map[int64]float64)
	for _, e := range events {
		if e.StartTS == nil {
			continue
		}
		bucket := e.StartTS.Truncate(time.Hour)
		if d := eventDuration(e.DowntimeEvent); d != nil {
			perHour[bucket.UnixNano()] += *d
		}
	}

	out := make([]domain.EventHourReconciliation, len(hourly))
	for i, h := range hourly {
		r := domain.EventHourReconciliation{HourlyRecord: h}
		if key, ok := timeKey(h.TimestampStart); ok {
			r.DurationSec = perHour[key]
		}
		if h.DowntimeH != nil {
			r.HourlyDowntimeSec = domain.Ptr(*h.DowntimeH * 3600)
			r.DiffSec = domain.Ptr(*r.HourlyDowntimeSec - r.DurationSec)
		}
		out[i] = r
	}
	return out
}

type hourlyAggregate struct {
	downtime, operation float64
	effSum              float64
	effCount            int
}

// ReconcileHoursToDays aggregates hourly rows by date and compares the mean
// hourly efficiency with each daily row's reported efficiency. The diff is
// daily minus hourly mean. Daily rows without hourly data get null
// aggregates.
func ReconcileHoursToDays(hourly []domain.HourlyRecord, daily []domain.DailyRecord) []domain.HourDayReconciliation {
	byDate := make(map[civil.Date]*hourlyAggregate)
	for _, h := range hourly {
		if h.Date == nil {
			continue
		}
		agg := byDate[*h.Date]
		if agg == nil {
			agg = &hourlyAggregate{}
			byDate[*h.Date] = agg
		}
		if h.DowntimeH != nil {
			agg.downtime += *h.DowntimeH
		}
		if h.OperationTimeH != nil {
			agg.operation += *h.OperationTimeH
		}
		if h.Efficiency != nil {
			agg.effSum += *h.Efficiency
			agg.effCount++
		}
	}

	out := make([]domain.HourDayReconciliation, len(daily))
	for i, d := range daily {
		r := domain.HourDayReconciliation{DailyRecord: d}
		var agg *hourlyAggregate
		if d.Date != nil {
			agg = byDate[*d.Date]
		}
		if agg != nil {
			r.HourlyDowntimeSum = domain.Ptr(agg.downtime)
			r.HourlyOperationSum = domain.Ptr(agg.operation)
			if agg.effCount > 0 {
				r.HourlyEfficiencyMean = domain.Ptr(agg.effSum / float64(agg.effCount))
			}
			if d.Efficiency != nil && r.HourlyEfficiencyMean != nil {
				r.EfficiencyDiff = domain.Ptr(*d.Efficiency - *r.HourlyEfficiencyMean)
			}
		}
		out[i] = r
	}
	return out
}
