package features

import (
	"time"

	"downtimecli/pkg/contracts/domain"
)

// BuildDowntimeFeatures sorts events by start timestamp and derives
// duration, temporal position and the sequential gap, recovery and burst
// features. The output has one row per input event.
func BuildDowntimeFeatures(events []domain.DowntimeEvent, opts Options) []domain.DowntimeFeature {
	out := make([]domain.DowntimeFeature, len(events))
	for i, e := range events {
		out[i] = domain.DowntimeFeature{DowntimeEvent: e}
	}
	sortByTime(out, func(f *domain.DowntimeFeature) *time.Time { return f.StartTS })

	for i := range out {
		f := &out[i]
		f.DurationSec = eventDuration(f.DowntimeEvent)
		f.Hour = hourOf(f.StartTS)
		f.Weekday = weekdayOf(f.StartTS)

		if i == 0 {
			continue
		}
		f.PrevEndTS = copyTime(out[i-1].EndTS)
		f.GapFromPrevSec = secondsBetween(f.PrevEndTS, f.StartTS)
		if f.GapFromPrevSec == nil {
			continue
		}
		f.RecoveryTimeSec = domain.Ptr(*f.GapFromPrevSec)
		f.IsBurst = domain.Ptr(*f.GapFromPrevSec < opts.BurstThresholdSec)
	}
	return out
}

// eventDuration is end - start in seconds. A negative duration marks a
// corrupted record and is nulled.
func eventDuration(e domain.DowntimeEvent) *float64 {
	d := secondsBetween(e.StartTS, e.EndTS)
	if d == nil || *d < 0 {
		return nil
	}
	return d
}
