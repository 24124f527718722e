package analysis

import (
	"gonum.org/v1/gonum/floats"

	"downtimecli/pkg/contracts/domain"
)

// BurstSummary groups events by burst label, including the null label of
// events without a predecessor, and reports each group's event count,
// summed duration and share of all downtime. Groups appear in the order
// false, true, null; empty groups are omitted.
func BurstSummary(events []domain.DowntimeFeature) []domain.BurstGroup {
	labels := []*bool{domain.Ptr(false), domain.Ptr(true), nil}
	groups := make([]domain.BurstGroup, len(labels))
	for i, l := range labels {
		groups[i].IsBurst = l
	}

	durations := make([][]float64, len(groups))
	for _, e := range events {
		i := groupIndex(e.IsBurst)
		groups[i].EventCount++
		if e.DurationSec != nil {
			durations[i] = append(durations[i], *e.DurationSec)
		}
	}
	totals := make([]float64, len(groups))
	for i := range groups {
		groups[i].TotalDowntimeSec = floats.Sum(durations[i])
		totals[i] = groups[i].TotalDowntimeSec
	}
	total := floats.Sum(totals)

	out := make([]domain.BurstGroup, 0, len(groups))
	for _, g := range groups {
		if g.EventCount == 0 {
			continue
		}
		if total != 0 {
			g.DowntimeShare = domain.Ptr(g.TotalDowntimeSec / total)
		}
		out = append(out, g)
	}
	return out
}

func groupIndex(label *bool) int {
	switch {
	case label == nil:
		return 2
	case *label:
		return 1
	default:
		return 0
	}
}
