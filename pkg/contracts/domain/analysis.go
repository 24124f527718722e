package domain

// SummaryMetric is a single named statistic.
type SummaryMetric struct {
	Metric string   `json:"metric"`
	Value  *float64 `json:"value"`
}

// DurationPoint is one row of the duration distribution dataset.
type DurationPoint struct {
	DurationSec *float64 `json:"downtime_duration_sec"`
	IsBurst     *bool    `json:"is_burst"`
}

// BurstGroup aggregates downtime events sharing the same burst label.
// A nil IsBurst is the group of events without a predecessor.
type BurstGroup struct {
	IsBurst          *bool    `json:"is_burst"`
	EventCount       int      `json:"event_count"`
	TotalDowntimeSec float64  `json:"total_downtime_sec"`
	DowntimeShare    *float64 `json:"downtime_share"`
}
