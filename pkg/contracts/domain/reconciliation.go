package domain

// EventHourReconciliation compares the downtime an hourly row reports with
// the summed duration of the downtime events that started in that hour.
type EventHourReconciliation struct {
	HourlyRecord

	// DurationSec is zero, not null, for hours with no events.
	DurationSec       float64  `json:"duration_sec"`
	HourlyDowntimeSec *float64 `json:"hourly_downtime_sec"`
	DiffSec           *float64 `json:"event_vs_hour_downtime_diff_sec"`
}

// HourDayReconciliation compares a daily summary with the aggregate of the
// hourly rows recorded on the same date.
type HourDayReconciliation struct {
	DailyRecord

	HourlyDowntimeSum    *float64 `json:"hourly_downtime_sum"`
	HourlyOperationSum   *float64 `json:"hourly_operation_sum"`
	HourlyEfficiencyMean *float64 `json:"hourly_efficiency_mean"`
	EfficiencyDiff       *float64 `json:"hour_vs_day_efficiency_diff"`
}
