package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// DowntimeEvent is one cleaned row of the downtime event log.
type DowntimeEvent struct {
	Date *civil.Date `json:"date"`

	// Raw cell text as found in the workbook.
	StartTimeRaw string `json:"downtime_start_time"`
	EndTimeRaw   string `json:"downtime_end_time"`

	StartClock *civil.Time `json:"start_clock"`
	EndClock   *civil.Time `json:"end_clock"`

	StartTS *time.Time `json:"downtime_start_ts"`
	EndTS   *time.Time `json:"downtime_end_ts"`
}

// DowntimeFeature is a downtime event enriched with duration, temporal
// position and sequential burst/recovery features.
//
// GapFromPrevSec, RecoveryTimeSec and IsBurst are nil for the first event in
// start order: it has no predecessor.
type DowntimeFeature struct {
	DowntimeEvent

	DurationSec *float64 `json:"downtime_duration_sec"`
	Hour        *int     `json:"downtime_hour"`
	Weekday     *int     `json:"downtime_weekday"`

	PrevEndTS       *time.Time `json:"prev_downtime_end_ts"`
	GapFromPrevSec  *float64   `json:"gap_from_prev_sec"`
	RecoveryTimeSec *float64   `json:"recovery_time_sec"`
	IsBurst         *bool      `json:"is_burst"`
}
