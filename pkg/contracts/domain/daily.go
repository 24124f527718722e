package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// DailyRecord is one cleaned row of the daily operation summary.
type DailyRecord struct {
	Date *civil.Date `json:"date"`

	StartTimeRaw string `json:"production_start_time"`
	EndTimeRaw   string `json:"production_end_time"`

	StartClock *civil.Time `json:"start_clock"`
	EndClock   *civil.Time `json:"end_clock"`

	ProductionStartTS *time.Time `json:"production_start_ts"`
	ProductionEndTS   *time.Time `json:"production_end_ts"`

	MonitoredTimeDec *float64 `json:"monitored_time_dec"`
	OperationTimeDec *float64 `json:"operation_time_dec"`
	PauseTimeDec     *float64 `json:"pause_time_dec"`
	Efficiency       *float64 `json:"efficiency"`
}

// DailyFeature adds pause and volatility features to a daily record.
//
// There is deliberately no efficiency loss column: pause_ratio equals
// 1 - efficiency for this dataset.
type DailyFeature struct {
	DailyRecord

	PauseRatio            *float64 `json:"pause_ratio"`
	OperationPauseBalance *float64 `json:"operation_pause_balance"`
	EfficiencyRollingStd  *float64 `json:"efficiency_rolling_std"`
}
