package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// HourlyRecord is one cleaned row of the hourly operation breakdown.
// Time quantities are in hours; Efficiency is a fraction in [0, 1].
type HourlyRecord struct {
	Date           *civil.Date `json:"date"`
	HourStart      *float64    `json:"hour_start"`
	HourEnd        *float64    `json:"hour_end"`
	TimestampStart *time.Time  `json:"timestamp_start"`
	TimestampEnd   *time.Time  `json:"timestamp_end"`

	MonitoredTimeH *float64 `json:"monitored_time_h"`
	OperationTimeH *float64 `json:"operation_time_h"`
	DowntimeH      *float64 `json:"downtime_h"`
	Efficiency     *float64 `json:"efficiency"`
}

// HourlyFeature is an hourly record joined with processed throughput.
type HourlyFeature struct {
	HourlyRecord

	DowntimeRatio     *float64 `json:"downtime_ratio"`
	EfficiencyLoss    *float64 `json:"efficiency_loss"`
	ZeroOperationFlag bool     `json:"zero_operation_flag"`

	ThroughputPerHour *float64 `json:"throughput_per_hour"`
	ProductionGallons *float64 `json:"production_gallons"`

	Hour    *int `json:"hour"`
	Weekday *int `json:"weekday"`
}

// ThroughputRecord is one cleaned row of the processed hourly table.
type ThroughputRecord struct {
	Date           *civil.Date `json:"date"`
	HourStart      *float64    `json:"hour_start"`
	HourEnd        *float64    `json:"hour_end"`
	TimestampStart *time.Time  `json:"timestamp_start"`
	TimestampEnd   *time.Time  `json:"timestamp_end"`

	ProductionGallons *float64 `json:"production_gallons"`
}

// ThroughputRate is a processed hourly bucket normalized to a per-hour rate.
type ThroughputRate struct {
	ThroughputRecord

	HourDurationSec   *float64 `json:"hour_duration_sec"`
	ThroughputPerHour *float64 `json:"throughput_per_hour"`
}
