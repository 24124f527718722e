package exporter

import (
	"time"

	"cloud.google.com/go/civil"

	"downtimecli/pkg/contracts/domain"
)

// File names of every table the pipeline persists.
const (
	DowntimeCleanedFile  = "downtime_cleaned.csv"
	HourlyCleanedFile    = "hourly_cleaned.csv"
	DailyCleanedFile     = "daily_cleaned.csv"
	ProcessedCleanedFile = "processed_hourly_cleaned.csv"

	DowntimeFeaturesFile = "downtime_features.csv"
	HourlyFeaturesFile   = "hourly_features.csv"
	DailyFeaturesFile    = "daily_features.csv"
	EventHourReconFile   = "event_hour_reconciliation.csv"
	HourDayReconFile     = "hour_day_reconciliation.csv"
	DurationSummaryFile  = "downtime_duration_summary.csv"
	DurationDistFile     = "downtime_duration_distribution.csv"
	BurstSummaryFile     = "downtime_burst_summary.csv"
)

func downtimeEventColumns() []Column[domain.DowntimeEvent] {
	type R = domain.DowntimeEvent
	return []Column[R]{
		dateCol("date", func(r *R) **civil.Date { return &r.Date }),
		stringCol("downtime_start_time", func(r *R) *string { return &r.StartTimeRaw }),
		stringCol("downtime_end_time", func(r *R) *string { return &r.EndTimeRaw }),
		clockCol("start_clock", func(r *R) **civil.Time { return &r.StartClock }),
		clockCol("end_clock", func(r *R) **civil.Time { return &r.EndClock }),
		timestampCol("downtime_start_ts", func(r *R) **time.Time { return &r.StartTS }),
		timestampCol("downtime_end_ts", func(r *R) **time.Time { return &r.EndTS }),
	}
}

func hourlyRecordColumns() []Column[domain.HourlyRecord] {
	type R = domain.HourlyRecord
	return []Column[R]{
		dateCol("date", func(r *R) **civil.Date { return &r.Date }),
		floatCol("hour_start", func(r *R) **float64 { return &r.HourStart }),
		floatCol("hour_end", func(r *R) **float64 { return &r.HourEnd }),
		timestampCol("timestamp_start", func(r *R) **time.Time { return &r.TimestampStart }),
		timestampCol("timestamp_end", func(r *R) **time.Time { return &r.TimestampEnd }),
		floatCol("monitored_time_h", func(r *R) **float64 { return &r.MonitoredTimeH }),
		floatCol("operation_time_h", func(r *R) **float64 { return &r.OperationTimeH }),
		floatCol("downtime_h", func(r *R) **float64 { return &r.DowntimeH }),
		floatCol("efficiency", func(r *R) **float64 { return &r.Efficiency }),
	}
}

func dailyRecordColumns() []Column[domain.DailyRecord] {
	type R = domain.DailyRecord
	return []Column[R]{
		dateCol("date", func(r *R) **civil.Date { return &r.Date }),
		stringCol("production_start_time", func(r *R) *string { return &r.StartTimeRaw }),
		stringCol("production_end_time", func(r *R) *string { return &r.EndTimeRaw }),
		clockCol("start_clock", func(r *R) **civil.Time { return &r.StartClock }),
		clockCol("end_clock", func(r *R) **civil.Time { return &r.EndClock }),
		timestampCol("production_start_ts", func(r *R) **time.Time { return &r.ProductionStartTS }),
		timestampCol("production_end_ts", func(r *R) **time.Time { return &r.ProductionEndTS }),
		floatCol("monitored_time_dec", func(r *R) **float64 { return &r.MonitoredTimeDec }),
		floatCol("operation_time_dec", func(r *R) **float64 { return &r.OperationTimeDec }),
		floatCol("pause_time_dec", func(r *R) **float64 { return &r.PauseTimeDec }),
		floatCol("efficiency", func(r *R) **float64 { return &r.Efficiency }),
	}
}

// Cleaned tables.
var (
	DowntimeCleaned = TableCodec[domain.DowntimeEvent]{
		Name:    "downtime_cleaned",
		Columns: downtimeEventColumns(),
	}

	HourlyCleaned = TableCodec[domain.HourlyRecord]{
		Name:    "hourly_cleaned",
		Columns: hourlyRecordColumns(),
	}

	DailyCleaned = TableCodec[domain.DailyRecord]{
		Name:    "daily_cleaned",
		Columns: dailyRecordColumns(),
	}

	ProcessedCleaned = func() TableCodec[domain.ThroughputRecord] {
		type R = domain.ThroughputRecord
		return TableCodec[R]{
			Name: "processed_hourly_cleaned",
			Columns: []Column[R]{
				dateCol("date", func(r *R) **civil.Date { return &r.Date }),
				floatCol("hour_start", func(r *R) **float64 { return &r.HourStart }),
				floatCol("hour_end", func(r *R) **float64 { return &r.HourEnd }),
				timestampCol("timestamp_start", func(r *R) **time.Time { return &r.TimestampStart }),
				timestampCol("timestamp_end", func(r *R) **time.Time { return &r.TimestampEnd }),
				floatCol("production_gallons", func(r *R) **float64 { return &r.ProductionGallons }),
			},
		}
	}()
)

// Featured tables.
var (
	DowntimeFeatures = func() TableCodec[domain.DowntimeFeature] {
		type R = domain.DowntimeFeature
		return TableCodec[R]{
			Name: "downtime_features",
			Columns: concat(
				embed(downtimeEventColumns(), func(r *R) *domain.DowntimeEvent { return &r.DowntimeEvent }),
				[]Column[R]{
					floatCol("downtime_duration_sec", func(r *R) **float64 { return &r.DurationSec }),
					intCol("downtime_hour", func(r *R) **int { return &r.Hour }),
					intCol("downtime_weekday", func(r *R) **int { return &r.Weekday }),
					timestampCol("prev_downtime_end_ts", func(r *R) **time.Time { return &r.PrevEndTS }),
					floatCol("gap_from_prev_sec", func(r *R) **float64 { return &r.GapFromPrevSec }),
					floatCol("recovery_time_sec", func(r *R) **float64 { return &r.RecoveryTimeSec }),
					boolCol("is_burst", func(r *R) **bool { return &r.IsBurst }),
				},
			),
		}
	}()

	HourlyFeatures = func() TableCodec[domain.HourlyFeature] {
		type R = domain.HourlyFeature
		return TableCodec[R]{
			Name: "hourly_features",
			Columns: concat(
				embed(hourlyRecordColumns(), func(r *R) *domain.HourlyRecord { return &r.HourlyRecord }),
				[]Column[R]{
					floatCol("downtime_ratio", func(r *R) **float64 { return &r.DowntimeRatio }),
					floatCol("efficiency_loss", func(r *R) **float64 { return &r.EfficiencyLoss }),
					requiredBoolCol("zero_operation_flag", func(r *R) *bool { return &r.ZeroOperationFlag }),
					floatCol("throughput_per_hour", func(r *R) **float64 { return &r.ThroughputPerHour }),
					floatCol("production_gallons", func(r *R) **float64 { return &r.ProductionGallons }),
					intCol("hour", func(r *R) **int { return &r.Hour }),
					intCol("weekday", func(r *R) **int { return &r.Weekday }),
				},
			),
		}
	}()

	DailyFeatures = func() TableCodec[domain.DailyFeature] {
		type R = domain.DailyFeature
		return TableCodec[R]{
			Name: "daily_features",
			Columns: concat(
				embed(dailyRecordColumns(), func(r *R) *domain.DailyRecord { return &r.DailyRecord }),
				[]Column[R]{
					floatCol("pause_ratio", func(r *R) **float64 { return &r.PauseRatio }),
					floatCol("operation_pause_balance", func(r *R) **float64 { return &r.OperationPauseBalance }),
					floatCol("efficiency_rolling_std", func(r *R) **float64 { return &r.EfficiencyRollingStd }),
				},
			),
		}
	}()

	EventHourReconciliation = func() TableCodec[domain.EventHourReconciliation] {
		type R = domain.EventHourReconciliation
		return TableCodec[R]{
			Name: "event_hour_reconciliation",
			Columns: concat(
				embed(hourlyRecordColumns(), func(r *R) *domain.HourlyRecord { return &r.HourlyRecord }),
				[]Column[R]{
					requiredFloatCol("duration_sec", func(r *R) *float64 { return &r.DurationSec }),
					floatCol("hourly_downtime_sec", func(r *R) **float64 { return &r.HourlyDowntimeSec }),
					floatCol("event_vs_hour_downtime_diff_sec", func(r *R) **float64 { return &r.DiffSec }),
				},
			),
		}
	}()

	HourDayReconciliation = func() TableCodec[domain.HourDayReconciliation] {
		type R = domain.HourDayReconciliation
		return TableCodec[R]{
			Name: "hour_day_reconciliation",
			Columns: concat(
				embed(dailyRecordColumns(), func(r *R) *domain.DailyRecord { return &r.DailyRecord }),
				[]Column[R]{
					floatCol("hourly_downtime_sum", func(r *R) **float64 { return &r.HourlyDowntimeSum }),
					floatCol("hourly_operation_sum", func(r *R) **float64 { return &r.HourlyOperationSum }),
					floatCol("hourly_efficiency_mean", func(r *R) **float64 { return &r.HourlyEfficiencyMean }),
					floatCol("hour_vs_day_efficiency_diff", func(r *R) **float64 { return &r.EfficiencyDiff }),
				},
			),
		}
	}()
)

// Analysis tables.
var (
	DurationSummary = func() TableCodec[domain.SummaryMetric] {
		type R = domain.SummaryMetric
		return TableCodec[R]{
			Name: "downtime_duration_summary",
			Columns: []Column[R]{
				stringCol("metric", func(r *R) *string { return &r.Metric }),
				floatCol("value", func(r *R) **float64 { return &r.Value }),
			},
		}
	}()

	DurationDistribution = func() TableCodec[domain.DurationPoint] {
		type R = domain.DurationPoint
		return TableCodec[R]{
			Name: "downtime_duration_distribution",
			Columns: []Column[R]{
				floatCol("downtime_duration_sec", func(r *R) **float64 { return &r.DurationSec }),
				boolCol("is_burst", func(r *R) **bool { return &r.IsBurst }),
			},
		}
	}()

	BurstSummary = func() TableCodec[domain.BurstGroup] {
		type R = domain.BurstGroup
		return TableCodec[R]{
			Name: "downtime_burst_summary",
			Columns: []Column[R]{
				boolCol("is_burst", func(r *R) **bool { return &r.IsBurst }),
				requiredIntCol("event_count", func(r *R) *int { return &r.EventCount }),
				requiredFloatCol("total_downtime_sec", func(r *R) *float64 { return &r.TotalDowntimeSec }),
				floatCol("downtime_share", func(r *R) **float64 { return &r.DowntimeShare }),
			},
		}
	}()
)
