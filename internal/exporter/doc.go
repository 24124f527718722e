// Package exporter persists pipeline tables as CSV files and reads them back.
//
// CSVWriter writes whole tables atomically: a temp file in the target
// directory is renamed into place once fully written.
//
// TableCodec binds a record type to its column contract. Every persisted
// table has a codec (DowntimeCleaned, HourlyFeatures, BurstSummary, ...)
// so that writers and downstream readers agree on column names, order and
// cell encoding. A nil field is written as an empty cell and read back as nil.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := exporter.DowntimeFeatures.Write(w, "data/featured/downtime_features.csv", rows)
//
//	rows, err := exporter.DowntimeFeatures.Read("data/featured/downtime_features.csv")
package exporter
