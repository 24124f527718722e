// Package config provides configuration management for the downtime
// pipeline.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later sources
// overriding earlier ones:
//
//	1. Built-in defaults (Default)
//	2. A YAML file: the -config flag, else config.yaml or configs/config.yaml
//	3. A .env file in the working directory, if present
//	4. Environment variables
//
// # Environment Variables
//
// All environment variables follow the pattern DOWNTIME_<SECTION>_<FIELD>:
//
//	DOWNTIME_PATHS_RAW_WORKBOOK=data/raw/dataset.xlsx
//	DOWNTIME_SHEETS_HOURLY=hourly_operation_breakdown
//	DOWNTIME_FEATURES_BURST_THRESHOLD_SEC=300
//	DOWNTIME_FEATURES_ROLLING_WINDOW=5
//	DOWNTIME_LOGGING_LEVEL=debug
//	DOWNTIME_TELEMETRY_TRACING=stdout
//
// # Validation
//
// The merged configuration is validated with struct tags: sheet names and
// output directories must be set, the burst threshold must be positive and
// the rolling window must span at least two rows.
//
// # Paths
//
// ResolvePaths anchors relative paths at a base directory and returns the
// Paths used by every stage:
//
//	paths, err := cfg.ResolvePaths("")
//	out := paths.FeaturedPath("downtime_features.csv")
package config
