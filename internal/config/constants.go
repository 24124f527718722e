package config

import "downtimecli/pkg/contracts"

// Application constants
const (
	AppName    = "downtime-pipeline"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g.
	// DOWNTIME_FEATURES_BURST_THRESHOLD_SEC.
	EnvPrefix = "DOWNTIME"

	// Default layout relative to the working directory.
	DefaultRawWorkbook = "data/raw/dataset.xlsx"
	DefaultCleanedDir  = "data/cleaned"
	DefaultFeaturedDir = "data/featured"
	DefaultTablesDir   = "reports/tables"
	DefaultLogsDir     = "logs"
	DefaultLogFile     = "pipeline.log"
	DefaultManifest    = "data/pipeline_manifest.json"
	DefaultMetricsFile = "data/pipeline_metrics.prom"

	// Feature defaults.
	DefaultBurstThresholdSec = 300
	DefaultRollingWindow     = 5
	DefaultPreviewRows       = 5
)
