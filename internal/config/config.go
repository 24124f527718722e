package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"downtimecli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
	Features  FeaturesConfig  `yaml:"features" envconfig:"FEATURES"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig locates the raw workbook and every output directory.
// Relative paths are resolved against the working directory.
type PathsConfig struct {
	RawWorkbook string `yaml:"raw_workbook" envconfig:"RAW_WORKBOOK" validate:"required"`
	CleanedDir  string `yaml:"cleaned_dir" envconfig:"CLEANED_DIR" validate:"required"`
	FeaturedDir string `yaml:"featured_dir" envconfig:"FEATURED_DIR" validate:"required"`
	TablesDir   string `yaml:"tables_dir" envconfig:"TABLES_DIR" validate:"required"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	// ManifestFile and MetricsFile are skipped when empty.
	ManifestFile string `yaml:"manifest_file" envconfig:"MANIFEST_FILE"`
	MetricsFile  string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// SheetsConfig names the workbook sheet holding each raw table.
type SheetsConfig struct {
	Downtime  string `yaml:"downtime" envconfig:"DOWNTIME" validate:"required"`
	Hourly    string `yaml:"hourly" envconfig:"HOURLY" validate:"required"`
	Daily     string `yaml:"daily" envconfig:"DAILY" validate:"required"`
	Processed string `yaml:"processed" envconfig:"PROCESSED" validate:"required"`
}

// FeaturesConfig tunes feature derivation.
type FeaturesConfig struct {
	BurstThresholdSec float64 `yaml:"burst_threshold_sec" envconfig:"BURST_THRESHOLD_SEC" validate:"gt=0"`
	RollingWindow     int     `yaml:"rolling_window" envconfig:"ROLLING_WINDOW" validate:"min=2"`
	PreviewRows       int     `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects the trace and metric exporters.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=stdout none"`
	Metrics     string `yaml:"metrics" envconfig:"METRICS" validate:"oneof=prometheus none"`
}

// Load builds the configuration. Sources are applied in order, later ones
// winning: built-in defaults, the YAML file, a .env file, then DOWNTIME_*
// environment variables. An empty configFile searches the usual locations;
// a named file must exist.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, errors.NewConfigError("config file not accessible", err).WithPath(configFile)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).WithPath(configFile)
		}
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg. Keys absent
// from the file keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
			}
			return errors.NewConfigError("invalid configuration: "+strings.Join(fields, ", "), err)
		}
		return errors.NewConfigError("invalid configuration", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			RawWorkbook:  DefaultRawWorkbook,
			CleanedDir:   DefaultCleanedDir,
			FeaturedDir:  DefaultFeaturedDir,
			TablesDir:    DefaultTablesDir,
			LogsDir:      DefaultLogsDir,
			ManifestFile: DefaultManifest,
			MetricsFile:  DefaultMetricsFile,
		},
		Sheets: SheetsConfig{
			Downtime:  "downtime_event_log",
			Hourly:    "hourly_operation_breakdown",
			Daily:     "daily_operation_summary",
			Processed: "processed_hourly",
		},
		Features: FeaturesConfig{
			BurstThresholdSec: DefaultBurstThresholdSec,
			RollingWindow:     DefaultRollingWindow,
			PreviewRows:       DefaultPreviewRows,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
			Tracing:     "none",
			Metrics:     "prometheus",
		},
	}
}
