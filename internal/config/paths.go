package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all resolved file system locations of one run.
// This is the single source of truth for every file the pipeline touches.
type Paths struct {
	BaseDir      string
	RawWorkbook  string
	CleanedDir   string
	FeaturedDir  string
	TablesDir    string
	LogsDir      string
	ManifestFile string
	MetricsFile  string
}

// ResolvePaths anchors the configured paths at baseDir. Absolute paths are
// kept as they are; an empty baseDir means the working directory.
func (c *Config) ResolvePaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:      baseDir,
		RawWorkbook:  resolve(c.Paths.RawWorkbook),
		CleanedDir:   resolve(c.Paths.CleanedDir),
		FeaturedDir:  resolve(c.Paths.FeaturedDir),
		TablesDir:    resolve(c.Paths.TablesDir),
		LogsDir:      resolve(c.Paths.LogsDir),
		ManifestFile: resolve(c.Paths.ManifestFile),
		MetricsFile:  resolve(c.Paths.MetricsFile),
	}, nil
}

// CleanedPath returns the path of a cleaned table file.
func (p *Paths) CleanedPath(name string) string {
	return filepath.Join(p.CleanedDir, name)
}

// FeaturedPath returns the path of a featured table file.
func (p *Paths) FeaturedPath(name string) string {
	return filepath.Join(p.FeaturedDir, name)
}

// TablePath returns the path of an analysis table file.
func (p *Paths) TablePath(name string) string {
	return filepath.Join(p.TablesDir, name)
}

// LogFile resolves a log file name against the logs directory. Absolute
// paths are returned unchanged.
func (p *Paths) LogFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.LogsDir, name)
}

// LogPathResolution logs every resolved path at debug level.
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved pipeline paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("raw_workbook", p.RawWorkbook),
		slog.String("cleaned_dir", p.CleanedDir),
		slog.String("featured_dir", p.FeaturedDir),
		slog.String("tables_dir", p.TablesDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("manifest_file", p.ManifestFile),
		slog.String("metrics_file", p.MetricsFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
