package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"downtimecli/internal/config"
	"downtimecli/internal/infrastructure"
	"downtimecli/internal/operations"
	"downtimecli/pkg/contracts"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		slog.Error("Pipeline failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// cliFlags holds the command line overrides. Empty values keep the
// configured setting.
type cliFlags struct {
	configFile string
	workDir    string
	stage      string
	in         string
	cleaned    string
	featured   string
	tables     string
	manifest   string
	version    bool
}

func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&f.configFile, "config", "", "YAML config file (defaults to config.yaml or configs/config.yaml when present)")
	fs.StringVar(&f.workDir, "workdir", "", "base directory for relative paths (defaults to the working directory)")
	fs.StringVar(&f.stage, "stage", operations.StageAll, "stage to run: prepare, features, analysis or all")
	fs.StringVar(&f.in, "in", "", "raw workbook (.xlsx)")
	fs.StringVar(&f.cleaned, "cleaned", "", "output directory for cleaned tables")
	fs.StringVar(&f.featured, "featured", "", "output directory for featured tables")
	fs.StringVar(&f.tables, "tables", "", "output directory for analysis tables")
	fs.StringVar(&f.manifest, "manifest", "", "run manifest file")
	fs.BoolVar(&f.version, "version", false, "print version information and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// apply overlays the flags on cfg and revalidates it.
func (f *cliFlags) apply(cfg *config.Config) error {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Paths.RawWorkbook, f.in)
	override(&cfg.Paths.CleanedDir, f.cleaned)
	override(&cfg.Paths.FeaturedDir, f.featured)
	override(&cfg.Paths.TablesDir, f.tables)
	override(&cfg.Paths.ManifestFile, f.manifest)
	return cfg.Validate()
}

// run executes one pipeline invocation and prints a run summary to stdout.
func run(args []string, stdout io.Writer) error {
	flags, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if flags.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return nil
	}

	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return err
	}
	if err := flags.apply(cfg); err != nil {
		return err
	}

	paths, err := cfg.ResolvePaths(flags.workDir)
	if err != nil {
		return err
	}
	cfg.Logging.FilePath = paths.LogFile(cfg.Logging.FilePath)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting downtime pipeline",
		slog.String("version", config.AppVersion),
		slog.String("stage", flags.stage),
		slog.String("workbook", paths.RawWorkbook))
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return err
	}

	opts := operations.StageOptionsFromConfig(cfg, paths, logger)
	registry, err := operations.NewPipelineRegistry(flags.stage, opts)
	if err != nil {
		return err
	}

	manager := operations.NewManager(registry,
		operations.WithLogger(logger),
		operations.WithTracer(tracer),
		operations.WithManifestPath(paths.ManifestFile))

	resp, runErr := manager.Run(context.Background(), operations.RunRequest{Stage: flags.stage})

	if err := providers.WriteMetricsTextfile(paths.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
	}

	printSummary(stdout, resp)
	return runErr
}

func printSummary(w io.Writer, resp *operations.RunResponse) {
	if resp == nil {
		return
	}
	fmt.Fprintf(w, "run %s %s\n", resp.ID, resp.Status)
	for _, s := range resp.Steps {
		fmt.Fprintf(w, "  %-26s %-9s %s\n", s.ID, s.Status, s.Duration().Round(time.Millisecond))
	}
	if resp.Manifest == nil {
		return
	}
	for _, stage := range resp.Manifest.CompletedStages {
		for _, out := range stage.OutputData {
			fmt.Fprintf(w, "  wrote %s\n", out)
		}
	}
}
