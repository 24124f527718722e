package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"downtimecli/internal/analysis"
	"downtimecli/internal/config"
	"downtimecli/internal/dataprocessing"
	"downtimecli/internal/exporter"
	"downtimecli/internal/features"
	"downtimecli/internal/infrastructure"
	"downtimecli/internal/validation"
)

// StageOptions carries what every step needs: where files live and how
// features are derived.
type StageOptions struct {
	Paths       *config.Paths
	Sheets      dataprocessing.SheetNames
	Features    features.Options
	PreviewRows int
	Logger      *slog.Logger
}

// StageOptionsFromConfig builds step options from the loaded configuration.
func StageOptionsFromConfig(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *StageOptions {
	return &StageOptions{
		Paths: paths,
		Sheets: dataprocessing.SheetNames{
			Downtime:  cfg.Sheets.Downtime,
			Hourly:    cfg.Sheets.Hourly,
			Daily:     cfg.Sheets.Daily,
			Processed: cfg.Sheets.Processed,
		},
		Features: features.Options{
			BurstThresholdSec: cfg.Features.BurstThresholdSec,
			RollingWindow:     cfg.Features.RollingWindow,
		},
		PreviewRows: cfg.Features.PreviewRows,
		Logger:      logger,
	}
}

func (o *StageOptions) logger(stepID string) *slog.Logger {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return infrastructure.WithComponent(logger, "stage").With(slog.String("step", stepID))
}

// tableStage is the shared shape of every step: a BaseStage plus the
// collaborators used to read and write tables.
type tableStage struct {
	BaseStage
	opts      *StageOptions
	logger    *slog.Logger
	writer    *exporter.CSVWriter
	validator *validation.FileValidator
}

func newTableStage(id, name string, opts *StageOptions, inputs []DataRequirement, outputs []DataOutput) tableStage {
	logger := opts.logger(id)
	return tableStage{
		BaseStage: NewBaseStage(id, name, inputs, outputs),
		opts:      opts,
		logger:    logger,
		writer:    exporter.NewCSVWriter(logger),
		validator: validation.NewFileValidator(logger),
	}
}

// prepareOutputs makes sure every output directory exists and is writable.
func (s *tableStage) prepareOutputs() error {
	seen := make(map[string]bool)
	var dirs []string
	for _, out := range s.ProducedOutputs() {
		dir := filepath.Dir(out.Location)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return s.validator.ValidateOutputDirectories(dirs...)
}

// cleanedInput, featuredInput and so on build requirements and outputs
// from the table file names.
func cleanedInput(p *config.Paths, table, file string) DataRequirement {
	return DataRequirement{Type: table, Location: p.CleanedPath(file)}
}

func featuredInput(p *config.Paths, table, file string) DataRequirement {
	return DataRequirement{Type: table, Location: p.FeaturedPath(file)}
}

func cleanedOutput(p *config.Paths, table, file string) DataOutput {
	return DataOutput{Type: table, Location: p.CleanedPath(file)}
}

func featuredOutput(p *config.Paths, table, file string) DataOutput {
	return DataOutput{Type: table, Location: p.FeaturedPath(file)}
}

func tableOutput(p *config.Paths, table, file string) DataOutput {
	return DataOutput{Type: table, Location: p.TablePath(file)}
}

// writeTable writes records to the output registered under the codec's
// table name and reports the row count.
func writeTable[T any](ctx context.Context, s *tableStage, state *OperationState, codec exporter.TableCodec[T], records []T) error {
	path := s.outputPath(codec.Name)
	if path == "" {
		return fmt.Errorf("step %s has no output %s", s.ID(), codec.Name)
	}
	if err := codec.Write(s.writer, path, records); err != nil {
		return err
	}
	recordRows(ctx, state, s.ID(), codec.Name, len(records))
	return nil
}

// readTable loads the input registered under the codec's table name after
// checking it is a readable CSV file.
func readTable[T any](s *tableStage, codec exporter.TableCodec[T]) ([]T, error) {
	path := s.inputPath(codec.Name)
	if path == "" {
		return nil, fmt.Errorf("step %s has no input %s", s.ID(), codec.Name)
	}
	if err := s.validator.ValidateCSVFile(path); err != nil {
		return nil, err
	}
	return codec.Read(path)
}

// recordRows stores the row count of a written table in the step metadata
// and exports it as a metric.
func recordRows(ctx context.Context, state *OperationState, stepID, table string, rows int) {
	if stepState := state.GetStage(stepID); stepState != nil {
		counts, _ := stepState.Metadata[MetadataRows].(map[string]int)
		if counts == nil {
			counts = make(map[string]int)
			stepState.SetMetadata(MetadataRows, counts)
		}
		counts[table] = rows
	}
	if state.Telemetry != nil {
		state.Telemetry.RecordRows(ctx, table, rows)
	}
}

// PrepareStage loads the raw workbook and writes the four cleaned tables.
type PrepareStage struct {
	tableStage
}

// NewPrepareStage creates the data preparation step
func NewPrepareStage(opts *StageOptions) *PrepareStage {
	p := opts.Paths
	return &PrepareStage{newTableStage(StepIDPrepare, StepNamePrepare, opts,
		[]DataRequirement{{Type: "raw_workbook", Location: p.RawWorkbook}},
		[]DataOutput{
			cleanedOutput(p, exporter.DowntimeCleaned.Name, exporter.DowntimeCleanedFile),
			cleanedOutput(p, exporter.HourlyCleaned.Name, exporter.HourlyCleanedFile),
			cleanedOutput(p, exporter.DailyCleaned.Name, exporter.DailyCleanedFile),
			cleanedOutput(p, exporter.ProcessedCleaned.Name, exporter.ProcessedCleanedFile),
		})}
}

// Execute cleans every sheet of the workbook.
func (s *PrepareStage) Execute(ctx context.Context, state *OperationState) error {
	workbook := s.inputPath("raw_workbook")
	if err := s.validator.ValidateInputFile(workbook); err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}

	preparer := dataprocessing.NewPreparer(s.logger, dataprocessing.PrepareOptions{
		Sheets:      s.opts.Sheets,
		PreviewRows: s.opts.PreviewRows,
	})
	tables, err := preparer.Prepare(ctx, workbook)
	if err != nil {
		return err
	}

	tables.Coercions.Each(func(table, column string, count int) {
		if state.Telemetry != nil {
			state.Telemetry.RecordCoercions(ctx, table, column, count)
		}
	})
	if stepState := state.GetStage(s.ID()); stepState != nil {
		stepState.SetMetadata(MetadataCoercions, tables.Coercions.Total())
	}

	if err := writeTable(ctx, &s.tableStage, state, exporter.DowntimeCleaned, tables.Downtime); err != nil {
		return err
	}
	if err := writeTable(ctx, &s.tableStage, state, exporter.HourlyCleaned, tables.Hourly); err != nil {
		return err
	}
	if err := writeTable(ctx, &s.tableStage, state, exporter.DailyCleaned, tables.Daily); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.ProcessedCleaned, tables.Processed)
}

// DowntimeFeaturesStage derives per-event duration, position and burst
// features.
type DowntimeFeaturesStage struct {
	tableStage
}

// NewDowntimeFeaturesStage creates the event feature step
func NewDowntimeFeaturesStage(opts *StageOptions) *DowntimeFeaturesStage {
	p := opts.Paths
	return &DowntimeFeaturesStage{newTableStage(StepIDDowntimeFeatures, StepNameDowntimeFeatures, opts,
		[]DataRequirement{cleanedInput(p, exporter.DowntimeCleaned.Name, exporter.DowntimeCleanedFile)},
		[]DataOutput{featuredOutput(p, exporter.DowntimeFeatures.Name, exporter.DowntimeFeaturesFile)})}
}

// Execute builds downtime_features from downtime_cleaned.
func (s *DowntimeFeaturesStage) Execute(ctx context.Context, state *OperationState) error {
	events, err := readTable(&s.tableStage, exporter.DowntimeCleaned)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}

	out := features.BuildDowntimeFeatures(events, s.opts.Features)
	bursts := 0
	for _, f := range out {
		if f.IsBurst != nil && *f.IsBurst {
			bursts++
		}
	}
	s.logger.DebugContext(ctx, "Downtime features built",
		slog.Int("events", len(out)),
		slog.Int("bursts", bursts),
		slog.Float64("burst_threshold_sec", s.opts.Features.BurstThresholdSec))

	return writeTable(ctx, &s.tableStage, state, exporter.DowntimeFeatures, out)
}

// HourlyFeaturesStage joins the hourly breakdown with processed throughput.
type HourlyFeaturesStage struct {
	tableStage
}

// NewHourlyFeaturesStage creates the hourly feature step
func NewHourlyFeaturesStage(opts *StageOptions) *HourlyFeaturesStage {
	p := opts.Paths
	return &HourlyFeaturesStage{newTableStage(StepIDHourlyFeatures, StepNameHourlyFeatures, opts,
		[]DataRequirement{
			cleanedInput(p, exporter.HourlyCleaned.Name, exporter.HourlyCleanedFile),
			cleanedInput(p, exporter.ProcessedCleaned.Name, exporter.ProcessedCleanedFile),
		},
		[]DataOutput{featuredOutput(p, exporter.HourlyFeatures.Name, exporter.HourlyFeaturesFile)})}
}

// Execute builds hourly_features.
func (s *HourlyFeaturesStage) Execute(ctx context.Context, state *OperationState) error {
	hourly, err := readTable(&s.tableStage, exporter.HourlyCleaned)
	if err != nil {
		return err
	}
	processed, err := readTable(&s.tableStage, exporter.ProcessedCleaned)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.HourlyFeatures, features.BuildHourlyFeatures(hourly, processed))
}

// DailyFeaturesStage derives pause ratio, balance and efficiency volatility.
type DailyFeaturesStage struct {
	tableStage
}

// NewDailyFeaturesStage creates the daily feature step
func NewDailyFeaturesStage(opts *StageOptions) *DailyFeaturesStage {
	p := opts.Paths
	return &DailyFeaturesStage{newTableStage(StepIDDailyFeatures, StepNameDailyFeatures, opts,
		[]DataRequirement{cleanedInput(p, exporter.DailyCleaned.Name, exporter.DailyCleanedFile)},
		[]DataOutput{featuredOutput(p, exporter.DailyFeatures.Name, exporter.DailyFeaturesFile)})}
}

// Execute builds daily_features.
func (s *DailyFeaturesStage) Execute(ctx context.Context, state *OperationState) error {
	daily, err := readTable(&s.tableStage, exporter.DailyCleaned)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.DailyFeatures, features.BuildDailyFeatures(daily, s.opts.Features))
}

// EventHourReconciliationStage compares event durations against the hourly
// downtime report.
type EventHourReconciliationStage struct {
	tableStage
}

// NewEventHourReconciliationStage creates the event to hour reconciliation step
func NewEventHourReconciliationStage(opts *StageOptions) *EventHourReconciliationStage {
	p := opts.Paths
	return &EventHourReconciliationStage{newTableStage(StepIDEventHourReconciliation, StepNameEventHourReconciliation, opts,
		[]DataRequirement{
			featuredInput(p, exporter.DowntimeFeatures.Name, exporter.DowntimeFeaturesFile),
			cleanedInput(p, exporter.HourlyCleaned.Name, exporter.HourlyCleanedFile),
		},
		[]DataOutput{featuredOutput(p, exporter.EventHourReconciliation.Name, exporter.EventHourReconFile)})}
}

// Execute builds event_hour_reconciliation.
func (s *EventHourReconciliationStage) Execute(ctx context.Context, state *OperationState) error {
	events, err := readTable(&s.tableStage, exporter.DowntimeFeatures)
	if err != nil {
		return err
	}
	hourly, err := readTable(&s.tableStage, exporter.HourlyCleaned)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.EventHourReconciliation, features.ReconcileEventsToHours(events, hourly))
}

// HourDayReconciliationStage compares hourly aggregates against the daily
// summary.
type HourDayReconciliationStage struct {
	tableStage
}

// NewHourDayReconciliationStage creates the hour to day reconciliation step
func NewHourDayReconciliationStage(opts *StageOptions) *HourDayReconciliationStage {
	p := opts.Paths
	return &HourDayReconciliationStage{newTableStage(StepIDHourDayReconciliation, StepNameHourDayReconciliation, opts,
		[]DataRequirement{
			cleanedInput(p, exporter.HourlyCleaned.Name, exporter.HourlyCleanedFile),
			cleanedInput(p, exporter.DailyCleaned.Name, exporter.DailyCleanedFile),
		},
		[]DataOutput{featuredOutput(p, exporter.HourDayReconciliation.Name, exporter.HourDayReconFile)})}
}

// Execute builds hour_day_reconciliation.
func (s *HourDayReconciliationStage) Execute(ctx context.Context, state *OperationState) error {
	hourly, err := readTable(&s.tableStage, exporter.HourlyCleaned)
	if err != nil {
		return err
	}
	daily, err := readTable(&s.tableStage, exporter.DailyCleaned)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.HourDayReconciliation, features.ReconcileHoursToDays(hourly, daily))
}

// DurationAnalysisStage writes the duration summary and distribution tables.
type DurationAnalysisStage struct {
	tableStage
}

// NewDurationAnalysisStage creates the duration analysis step
func NewDurationAnalysisStage(opts *StageOptions) *DurationAnalysisStage {
	p := opts.Paths
	return &DurationAnalysisStage{newTableStage(StepIDDurationAnalysis, StepNameDurationAnalysis, opts,
		[]DataRequirement{featuredInput(p, exporter.DowntimeFeatures.Name, exporter.DowntimeFeaturesFile)},
		[]DataOutput{
			tableOutput(p, exporter.DurationSummary.Name, exporter.DurationSummaryFile),
			tableOutput(p, exporter.DurationDistribution.Name, exporter.DurationDistFile),
		})}
}

// Execute builds the duration summary tables.
func (s *DurationAnalysisStage) Execute(ctx context.Context, state *OperationState) error {
	events, err := readTable(&s.tableStage, exporter.DowntimeFeatures)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}

	summary := analysis.DurationSummary(events)
	for _, m := range summary {
		attr := slog.Any(m.Metric, nil)
		if m.Value != nil {
			attr = slog.Float64(m.Metric, *m.Value)
		}
		s.logger.DebugContext(ctx, "Duration metric", attr)
	}

	if err := writeTable(ctx, &s.tableStage, state, exporter.DurationSummary, summary); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.DurationDistribution, analysis.DurationDistribution(events))
}

// BurstAnalysisStage writes the burst versus isolated downtime summary.
type BurstAnalysisStage struct {
	tableStage
}

// NewBurstAnalysisStage creates the burst analysis step
func NewBurstAnalysisStage(opts *StageOptions) *BurstAnalysisStage {
	p := opts.Paths
	return &BurstAnalysisStage{newTableStage(StepIDBurstAnalysis, StepNameBurstAnalysis, opts,
		[]DataRequirement{featuredInput(p, exporter.DowntimeFeatures.Name, exporter.DowntimeFeaturesFile)},
		[]DataOutput{tableOutput(p, exporter.BurstSummary.Name, exporter.BurstSummaryFile)})}
}

// Execute builds downtime_burst_summary.
func (s *BurstAnalysisStage) Execute(ctx context.Context, state *OperationState) error {
	events, err := readTable(&s.tableStage, exporter.DowntimeFeatures)
	if err != nil {
		return err
	}
	if err := s.prepareOutputs(); err != nil {
		return err
	}
	return writeTable(ctx, &s.tableStage, state, exporter.BurstSummary, analysis.BurstSummary(events))
}
