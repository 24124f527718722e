package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"downtimecli/internal/errors"
	"downtimecli/pkg/contracts/domain"
)

// Table names used in logs, coercion reports and file names.
const (
	TableDowntime  = "downtime"
	TableHourly    = "hourly"
	TableDaily     = "daily"
	TableProcessed = "processed"
)

// PrepareOptions configures a Preparer.
type PrepareOptions struct {
	Sheets SheetNames
	// PreviewRows is how many normalized rows per table are logged at debug level.
	PreviewRows int
}

// DefaultPrepareOptions returns the stock sheet layout with a 5 row preview.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		Sheets:      DefaultSheetNames(),
		PreviewRows: 5,
	}
}

// PreparedTables holds the four cleaned tables of one workbook.
type PreparedTables struct {
	Downtime  []domain.DowntimeEvent
	Hourly    []domain.HourlyRecord
	Daily     []domain.DailyRecord
	Processed []domain.ThroughputRecord

	Coercions CoercionReport
}

// CoercionReport counts, per table and column, non-blank cells that could
// not be parsed and were stored as null.
type CoercionReport map[string]map[string]int

func (r CoercionReport) add(table, column string) {
	if r[table] == nil {
		r[table] = make(map[string]int)
	}
	r[table][column]++
}

// Total returns the number of coerced cells across all tables.
func (r CoercionReport) Total() int {
	n := 0
	for _, cols := range r {
		for _, c := range cols {
			n += c
		}
	}
	return n
}

// Each visits every (table, column, count) entry in sorted order.
func (r CoercionReport) Each(fn func(table, column string, count int)) {
	tables := make([]string, 0, len(r))
	for t := range r {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		cols := make([]string, 0, len(r[t]))
		for c := range r[t] {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			fn(t, c, r[t][c])
		}
	}
}

// Preparer loads the raw workbook and cleans each table independently.
type Preparer struct {
	logger *slog.Logger
	opts   PrepareOptions
}

// NewPreparer creates a Preparer. A nil logger falls back to slog.Default.
func NewPreparer(logger *slog.Logger, opts PrepareOptions) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Sheets == (SheetNames{}) {
		opts.Sheets = DefaultSheetNames()
	}
	return &Preparer{logger: logger, opts: opts}
}

// Prepare reads all four sheets of the workbook at path and normalizes them.
// A missing file, sheet or required column fails the whole call; bad cells
// never do.
func (p *Preparer) Prepare(ctx context.Context, path string) (*PreparedTables, error) {
	wb, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	out := &PreparedTables{Coercions: make(CoercionReport)}

	sheets := make(map[string]*Sheet, 4)
	for _, s := range []struct{ table, name string }{
		{TableDowntime, p.opts.Sheets.Downtime},
		{TableHourly, p.opts.Sheets.Hourly},
		{TableDaily, p.opts.Sheets.Daily},
		{TableProcessed, p.opts.Sheets.Processed},
	} {
		sheet, err := wb.ReadSheet(s.name)
		if err != nil {
			return nil, err
		}
		sheets[s.table] = sheet
	}

	if out.Processed, err = p.CleanProcessed(ctx, sheets[TableProcessed], out.Coercions); err != nil {
		return nil, withPath(err, path)
	}
	if out.Daily, err = p.CleanDaily(ctx, sheets[TableDaily], out.Coercions); err != nil {
		return nil, withPath(err, path)
	}
	if out.Hourly, err = p.CleanHourly(ctx, sheets[TableHourly], out.Coercions); err != nil {
		return nil, withPath(err, path)
	}
	if out.Downtime, err = p.CleanDowntime(ctx, sheets[TableDowntime], out.Coercions); err != nil {
		return nil, withPath(err, path)
	}

	p.logger.InfoContext(ctx, "Workbook prepared",
		slog.String("path", path),
		slog.Int("downtime_rows", len(out.Downtime)),
		slog.Int("hourly_rows", len(out.Hourly)),
		slog.Int("daily_rows", len(out.Daily)),
		slog.Int("processed_rows", len(out.Processed)),
		slog.Int("coerced_cells", out.Coercions.Total()))

	out.Coercions.Each(func(table, column string, count int) {
		p.logger.WarnContext(ctx, "Unparseable cells coerced to null",
			slog.String("table", table),
			slog.String("column", column),
			slog.Int("count", count))
	})

	return out, nil
}

func withPath(err error, path string) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.WithPath(path)
	}
	return err
}

// CleanProcessed normalizes the processed hourly table: numeric hour bounds
// and date + hour offset timestamps.
func (p *Preparer) CleanProcessed(ctx context.Context, sheet *Sheet, report CoercionReport) ([]domain.ThroughputRecord, error) {
	cols, err := sheet.resolve([]columnDef{
		{key: "date"},
		{key: "hour_start"},
		{key: "hour_end"},
		{key: "production_gallons", aliases: []string{"production_volume", "volume"}},
	})
	if err != nil {
		return nil, err
	}

	c := cellReader{sheet: sheet, cols: cols, report: report, table: TableProcessed}
	records := make([]domain.ThroughputRecord, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := domain.ThroughputRecord{
			Date:              c.date(row, "date"),
			HourStart:         c.number(row, "hour_start"),
			HourEnd:           c.number(row, "hour_end"),
			ProductionGallons: c.number(row, "production_gallons"),
		}
		rec.TimestampStart = c.offset(rec.Date, rec.HourStart, "timestamp_start")
		rec.TimestampEnd = c.offset(rec.Date, rec.HourEnd, "timestamp_end")
		records = append(records, rec)
	}

	for i := 0; i < len(records) && i < p.opts.PreviewRows; i++ {
		r := records[i]
		p.logger.DebugContext(ctx, "processed_hourly timestamps preview",
			slog.Int("row", i),
			slog.Any("date", r.Date),
			slog.Any("hour_start", r.HourStart),
			slog.Any("hour_end", r.HourEnd),
			slog.Any("timestamp_start", r.TimestampStart),
			slog.Any("timestamp_end", r.TimestampEnd))
	}
	return records, nil
}

// CleanHourly normalizes the hourly operation breakdown: hour bound
// timestamps plus comma-decimal and percent tolerant numeric columns.
func (p *Preparer) CleanHourly(ctx context.Context, sheet *Sheet, report CoercionReport) ([]domain.HourlyRecord, error) {
	cols, err := sheet.resolve([]columnDef{
		{key: "date"},
		{key: "hour_start"},
		{key: "hour_end"},
		{key: "monitored_time_h", aliases: []string{"monitored_time"}},
		{key: "operation_time_h", aliases: []string{"operation_time"}},
		{key: "downtime_h", aliases: []string{"downtime"}},
		{key: "efficiency"},
	})
	if err != nil {
		return nil, err
	}

	c := cellReader{sheet: sheet, cols: cols, report: report, table: TableHourly}
	records := make([]domain.HourlyRecord, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := domain.HourlyRecord{
			Date:           c.date(row, "date"),
			HourStart:      c.number(row, "hour_start"),
			HourEnd:        c.number(row, "hour_end"),
			MonitoredTimeH: c.number(row, "monitored_time_h"),
			OperationTimeH: c.number(row, "operation_time_h"),
			DowntimeH:      c.number(row, "downtime_h"),
			Efficiency:     c.efficiency(row, "efficiency"),
		}
		rec.TimestampStart = c.offset(rec.Date, rec.HourStart, "timestamp_start")
		rec.TimestampEnd = c.offset(rec.Date, rec.HourEnd, "timestamp_end")
		records = append(records, rec)
	}

	for i := 0; i < len(records) && i < p.opts.PreviewRows; i++ {
		r := records[i]
		p.logger.DebugContext(ctx, "hourly_operation_breakdown preview",
			slog.Int("row", i),
			slog.Any("timestamp_start", r.TimestampStart),
			slog.Any("monitored_time_h", r.MonitoredTimeH),
			slog.Any("downtime_h", r.DowntimeH),
			slog.Any("efficiency", r.Efficiency))
	}
	return records, nil
}

// CleanDaily normalizes the daily summary: production start/end clocks are
// combined with the date only when both are present.
func (p *Preparer) CleanDaily(ctx context.Context, sheet *Sheet, report CoercionReport) ([]domain.DailyRecord, error) {
	cols, err := sheet.resolve([]columnDef{
		{key: "date"},
		{key: "production_start_time"},
		{key: "production_end_time"},
		{key: "monitored_time_dec"},
		{key: "operation_time_dec"},
		{key: "pause_time_dec"},
		{key: "efficiency"},
	})
	if err != nil {
		return nil, err
	}

	c := cellReader{sheet: sheet, cols: cols, report: report, table: TableDaily}
	records := make([]domain.DailyRecord, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := domain.DailyRecord{
			Date:             c.date(row, "date"),
			StartTimeRaw:     c.raw(row, "production_start_time"),
			EndTimeRaw:       c.raw(row, "production_end_time"),
			StartClock:       c.clock(row, "production_start_time"),
			EndClock:         c.clock(row, "production_end_time"),
			MonitoredTimeDec: c.number(row, "monitored_time_dec"),
			OperationTimeDec: c.number(row, "operation_time_dec"),
			PauseTimeDec:     c.number(row, "pause_time_dec"),
			Efficiency:       c.efficiency(row, "efficiency"),
		}
		rec.ProductionStartTS = c.combine(rec.Date, rec.StartClock, "production_start_ts")
		rec.ProductionEndTS = c.combine(rec.Date, rec.EndClock, "production_end_ts")
		records = append(records, rec)
	}

	for i := 0; i < len(records) && i < p.opts.PreviewRows; i++ {
		r := records[i]
		p.logger.DebugContext(ctx, "daily_operation_summary timestamps preview",
			slog.Int("row", i),
			slog.Any("date", r.Date),
			slog.Any("start_clock", r.StartClock),
			slog.Any("production_start_ts", r.ProductionStartTS),
			slog.Any("end_clock", r.EndClock),
			slog.Any("production_end_ts", r.ProductionEndTS))
	}
	return records, nil
}

// CleanDowntime normalizes the downtime event log the same way as the daily
// summary's production clocks.
func (p *Preparer) CleanDowntime(ctx context.Context, sheet *Sheet, report CoercionReport) ([]domain.DowntimeEvent, error) {
	cols, err := sheet.resolve([]columnDef{
		{key: "date"},
		{key: "downtime_start_time", aliases: []string{"start_time"}},
		{key: "downtime_end_time", aliases: []string{"end_time"}},
	})
	if err != nil {
		return nil, err
	}

	c := cellReader{sheet: sheet, cols: cols, report: report, table: TableDowntime}
	records := make([]domain.DowntimeEvent, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := domain.DowntimeEvent{
			Date:         c.date(row, "date"),
			StartTimeRaw: c.raw(row, "downtime_start_time"),
			EndTimeRaw:   c.raw(row, "downtime_end_time"),
			StartClock:   c.clock(row, "downtime_start_time"),
			EndClock:     c.clock(row, "downtime_end_time"),
		}
		rec.StartTS = c.combine(rec.Date, rec.StartClock, "downtime_start_ts")
		rec.EndTS = c.combine(rec.Date, rec.EndClock, "downtime_end_ts")
		records = append(records, rec)
	}

	for i := 0; i < len(records) && i < p.opts.PreviewRows; i++ {
		r := records[i]
		p.logger.DebugContext(ctx, "downtime_event_log timestamps preview",
			slog.Int("row", i),
			slog.Any("date", r.Date),
			slog.Any("downtime_start_ts", r.StartTS),
			slog.Any("downtime_end_ts", r.EndTS))
	}
	return records, nil
}

// cellReader parses named cells of one sheet and records coercions.
type cellReader struct {
	sheet  *Sheet
	cols   map[string]int
	report CoercionReport
	table  string
}

func (c cellReader) raw(row []string, key string) string {
	return c.sheet.Cell(row, c.cols[key])
}

func (c cellReader) note(raw, key string, ok bool) {
	if !ok && !isBlankRow([]string{raw}) {
		c.report.add(c.table, key)
	}
}

func (c cellReader) date(row []string, key string) *civil.Date {
	raw := c.raw(row, key)
	v := ParseDate(raw)
	c.note(raw, key, v != nil)
	return v
}

func (c cellReader) number(row []string, key string) *float64 {
	raw := c.raw(row, key)
	v := ParseNumber(raw)
	c.note(raw, key, v != nil)
	return v
}

func (c cellReader) efficiency(row []string, key string) *float64 {
	raw := c.raw(row, key)
	v := ParseEfficiency(raw)
	c.note(raw, key, v != nil)
	return v
}

func (c cellReader) clock(row []string, key string) *civil.Time {
	raw := c.raw(row, key)
	v := NormalizeClockCell(raw)
	c.note(raw, key, v != nil)
	return v
}

// offset and combine derive a timestamp column. A result that is nil although
// both parts are present left the writable date range and counts as coerced.
func (c cellReader) offset(date *civil.Date, hours *float64, key string) *time.Time {
	v := OffsetHours(date, hours)
	if v == nil && date != nil && hours != nil {
		c.report.add(c.table, key)
	}
	return v
}

func (c cellReader) combine(date *civil.Date, clock *civil.Time, key string) *time.Time {
	v := CombineDateClock(date, clock)
	if v == nil && date != nil && clock != nil {
		c.report.add(c.table, key)
	}
	return v
}
