package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the standard plant export.
const (
	DowntimeSheet  = "downtime_event_log"
	HourlySheet    = "hourly_operation_breakdown"
	DailySheet     = "daily_operation_summary"
	ProcessedSheet = "processed_hourly"
)

// SheetFixture is the content of one worksheet. Cell values are written with
// excelize.SetCellValue, so float64 becomes a numeric cell and string a text
// cell.
type SheetFixture struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WorkbookBuilder assembles an .xlsx raw export for tests.
type WorkbookBuilder struct {
	sheets []SheetFixture
}

// NewWorkbook returns an empty builder.
func NewWorkbook() *WorkbookBuilder {
	return &WorkbookBuilder{}
}

// WithSheet adds a sheet, replacing any sheet of the same name.
func (b *WorkbookBuilder) WithSheet(s SheetFixture) *WorkbookBuilder {
	for i := range b.sheets {
		if b.sheets[i].Name == s.Name {
			b.sheets[i] = s
			return b
		}
	}
	b.sheets = append(b.sheets, s)
	return b
}

// Without drops the named sheet.
func (b *WorkbookBuilder) Without(name string) *WorkbookBuilder {
	kept := b.sheets[:0]
	for _, s := range b.sheets {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	b.sheets = kept
	return b
}

// WithStandardSheets adds the four sheets returned by StandardSheets.
func (b *WorkbookBuilder) WithStandardSheets() *WorkbookBuilder {
	for _, s := range StandardSheets() {
		b.WithSheet(s)
	}
	return b
}

// SaveAs writes the workbook to path.
func (b *WorkbookBuilder) SaveAs(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(b.sheets) == 0 {
		return f.SaveAs(path)
	}

	first := f.GetSheetName(0)
	for i, s := range b.sheets {
		if i == 0 {
			if err := f.SetSheetName(first, s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}

		header := make([]any, len(s.Header))
		for j, h := range s.Header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
			return err
		}
		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(s.Name, cell, v); err != nil {
					return fmt.Errorf("set %s!%s: %w", s.Name, cell, err)
				}
			}
		}
	}
	return f.SaveAs(path)
}

// Save writes the workbook to a fresh temp directory and returns its path.
func (b *WorkbookBuilder) Save(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.xlsx")
	if err := b.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

// StandardSheets is a small two day plant export. It mixes serial and text
// clocks, comma decimals and percent efficiencies, and carries one
// unparseable clock and one event without clocks.
//
// Downtime events in start order: 09:00-10:00, 10:02-10:12 (a burst),
// 13:00-13:30 on 2024-01-05, then 08:00 with a bad end clock on 2024-01-06.
func StandardSheets() []SheetFixture {
	return []SheetFixture{
		{
			Name:   DowntimeSheet,
			Header: []string{"date", "downtime_start_time", "downtime_end_time"},
			Rows: [][]any{
				{"2024-01-05", 0.375, 10.0 / 24},
				{"2024-01-05", "10:02:00", "10:12:00"},
				{"2024-01-06", "08:00", "bad"},
				{"2024-01-06", "", ""},
				{"2024-01-05", "13:00:00", "13:30:00"},
			},
		},
		{
			Name:   HourlySheet,
			Header: []string{"date", "hour_start", "hour_end", "monitored_time_h", "operation_time_h", "downtime_h", "efficiency"},
			Rows: [][]any{
				{"2024-01-05", 9.0, 10.0, 1.0, 0.0, 1.0, "0%"},
				{"2024-01-05", 10.0, 11.0, 1.0, "0,8", "0,2", "80%"},
				{"2024-01-05", 13.0, 14.0, 1.0, 0.5, 0.5, 0.5},
				{"2024-01-06", 8.0, 9.0, 1.0, 1.0, 0.0, 1.0},
			},
		},
		{
			Name:   DailySheet,
			Header: []string{"date", "production_start_time", "production_end_time", "monitored_time_dec", "operation_time_dec", "pause_time_dec", "efficiency"},
			Rows: [][]any{
				{"2024-01-06", "08:00", "", 1.0, 1.0, 0.0, 1.0},
				{"2024-01-05", 0.375, "14:00:00", 3.0, 1.3, 1.7, "43%"},
			},
		},
		{
			Name:   ProcessedSheet,
			Header: []string{"date", "hour_start", "hour_end", "production_gallons"},
			Rows: [][]any{
				{"2024-01-05", 9.0, 10.0, 0.0},
				{"2024-01-05", 10.0, 11.0, 120.0},
				{"2024-01-05", 13.0, 14.0, 60.0},
				{"2024-01-06", 8.0, 9.0, 200.0},
			},
		},
	}
}
