package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"downtimecli/internal/errors"
)

// SheetNames maps each raw table to the workbook sheet holding it.
type SheetNames struct {
	Downtime  string
	Hourly    string
	Daily     string
	Processed string
}

// DefaultSheetNames returns the sheet names used by the plant's export.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Downtime:  "downtime_event_log",
		Hourly:    "hourly_operation_breakdown",
		Daily:     "daily_operation_summary",
		Processed: "processed_hourly",
	}
}

// Sheet is the raw content of one worksheet: a header row and data rows of
// unformatted cell values.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string

	columns map[string]int
}

// Workbook is an open spreadsheet file.
type Workbook struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err).WithPath(path)
	}
	return &Workbook{path: path, file: f}, nil
}

// Path returns the file the workbook was opened from.
func (w *Workbook) Path() string {
	return w.path
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// ReadSheet loads a sheet by name. Cells are read raw, so dates and times
// arrive as spreadsheet serials rather than display strings. Blank rows are
// dropped.
func (w *Workbook) ReadSheet(name string) (*Sheet, error) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, errors.NewNotFoundError("sheet").WithSheet(name).WithPath(w.path)
	}

	rows, err := w.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParsingError("failed to read sheet", err).WithSheet(name).WithPath(w.path)
	}
	if len(rows) == 0 {
		return nil, errors.NewValidationError("sheet has no header row").WithSheet(name).WithPath(w.path)
	}

	sheet := &Sheet{
		Name:    name,
		Header:  rows[0],
		columns: make(map[string]int, len(rows[0])),
	}
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if _, dup := sheet.columns[key]; !dup && key != "" {
			sheet.columns[key] = i
		}
	}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// Column returns the index of the first header matching one of names.
func (s *Sheet) Column(names ...string) (int, bool) {
	for _, n := range names {
		if idx, ok := s.columns[normalizeHeader(n)]; ok {
			return idx, true
		}
	}
	return -1, false
}

// Cell returns the value at row, col or "" when the row is short.
func (s *Sheet) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// columnDef names a required column and the header spellings accepted for it.
type columnDef struct {
	key     string
	aliases []string
}

// resolve maps every definition to a column index, failing on the first missing one.
func (s *Sheet) resolve(defs []columnDef) (map[string]int, error) {
	out := make(map[string]int, len(defs))
	for _, def := range defs {
		idx, ok := s.Column(append([]string{def.key}, def.aliases...)...)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("missing required column %q", def.key)).
				WithSheet(s.Name).
				WithContext(errors.ContextColumn, def.key)
		}
		out[def.key] = idx
	}
	return out, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
