package exporter

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"downtimecli/internal/errors"
)

// Column binds one CSV column to a field of T.
type Column[T any] struct {
	Name string
	Get  func(*T) string
	Set  func(*T, string) error
}

// TableCodec converts between records of T and CSV rows. Columns are
// written in declaration order and read back by header name.
type TableCodec[T any] struct {
	Name    string
	Columns []Column[T]
}

// Headers returns the column names in output order.
func (c TableCodec[T]) Headers() []string {
	out := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		out[i] = col.Name
	}
	return out
}

// Encode renders records as CSV rows.
func (c TableCodec[T]) Encode(records []T) [][]string {
	rows := make([][]string, len(records))
	for i := range records {
		row := make([]string, len(c.Columns))
		for j, col := range c.Columns {
			row[j] = col.Get(&records[i])
		}
		rows[i] = row
	}
	return rows
}

// Decode parses rows read from path. Every codec column must be present in
// header; extra columns are ignored.
func (c TableCodec[T]) Decode(path string, header []string, rows [][]string) ([]T, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	positions := make([]int, len(c.Columns))
	for i, col := range c.Columns {
		idx, ok := index[col.Name]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("column %q", col.Name)).
				WithPath(path).
				WithContext(errors.ContextColumn, col.Name)
		}
		positions[i] = idx
	}

	out := make([]T, len(rows))
	for r, row := range rows {
		for i, col := range c.Columns {
			cell := ""
			if positions[i] < len(row) {
				cell = row[positions[i]]
			}
			if err := col.Set(&out[r], cell); err != nil {
				return nil, errors.NewParsingError(fmt.Sprintf("invalid value in row %d", r+1), err).
					WithPath(path).
					WithContext(errors.ContextColumn, col.Name)
			}
		}
	}
	return out, nil
}

// Write encodes records and writes them to path.
func (c TableCodec[T]) Write(w *CSVWriter, path string, records []T) error {
	return w.WriteSimpleCSV(path, c.Headers(), c.Encode(records))
}

// Read loads and decodes the table at path.
func (c TableCodec[T]) Read(path string) ([]T, error) {
	header, rows, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	return c.Decode(path, header, rows)
}

// nullable builds a column over a pointer field from a formatter and parser.
func nullable[T, V any](name string, field func(*T) **V, format func(*V) string, parse func(string) (*V, error)) Column[T] {
	return Column[T]{
		Name: name,
		Get:  func(r *T) string { return format(*field(r)) },
		Set: func(r *T, s string) error {
			v, err := parse(s)
			if err != nil {
				return err
			}
			*field(r) = v
			return nil
		},
	}
}

func floatCol[T any](name string, field func(*T) **float64) Column[T] {
	return nullable(name, field, formatFloat, parseFloat)
}

func intCol[T any](name string, field func(*T) **int) Column[T] {
	return nullable(name, field, formatInt, parseInt)
}

func boolCol[T any](name string, field func(*T) **bool) Column[T] {
	return nullable(name, field, formatBool, parseBool)
}

func dateCol[T any](name string, field func(*T) **civil.Date) Column[T] {
	return nullable(name, field, formatDate, parseDate)
}

func timestampCol[T any](name string, field func(*T) **time.Time) Column[T] {
	return nullable(name, field, formatTimestamp, parseTime(TimestampLayout))
}

func clockCol[T any](name string, field func(*T) **civil.Time) Column[T] {
	return nullable(name, field, formatClock, parseClock)
}

func stringCol[T any](name string, field func(*T) *string) Column[T] {
	return Column[T]{
		Name: name,
		Get:  func(r *T) string { return *field(r) },
		Set:  func(r *T, s string) error { *field(r) = s; return nil },
	}
}

// requiredFloatCol is a non-nullable float column; an empty cell reads as 0.
func requiredFloatCol[T any](name string, field func(*T) *float64) Column[T] {
	return Column[T]{
		Name: name,
		Get:  func(r *T) string { return strconv.FormatFloat(*field(r), 'f', -1, 64) },
		Set: func(r *T, s string) error {
			v, err := parseFloat(s)
			if err != nil {
				return err
			}
			if v != nil {
				*field(r) = *v
			}
			return nil
		},
	}
}

func requiredIntCol[T any](name string, field func(*T) *int) Column[T] {
	return Column[T]{
		Name: name,
		Get:  func(r *T) string { return strconv.Itoa(*field(r)) },
		Set: func(r *T, s string) error {
			v, err := parseInt(s)
			if err != nil {
				return err
			}
			if v != nil {
				*field(r) = *v
			}
			return nil
		},
	}
}

func requiredBoolCol[T any](name string, field func(*T) *bool) Column[T] {
	return Column[T]{
		Name: name,
		Get:  func(r *T) string { return strconv.FormatBool(*field(r)) },
		Set: func(r *T, s string) error {
			v, err := parseBool(s)
			if err != nil {
				return err
			}
			if v != nil {
				*field(r) = *v
			}
			return nil
		},
	}
}

// embed lifts columns of an embedded record C into its parent P.
func embed[P, C any](cols []Column[C], inner func(*P) *C) []Column[P] {
	out := make([]Column[P], len(cols))
	for i, col := range cols {
		col := col
		out[i] = Column[P]{
			Name: col.Name,
			Get:  func(p *P) string { return col.Get(inner(p)) },
			Set:  func(p *P, s string) error { return col.Set(inner(p), s) },
		}
	}
	return out
}

func concat[T any](groups ...[]Column[T]) []Column[T] {
	var out []Column[T]
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
