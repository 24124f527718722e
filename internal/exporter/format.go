package exporter

import (
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
)

// TimestampLayout is the cell layout of every timestamp column. Dates and
// clocks use the civil package's ISO forms.
const TimestampLayout = "2006-01-02 15:04:05"

// A nil pointer is always written as an empty cell.

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func formatDate(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimestampLayout)
}

// formatClock writes whole seconds; civil.Time.String would append any
// fractional part.
func formatClock(c *civil.Time) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// The parse functions invert the formatters: "" yields nil, anything else
// must be well formed.

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func parseBool(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func parseTime(layout string) func(string) (*time.Time, error) {
	return func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

func parseDate(s string) (*civil.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &d, nil
}

func parseClock(s string) (*civil.Time, error) {
	if s == "" {
		return nil, nil
	}
	c, err := civil.ParseTime(s)
	if err != nil {
		return nil, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return &c, nil
}
