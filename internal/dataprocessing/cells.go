package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02.01.2006",
	"2.1.2006",
}

// ParseNumber parses a numeric cell, accepting a comma as decimal separator.
// Unparseable, NaN and infinite values yield nil.
func ParseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// percentThreshold is the smallest bare efficiency read as a percentage.
// Values in (1, percentThreshold] are over-unity fractions such as 1.02.
const percentThreshold = 1.5

// ParseEfficiency parses an efficiency cell into a fraction. Cells carrying
// a percent sign, or a bare value above percentThreshold, are read as
// percentages.
func ParseEfficiency(raw string) *float64 {
	s := strings.TrimSpace(raw)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	f := ParseNumber(s)
	if f == nil {
		return nil
	}
	if percent || *f > percentThreshold {
		v := *f / 100
		return &v
	}
	return f
}

// Dates must stay within the years a four digit layout can write and read
// back.
const (
	minYear = 1
	maxYear = 9999
)

func inRange(year int) bool {
	return year >= minYear && year <= maxYear
}

// ParseDate parses a date cell. Spreadsheet serials, ISO dates and
// timestamps are accepted; the time of day is dropped. Dates outside
// years 1 to 9999 yield nil.
func ParseDate(raw string) *civil.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if f := ParseNumber(s); f != nil {
		if *f <= 0 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(*f, false)
		if err != nil {
			return nil
		}
		return dateOf(t)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t)
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t)
		}
	}
	return nil
}

func dateOf(t time.Time) *civil.Date {
	d := civil.DateOf(t)
	if !inRange(d.Year) {
		return nil
	}
	return &d
}

// CombineDateClock joins a date with a time of day, floored to whole
// seconds. Both parts must be present; otherwise the result is nil.
func CombineDateClock(date *civil.Date, clock *civil.Time) *time.Time {
	if date == nil || clock == nil {
		return nil
	}
	ts := civil.DateTime{Date: *date, Time: *clock}.In(time.UTC).Truncate(time.Second)
	return timestamp(ts)
}

// OffsetHours adds a possibly fractional hour offset to the midnight of a
// date, floored to whole seconds.
func OffsetHours(date *civil.Date, hours *float64) *time.Time {
	if date == nil || hours == nil {
		return nil
	}
	secs := math.Floor(*hours * 3600)
	if math.Abs(secs) > float64(math.MaxInt64/int64(time.Second)) {
		return nil
	}
	return timestamp(date.In(time.UTC).Add(time.Duration(int64(secs)) * time.Second))
}

// timestamp returns nil for results that left the writable year range.
func timestamp(t time.Time) *time.Time {
	if !inRange(t.Year()) {
		return nil
	}
	return &t
}
