package dataprocessing

import (
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// TimeValueKind discriminates the encodings a time-of-day cell arrives in.
type TimeValueKind uint8

const (
	// TimeMissing is an empty cell.
	TimeMissing TimeValueKind = iota
	// TimeTimestamp is a full date and time.
	TimeTimestamp
	// TimeClock is a bare time of day such as "08:30:00".
	TimeClock
	// TimeSerial is a spreadsheet serial, the fraction of a day as a float.
	TimeSerial
	// TimeUnparsed is text matching none of the other encodings.
	TimeUnparsed
)

func (k TimeValueKind) String() string {
	switch k {
	case TimeMissing:
		return "missing"
	case TimeTimestamp:
		return "timestamp"
	case TimeClock:
		return "clock"
	case TimeSerial:
		return "serial"
	default:
		return "unparsed"
	}
}

// TimeValue is a tagged union over the time encodings found in the raw
// workbook. Only the field selected by Kind is meaningful.
type TimeValue struct {
	Kind      TimeValueKind
	Timestamp time.Time
	Clock     civil.Time
	Serial    float64
	Raw       string
}

// MissingTime returns the null time value.
func MissingTime() TimeValue { return TimeValue{Kind: TimeMissing} }

// TimestampValue wraps an already parsed timestamp.
func TimestampValue(t time.Time) TimeValue { return TimeValue{Kind: TimeTimestamp, Timestamp: t} }

// ClockValue wraps an already parsed time of day.
func ClockValue(c civil.Time) TimeValue { return TimeValue{Kind: TimeClock, Clock: c} }

// SerialValue wraps a fraction-of-day serial.
func SerialValue(f float64) TimeValue { return TimeValue{Kind: TimeSerial, Serial: f} }

var (
	timestampLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006-01-02 15:04",
		"2006/01/02 15:04:05",
		"01/02/2006 15:04:05",
		"02.01.2006 15:04:05",
	}
	clockLayouts = []string{
		"15:04:05",
		"15:04:05.999999999",
		"15:04",
		"3:04:05 PM",
		"3:04 PM",
	}
)

// ClassifyTimeCell decides which encoding a raw cell value uses.
func ClassifyTimeCell(raw string) TimeValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return MissingTime()
	}
	if f := ParseNumber(s); f != nil {
		return TimeValue{Kind: TimeSerial, Serial: *f, Raw: raw}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue{Kind: TimeTimestamp, Timestamp: t, Raw: raw}
		}
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue{Kind: TimeClock, Clock: civil.TimeOf(t), Raw: raw}
		}
	}
	return TimeValue{Kind: TimeUnparsed, Raw: raw}
}

// NormalizeClock maps any time value to a canonical time of day, or nil.
// It never panics: every input has a defined result.
func NormalizeClock(v TimeValue) *civil.Time {
	switch v.Kind {
	case TimeMissing:
		return nil
	case TimeTimestamp:
		c := civil.TimeOf(v.Timestamp)
		return &c
	case TimeClock:
		if !v.Clock.IsValid() {
			return nil
		}
		c := v.Clock
		return &c
	case TimeSerial:
		return serialToClock(v.Serial)
	default:
		return nil
	}
}

// maxSerialMillis keeps the conversion inside time.Duration's range.
const maxSerialMillis = float64(math.MaxInt64 / int64(time.Millisecond))

// serialToClock converts a fraction of a day to a time of day. The product
// is rounded to the millisecond first so that binary float error in values
// like 0.3541666 lands on 08:30:00 rather than 08:29:59.999.
func serialToClock(f float64) *civil.Time {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	ms := math.Round(f * 24 * 60 * 60 * 1000)
	if math.Abs(ms) >= maxSerialMillis {
		return nil
	}
	c := clockFromDuration(time.Duration(int64(ms)) * time.Millisecond)
	return &c
}

// NormalizeClockCell classifies and normalizes a raw cell in one step.
func NormalizeClockCell(raw string) *civil.Time {
	return NormalizeClock(ClassifyTimeCell(raw))
}

// clockFromDuration converts an offset since midnight into a time of day.
// Offsets outside a single day wrap around.
func clockFromDuration(d time.Duration) civil.Time {
	d %= 24 * time.Hour
	if d < 0 {
		d += 24 * time.Hour
	}
	return civil.Time{
		Hour:       int(d / time.Hour),
		Minute:     int(d % time.Hour / time.Minute),
		Second:     int(d % time.Minute / time.Second),
		Nanosecond: int(d % time.Second),
	}
}
