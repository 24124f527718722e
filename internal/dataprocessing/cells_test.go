package dataprocessing

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"downtimecli/pkg/contracts/domain"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: "1.5", want: domain.Ptr(1.5)},
		{raw: "1,5", want: domain.Ptr(1.5)},
		{raw: " 0,75 ", want: domain.Ptr(0.75)},
		{raw: "12", want: domain.Ptr(12.0)},
		{raw: "-3", want: domain.Ptr(-3.0)},
		{raw: "", want: nil},
		{raw: "abc", want: nil},
		{raw: "1.234,5", want: nil},
		{raw: "NaN", want: nil},
		{raw: "Inf", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestParseEfficiency(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{raw: "0.85", want: domain.Ptr(0.85)},
		{raw: "0,85", want: domain.Ptr(0.85)},
		{raw: "85%", want: domain.Ptr(0.85)},
		{raw: "85 %", want: domain.Ptr(0.85)},
		{raw: "92,5%", want: domain.Ptr(0.925)},
		{raw: "50", want: domain.Ptr(0.5)},
		{raw: "1", want: domain.Ptr(1.0)},
		{raw: "1.02", want: domain.Ptr(1.02)},
		{raw: "1.5", want: domain.Ptr(1.5)},
		{raw: "1.6", want: domain.Ptr(0.016)},
		{raw: "1.02%", want: domain.Ptr(0.0102)},
		{raw: "%", want: nil},
		{raw: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseEfficiency(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-12)
		})
	}
}

func TestParseDate(t *testing.T) {
	want := civil.Date{Year: 2024, Month: time.January, Day: 5}

	for _, raw := range []string{"2024-01-05", "2024/01/05", "01/05/2024", "1/5/2024", "05.01.2024", "45296", "45296.5", "2024-01-05 13:45:00"} {
		t.Run(raw, func(t *testing.T) {
			got := ParseDate(raw)
			require.NotNil(t, got)
			assert.Equal(t, want, *got)
		})
	}

	// 3000000 is a serial in year 10113, which no four digit date can hold.
	for _, raw := range []string{"", "yesterday", "-4", "0", "2024-13-45", "3000000"} {
		t.Run("invalid "+raw, func(t *testing.T) {
			assert.Nil(t, ParseDate(raw))
		})
	}
}

func TestCombineDateClock(t *testing.T) {
	day := civil.Date{Year: 2024, Month: time.January, Day: 5}
	clock := civil.Time{Hour: 8, Minute: 30, Second: 15, Nanosecond: 900_000_000}

	got := CombineDateClock(&day, &clock)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 5, 8, 30, 15, 0, time.UTC), *got)

	assert.Nil(t, CombineDateClock(nil, &clock))
	assert.Nil(t, CombineDateClock(&day, nil))

	far := civil.Date{Year: 10113, Month: time.September, Day: 19}
	assert.Nil(t, CombineDateClock(&far, &clock))
}

func TestOffsetHours(t *testing.T) {
	day := civil.Date{Year: 2024, Month: time.January, Day: 5}

	got := OffsetHours(&day, domain.Ptr(7.0))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC), *got)

	got = OffsetHours(&day, domain.Ptr(24.0))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), *got)

	got = OffsetHours(&day, domain.Ptr(7.5))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 1, 5, 7, 30, 0, 0, time.UTC), *got)

	assert.Nil(t, OffsetHours(nil, domain.Ptr(1.0)))
	assert.Nil(t, OffsetHours(&day, nil))

	last := civil.Date{Year: 9999, Month: time.December, Day: 31}
	assert.NotNil(t, OffsetHours(&last, domain.Ptr(23.0)))
	assert.Nil(t, OffsetHours(&last, domain.Ptr(24.0)))
	assert.Nil(t, OffsetHours(&day, domain.Ptr(1e9)))
}
