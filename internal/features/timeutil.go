package features

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// mondayWeekday numbers days Monday=0 through Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func hourOf(t *time.Time) *int {
	if t == nil {
		return nil
	}
	h := t.Hour()
	return &h
}

func weekdayOf(t *time.Time) *int {
	if t == nil {
		return nil
	}
	d := mondayWeekday(*t)
	return &d
}

// secondsBetween returns to - from in seconds, or nil if either is nil.
func secondsBetween(from, to *time.Time) *float64 {
	if from == nil || to == nil {
		return nil
	}
	s := to.Sub(*from).Seconds()
	return &s
}

// sortNilLast stably orders s by key ascending with nil keys last.
func sortNilLast[T, K any](s []T, key func(*T) *K, before func(K, K) bool) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := key(&s[i]), key(&s[j])
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return before(*a, *b)
		}
	})
}

func sortByTime[T any](s []T, key func(*T) *time.Time) {
	sortNilLast(s, key, time.Time.Before)
}

func sortByDate[T any](s []T, key func(*T) *civil.Date) {
	sortNilLast(s, key, civil.Date.Before)
}

// timeKey makes a nullable timestamp usable as a map key. ok is false for
// nil, which must never join.
func timeKey(t *time.Time) (key int64, ok bool) {
	if t == nil {
		return 0, false
	}
	return t.UnixNano(), true
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
