// Package policy holds the pure rules deciding whether a time slot may be booked.
package policy

import (
	"time"

	"cowork/shared/constant"
)

const (
	// DefaultReservationQuota is the number of reservations a regular user may hold at once.
	DefaultReservationQuota = 3

	minutesPerHour = 60
)

// MinutesSinceMidnight reads the UTC wall clock of t. The date is ignored.
func MinutesSinceMidnight(t time.Time) int {
	utc := t.UTC()

	return utc.Hour()*minutesPerHour + utc.Minute()
}

// ClockTime renders the UTC wall clock of t as HH:MM.
func ClockTime(t time.Time) string {
	return t.UTC().Format(constant.ClockFormat)
}

// ParseClock reads an HH:MM wall clock and anchors it on 1970-01-01 UTC.
func ParseClock(value string) (time.Time, error) {
	parsed, err := time.Parse(constant.ClockFormat, value)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(1970, time.January, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC), nil
}

// WithinOperatingHours reports whether [start, end] lies inside the daily
// [open, closing] window. Windows crossing midnight are not supported.
func WithinOperatingHours(open, closing, start, end time.Time) bool {
	openMin := MinutesSinceMidnight(open)
	closeMin := MinutesSinceMidnight(closing)

	return openMin <= MinutesSinceMidnight(start) && MinutesSinceMidnight(end) <= closeMin
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2) share
// any instant. Touching boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

// CanCreate reports whether a requester holding current reservations may add one more.
func CanCreate(role string, current, limit int) bool {
	if role == constant.RoleAdmin {
		return true
	}

	if limit <= 0 {
		limit = DefaultReservationQuota
	}

	return current < limit
}
