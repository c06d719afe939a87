package timeline

import (
	"fmt"
	"time"
)

// DateRange is a normalized inclusive date window. A nil Start and nil End
// means unrestricted ("all time"): every valid date is considered in range.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`

	// invalid is set when a requested bound could not be parsed. Containment
	// checks against an invalid range are always false, so malformed requests
	// exclude everything instead of crashing or matching everything.
	invalid bool
}

// RangeRequest is the loosely-typed range as supplied by callers. Empty
// strings mean "not given". A nil request means "use the default window".
type RangeRequest struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// rangeLayouts are the accepted bound formats, tried in order.
var rangeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
}

// ParseDate parses a date string against the accepted layouts.
// Returns the zero time when nothing matches.
func ParseDate(s string) time.Time {
	for _, layout := range rangeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Normalize resolves a range request into concrete inclusive boundaries:
//
//   - nil request: defaultStart through end-of-day today.
//   - both bounds empty: unrestricted, all downstream checks pass.
//   - only End given: Start falls back to defaultStart.
//   - only Start given: End falls back to now.
//
// Start snaps to 00:00:00 and End to 23:59:59.999999999 of their days.
// Unparseable bounds never panic; they poison the range so that containment
// checks evaluate false (see DateRange.Contains).
func Normalize(req *RangeRequest, defaultStart, now time.Time) DateRange {
	if req == nil {
		req = &RangeRequest{}
	} else if req.Start == "" && req.End == "" {
		return DateRange{}
	}

	var r DateRange

	start := defaultStart
	if req.Start != "" {
		start = ParseDate(req.Start)
		if start.IsZero() {
			r.invalid = true
		}
	}

	end := now
	if req.End != "" {
		end = ParseDate(req.End)
		if end.IsZero() {
			r.invalid = true
		}
	}

	start = StartOfDay(start)
	end = EndOfDay(end)
	r.Start = &start
	r.End = &end
	return r
}

// Contains reports whether t falls inside the range. The zero time is never
// in range: records with missing or unparseable dates are excluded, not
// treated as epoch-zero. An unrestricted range contains every valid date.
func (r DateRange) Contains(t time.Time) bool {
	if r.invalid || t.IsZero() {
		return false
	}
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Unrestricted reports whether the range is the all-time window.
func (r DateRange) Unrestricted() bool {
	return !r.invalid && r.Start == nil && r.End == nil
}

// Invalid reports whether a requested bound failed to parse. Invalid ranges
// match nothing.
func (r DateRange) Invalid() bool {
	return r.invalid
}

// Key returns a deterministic serialization for use in cache keys. Two
// logically different ranges never produce the same key.
func (r DateRange) Key() string {
	if r.invalid {
		return "invalid"
	}
	format := func(t *time.Time) string {
		if t == nil {
			return "all"
		}
		return t.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s..%s", format(r.Start), format(r.End))
}

// StartOfDay normalizes a timestamp to 00:00:00 of its day.
func StartOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay normalizes a timestamp to the last nanosecond of its day.
func EndOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}
