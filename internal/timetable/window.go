package timetable

import (
	"strings"
	"time"
)

var windowLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ResolveWindow parses caller supplied window bounds. Absent bounds default
// to now and now+span; if either bound is malformed both fall back so the
// caller always gets a renderable window. Offsets and a trailing "Z" are
// ignored and the wall clock is read in loc.
func ResolveWindow(rawStart, rawEnd string, now time.Time, span time.Duration, loc *time.Location) (time.Time, time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	start, end := now, now.Add(span)

	var err bool
	if strings.TrimSpace(rawStart) != "" {
		parsed, ok := parseWallClock(rawStart, loc)
		if ok {
			start = parsed
		} else {
			err = true
		}
	}
	if strings.TrimSpace(rawEnd) != "" {
		parsed, ok := parseWallClock(rawEnd, loc)
		if ok {
			end = parsed
		} else {
			err = true
		}
	}
	if err {
		return now, now.Add(span), false
	}
	return start, end, true
}

// ClampWindow shortens windows longer than limit. A non-positive limit
// disables clamping.
func ClampWindow(start, end time.Time, limit time.Duration) (time.Time, bool) {
	if limit <= 0 || end.Sub(start) <= limit {
		return end, false
	}
	return start.Add(limit), true
}

func parseWallClock(raw string, loc *time.Location) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc), true
	}
	value = strings.TrimSuffix(value, "Z")
	for _, layout := range windowLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
