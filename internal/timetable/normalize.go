// Package timetable holds the pure scheduling algorithms that run over a
// snapshot of the weekly timetable: clash detection, weekly recurrence
// expansion, substitute availability and colour tagging.
package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// weekdayPrefixes is matched in order against the lower-cased day value.
// "thu" also covers "thurs" and "thursday".
var weekdayPrefixes = []struct {
	prefix  string
	weekday time.Weekday
}{
	{"mon", time.Monday},
	{"tue", time.Tuesday},
	{"wed", time.Wednesday},
	{"thu", time.Thursday},
	{"fri", time.Friday},
	{"sat", time.Saturday},
	{"sun", time.Sunday},
}

// ResolveWeekday maps free-text day names ("Thurs", "monday", "WED") to a
// weekday using case-insensitive prefix matching.
func ResolveWeekday(day string) (time.Weekday, bool) {
	lowered := strings.ToLower(strings.TrimSpace(day))
	for _, candidate := range weekdayPrefixes {
		if strings.HasPrefix(lowered, candidate.prefix) {
			return candidate.weekday, true
		}
	}
	return time.Sunday, false
}

// WeekdayAbbrev returns the capitalised three-letter weekday of t ("Mon").
func WeekdayAbbrev(t time.Time) string {
	return t.Weekday().String()[:3]
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On combines the clock with the calendar date of day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}

const timeSlotSeparator = " to "

// SplitTimeSlot splits "<start> to <end>" into its trimmed halves.
func SplitTimeSlot(raw string) (string, string, bool) {
	parts := strings.Split(raw, timeSlotSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

// ParseClock parses "H:MM" or "HH:MM".
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("clock %q: expected HH:MM", raw)
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q: hour: %w", raw, err)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q: minute: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock %q: out of range", raw)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// ComparePeriod orders periods numerically when both are integers and
// lexically otherwise.
func ComparePeriod(a, b string) int {
	ai, aErr := strconv.Atoi(strings.TrimSpace(a))
	bi, bErr := strconv.Atoi(strings.TrimSpace(b))
	if aErr == nil && bErr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// SplitFilterTokens turns "Math, physics," into ["math", "physics"].
func SplitFilterTokens(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
