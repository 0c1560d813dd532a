package timetable

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ExpansionResult carries the projected events and the entries that were
// dropped along the way.
type ExpansionResult struct {
	Events  []models.CalendarEvent `json:"events"`
	Skipped []models.SkippedEntry  `json:"skipped"`
}

type sourceKey struct {
	teacher, subject, day, period, timeSlot, classActivity string
}

type eventKey struct {
	title         string
	start, end    int64
	teacher       string
	subject       string
	classActivity string
	period        string
	timeSlot      string
}

// Expand projects every entry's weekly recurrence onto the dates in
// [start, end]. Occurrence dates carry start's clock time and are kept while
// not after end. Wall times use start's location; no conversion is applied.
//
// Identical source rows are collapsed before expansion, and events whose
// projected fields coincide are collapsed afterwards, keeping the first.
func Expand(entries []models.ScheduleEntry, start, end time.Time) ExpansionResult {
	result := ExpansionResult{
		Events:  make([]models.CalendarEvent, 0),
		Skipped: make([]models.SkippedEntry, 0),
	}
	loc := start.Location()
	seenEvents := make(map[eventKey]struct{})

	for _, entry := range dedupeEntries(entries) {
		plan, skip := planEntry(entry)
		if skip != nil {
			result.Skipped = append(result.Skipped, *skip)
			continue
		}

		for day := firstOccurrence(start, plan.weekday); !day.After(end); day = day.AddDate(0, 0, 7) {
			event := models.CalendarEvent{
				ID:            fmt.Sprintf("%d_%s", entry.Index, day.Format("20060102")),
				Title:         fmt.Sprintf("%s - %s", entry.TeacherName, entry.SubjectClean()),
				Start:         plan.start.On(day, loc),
				End:           plan.end.On(day, loc),
				Teacher:       entry.TeacherName,
				SubjectClean:  entry.SubjectClean(),
				ClassActivity: entry.ClassActivity,
				Period:        entry.Period,
				Day:           entry.Day,
				TimeSlot:      entry.TimeSlot,
				Color:         ColorFor(entry.TeacherName),
			}
			key := eventKey{
				title:         event.Title,
				start:         event.Start.UnixNano(),
				end:           event.End.UnixNano(),
				teacher:       event.Teacher,
				subject:       event.SubjectClean,
				classActivity: event.ClassActivity,
				period:        event.Period,
				timeSlot:      event.TimeSlot,
			}
			if _, dup := seenEvents[key]; dup {
				continue
			}
			seenEvents[key] = struct{}{}
			result.Events = append(result.Events, event)
		}
	}
	return result
}

type entryPlan struct {
	weekday    time.Weekday
	start, end Clock
}

// planEntry resolves the weekday and clock range of an entry or explains why
// it cannot be expanded.
func planEntry(entry models.ScheduleEntry) (entryPlan, *models.SkippedEntry) {
	weekday, ok := ResolveWeekday(entry.Day)
	if !ok {
		return entryPlan{}, &models.SkippedEntry{Index: entry.Index, Reason: models.SkipUnknownWeekday, Detail: entry.Day}
	}
	rawStart, rawEnd, ok := SplitTimeSlot(entry.TimeSlot)
	if !ok {
		return entryPlan{}, &models.SkippedEntry{Index: entry.Index, Reason: models.SkipInvalidTimeSlot, Detail: entry.TimeSlot}
	}
	startClock, err := ParseClock(rawStart)
	if err != nil {
		return entryPlan{}, &models.SkippedEntry{Index: entry.Index, Reason: models.SkipInvalidTimeComponent, Detail: err.Error()}
	}
	endClock, err := ParseClock(rawEnd)
	if err != nil {
		return entryPlan{}, &models.SkippedEntry{Index: entry.Index, Reason: models.SkipInvalidTimeComponent, Detail: err.Error()}
	}
	return entryPlan{weekday: weekday, start: startClock, end: endClock}, nil
}

func firstOccurrence(start time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

func dedupeEntries(entries []models.ScheduleEntry) []models.ScheduleEntry {
	seen := make(map[sourceKey]struct{}, len(entries))
	unique := make([]models.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		key := sourceKey{
			teacher:       entry.TeacherName,
			subject:       entry.Subject,
			day:           entry.Day,
			period:        entry.Period,
			timeSlot:      entry.TimeSlot,
			classActivity: entry.ClassActivity,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, entry)
	}
	return unique
}
