package timetable

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var byDayCodes = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// WeeklyRRule renders the RFC 5545 weekly rule for a weekday.
func WeeklyRRule(weekday time.Weekday) string {
	return "FREQ=WEEKLY;BYDAY=" + byDayCodes[weekday]
}

// RecurrenceRules describes the weekly rule of every entry with a
// recognisable day. Entries with unknown days are omitted.
func RecurrenceRules(entries []models.ScheduleEntry) []models.RecurrenceRule {
	rules := make([]models.RecurrenceRule, 0, len(entries))
	for _, entry := range entries {
		weekday, ok := ResolveWeekday(entry.Day)
		if !ok {
			continue
		}
		rules = append(rules, models.RecurrenceRule{
			Index:         entry.Index,
			Teacher:       entry.TeacherName,
			SubjectClean:  entry.SubjectClean(),
			ClassActivity: entry.ClassActivity,
			Day:           entry.Day,
			Period:        entry.Period,
			TimeSlot:      entry.TimeSlot,
			RRule:         "RRULE:" + WeeklyRRule(weekday),
		})
	}
	return rules
}
