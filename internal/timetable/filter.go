package timetable

import (
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// FilterEntries keeps entries matching every non-empty filter field. The
// subject filter compares against the cleaned subject. Indexes are preserved.
func FilterEntries(entries []models.ScheduleEntry, filter models.ScheduleFilter) []models.ScheduleEntry {
	filtered := make([]models.ScheduleEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.TeacherName != "" && entry.TeacherName != filter.TeacherName {
			continue
		}
		if filter.Subject != "" && entry.SubjectClean() != filter.Subject {
			continue
		}
		if filter.ClassActivity != "" && entry.ClassActivity != filter.ClassActivity {
			continue
		}
		if filter.Day != "" && entry.Day != filter.Day {
			continue
		}
		filtered = append(filtered, entry)
	}

	switch filter.SortBy {
	case "period":
		sort.SliceStable(filtered, func(i, j int) bool {
			return ComparePeriod(filtered[i].Period, filtered[j].Period) < 0
		})
	case "teacher":
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].TeacherName < filtered[j].TeacherName
		})
	}
	return filtered
}

// Options collects the sorted distinct teachers, cleaned subjects and classes.
// Blank values are left out.
func Options(entries []models.ScheduleEntry) models.FilterOptions {
	teachers := make(map[string]struct{})
	subjects := make(map[string]struct{})
	classes := make(map[string]struct{})
	for _, entry := range entries {
		if entry.HasTeacher() {
			teachers[entry.TeacherName] = struct{}{}
		}
		if subject := entry.SubjectClean(); subject != "" {
			subjects[subject] = struct{}{}
		}
		if entry.ClassActivity != "" {
			classes[entry.ClassActivity] = struct{}{}
		}
	}
	return models.FilterOptions{
		Teachers: sortedKeys(teachers),
		Subjects: sortedKeys(subjects),
		Classes:  sortedKeys(classes),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// FilterEvents keeps events matching every non-empty field exactly. The
// subject is compared against the event's cleaned subject.
func FilterEvents(events []models.CalendarEvent, teacher, subject, class string) []models.CalendarEvent {
	if teacher == "" && subject == "" && class == "" {
		return events
	}
	filtered := make([]models.CalendarEvent, 0, len(events))
	for _, event := range events {
		if teacher != "" && event.Teacher != teacher {
			continue
		}
		if subject != "" && event.SubjectClean != subject {
			continue
		}
		if class != "" && event.ClassActivity != class {
			continue
		}
		filtered = append(filtered, event)
	}
	return filtered
}
