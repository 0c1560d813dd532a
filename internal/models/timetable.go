package models

import (
	"regexp"
	"strings"
	"time"
)

// Canonical column names of the tabular schedule source.
const (
	ColumnTeacherName   = "Teacher Name"
	ColumnSubject       = "Subject"
	ColumnDay           = "Day"
	ColumnPeriod        = "Period"
	ColumnTimeSlot      = "Time Slot"
	ColumnClassActivity = "Class/Activity"
)

// ScheduleColumns lists the canonical columns in source order.
var ScheduleColumns = []string{
	ColumnTeacherName,
	ColumnSubject,
	ColumnDay,
	ColumnPeriod,
	ColumnTimeSlot,
	ColumnClassActivity,
}

var trailingDigits = regexp.MustCompile(`\d+$`)

// ScheduleEntry is one row of the weekly timetable. Index is the positional
// index inside the table the entry was read from.
type ScheduleEntry struct {
	Index         int    `json:"index"`
	TeacherName   string `json:"teacher_name"`
	Subject       string `json:"subject"`
	Day           string `json:"day"`
	Period        string `json:"period"`
	TimeSlot      string `json:"time_slot"`
	ClassActivity string `json:"class_activity"`
}

// SubjectClean returns the subject with a trailing run of digits removed.
func (e ScheduleEntry) SubjectClean() string {
	return CleanSubject(e.Subject)
}

// HasTeacher reports whether the entry names a teacher.
func (e ScheduleEntry) HasTeacher() bool {
	return strings.TrimSpace(e.TeacherName) != ""
}

// CleanSubject strips trailing digits ("Math101" -> "Math") and surrounding space.
func CleanSubject(subject string) string {
	return strings.TrimSpace(trailingDigits.ReplaceAllString(subject, ""))
}

// ScheduleEntryFromRecord maps a row keyed by canonical column names.
func ScheduleEntryFromRecord(record map[string]string) ScheduleEntry {
	return ScheduleEntry{
		TeacherName:   strings.TrimSpace(record[ColumnTeacherName]),
		Subject:       strings.TrimSpace(record[ColumnSubject]),
		Day:           strings.TrimSpace(record[ColumnDay]),
		Period:        strings.TrimSpace(record[ColumnPeriod]),
		TimeSlot:      strings.TrimSpace(record[ColumnTimeSlot]),
		ClassActivity: strings.TrimSpace(record[ColumnClassActivity]),
	}
}

// Record renders the entry keyed by canonical column names.
func (e ScheduleEntry) Record() map[string]string {
	return map[string]string{
		ColumnTeacherName:   e.TeacherName,
		ColumnSubject:       e.Subject,
		ColumnDay:           e.Day,
		ColumnPeriod:        e.Period,
		ColumnTimeSlot:      e.TimeSlot,
		ColumnClassActivity: e.ClassActivity,
	}
}

// ScheduleFilter narrows a table listing. Empty fields match everything.
type ScheduleFilter struct {
	TeacherName   string
	Subject       string
	ClassActivity string
	Day           string
	SortBy        string
}

// Clash groups entries sharing day, period and class/activity.
type Clash struct {
	Day           string   `json:"day"`
	Period        string   `json:"period"`
	ClassActivity string   `json:"class_activity"`
	Teachers      []string `json:"teachers"`
	Subjects      []string `json:"subjects"`
	TimeSlot      string   `json:"time_slot"`
	Count         int      `json:"count"`
}

// CalendarEvent is one concrete occurrence of a ScheduleEntry.
type CalendarEvent struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Teacher       string    `json:"teacher"`
	SubjectClean  string    `json:"subject"`
	ClassActivity string    `json:"class"`
	Period        string    `json:"period"`
	Day           string    `json:"day"`
	TimeSlot      string    `json:"time_slot"`
	Color         string    `json:"color"`
}

// SkipReason explains why an entry produced no calendar events.
type SkipReason string

const (
	SkipUnknownWeekday       SkipReason = "UNKNOWN_WEEKDAY"
	SkipInvalidTimeSlot      SkipReason = "INVALID_TIME_SLOT"
	SkipInvalidTimeComponent SkipReason = "INVALID_TIME_COMPONENT"
)

// SkippedEntry records an entry dropped from recurrence expansion.
type SkippedEntry struct {
	Index  int        `json:"index"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// RecurrenceRule describes the weekly rule derived from one entry.
type RecurrenceRule struct {
	Index         int    `json:"index"`
	Teacher       string `json:"teacher"`
	SubjectClean  string `json:"subject"`
	ClassActivity string `json:"class"`
	Day           string `json:"day"`
	Period        string `json:"period"`
	TimeSlot      string `json:"time_slot"`
	RRule         string `json:"rrule"`
}

// FilterOptions lists distinct values usable as UI filters.
type FilterOptions struct {
	Teachers []string `json:"teachers"`
	Subjects []string `json:"subjects"`
	Classes  []string `json:"classes"`
}

// TeacherRecord is one free-form row of an uploaded teacher roster.
type TeacherRecord map[string]string

// TimetableStats summarises the currently loaded data.
type TimetableStats struct {
	Entries   int       `json:"entries"`
	Teachers  int       `json:"teachers"`
	Roster    int       `json:"roster"`
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableSnapshot is an immutable copy of the timetable at one version.
type TableSnapshot struct {
	Entries   []ScheduleEntry
	Roster    int
	Version   uint64
	UpdatedAt time.Time
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
