package dto

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// UploadKind names the table an upload replaces.
type UploadKind string

const (
	UploadSchedule UploadKind = "schedule"
	UploadRoster   UploadKind = "roster"
)

// UploadFile is one uploaded file read into memory.
type UploadFile struct {
	Filename string
	Content  []byte
}

// UploadTimetableRequest carries the files of a timetable upload.
type UploadTimetableRequest struct {
	Timetable *UploadFile
	Teachers  *UploadFile
}

// UploadTimetableResponse summarises an accepted upload.
type UploadTimetableResponse struct {
	Entries int    `json:"entries"`
	Roster  *int   `json:"roster,omitempty"`
	Version uint64 `json:"version"`
	Clashes int    `json:"clashes"`
}

// UpdateEntryRequest replaces every field of one timetable row. Blank fields
// are stored blank, as they are on upload.
type UpdateEntryRequest struct {
	TeacherName   string `json:"teacher_name"`
	Subject       string `json:"subject"`
	Day           string `json:"day"`
	Period        string `json:"period"`
	TimeSlot      string `json:"time_slot"`
	ClassActivity string `json:"class_activity"`
}

// Entry converts the request into a schedule row.
func (r UpdateEntryRequest) Entry() models.ScheduleEntry {
	return models.ScheduleEntryFromRecord(map[string]string{
		models.ColumnTeacherName:   r.TeacherName,
		models.ColumnSubject:       r.Subject,
		models.ColumnDay:           r.Day,
		models.ColumnPeriod:        r.Period,
		models.ColumnTimeSlot:      r.TimeSlot,
		models.ColumnClassActivity: r.ClassActivity,
	})
}

// EventsQuery selects the calendar window and exact-match filters.
type EventsQuery struct {
	Start   string
	End     string
	Teacher string
	Subject string
	Class   string
}

// EventsResponse is the projected calendar plus the rows that were skipped.
type EventsResponse struct {
	Events  []models.CalendarEvent `json:"events"`
	Skipped []models.SkippedEntry  `json:"skipped"`
	Start   time.Time              `json:"start"`
	End     time.Time              `json:"end"`
	Clamped bool                   `json:"clamped"`
	Cached  bool                   `json:"-"`
}

// ExportFormat selects the rendering of a table export.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ExportedFile is a rendered download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SubstitutionCandidatesQuery is the raw candidate lookup input.
type SubstitutionCandidatesQuery struct {
	Date    string `form:"date"`
	Period  string `form:"period"`
	Subject string `form:"subject"`
	Class   string `form:"class"`
}

// CreateSubstitutionRequest records an accepted substitute.
type CreateSubstitutionRequest struct {
	Date              string `json:"date" validate:"required,datetime=2006-01-02"`
	Period            string `json:"period"`
	ClassActivity     string `json:"class_activity" validate:"required"`
	OriginalTeacher   string `json:"original_teacher" validate:"required"`
	SubstituteTeacher string `json:"substitute_teacher" validate:"required,nefield=OriginalTeacher"`
	Subject           string `json:"subject"`
}

// ListSubstitutionsQuery filters stored substitutions.
type ListSubstitutionsQuery struct {
	From    string `form:"from"`
	To      string `form:"to"`
	Teacher string `form:"teacher"`
}
