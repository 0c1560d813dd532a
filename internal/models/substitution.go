package models

import "time"

// SubstitutionCandidate is a free teacher paired with one matching subject.
type SubstitutionCandidate struct {
	TeacherName string `json:"teacher_name"`
	Subject     string `json:"subject"`
}

// SubstitutionQuery describes a candidate lookup for one slot.
type SubstitutionQuery struct {
	Date          time.Time
	Period        string
	SubjectFilter string
	ClassFilter   string
}

// SubstitutionCandidateSet is the result of a candidate lookup.
type SubstitutionCandidateSet struct {
	Date       string                  `json:"date"`
	Weekday    string                  `json:"weekday"`
	Period     string                  `json:"period"`
	Candidates []SubstitutionCandidate `json:"candidates"`
}

// SubstitutionRecord is an accepted substitute assignment.
type SubstitutionRecord struct {
	ID                string    `db:"id" json:"id"`
	Date              time.Time `db:"date" json:"date"`
	Period            string    `db:"period" json:"period"`
	ClassActivity     string    `db:"class_activity" json:"class_activity"`
	OriginalTeacher   string    `db:"original_teacher" json:"original_teacher"`
	SubstituteTeacher string    `db:"substitute_teacher" json:"substitute_teacher"`
	Subject           string    `db:"subject" json:"subject"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// SubstitutionFilter narrows the stored records.
type SubstitutionFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Teacher  string
}
