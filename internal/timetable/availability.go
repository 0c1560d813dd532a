package timetable

import (
	"errors"
	"sort"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var (
	// ErrMissingDate is returned when a candidate lookup has no date.
	ErrMissingDate = errors.New("date is required")
	// ErrMissingPeriod is returned when a candidate lookup has no period.
	ErrMissingPeriod = errors.New("period is required")
)

// FreeCandidates lists teachers eligible for the subject/class filters who
// have no entry on the query's weekday and period. Weekday and period are
// compared by exact string equality against the stored values, so a stored
// "Thurs" never matches the "Thu" abbreviation.
//
// Each free teacher yields one candidate per distinct matching subject.
// An empty candidate list is a valid result.
func FreeCandidates(entries []models.ScheduleEntry, query models.SubstitutionQuery) (models.SubstitutionCandidateSet, error) {
	if query.Date.IsZero() {
		return models.SubstitutionCandidateSet{}, ErrMissingDate
	}
	if query.Period == "" {
		return models.SubstitutionCandidateSet{}, ErrMissingPeriod
	}

	weekday := WeekdayAbbrev(query.Date)
	subjectTokens := SplitFilterTokens(query.SubjectFilter)
	classTokens := SplitFilterTokens(query.ClassFilter)

	subjectTeachers := make(map[string]struct{})
	classTeachers := make(map[string]struct{})
	busy := make(map[string]struct{})
	subjectsByTeacher := make(map[string]map[string]struct{})

	for _, entry := range entries {
		if !entry.HasTeacher() {
			continue
		}
		name := entry.TeacherName
		if subjectMatches(entry.Subject, subjectTokens) {
			subjectTeachers[name] = struct{}{}
			if subjectsByTeacher[name] == nil {
				subjectsByTeacher[name] = make(map[string]struct{})
			}
			subjectsByTeacher[name][entry.Subject] = struct{}{}
		}
		if classMatches(entry.ClassActivity, classTokens) {
			classTeachers[name] = struct{}{}
		}
		if entry.Day == weekday && entry.Period == query.Period {
			busy[name] = struct{}{}
		}
	}

	free := make([]string, 0)
	for name := range subjectTeachers {
		if _, ok := classTeachers[name]; !ok {
			continue
		}
		if _, ok := busy[name]; ok {
			continue
		}
		free = append(free, name)
	}
	sort.Strings(free)

	candidates := make([]models.SubstitutionCandidate, 0, len(free))
	for _, name := range free {
		subjects := make([]string, 0, len(subjectsByTeacher[name]))
		for subject := range subjectsByTeacher[name] {
			subjects = append(subjects, subject)
		}
		sort.Strings(subjects)
		for _, subject := range subjects {
			candidates = append(candidates, models.SubstitutionCandidate{TeacherName: name, Subject: subject})
		}
	}

	return models.SubstitutionCandidateSet{
		Date:       query.Date.Format("2006-01-02"),
		Weekday:    weekday,
		Period:     query.Period,
		Candidates: candidates,
	}, nil
}

func subjectMatches(subject string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	lowered := strings.ToLower(subject)
	for _, token := range tokens {
		if strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

func classMatches(classActivity string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	lowered := strings.ToLower(classActivity)
	for _, token := range tokens {
		if lowered == token {
			return true
		}
	}
	return false
}
