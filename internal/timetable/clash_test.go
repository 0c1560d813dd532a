package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func TestDetectClashesTwoTeachersSameSlot(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Subject: "Math1", Day: "Mon", Period: "1", ClassActivity: "9A", TimeSlot: "08:00 to 08:45"},
		models.ScheduleEntry{TeacherName: "B", Subject: "Science2", Day: "Mon", Period: "1", ClassActivity: "9A", TimeSlot: "08:05 to 08:50"},
	)

	clashes := DetectClashes(entries)
	if assert.Len(t, clashes, 1) {
		assert.Equal(t, 2, clashes[0].Count)
		assert.Equal(t, []string{"A", "B"}, clashes[0].Teachers)
		assert.Equal(t, []string{"Math", "Science"}, clashes[0].Subjects)
		assert.Equal(t, "08:00 to 08:45", clashes[0].TimeSlot)
	}
}

func TestDetectClashesIgnoresSingletons(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Day: "Mon", Period: "1", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "A", Day: "Mon", Period: "2", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "A", Day: "mon", Period: "1", ClassActivity: "9A"},
	)

	assert.Empty(t, DetectClashes(entries))
	assert.NotNil(t, DetectClashes(nil))
}

func TestDetectClashesKeepsDuplicateTeachers(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Day: "Tue", Period: "3", ClassActivity: "Lab"},
		models.ScheduleEntry{TeacherName: "A", Day: "Tue", Period: "3", ClassActivity: "Lab"},
		models.ScheduleEntry{TeacherName: "C", Day: "Tue", Period: "3", ClassActivity: "Lab"},
	)

	clashes := DetectClashes(entries)
	if assert.Len(t, clashes, 1) {
		assert.Equal(t, 3, clashes[0].Count)
		assert.Equal(t, []string{"A", "A", "C"}, clashes[0].Teachers)
	}
}

func TestDetectClashesBlankKeysGroupTogether(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A"},
		models.ScheduleEntry{TeacherName: "B"},
	)

	clashes := DetectClashes(entries)
	if assert.Len(t, clashes, 1) {
		assert.Equal(t, "", clashes[0].Day)
		assert.Equal(t, 2, clashes[0].Count)
	}
}

func TestDetectClashesCountsParticipants(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Day: "Mon", Period: "1", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "B", Day: "Wed", Period: "4", ClassActivity: "10C"},
		models.ScheduleEntry{TeacherName: "C", Day: "Mon", Period: "1", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "D", Day: "Fri", Period: "2", ClassActivity: "8B"},
		models.ScheduleEntry{TeacherName: "E", Day: "Wed", Period: "4", ClassActivity: "10C"},
		models.ScheduleEntry{TeacherName: "F", Day: "Wed", Period: "4", ClassActivity: "10C"},
	)

	clashes := DetectClashes(entries)
	total := 0
	for _, clash := range clashes {
		assert.GreaterOrEqual(t, clash.Count, 2)
		total += clash.Count
	}
	assert.Equal(t, 5, total)
	if assert.Len(t, clashes, 2) {
		assert.Equal(t, "Mon", clashes[0].Day)
		assert.Equal(t, "Wed", clashes[1].Day)
	}
}
