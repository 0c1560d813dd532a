package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// 2025-01-07 is a Tuesday.
var (
	tuesday     = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)
	nextTuesday = time.Date(2025, 1, 14, 23, 59, 0, 0, time.UTC)
)

func TestExpandSingleOccurrence(t *testing.T) {
	entries := indexed(models.ScheduleEntry{
		TeacherName: "A", Subject: "Math1", Day: "Tuesday", Period: "2",
		TimeSlot: "09:00 to 09:45", ClassActivity: "9A",
	})

	result := Expand(entries, tuesday, time.Date(2025, 1, 13, 23, 59, 0, 0, time.UTC))
	require.Len(t, result.Events, 1)
	event := result.Events[0]
	assert.Equal(t, "0_20250107", event.ID)
	assert.Equal(t, "A - Math", event.Title)
	assert.Equal(t, time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC), event.Start)
	assert.Equal(t, time.Date(2025, 1, 7, 9, 45, 0, 0, time.UTC), event.End)
	assert.Equal(t, "Math", event.SubjectClean)
	assert.Equal(t, ColorFor("A"), event.Color)
	assert.Empty(t, result.Skipped)
}

func TestExpandInclusiveUpperBound(t *testing.T) {
	entries := indexed(models.ScheduleEntry{
		TeacherName: "A", Subject: "Math1", Day: "Tuesday", Period: "2",
		TimeSlot: "09:00 to 09:45", ClassActivity: "9A",
	})

	result := Expand(entries, tuesday, nextTuesday)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "0_20250114", result.Events[1].ID)
	assert.Equal(t, time.Date(2025, 1, 14, 9, 0, 0, 0, time.UTC), result.Events[1].Start)
}

func TestExpandUpperBoundBeforeWindowClock(t *testing.T) {
	entries := indexed(models.ScheduleEntry{
		TeacherName: "A", Subject: "Math", Day: "Tue", Period: "2", TimeSlot: "09:00 to 09:45",
	})
	start := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 14, 8, 0, 0, 0, time.UTC)

	result := Expand(entries, start, end)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "0_20250107", result.Events[0].ID)
}

func TestExpandOnlyEmitsResolvedWeekday(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Subject: "Math", Day: "Thurs", Period: "1", TimeSlot: "08:00 to 08:45"},
		models.ScheduleEntry{TeacherName: "B", Subject: "Art", Day: "fri", Period: "1", TimeSlot: "08:00 to 08:45"},
	)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	result := Expand(entries, start, end)
	require.NotEmpty(t, result.Events)
	for _, event := range result.Events {
		want, _ := ResolveWeekday(event.Day)
		assert.Equal(t, want, event.Start.Weekday(), event.ID)
	}
}

func TestExpandSkipsBadRowsAndContinues(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Subject: "Math", Day: "Holiday", TimeSlot: "09:00 to 09:45"},
		models.ScheduleEntry{TeacherName: "B", Subject: "Math", Day: "Tue", TimeSlot: "morning"},
		models.ScheduleEntry{TeacherName: "C", Subject: "Math", Day: "Tue", TimeSlot: "9h to 10:00"},
		models.ScheduleEntry{TeacherName: "D", Subject: "Math", Day: "Tue", TimeSlot: "10:00 to 10:45"},
	)

	result := Expand(entries, tuesday, tuesday.Add(24*time.Hour))
	require.Len(t, result.Events, 1)
	assert.Equal(t, "D", result.Events[0].Teacher)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, models.SkipUnknownWeekday, result.Skipped[0].Reason)
	assert.Equal(t, models.SkipInvalidTimeSlot, result.Skipped[1].Reason)
	assert.Equal(t, models.SkipInvalidTimeComponent, result.Skipped[2].Reason)
	assert.Equal(t, 2, result.Skipped[2].Index)
}

func TestExpandDeduplicatesSourceRows(t *testing.T) {
	row := models.ScheduleEntry{TeacherName: "A", Subject: "Math1", Day: "Tue", Period: "1", TimeSlot: "09:00 to 09:45", ClassActivity: "9A"}
	entries := indexed(row, row)

	result := Expand(entries, tuesday, nextTuesday)
	require.Len(t, result.Events, 2)
	for _, event := range result.Events {
		assert.Equal(t, "0", event.ID[:1])
	}
}

func TestExpandDeduplicatesProjectedEvents(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Subject: "Math1", Day: "Tue", Period: "1", TimeSlot: "09:00 to 09:45", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "A", Subject: "Math2", Day: "Tuesday", Period: "1", TimeSlot: "09:00 to 09:45", ClassActivity: "9A"},
	)

	result := Expand(entries, tuesday, nextTuesday)
	// The raw rows differ only in subject suffix and day spelling, so they
	// project onto the same events and the second row contributes nothing.
	require.Len(t, result.Events, 2)
	assert.Equal(t, "0_20250107", result.Events[0].ID)
	assert.Equal(t, "0_20250114", result.Events[1].ID)
}

func TestExpandIsIdempotent(t *testing.T) {
	entries := indexed(
		models.ScheduleEntry{TeacherName: "A", Subject: "Math1", Day: "Mon", Period: "1", TimeSlot: "08:00 to 08:45", ClassActivity: "9A"},
		models.ScheduleEntry{TeacherName: "B", Subject: "Bio", Day: "Wed", Period: "2", TimeSlot: "09:00 to 09:45", ClassActivity: "9B"},
		models.ScheduleEntry{TeacherName: "C", Subject: "PE", Day: "Fri", Period: "3", TimeSlot: "10:00 to 10:45", ClassActivity: "9C"},
	)
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 2, 0)

	first := Expand(entries, start, end)
	second := Expand(entries, start, end)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Events)
}

func TestExpandEmptyWindow(t *testing.T) {
	entries := indexed(models.ScheduleEntry{TeacherName: "A", Subject: "Math", Day: "Mon", TimeSlot: "08:00 to 08:45"})

	result := Expand(entries, tuesday, tuesday.Add(-time.Hour))
	assert.Empty(t, result.Events)
	assert.NotNil(t, result.Events)
}
