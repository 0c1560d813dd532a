package importer

import (
	"strconv"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const (
	teacherMarker  = "Name of the Teacher:"
	subjectMarker  = "Subject"
	timingsMarker  = "Timings"
	unknownTeacher = "UNKNOWN"
)

// blockDays are the exact day labels used by per-teacher sheets.
var blockDays = []string{"Mon", "Tue", "Wed", "Thurs", "Fri", "Sat"}

// ParseTeacherBlocks flattens per-teacher grids into schedule rows. Each
// block opens with a "Name of the Teacher:" line, carries a "Subject" line
// and a "Timings" row, then one row per day whose cells name the class for
// that period. Blank cells and cells starting with "*" are free periods.
// Period is the zero-based column position after the day label.
func ParseTeacherBlocks(rows [][]string) []models.ScheduleEntry {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := joinLine(row); line != "" {
			lines = append(lines, line)
		}
	}

	entries := make([]models.ScheduleEntry, 0)
	for _, block := range splitBlocks(lines) {
		entries = append(entries, parseBlock(block)...)
	}
	return entries
}

func splitBlocks(lines []string) [][]string {
	blocks := make([][]string, 0)
	current := make([]string, 0)
	for _, line := range lines {
		if strings.HasPrefix(line, teacherMarker) && len(current) > 0 {
			blocks = append(blocks, current)
			current = make([]string, 0)
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func parseBlock(block []string) []models.ScheduleEntry {
	teacher := unknownTeacher
	subject := ""
	var timings []string
	var dayRows []string

	for _, line := range block {
		switch {
		case strings.HasPrefix(line, teacherMarker):
			teacher = markerValue(line)
		case strings.HasPrefix(line, subjectMarker):
			subject = markerValue(line)
		case strings.HasPrefix(line, timingsMarker):
			parts := strings.Split(line, ",")
			timings = make([]string, 0, len(parts))
			for _, part := range parts[1:] {
				timings = append(timings, strings.TrimSpace(part))
			}
		case startsWithDay(line):
			dayRows = append(dayRows, line)
		}
	}

	entries := make([]models.ScheduleEntry, 0)
	for _, line := range dayRows {
		parts := strings.Split(line, ",")
		day := strings.TrimSpace(parts[0])
		if !isBlockDay(day) {
			continue
		}
		for idx, raw := range parts[1:] {
			class := strings.TrimSpace(raw)
			if class == "" || strings.HasPrefix(class, "*") {
				continue
			}
			slot := ""
			if idx < len(timings) {
				slot = timings[idx]
			}
			entries = append(entries, models.ScheduleEntry{
				TeacherName:   teacher,
				Subject:       subject,
				Day:           day,
				Period:        strconv.Itoa(idx),
				TimeSlot:      slot,
				ClassActivity: class,
			})
		}
	}
	return entries
}

// markerValue returns the text after the first colon with commas removed.
func markerValue(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
}

func startsWithDay(line string) bool {
	for _, day := range blockDays {
		if strings.HasPrefix(line, day) {
			return true
		}
	}
	return false
}

func isBlockDay(day string) bool {
	for _, candidate := range blockDays {
		if day == candidate {
			return true
		}
	}
	return false
}

func joinLine(row []string) string {
	return strings.TrimSpace(strings.Join(row, ","))
}
