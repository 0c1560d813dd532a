package importer

import "strings"

// Kind is the detected layout of a sheet.
type Kind string

const (
	KindSchedule      Kind = "timetable"
	KindTeacherBlocks Kind = "teacher_blocks"
	KindRoster        Kind = "teachers_list"
	KindUnknown       Kind = "unknown"
)

const classifyProbeRows = 10

// Classify detects the sheet layout. A canonical header in the first
// non-blank row wins, then teacher blocks, then roster markers within the
// first rows.
func Classify(rows [][]string) Kind {
	if _, ok := headerIndex(firstNonBlank(rows)); ok {
		return KindSchedule
	}
	for _, row := range rows {
		if strings.HasPrefix(joinLine(row), teacherMarker) {
			return KindTeacherBlocks
		}
	}

	probe := rows
	if len(probe) > classifyProbeRows {
		probe = probe[:classifyProbeRows]
	}
	var sample strings.Builder
	for _, row := range probe {
		sample.WriteString(strings.ToUpper(strings.Join(row, " ")))
		sample.WriteByte('\n')
	}
	text := sample.String()
	if strings.Contains(text, "TEACHER") && (strings.Contains(text, "S.NO") || strings.Contains(text, "SL NO")) {
		return KindRoster
	}
	return KindUnknown
}

func firstNonBlank(rows [][]string) []string {
	for _, row := range rows {
		if !blankRow(row) {
			return row
		}
	}
	return nil
}
