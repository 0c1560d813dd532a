package importer

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// headerIndex locates every canonical column in row, ignoring case and
// surrounding space.
func headerIndex(row []string) (map[string]int, bool) {
	if len(row) == 0 {
		return nil, false
	}
	positions := make(map[string]int, len(row))
	for i, value := range row {
		positions[strings.ToLower(strings.TrimSpace(value))] = i
	}
	index := make(map[string]int, len(models.ScheduleColumns))
	for _, column := range models.ScheduleColumns {
		pos, ok := positions[strings.ToLower(column)]
		if !ok {
			return nil, false
		}
		index[column] = pos
	}
	return index, true
}

// ScheduleFromRows maps a grid whose first non-blank row is the canonical
// header. Blank rows are skipped; short rows read missing cells as empty.
func ScheduleFromRows(rows [][]string) ([]models.ScheduleEntry, error) {
	start := -1
	for i, row := range rows {
		if !blankRow(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrEmptyFile
	}
	index, ok := headerIndex(rows[start])
	if !ok {
		return nil, fmt.Errorf("columns %s: %w", strings.Join(models.ScheduleColumns, ", "), ErrMissingColumns)
	}

	entries := make([]models.ScheduleEntry, 0, len(rows)-start-1)
	for _, row := range rows[start+1:] {
		if blankRow(row) {
			continue
		}
		record := make(map[string]string, len(index))
		for column, pos := range index {
			record[column] = cell(row, pos)
		}
		entries = append(entries, models.ScheduleEntryFromRecord(record))
	}
	return entries, nil
}
