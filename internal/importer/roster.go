package importer

import (
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var rosterHeaders = []string{"S.NO", "NAME OF THE TEACHER", "TEACHER NAME", "SL NO"}

// RosterFromRows reads roster records keyed by the header row. The header is
// the first of the leading rows mentioning a known roster column; without
// one the first non-blank row is used.
func RosterFromRows(rows [][]string) []models.TeacherRecord {
	columns, body := RosterGrid(rows)
	records := make([]models.TeacherRecord, 0, len(body))
	for _, row := range body {
		record := make(models.TeacherRecord, len(columns))
		for i, column := range columns {
			if column == "" {
				continue
			}
			record[column] = cell(row, i)
		}
		records = append(records, record)
	}
	return records
}

// RosterGrid splits a roster sheet into its header and the non-blank rows
// below it, keeping column order.
func RosterGrid(rows [][]string) ([]string, [][]string) {
	header := rosterHeaderRow(rows)
	if header < 0 {
		return nil, nil
	}
	body := make([][]string, 0, len(rows)-header-1)
	for _, row := range rows[header+1:] {
		if !blankRow(row) {
			body = append(body, row)
		}
	}
	return rows[header], body
}

func rosterHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > classifyProbeRows {
		limit = classifyProbeRows
	}
	for i := 0; i < limit; i++ {
		for _, value := range rows[i] {
			upper := strings.ToUpper(value)
			for _, header := range rosterHeaders {
				if strings.Contains(upper, header) {
					return i
				}
			}
		}
	}
	for i, row := range rows {
		if !blankRow(row) {
			return i
		}
	}
	return -1
}
