// Package importer turns uploaded spreadsheets into schedule entries and
// teacher rosters. CSV and XLSX workbooks are read into plain cell grids
// first; each grid is then classified and parsed on its own.
package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMissingColumns is returned when no sheet carries the schedule header
	// or teacher blocks.
	ErrMissingColumns = errors.New("schedule header not found")
	// ErrEmptyFile is returned when the upload has no rows at all.
	ErrEmptyFile = errors.New("file has no rows")
)

// Format identifies a supported upload encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the reader from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

// Sheet is one named grid of trimmed cell values.
type Sheet struct {
	Name string
	Rows [][]string
}

// ReadSheets reads every sheet of the file. CSV files yield a single sheet.
func ReadSheets(filename string, r io.Reader) ([]Sheet, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	var sheets []Sheet
	switch format {
	case FormatCSV:
		sheet, err := ReadCSV(r)
		if err != nil {
			return nil, err
		}
		sheet.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		sheets = []Sheet{sheet}
	case FormatXLSX:
		sheets, err = ReadXLSX(r)
		if err != nil {
			return nil, err
		}
	}

	for _, sheet := range sheets {
		if len(sheet.Rows) > 0 {
			return sheets, nil
		}
	}
	return nil, ErrEmptyFile
}

// ParseSchedule reads a schedule upload. Sheets with the canonical header
// are read as rows; sheets with teacher blocks are flattened into rows.
// Other sheets are ignored.
func ParseSchedule(filename string, r io.Reader) ([]models.ScheduleEntry, error) {
	sheets, err := ReadSheets(filename, r)
	if err != nil {
		return nil, err
	}

	entries := make([]models.ScheduleEntry, 0)
	matched := false
	for _, sheet := range sheets {
		switch Classify(sheet.Rows) {
		case KindSchedule:
			rows, err := ScheduleFromRows(sheet.Rows)
			if err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
			entries = append(entries, rows...)
			matched = true
		case KindTeacherBlocks:
			entries = append(entries, ParseTeacherBlocks(sheet.Rows)...)
			matched = true
		}
	}
	if !matched {
		return nil, ErrMissingColumns
	}
	return entries, nil
}

// ParseRoster reads a teacher roster upload from the first sheet that looks
// like a roster, falling back to the first non-empty sheet.
func ParseRoster(filename string, r io.Reader) ([]models.TeacherRecord, error) {
	sheets, err := ReadSheets(filename, r)
	if err != nil {
		return nil, err
	}
	for _, sheet := range sheets {
		if Classify(sheet.Rows) == KindRoster {
			return RosterFromRows(sheet.Rows), nil
		}
	}
	for _, sheet := range sheets {
		if len(sheet.Rows) > 0 {
			return RosterFromRows(sheet.Rows), nil
		}
	}
	return nil, ErrEmptyFile
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
