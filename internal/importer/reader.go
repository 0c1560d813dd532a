package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCSV reads a CSV grid. Ragged rows are accepted as is.
func ReadCSV(r io.Reader) (Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows := make([][]string, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, trimCells(record))
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return Sheet{Rows: rows}, nil
}

// ReadXLSX reads every sheet of a workbook in tab order.
func ReadXLSX(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close() //nolint:errcheck

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		trimmed := make([][]string, 0, len(rows))
		for _, row := range rows {
			trimmed = append(trimmed, trimCells(row))
		}
		sheets = append(sheets, Sheet{Name: name, Rows: trimmed})
	}
	return sheets, nil
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, value := range row {
		out[i] = strings.TrimSpace(value)
	}
	return out
}
