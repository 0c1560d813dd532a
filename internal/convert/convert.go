// Package convert turns teacher workbooks into canonical timetable CSV files
// that the upload endpoint accepts.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/importer"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// Result describes one written CSV.
type Result struct {
	Source   string        `json:"source"`
	Sheet    string        `json:"sheet,omitempty"`
	Kind     importer.Kind `json:"kind"`
	Output   string        `json:"output"`
	Rows     int           `json:"rows"`
	Teachers []string      `json:"teachers,omitempty"`
}

// Converter writes sheets through the CSV exporter.
type Converter struct {
	csv    *export.CSVExporter
	logger *zap.Logger
}

// New builds a converter.
func New(logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{csv: export.NewCSVExporter(), logger: logger}
}

// SplitFile writes every non-empty sheet of path to outDir as
// <base>_<sheet>_<kind>.csv. Schedule and teacher-block sheets become
// canonical timetable rows, rosters keep their own columns and unknown sheets
// are copied as-is. A failing sheet is logged and skipped.
func (c *Converter) SplitFile(path, outDir string) ([]Result, error) {
	sheets, err := readSheets(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	results := make([]Result, 0, len(sheets))
	for _, sheet := range sheets {
		if len(sheet.Rows) == 0 {
			c.logger.Info("skipping empty sheet", zap.String("file", path), zap.String("sheet", sheet.Name))
			continue
		}
		result, err := c.splitSheet(path, base, outDir, sheet)
		if err != nil {
			c.logger.Warn("sheet conversion failed", zap.String("file", path), zap.String("sheet", sheet.Name), zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

func (c *Converter) splitSheet(path, base, outDir string, sheet importer.Sheet) (Result, error) {
	kind := importer.Classify(sheet.Rows)
	var (
		content  []byte
		rows     int
		teachers []string
		err      error
	)
	switch kind {
	case importer.KindSchedule, importer.KindTeacherBlocks:
		var entries []models.ScheduleEntry
		if kind == importer.KindSchedule {
			entries, err = importer.ScheduleFromRows(sheet.Rows)
			if err != nil {
				return Result{}, err
			}
		} else {
			entries = importer.ParseTeacherBlocks(sheet.Rows)
		}
		content, err = c.renderSchedule(entries)
		rows = len(entries)
		teachers = teacherNames(entries)
	case importer.KindRoster:
		header, body := importer.RosterGrid(sheet.Rows)
		content, err = c.csv.RenderGrid(header, body)
		rows = len(body)
	default:
		content, err = c.csv.RenderGrid(nil, sheet.Rows)
		rows = len(sheet.Rows)
	}
	if err != nil {
		return Result{}, err
	}

	output := filepath.Join(outDir, fmt.Sprintf("%s_%s_%s.csv", base, safeName(sheet.Name), kind))
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", output, err)
	}
	c.logger.Info("sheet converted",
		zap.String("sheet", sheet.Name),
		zap.String("kind", string(kind)),
		zap.String("output", output),
		zap.Int("rows", rows),
	)
	return Result{Source: path, Sheet: sheet.Name, Kind: kind, Output: output, Rows: rows, Teachers: teachers}, nil
}

// Merge flattens the schedule sheets of every input into one canonical CSV.
// Inputs without schedule content are logged and skipped.
func (c *Converter) Merge(paths []string, output string) (Result, error) {
	entries := make([]models.ScheduleEntry, 0)
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return Result{}, fmt.Errorf("open %s: %w", path, err)
		}
		parsed, err := importer.ParseSchedule(path, file)
		_ = file.Close()
		if err != nil {
			c.logger.Warn("no timetable rows", zap.String("file", path), zap.Error(err))
			continue
		}
		c.logger.Info("rows collected", zap.String("file", path), zap.Int("rows", len(parsed)))
		entries = append(entries, parsed...)
	}
	if len(entries) == 0 {
		return Result{}, importer.ErrEmptyFile
	}

	content, err := c.renderSchedule(entries)
	if err != nil {
		return Result{}, err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", output, err)
	}
	return Result{Kind: importer.KindSchedule, Output: output, Rows: len(entries), Teachers: teacherNames(entries)}, nil
}

// ExpandInputs resolves directories to the .csv, .xlsx and .xlsm files they
// contain, sorted by name.
func ExpandInputs(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		found := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if _, err := importer.DetectFormat(entry.Name()); err == nil {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}

func (c *Converter) renderSchedule(entries []models.ScheduleEntry) ([]byte, error) {
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.Record())
	}
	return c.csv.Render(export.Dataset{Headers: models.ScheduleColumns, Rows: rows})
}

func readSheets(path string) ([]importer.Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck
	return importer.ReadSheets(path, file)
}

func teacherNames(entries []models.ScheduleEntry) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, entry := range entries {
		if _, ok := seen[entry.TeacherName]; ok {
			continue
		}
		seen[entry.TeacherName] = struct{}{}
		names = append(names, entry.TeacherName)
	}
	return names
}

var unsafeNameChars = strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")

func safeName(name string) string {
	return unsafeNameChars.Replace(strings.TrimSpace(name))
}
