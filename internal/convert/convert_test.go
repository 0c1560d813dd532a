package convert

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/sma-timetable-api/internal/importer"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

func writeWorkbook(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	require.NoError(t, f.SetSheetName("Sheet1", "Rao"))
	require.NoError(t, f.SetSheetRow("Rao", "A1", &[]interface{}{"Name of the Teacher: Rao"}))
	require.NoError(t, f.SetSheetRow("Rao", "A2", &[]interface{}{"Subject : Biology"}))
	require.NoError(t, f.SetSheetRow("Rao", "A3", &[]interface{}{"Timings", "8:00 to 8:45", "8:45 to 9:30"}))
	require.NoError(t, f.SetSheetRow("Rao", "A4", &[]interface{}{"Mon", "XII A", "*LIB"}))
	require.NoError(t, f.SetSheetRow("Rao", "A5", &[]interface{}{"Fri", "", "XI B"}))

	_, err := f.NewSheet("Staff List")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Staff List", "A1", &[]interface{}{"S.NO", "NAME OF THE TEACHER"}))
	require.NoError(t, f.SetSheetRow("Staff List", "A2", &[]interface{}{1, "Rao"}))

	_, err = f.NewSheet("Empty")
	require.NoError(t, err)

	path := filepath.Join(dir, "school.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close() //nolint:errcheck
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestSplitFileWritesOneCSVPerSheet(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, dir)
	out := filepath.Join(dir, "out")

	results, err := New(nil).SplitFile(path, out)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, importer.KindTeacherBlocks, results[0].Kind)
	assert.Equal(t, filepath.Join(out, "school_Rao_teacher_blocks.csv"), results[0].Output)
	assert.Equal(t, 2, results[0].Rows)
	assert.Equal(t, []string{"Rao"}, results[0].Teachers)

	schedule := readCSV(t, results[0].Output)
	assert.Equal(t, models.ScheduleColumns, schedule[0])
	assert.Equal(t, []string{"Rao", "Biology", "Mon", "0", "8:00 to 8:45", "XII A"}, schedule[1])
	assert.Equal(t, []string{"Rao", "Biology", "Fri", "1", "8:45 to 9:30", "XI B"}, schedule[2])

	assert.Equal(t, importer.KindRoster, results[1].Kind)
	assert.Equal(t, filepath.Join(out, "school_Staff_List_teachers_list.csv"), results[1].Output)
	roster := readCSV(t, results[1].Output)
	assert.Equal(t, []string{"S.NO", "NAME OF THE TEACHER"}, roster[0])
	assert.Equal(t, []string{"1", "Rao"}, roster[1])
}

func TestMergeCombinesInputs(t *testing.T) {
	dir := t.TempDir()
	workbook := writeWorkbook(t, dir)
	plain := filepath.Join(dir, "extra.csv")
	require.NoError(t, os.WriteFile(plain, []byte("Teacher Name,Subject,Day,Period,Time Slot,Class/Activity\nLee,Art,Tue,3,10:00 to 10:45,8C\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("skip"), 0o644))

	inputs, err := ExpandInputs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{plain, workbook}, inputs)

	output := filepath.Join(dir, "merged", "final_timetable.csv")
	result, err := New(nil).Merge(inputs, output)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, []string{"Lee", "Rao"}, result.Teachers)

	records := readCSV(t, output)
	require.Len(t, records, 4)
	assert.Equal(t, "Lee", records[1][0])
}

func TestMergeWithoutScheduleRows(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.csv")
	require.NoError(t, os.WriteFile(notes, []byte("hello\n"), 0o644))

	_, err := New(nil).Merge([]string{notes}, filepath.Join(dir, "out.csv"))
	assert.ErrorIs(t, err, importer.ErrEmptyFile)
}
