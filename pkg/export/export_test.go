package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Teacher Name", "Class/Activity"},
		Rows: []map[string]string{
			{"Teacher Name": "Alice", "Class/Activity": "9A"},
			{"Teacher Name": "Bob, Jr."},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Teacher Name,Class/Activity\nAlice,9A\n\"Bob, Jr.\",\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Headers: []string{"Day", "Period"},
		Rows:    []map[string]string{{"Day": "Mon", "Period": "1"}},
	}, "Weekly timetable")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestICSExporterRender(t *testing.T) {
	exporter := NewICSExporter()
	exporter.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	start := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	out, err := exporter.Render([]CalendarItem{{
		UID:      "0_20250107",
		Summary:  "A - Math",
		Location: "9A",
		Category: "Math",
		Color:    "#FF6B6B",
		Start:    start,
		End:      start.Add(45 * time.Minute),
	}}, "Timetable")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(string(out)))
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "0_20250107", events[0].Id())
	assert.Equal(t, "A - Math", events[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "20250107T090000Z", events[0].GetProperty(ics.ComponentPropertyDtStart).Value)
}

func TestICSExporterRequiresUID(t *testing.T) {
	_, err := NewICSExporter().Render([]CalendarItem{{Summary: "x"}}, "")
	assert.Error(t, err)
}
