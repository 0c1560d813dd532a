package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//sma-timetable-api//timetable//EN"

// CalendarItem is one event of an iCalendar feed.
type CalendarItem struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Category    string
	Color       string
	Start       time.Time
	End         time.Time
}

// ICSExporter renders calendar items as an RFC 5545 feed.
type ICSExporter struct {
	now func() time.Time
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter() *ICSExporter {
	return &ICSExporter{now: time.Now}
}

// Render produces a VCALENDAR with one VEVENT per item.
func (e *ICSExporter) Render(items []CalendarItem, name string) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	if name != "" {
		cal.SetName(name)
		cal.SetXWRCalName(name)
	}

	stamp := e.now().UTC()
	for _, item := range items {
		if item.UID == "" {
			return nil, fmt.Errorf("calendar item %q has no uid", item.Summary)
		}
		event := cal.AddEvent(item.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(item.Start)
		event.SetEndAt(item.End)
		event.SetSummary(item.Summary)
		if item.Description != "" {
			event.SetDescription(item.Description)
		}
		if item.Location != "" {
			event.SetLocation(item.Location)
		}
		if item.Category != "" {
			event.AddProperty(ics.ComponentPropertyCategories, item.Category)
		}
		if item.Color != "" {
			event.SetProperty(ics.ComponentPropertyColor, item.Color)
		}
	}
	return []byte(cal.Serialize()), nil
}
