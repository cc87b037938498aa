package service

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/skillnaav/skillnaav-api/internal/models"
	"github.com/skillnaav/skillnaav-api/pkg/config"
)

const icsProductID = "-//SkillNaav//Internship Schedule//EN"

// ICSExporter renders stored timetables as iCalendar files.
type ICSExporter struct {
	offset string
	now    func() time.Time
}

// NewICSExporter builds an exporter that reads entry times in the given UTC offset.
func NewICSExporter(offset string) *ICSExporter {
	if offset == "" {
		offset = config.DefaultTimezoneOffset
	}
	return &ICSExporter{offset: offset, now: time.Now}
}

// Render writes one VEVENT per valid entry. Entries that fail validation are skipped.
func (e *ICSExporter) Render(schedule *models.Schedule) []byte {
	cal := ics.NewCalendar()
	cal.SetProductId(icsProductID)
	cal.SetMethod(ics.MethodPublish)

	stamp := e.now().UTC()
	for i, entry := range schedule.Timetable {
		prepared, err := prepareEntry(entry, e.offset)
		if err != nil {
			continue
		}
		start, _ := time.Parse(time.RFC3339, prepared.start)
		end, _ := time.Parse(time.RFC3339, prepared.end)

		label := entry.SectionSummary
		if label == "" {
			label = defaultSessionLabel
		}
		var desc strings.Builder
		if entry.Instructor != "" {
			fmt.Fprintf(&desc, "Instructor: %s\n", entry.Instructor)
		}
		if entry.SectionSummary != "" {
			fmt.Fprintf(&desc, "Summary: %s\n", entry.SectionSummary)
		}
		fmt.Fprintf(&desc, "Type: %s", entryTypeOrDefault(entry.Type))

		event := cal.AddEvent(fmt.Sprintf("%s-%d@skillnaav.com", schedule.ID, i))
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary("Internship: " + label)
		event.SetDescription(desc.String())
		if entry.Type.RequiresLocation() && entry.Location != nil {
			event.SetLocation(entry.Location.Name + ", " + entry.Location.Address)
		}
		if entry.EventLink != "" {
			event.SetURL(entry.EventLink)
		}
	}
	return []byte(cal.Serialize())
}

func entryTypeOrDefault(t models.SessionType) models.SessionType {
	if t == "" {
		return models.SessionOnline
	}
	return t
}
