package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

func TestICSExporterRender(t *testing.T) {
	exporter := NewICSExporter("")
	exporter.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	schedule := &models.Schedule{
		ID: "sched-1",
		Timetable: models.Timetable{
			{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", Type: models.SessionOnline,
				SectionSummary: "Intro, basics", Instructor: "Ravi", EventLink: "https://meet.test/a"},
			{Date: "2024-01-02", StartTime: "09:00", EndTime: "10:00", Type: models.SessionOffline,
				Location: &models.Location{Name: "HQ", Address: "1 Main St"}},
			{Date: "2024-01-03", StartTime: "10:00", EndTime: "09:00"},
		},
	}

	out := string(exporter.Render(schedule))
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "DTSTART:20240101T033000Z")
	assert.Contains(t, out, `SUMMARY:Internship: Intro\, basics`)
	assert.Contains(t, out, "SUMMARY:Internship: Session")
	assert.Contains(t, out, `LOCATION:HQ\, 1 Main St`)
	assert.Contains(t, out, "URL:https://meet.test/a")
	assert.Contains(t, out, `DESCRIPTION:Instructor: Ravi\nSummary: Intro\, basics\nType: online`)
	assert.NotContains(t, out, "DTSTART:20240103")
}

func TestICSExporterFoldsLongLines(t *testing.T) {
	schedule := &models.Schedule{ID: "s", Timetable: models.Timetable{
		{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", SectionSummary: strings.Repeat("a", 300)},
	}}
	out := string(NewICSExporter("+00:00").Render(schedule))

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	continuations := 0
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 75, "line %q", line)
		if strings.HasPrefix(line, " ") {
			continuations++
		}
	}
	assert.GreaterOrEqual(t, continuations, 4)

	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	assert.Contains(t, unfolded, "SUMMARY:Internship: "+strings.Repeat("a", 300)+"\r\n")
}
