package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillnaav/skillnaav-api/internal/models"
)

func TestIsValidTimeAcceptsFullDay(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			clock := fmt.Sprintf("%02d:%02d", h, m)
			assert.True(t, IsValidTime(clock), clock)
		}
	}
	for _, bad := range []string{"24:00", "9:00", "12:60", "", "09:00:00", "ab:cd"} {
		assert.False(t, IsValidTime(bad), bad)
	}
}

func TestNormalizeDateAgreesForTimeAndString(t *testing.T) {
	instant := time.Date(2024, 3, 9, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", NormalizeDate(instant))
	assert.Equal(t, NormalizeDate(instant), NormalizeDate(instant.Format("2006-01-02T15:04:05Z")))
	assert.Equal(t, "2024-03-09", NormalizeDate("2024-03-09"))
	assert.Equal(t, "2024-03-09", NormalizeDate(&instant))
	assert.Equal(t, "", NormalizeDate(42))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate("2023-02-29"))
	assert.False(t, IsValidDate("2024-1-01"))
	assert.False(t, IsValidDate("01/01/2024"))
}

func TestBuildEventDateTime(t *testing.T) {
	assert.Equal(t, "2024-01-01T09:00:00+05:30", BuildEventDateTime("2024-01-01", "09:00", ""))
	assert.Equal(t, "2024-01-01T09:00:00+00:00", BuildEventDateTime("2024-01-01", "09:00", "+00:00"))
}

func TestBuildCalendarEventOnlineWithoutLinkRequestsConference(t *testing.T) {
	entry := models.ScheduleEntry{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", Type: models.SessionOnline}

	event, err := BuildCalendarEvent(entry, "Backend Intern", "", EventOptions{
		Reminders:    true,
		ColorID:      "9",
		NewRequestID: func() string { return "req-1" },
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Intern - Session", event.Summary)
	assert.Equal(t, "Virtual", event.Location)
	assert.Equal(t, "2024-01-01T09:00:00+05:30", event.Start.DateTime)
	assert.Equal(t, "2024-01-01T10:00:00+05:30", event.End.DateTime)
	require.NotNil(t, event.ConferenceData)
	assert.Equal(t, "req-1", event.ConferenceData.CreateRequest.RequestId)
	assert.Equal(t, "hangoutsMeet", event.ConferenceData.CreateRequest.ConferenceSolutionKey.Type)
	require.NotNil(t, event.Reminders)
	require.Len(t, event.Reminders.Overrides, 2)
	assert.Equal(t, int64(1440), event.Reminders.Overrides[0].Minutes)
	assert.Equal(t, int64(15), event.Reminders.Overrides[1].Minutes)
	assert.Equal(t, "9", event.ColorId)
}

func TestBuildCalendarEventUsesDefaultLink(t *testing.T) {
	entry := models.ScheduleEntry{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", Type: models.SessionHybrid,
		SectionSummary: "Kickoff", Location: &models.Location{Address: "1 Main St"}}

	event, err := BuildCalendarEvent(entry, "", "https://meet.test/default", EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Internship - Kickoff", event.Summary)
	assert.Equal(t, "1 Main St", event.Location)
	assert.Nil(t, event.ConferenceData)
	assert.Nil(t, event.Reminders)
	assert.Contains(t, event.Description, "Meeting Link: https://meet.test/default")
}

func TestBuildCalendarEventOfflineAddsAddressAndMap(t *testing.T) {
	entry := models.ScheduleEntry{Date: "2024-01-02", StartTime: "09:00", EndTime: "10:00", Type: models.SessionOffline,
		Location: &models.Location{Name: "HQ", Address: "1 Main St", MapLink: "https://maps.test/hq"}}

	event, err := BuildCalendarEvent(entry, "Intern", "https://meet.test/default", EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "HQ, 1 Main St", event.Location)
	assert.Contains(t, event.Description, "Address: 1 Main St")
	assert.Contains(t, event.Description, "Map: https://maps.test/hq")
	assert.NotContains(t, event.Description, "Meeting Link")
	assert.Nil(t, event.ConferenceData)
}

func TestBuildCalendarEventSkipConference(t *testing.T) {
	entry := models.ScheduleEntry{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", SkipConference: true}
	event, err := BuildCalendarEvent(entry, "Intern", "", EventOptions{})
	require.NoError(t, err)
	assert.Nil(t, event.ConferenceData)
}

func TestBuildCalendarEventRejections(t *testing.T) {
	cases := map[string]struct {
		entry models.ScheduleEntry
		want  string
	}{
		"missing fields": {models.ScheduleEntry{Date: "2024-01-01"}, "Missing required fields: startTime, endTime"},
		"bad date":       {models.ScheduleEntry{Date: "2024-13-01", StartTime: "09:00", EndTime: "10:00"}, "Invalid date format"},
		"bad time":       {models.ScheduleEntry{Date: "2024-01-01", StartTime: "9:00", EndTime: "10:00"}, "Invalid time format"},
		"end before":     {models.ScheduleEntry{Date: "2024-01-01", StartTime: "10:00", EndTime: "09:00"}, "End time must be after start time"},
		"equal times":    {models.ScheduleEntry{Date: "2024-01-01", StartTime: "10:00", EndTime: "10:00"}, "End time must be after start time"},
		"no address":     {models.ScheduleEntry{Date: "2024-01-01", StartTime: "09:00", EndTime: "10:00", Type: models.SessionOffline}, "Location address is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := BuildCalendarEvent(tc.entry, "Intern", "", EventOptions{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
