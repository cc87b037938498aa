package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"

	"github.com/skillnaav/skillnaav-api/internal/models"
	"github.com/skillnaav/skillnaav-api/pkg/config"
)

const (
	defaultInternshipTitle = "Internship"
	defaultSessionLabel    = "Session"
	virtualLocation        = "Virtual"

	reminderEmailMinutes = 24 * 60
	reminderPopupMinutes = 15

	dateLayout = "2006-01-02"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)
)

// NormalizeDate reduces a time value or date-like string to YYYY-MM-DD.
// Time values are taken in UTC so they agree with their ISO-8601 string form.
func NormalizeDate(v interface{}) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.UTC().Format(dateLayout)
	case *time.Time:
		if d == nil {
			return ""
		}
		return NormalizeDate(*d)
	case string:
		s := strings.TrimSpace(d)
		if i := strings.IndexAny(s, "T "); i >= 0 {
			s = s[:i]
		}
		return s
	default:
		return ""
	}
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// IsValidTime reports whether s is a 24-hour HH:MM time with leading zeros.
func IsValidTime(s string) bool {
	return timePattern.MatchString(s)
}

// BuildEventDateTime joins a date, a time of day and a UTC offset into an RFC 3339 timestamp.
func BuildEventDateTime(date, clock, offset string) string {
	if offset == "" {
		offset = config.DefaultTimezoneOffset
	}
	return fmt.Sprintf("%sT%s:00%s", date, clock, offset)
}

// EventOptions tunes how calendar events are built.
type EventOptions struct {
	TimezoneOffset string
	ColorID        string
	Reminders      bool
	GeneratedAt    time.Time
	NewRequestID   func() string
}

// preparedEntry is a schedule entry that passed validation.
type preparedEntry struct {
	entry models.ScheduleEntry
	date  string
	start string
	end   string
}

// prepareEntry validates an entry and resolves its start and end timestamps.
func prepareEntry(entry models.ScheduleEntry, offset string) (*preparedEntry, error) {
	var missing []string
	if strings.TrimSpace(entry.Date) == "" {
		missing = append(missing, "date")
	}
	if strings.TrimSpace(entry.StartTime) == "" {
		missing = append(missing, "startTime")
	}
	if strings.TrimSpace(entry.EndTime) == "" {
		missing = append(missing, "endTime")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("Missing required fields: %s", strings.Join(missing, ", "))
	}

	date := NormalizeDate(entry.Date)
	if !IsValidDate(date) {
		return nil, fmt.Errorf("Invalid date format: %s", entry.Date)
	}
	if !IsValidTime(entry.StartTime) || !IsValidTime(entry.EndTime) {
		return nil, fmt.Errorf("Invalid time format: start=%s end=%s", entry.StartTime, entry.EndTime)
	}
	if entry.Type.RequiresLocation() && !entry.Location.HasAddress() {
		return nil, fmt.Errorf("Location address is required for %s sessions", entry.Type)
	}

	start := BuildEventDateTime(date, entry.StartTime, offset)
	end := BuildEventDateTime(date, entry.EndTime, offset)
	startAt, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("Invalid start time: %s", start)
	}
	endAt, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return nil, fmt.Errorf("Invalid end time: %s", end)
	}
	if !endAt.After(startAt) {
		return nil, errors.New("End time must be after start time")
	}

	entry.Date = date
	return &preparedEntry{entry: entry, date: date, start: start, end: end}, nil
}

// BuildCalendarEvent validates an entry and turns it into a calendar event payload.
func BuildCalendarEvent(entry models.ScheduleEntry, internshipTitle, defaultLink string, opts EventOptions) (*calendar.Event, error) {
	prepared, err := prepareEntry(entry, opts.TimezoneOffset)
	if err != nil {
		return nil, err
	}
	return buildEvent(prepared, internshipTitle, defaultLink, opts), nil
}

func buildEvent(p *preparedEntry, internshipTitle, defaultLink string, opts EventOptions) *calendar.Event {
	entry := p.entry
	if strings.TrimSpace(internshipTitle) == "" {
		internshipTitle = defaultInternshipTitle
	}
	label := strings.TrimSpace(entry.SectionSummary)
	if label == "" {
		label = defaultSessionLabel
	}
	sessionType := entry.Type
	if sessionType == "" {
		sessionType = models.SessionOnline
	}
	link := strings.TrimSpace(entry.EventLink)
	if link == "" && sessionType != models.SessionOffline {
		link = strings.TrimSpace(defaultLink)
	}

	location := virtualLocation
	if entry.Location.HasAddress() {
		location = entry.Location.Address
		if sessionType == models.SessionOffline && strings.TrimSpace(entry.Location.Name) != "" {
			location = entry.Location.Name + ", " + entry.Location.Address
		}
	}

	generatedAt := opts.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "Summary: %s\n", label)
	if entry.Instructor != "" {
		fmt.Fprintf(&desc, "Instructor: %s\n", entry.Instructor)
	}
	if link != "" {
		fmt.Fprintf(&desc, "Meeting Link: %s\n", link)
	}
	if day, err := time.Parse(dateLayout, p.date); err == nil {
		fmt.Fprintf(&desc, "Date: %s\n", day.Format("Monday, January 2, 2006"))
	}
	fmt.Fprintf(&desc, "Time: %s - %s\n", entry.StartTime, entry.EndTime)
	fmt.Fprintf(&desc, "Location: %s\n", location)
	if sessionType == models.SessionOffline && entry.Location != nil {
		fmt.Fprintf(&desc, "Address: %s\n", entry.Location.Address)
		if entry.Location.MapLink != "" {
			fmt.Fprintf(&desc, "Map: %s\n", entry.Location.MapLink)
		}
	}
	for _, sub := range entry.Events {
		fmt.Fprintf(&desc, "Activity: %s (%s)\n", sub.Description, sub.Type)
	}
	fmt.Fprintf(&desc, "\nGenerated by SkillNaav on %s", generatedAt.UTC().Format(time.RFC1123))

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", internshipTitle, label),
		Description: desc.String(),
		Location:    location,
		ColorId:     opts.ColorID,
		Start:       &calendar.EventDateTime{DateTime: p.start},
		End:         &calendar.EventDateTime{DateTime: p.end},
	}

	if opts.Reminders {
		event.Reminders = &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: reminderEmailMinutes},
				{Method: "popup", Minutes: reminderPopupMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		}
	}

	if link == "" && sessionType != models.SessionOffline && !entry.SkipConference {
		newID := opts.NewRequestID
		if newID == nil {
			newID = uuid.NewString
		}
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             newID(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	return event
}

// meetingLink extracts the conference URL of a created event.
func meetingLink(event *calendar.Event) string {
	if event == nil {
		return ""
	}
	if event.HangoutLink != "" {
		return event.HangoutLink
	}
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep != nil && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}
