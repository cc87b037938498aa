package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/skillnaav/skillnaav-api/internal/dto"
	"github.com/skillnaav/skillnaav-api/internal/models"
	appErrors "github.com/skillnaav/skillnaav-api/pkg/errors"
)

const (
	msgSelectDays       = "Select at least one day"
	msgLocationRequired = "Location address is required for offline/hybrid days"
)

func scheduleError(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrScheduleValidation, fmt.Sprintf(format, args...))
}

// parseScheduleDate accepts YYYY-MM-DD or any ISO-8601 timestamp and returns midnight UTC.
func parseScheduleDate(raw string) (time.Time, bool) {
	date := NormalizeDate(raw)
	if !IsValidDate(date) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, ok := parseScheduleDate(startRaw)
	if !ok {
		return time.Time{}, time.Time{}, scheduleError("Invalid start date: %s", startRaw)
	}
	end, ok := parseScheduleDate(endRaw)
	if !ok {
		return time.Time{}, time.Time{}, scheduleError("Invalid end date: %s", endRaw)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, scheduleError("Start date must not be after end date")
	}
	return start, end, nil
}

func resolveType(t models.SessionType) (models.SessionType, error) {
	if t == "" {
		return models.SessionOnline, nil
	}
	normalized := models.SessionType(strings.ToLower(strings.TrimSpace(string(t))))
	if !normalized.Valid() {
		return "", scheduleError("Invalid session type: %s", t)
	}
	return normalized, nil
}

func copyLocation(l *models.Location) *models.Location {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// BuildTimetable expands a date range into one entry per selected weekday.
// Overrides are looked up by "Day - N" where N counts generated entries from 1.
func BuildTimetable(req dto.BuildTimetableRequest) (models.Timetable, error) {
	if len(req.SelectedDays) == 0 {
		return nil, scheduleError(msgSelectDays)
	}
	defaultType, err := resolveType(req.DefaultType)
	if err != nil {
		return nil, err
	}
	if defaultType.RequiresLocation() && !req.DefaultLocation.HasAddress() {
		return nil, scheduleError(msgLocationRequired)
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(req.SelectedDays))
	for _, day := range req.SelectedDays {
		selected[strings.ToLower(strings.TrimSpace(day))] = true
	}

	defaultLocation := copyLocation(req.DefaultLocation)
	if defaultType == models.SessionOnline {
		defaultLocation = nil
	}

	timetable := models.Timetable{}
	counter := 1
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !selected[strings.ToLower(d.Weekday().String())] {
			continue
		}
		key := fmt.Sprintf("Day - %d", counter)
		override := req.Overrides[key]

		entryType := defaultType
		if override.Type != "" {
			if entryType, err = resolveType(override.Type); err != nil {
				return nil, scheduleError("%s: invalid session type %s", key, override.Type)
			}
		}

		var location *models.Location
		if entryType.RequiresLocation() {
			location = overrideLocation(override, req.DefaultLocation)
			if !location.HasAddress() {
				return nil, scheduleError("%s: %s", key, msgLocationRequired)
			}
		} else {
			location = copyLocation(defaultLocation)
		}

		link := req.DefaultEventLink
		if override.Link != "" {
			link = override.Link
		}

		timetable = append(timetable, models.ScheduleEntry{
			Date:           d.Format(dateLayout),
			Day:            d.Weekday().String(),
			StartTime:      req.DefaultStartTime,
			EndTime:        req.DefaultEndTime,
			EventLink:      link,
			SectionSummary: override.Summary,
			Instructor:     override.Instructor,
			Type:           entryType,
			Location:       location,
			Events:         []models.SubEvent{},
		})
		counter++
	}
	return timetable, nil
}

// overrideLocation builds the venue of an in-person override. A single location string
// fills both name and address.
func overrideLocation(o dto.DayOverride, fallback *models.Location) *models.Location {
	if s := strings.TrimSpace(o.Location); s != "" {
		return &models.Location{Name: s, Address: s}
	}
	if strings.TrimSpace(o.Address) != "" {
		loc := &models.Location{Name: o.LocationName, Address: o.Address, MapLink: o.MapLink}
		if fallback != nil {
			if loc.Name == "" {
				loc.Name = fallback.Name
			}
			if loc.MapLink == "" {
				loc.MapLink = fallback.MapLink
			}
		}
		return loc
	}
	return copyLocation(fallback)
}

// AddManualEntry inserts one entry for date using the defaults, ignoring the weekday filter.
// The returned timetable is a sorted copy.
func AddManualEntry(timetable models.Timetable, defaults dto.ScheduleDefaults, rawDate string) (models.Timetable, error) {
	start, end, err := parseRange(defaults.StartDate, defaults.EndDate)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(rawDate) == "" {
		return nil, scheduleError("Pick a date")
	}
	day, ok := parseScheduleDate(rawDate)
	if !ok {
		return nil, scheduleError("Invalid date: %s", rawDate)
	}
	if day.Before(start) || day.After(end) {
		return nil, scheduleError("Date must be between %s and %s", start.Format(dateLayout), end.Format(dateLayout))
	}
	entryType, err := resolveType(defaults.DefaultType)
	if err != nil {
		return nil, err
	}
	if entryType.RequiresLocation() && !defaults.DefaultLocation.HasAddress() {
		return nil, scheduleError(msgLocationRequired)
	}

	date := day.Format(dateLayout)
	for _, existing := range timetable {
		if NormalizeDate(existing.Date) == date {
			return nil, scheduleError("An entry for %s already exists", date)
		}
	}

	var location *models.Location
	if entryType.RequiresLocation() {
		location = copyLocation(defaults.DefaultLocation)
	}

	out := make(models.Timetable, 0, len(timetable)+1)
	out = append(out, timetable...)
	out = append(out, models.ScheduleEntry{
		Date:      date,
		Day:       day.Weekday().String(),
		StartTime: defaults.DefaultStartTime,
		EndTime:   defaults.DefaultEndTime,
		EventLink: defaults.DefaultEventLink,
		Type:      entryType,
		Location:  location,
		Events:    []models.SubEvent{},
	})
	sort.SliceStable(out, func(i, j int) bool {
		return NormalizeDate(out[i].Date) < NormalizeDate(out[j].Date)
	})
	return out, nil
}

// AddSubEvent appends an activity to the entry dated req.Date. The input is not modified.
func AddSubEvent(timetable models.Timetable, req dto.SubEventRequest) (models.Timetable, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, scheduleError("Sub-event description is required")
	}
	eventType, err := resolveType(req.Type)
	if err != nil {
		return nil, err
	}
	if eventType.RequiresLocation() && !req.Location.HasAddress() {
		return nil, scheduleError(msgLocationRequired)
	}

	date := NormalizeDate(req.Date)
	idx := -1
	for i, entry := range timetable {
		if NormalizeDate(entry.Date) == date {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, scheduleError("No entry exists for %s", req.Date)
	}

	var location *models.Location
	if eventType.RequiresLocation() {
		location = copyLocation(req.Location)
	}

	out := make(models.Timetable, len(timetable))
	copy(out, timetable)
	events := make([]models.SubEvent, 0, len(out[idx].Events)+1)
	events = append(events, out[idx].Events...)
	out[idx].Events = append(events, models.SubEvent{
		Description: req.Description,
		Type:        eventType,
		Location:    location,
	})
	return out, nil
}
