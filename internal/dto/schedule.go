package dto

import "github.com/skillnaav/skillnaav-api/internal/models"

// ScheduleDefaults holds the range and fallback values shared by every generated entry.
type ScheduleDefaults struct {
	StartDate        string             `json:"startDate" validate:"required"`
	EndDate          string             `json:"endDate" validate:"required"`
	DefaultStartTime string             `json:"defaultStartTime"`
	DefaultEndTime   string             `json:"defaultEndTime"`
	DefaultEventLink string             `json:"defaultEventLink"`
	DefaultType      models.SessionType `json:"defaultType" validate:"omitempty,oneof=online offline hybrid"`
	DefaultLocation  *models.Location   `json:"defaultLocation"`
}

// DayOverride replaces defaults for one generated day, keyed by "Day - N".
// Location is a single free-text venue; LocationName, Address and MapLink are the structured form.
type DayOverride struct {
	Link         string             `json:"link"`
	Type         models.SessionType `json:"type"`
	Location     string             `json:"location"`
	LocationName string             `json:"locationName"`
	Address      string             `json:"address"`
	MapLink      string             `json:"mapLink"`
	Summary      string             `json:"summary"`
	Instructor   string             `json:"instructor"`
}

// BuildTimetableRequest expands a date range into dated entries.
type BuildTimetableRequest struct {
	ScheduleDefaults
	SelectedDays []string               `json:"selectedDays"`
	Overrides    map[string]DayOverride `json:"overrides"`
}

// SubEventRequest attaches an extra activity to the entry with the given date.
type SubEventRequest struct {
	Date        string             `json:"date" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Type        models.SessionType `json:"type" validate:"omitempty,oneof=online offline hybrid"`
	Location    *models.Location   `json:"location"`
}

// PreviewScheduleRequest builds a timetable and applies manual additions without saving.
type PreviewScheduleRequest struct {
	BuildTimetableRequest
	ManualDates []string          `json:"manualDates"`
	SubEvents   []SubEventRequest `json:"subEvents" validate:"omitempty,dive"`
}

// UpsertScheduleRequest is the payload of the save-schedule endpoint.
type UpsertScheduleRequest struct {
	InternshipID     string                 `json:"internshipId" validate:"required"`
	PartnerID        string                 `json:"partnerId" validate:"required"`
	StartDate        string                 `json:"startDate" validate:"required"`
	EndDate          string                 `json:"endDate" validate:"required"`
	WorkHours        string                 `json:"workHours" validate:"required"`
	DefaultStartTime string                 `json:"defaultStartTime"`
	DefaultEndTime   string                 `json:"defaultEndTime"`
	DefaultEventLink string                 `json:"defaultEventLink"`
	DefaultLocation  *models.Location       `json:"defaultLocation"`
	DefaultType      models.SessionType     `json:"defaultType" validate:"omitempty,oneof=online offline hybrid"`
	SelectedDays     []string               `json:"selectedDays"`
	Timetable        []models.ScheduleEntry `json:"timetable"`
}

// ScheduleKey identifies a schedule by its natural key.
type ScheduleKey struct {
	InternshipID string `form:"internshipId" json:"internshipId" binding:"required" validate:"required"`
	PartnerID    string `form:"partnerId" json:"partnerId" binding:"required" validate:"required"`
}
