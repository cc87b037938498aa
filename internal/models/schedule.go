package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// SessionType describes how a scheduled session is attended.
type SessionType string

const (
	SessionOnline  SessionType = "online"
	SessionOffline SessionType = "offline"
	SessionHybrid  SessionType = "hybrid"
)

// Valid reports whether the type is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionOnline, SessionOffline, SessionHybrid:
		return true
	}
	return false
}

// RequiresLocation is true for sessions that happen at least partly in person.
func (t SessionType) RequiresLocation() bool {
	return t == SessionOffline || t == SessionHybrid
}

// Location is a physical venue for offline and hybrid sessions.
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	MapLink string `json:"mapLink"`
}

// HasAddress reports whether a usable street address is present.
func (l *Location) HasAddress() bool {
	return l != nil && strings.TrimSpace(l.Address) != ""
}

// Value implements driver.Valuer for JSONB columns.
func (l Location) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB columns.
func (l *Location) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// SubEvent is an additional activity attached to a dated entry.
type SubEvent struct {
	Description string      `json:"description"`
	Type        SessionType `json:"type"`
	Location    *Location   `json:"location"`
}

// ScheduleEntry is one dated session within a schedule.
type ScheduleEntry struct {
	Date           string      `json:"date"`
	Day            string      `json:"day"`
	StartTime      string      `json:"startTime"`
	EndTime        string      `json:"endTime"`
	EventLink      string      `json:"eventLink"`
	SectionSummary string      `json:"sectionSummary"`
	Instructor     string      `json:"instructor"`
	Assignment     string      `json:"assignment,omitempty"`
	Type           SessionType `json:"type"`
	Location       *Location   `json:"location"`
	Events         []SubEvent  `json:"events"`
	SkipConference bool        `json:"skipConference,omitempty"`
}

// Timetable is the ordered list of entries stored as a single JSONB document.
type Timetable []ScheduleEntry

// Value implements driver.Valuer.
func (t Timetable) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *Timetable) Scan(src interface{}) error {
	return scanJSON(src, t)
}

// Schedule is the timetable for one internship and partner pair.
type Schedule struct {
	ID               string         `db:"id" json:"id"`
	InternshipID     string         `db:"internship_id" json:"internshipId"`
	PartnerID        string         `db:"partner_id" json:"partnerId"`
	StartDate        time.Time      `db:"start_date" json:"startDate"`
	EndDate          time.Time      `db:"end_date" json:"endDate"`
	WorkHours        string         `db:"work_hours" json:"workHours"`
	DefaultStartTime string         `db:"default_start_time" json:"defaultStartTime"`
	DefaultEndTime   string         `db:"default_end_time" json:"defaultEndTime"`
	DefaultEventLink string         `db:"default_event_link" json:"defaultEventLink"`
	DefaultLocation  *Location      `db:"default_location" json:"defaultLocation"`
	DefaultType      SessionType    `db:"default_type" json:"defaultType"`
	SelectedDays     pq.StringArray `db:"selected_days" json:"selectedDays"`
	Timetable        Timetable      `db:"timetable" json:"timetable"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON source type %T", src)
	}
}
