package dto

// SyncScheduleRequest re-runs a calendar sync for a stored schedule.
type SyncScheduleRequest struct {
	Email        string `json:"email" validate:"required,email"`
	InternshipID string `json:"internshipId" validate:"required"`
	PartnerID    string `json:"partnerId" validate:"required"`
}

// TestEventRequest creates a single test event on the user's calendar.
type TestEventRequest struct {
	Email string `json:"email" validate:"required,email"`
}
