package models

// ActionReauthenticate tells the caller the user must grant access again.
const ActionReauthenticate = "re-authenticate"

// CreatedEvent records one entry that was written to the calendar.
type CreatedEvent struct {
	Index    int           `json:"index"`
	Entry    ScheduleEntry `json:"entry"`
	EventID  string        `json:"eventId"`
	HTMLLink string        `json:"htmlLink,omitempty"`
	MeetLink string        `json:"meetLink,omitempty"`
}

// FailedEvent records one entry that could not be written.
type FailedEvent struct {
	Index int           `json:"index"`
	Entry ScheduleEntry `json:"entry"`
	Error string        `json:"error"`
}

// SyncResult summarises a calendar sync. It is always returned, never an error.
type SyncResult struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	Error         string         `json:"error,omitempty"`
	Action        string         `json:"action,omitempty"`
	TotalSlots    int            `json:"totalSlots"`
	CreatedEvents []CreatedEvent `json:"createdEvents"`
	FailedEvents  []FailedEvent  `json:"failedEvents"`
	SuccessRate   string         `json:"successRate,omitempty"`
}

// TestEventResult is returned by the single test-event call.
type TestEventResult struct {
	Success  bool   `json:"success"`
	EventID  string `json:"eventId,omitempty"`
	HTMLLink string `json:"htmlLink,omitempty"`
	MeetLink string `json:"meetLink,omitempty"`
	Error    string `json:"error,omitempty"`
	Action   string `json:"action,omitempty"`
}
