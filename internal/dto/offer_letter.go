package dto

// CostRequest is one additional cost line of a paid internship.
type CostRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// CompensationRequest carries stipend or cost details for the letter.
type CompensationRequest struct {
	Amount          float64       `json:"amount"`
	Currency        string        `json:"currency"`
	Frequency       string        `json:"frequency"`
	Benefits        []string      `json:"benefits"`
	AdditionalCosts []CostRequest `json:"additionalCosts"`
}

// ContactRequest is the signatory printed on the letter.
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

// SendOfferLetterRequest is the payload for issuing an offer letter.
type SendOfferLetterRequest struct {
	StudentID      string              `json:"studentId" validate:"required"`
	InternshipID   string              `json:"internshipId"`
	Name           string              `json:"name" validate:"required"`
	Email          string              `json:"email" validate:"required,email"`
	Position       string              `json:"position" validate:"required"`
	StartDate      string              `json:"startDate" validate:"required"`
	CompanyName    string              `json:"companyName"`
	Location       string              `json:"location"`
	Duration       string              `json:"duration"`
	InternshipType string              `json:"internshipType" validate:"omitempty,oneof=STIPEND PAID FREE"`
	Compensation   CompensationRequest `json:"compensation"`
	JobDescription string              `json:"jobDescription"`
	Qualifications []string            `json:"qualifications"`
	NoticePeriod   string              `json:"noticePeriod"`
	Contact        ContactRequest      `json:"contact"`
}

// UpdateOfferLetterStatusRequest records the student's decision.
type UpdateOfferLetterStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Accepted Rejected"`
}
