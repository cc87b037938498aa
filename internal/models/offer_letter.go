package models

import "time"

// OfferLetterStatus tracks the lifecycle of an issued offer.
type OfferLetterStatus string

const (
	OfferLetterSent     OfferLetterStatus = "Sent"
	OfferLetterAccepted OfferLetterStatus = "Accepted"
	OfferLetterRejected OfferLetterStatus = "Rejected"
)

// OfferLetter is a generated offer issued to a student.
type OfferLetter struct {
	ID           string            `db:"id" json:"id"`
	StudentID    string            `db:"student_id" json:"studentId"`
	InternshipID *string           `db:"internship_id" json:"internshipId,omitempty"`
	Name         string            `db:"name" json:"name"`
	Email        string            `db:"email" json:"email"`
	Position     string            `db:"position" json:"position"`
	CompanyName  string            `db:"company_name" json:"companyName"`
	Location     string            `db:"location" json:"location"`
	StartDate    time.Time         `db:"start_date" json:"startDate"`
	Status       OfferLetterStatus `db:"status" json:"status"`
	FilePath     string            `db:"file_path" json:"-"`
	DownloadURL  string            `db:"download_url" json:"downloadUrl"`
	SentAt       time.Time         `db:"sent_at" json:"sentAt"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updatedAt"`
}
