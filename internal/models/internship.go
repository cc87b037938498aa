package models

import "time"

// Internship is the minimal posting record the scheduling flows read.
type Internship struct {
	ID        string    `db:"id" json:"id"`
	JobTitle  string    `db:"job_title" json:"jobTitle"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
