package dto

import "time"

// ApplicationResponse renders an application.
type ApplicationResponse struct {
	ID             int64     `json:"id"`
	JobID          int64     `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	Applicant      string    `json:"applicant,omitempty"`
	ApplicantEmail string    `json:"applicant_email"`
	CoverLetter    string    `json:"cover_letter"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
