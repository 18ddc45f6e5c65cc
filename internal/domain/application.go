package domain

import "time"

// ApplicationStatus values used by employers when reviewing candidates.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusHired    ApplicationStatus = "Hired"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// Application links an applicant (possibly imported without an account) to a job.
type Application struct {
	ID                int64
	JobID             int64
	JobTitle          string
	ApplicantID       *int64
	ApplicantUsername string
	ApplicantEmail    string
	CoverLetter       string
	CvPath            string
	Status            ApplicationStatus
	CreatedAt         time.Time
}
