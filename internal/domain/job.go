package domain

import "time"

// Job is a posting owned by an employer account.
type Job struct {
	ID            int64
	OwnerID       int64
	OwnerUsername string
	Title         string
	Description   string
	Location      string
	Type          string
	Active        bool
	CreatedAt     time.Time
}
