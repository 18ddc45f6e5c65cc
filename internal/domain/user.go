package domain

import "time"

// Role names accepted by the access policy. Registration only enforces
// membership when strict-roles mode is enabled.
type Role string

const (
	RoleJobSeeker Role = "JobSeeker"
	RoleEmployer  Role = "Employer"
	RoleAdmin     Role = "Admin"
)

// KnownRole reports whether the role is one of the canonical names.
func KnownRole(role string) bool {
	switch Role(role) {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// User is the domain model for registered accounts: seekers, employers and admins.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	FullName     string
	Location     string
	Bio          string
	ResumePath   string
	CreatedAt    time.Time
}
