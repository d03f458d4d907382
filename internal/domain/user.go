package domain

import "time"

// Role gates access to the organizer-only and user-only API surfaces.
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOrganizer
}

// User represents a registered account of the system.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
