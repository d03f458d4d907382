package domain

import "time"

// Event is a bookable happening published by an organizer.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	StartTime   string
	OrganizerID string
	// OrganizerName is populated by queries that join the organizer's
	// account, e.g. the public upcoming-events listing.
	OrganizerName string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Registration is one user's booking of one event. The (EventID, UserID)
// pair is unique; Code is the opaque ticket reference handed to the user.
type Registration struct {
	EventID   string
	UserID    string
	Code      string
	CreatedAt time.Time
}

// EventBookings projects an event together with the ids of everyone who
// booked it, for the organizer's bookings overview.
type EventBookings struct {
	EventID     string
	Title       string
	BookedUsers []string
}
