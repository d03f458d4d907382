package repository

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup key.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUser is returned when the username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrEventNotFound is returned when no event matches the given id.
	ErrEventNotFound = errors.New("event not found")
	// ErrDuplicateBooking is returned when the user already holds a
	// registration for the event.
	ErrDuplicateBooking = errors.New("event already booked by this user")
	// ErrRegistrationNotFound is returned when the user holds no
	// registration for the event.
	ErrRegistrationNotFound = errors.New("registration not found")
)
