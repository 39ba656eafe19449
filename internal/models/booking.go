package models

import "time"

const (
	// MinBookingDays and MaxBookingDays bound a single booking request.
	// Requests outside the range are rejected before any browser is launched.
	MinBookingDays = 1
	MaxBookingDays = 30
)

// BookingRequest describes a multi-day coworking booking intent.
// Credentials are transient: they travel by value into the portal flows and
// are never persisted.
type BookingRequest struct {
	UserName        string
	Password        string
	BranchCode      string
	Start           time.Time
	NumDays         int
	DurationMinutes int
	AcceptBookings  bool
}
