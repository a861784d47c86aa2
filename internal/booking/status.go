// Package booking implements the ticket booking workflow: seat
// reservation against a poster's finite capacity and the approval
// state machine that decides each booking exactly once.  All status
// changes go through this package; nothing else in the application
// may write ticket_bookings.status, which keeps seat accounting and
// status transitions in one place.
package booking

// Status is the lifecycle state of a ticket booking.  A booking is
// created as StatusPending and is decided exactly once, to
// StatusApproved or StatusRejected.  Decided bookings may still be
// deleted by their user or a head admin.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// HoldsSeats reports whether a booking in this status still accounts
// for seats on its poster.  Pending and approved bookings hold their
// seats; rejected bookings have already been credited back.  Any
// transition out of a seat-holding status into a non-holding one
// (reject, delete) must release the booking's seats exactly once.
func (s Status) HoldsSeats() bool {
	return s == StatusPending || s == StatusApproved
}

// Decided reports whether the booking has reached a terminal review
// outcome.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}
