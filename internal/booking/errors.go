package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the booking service and its Store
// implementations.  Handlers translate these into HTTP responses:
// not-found errors become 404, ErrForbidden 403 and the rest 400.
var (
	// ErrPosterNotFound is returned when the referenced poster does
	// not exist.
	ErrPosterNotFound = errors.New("poster not found")

	// ErrBookingNotFound is returned when the referenced ticket
	// booking does not exist.
	ErrBookingNotFound = errors.New("ticket booking not found")

	// ErrInsufficientSeats is returned when a reservation asks for
	// more seats than the poster has left.  The ledger is unchanged.
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrForbidden is returned when the acting user is not allowed
	// to perform the transition.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidPersons is returned when a booking asks for zero
	// seats.
	ErrInvalidPersons = errors.New("number of persons must be positive")
)

// AlreadyDecidedError is returned when approving or rejecting a
// booking that has already been decided.  It carries the booking's
// current status so the caller can echo it back to the user.
type AlreadyDecidedError struct {
	Status Status
}

func (e *AlreadyDecidedError) Error() string {
	return fmt.Sprintf("ticket already %s", e.Status)
}
