package booking

import "context"

// Booking is the state-machine view of a ticket booking.  It carries
// only the fields the workflow needs; the repository layer joins in
// poster and user details for display.
type Booking struct {
	ID              uint64
	PosterID        uint64
	UserID          uint64
	NumberOfPersons uint32
	PaymentProof    *string
	Status          Status
}

// Store is the durable state behind the booking workflow: the seat
// ledger on posters plus the ticket_bookings rows.  Every method
// that touches both the ledger and a booking row must do so
// atomically; in the MySQL implementation each method runs in a
// single transaction, and Reserve is a conditional decrement so
// concurrent reservations can never oversell a poster.
type Store interface {
	// Reserve atomically subtracts count from the poster's
	// seats_left, failing with ErrInsufficientSeats when fewer than
	// count seats remain and ErrPosterNotFound when the poster does
	// not exist.  The check and the decrement are one operation;
	// implementations must not read seats_left and write it back
	// separately.
	Reserve(ctx context.Context, posterID uint64, count uint32) error

	// Release credits count seats back to the poster, clamped so
	// seats_left never exceeds seats.  Well-formed callers never hit
	// the clamp; it protects the ledger invariant regardless.
	Release(ctx context.Context, posterID uint64, count uint32) error

	// PosterHead returns the head admin owning the poster.
	PosterHead(ctx context.Context, posterID uint64) (uint64, error)

	// CreateBooking reserves the booking's seats and inserts the row
	// in one transaction, populating b.ID.  b.Status must be
	// StatusPending.
	CreateBooking(ctx context.Context, b *Booking) error

	// GetBooking loads a booking by id.
	GetBooking(ctx context.Context, id uint64) (Booking, error)

	// DecideBooking flips a pending booking to the given terminal
	// status.  When the transition leaves a seat-holding status for
	// a non-holding one (reject), the booking's seats are credited
	// back in the same transaction.  A booking that is no longer
	// pending yields *AlreadyDecidedError carrying its current
	// status.
	DecideBooking(ctx context.Context, id uint64, to Status) error

	// DeleteBooking removes the booking row, crediting its seats
	// back first when the current status still holds them.  The
	// status check and the credit happen in the same transaction so
	// a concurrent decision cannot cause a double credit.  The
	// deleted booking is returned so callers can clean up attached
	// blobs.
	DeleteBooking(ctx context.Context, id uint64) (Booking, error)
}
