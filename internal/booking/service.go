package booking

import (
	"context"

	"github.com/iliyamo/unihub-club-events/internal/authz"
)

// Service is the single entry point for mutating ticket bookings.
// It composes authorization checks with the Store's atomic
// transitions.  Reads that only display bookings live on the
// repository layer; everything that changes status or seat counts
// goes through here.
type Service struct {
	store Store
}

// NewService returns a Service backed by the given store.
func NewService(store Store) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{store: store}
}

// Book reserves persons seats on the poster and creates a pending
// booking for the actor.  It fails with ErrInsufficientSeats when
// the poster does not have enough seats left, leaving the ledger
// unchanged.  Booking is not idempotent: repeating the call creates
// a second booking.
func (s *Service) Book(ctx context.Context, actor authz.Actor, posterID uint64, persons uint32, paymentProof *string) (Booking, error) {
	if persons == 0 {
		return Booking{}, ErrInvalidPersons
	}
	b := Booking{
		PosterID:        posterID,
		UserID:          actor.ID,
		NumberOfPersons: persons,
		PaymentProof:    paymentProof,
		Status:          StatusPending,
	}
	if err := s.store.CreateBooking(ctx, &b); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// Approve marks a pending booking approved.  Seats were already
// committed when the booking was created, so the ledger is not
// touched.
func (s *Service) Approve(ctx context.Context, actor authz.Actor, bookingID uint64) error {
	return s.decide(ctx, actor, bookingID, StatusApproved)
}

// Reject marks a pending booking rejected and credits its seats
// back to the poster.
func (s *Service) Reject(ctx context.Context, actor authz.Actor, bookingID uint64) error {
	return s.decide(ctx, actor, bookingID, StatusRejected)
}

// decide is the only path to a review outcome.  The actor must be
// the head admin owning the booking's poster; a booking that is no
// longer pending yields *AlreadyDecidedError.
func (s *Service) decide(ctx context.Context, actor authz.Actor, bookingID uint64, to Status) error {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	head, err := s.store.PosterHead(ctx, b.PosterID)
	if err != nil {
		return err
	}
	if !authz.CanReviewTicket(actor, head) {
		return ErrForbidden
	}
	return s.store.DecideBooking(ctx, bookingID, to)
}

// Cancel deletes a booking on behalf of its user or a head admin.
// Seats are credited back when the booking still holds them
// (pending or approved); rejected bookings were credited at
// rejection time and delete without a ledger change.  The removed
// booking is returned so the caller can delete any payment proof
// blob.
func (s *Service) Cancel(ctx context.Context, actor authz.Actor, bookingID uint64) (Booking, error) {
	b, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, err
	}
	if !authz.CanCancelTicket(actor, b.UserID) {
		return Booking{}, ErrForbidden
	}
	return s.store.DeleteBooking(ctx, bookingID)
}
