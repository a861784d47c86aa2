package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/booking"
)

// memStore is an in-memory booking.Store used to exercise the
// workflow without a database.  Each method holds the mutex for its
// whole transition, mirroring the transactional guarantees of the
// MySQL implementation.
type memStore struct {
	mu       sync.Mutex
	posters  map[uint64]*memPoster
	bookings map[uint64]booking.Booking
	nextID   uint64
}

type memPoster struct {
	headID    uint64
	seats     uint32
	seatsLeft uint32
}

func newMemStore() *memStore {
	return &memStore{
		posters:  make(map[uint64]*memPoster),
		bookings: make(map[uint64]booking.Booking),
	}
}

func (s *memStore) addPoster(id, headID uint64, seats uint32) {
	s.posters[id] = &memPoster{headID: headID, seats: seats, seatsLeft: seats}
}

func (s *memStore) reserve(posterID uint64, count uint32) error {
	p, ok := s.posters[posterID]
	if !ok {
		return booking.ErrPosterNotFound
	}
	if p.seatsLeft < count {
		return booking.ErrInsufficientSeats
	}
	p.seatsLeft -= count
	return nil
}

func (s *memStore) release(posterID uint64, count uint32) {
	p, ok := s.posters[posterID]
	if !ok {
		return
	}
	p.seatsLeft += count
	if p.seatsLeft > p.seats {
		p.seatsLeft = p.seats
	}
}

func (s *memStore) Reserve(_ context.Context, posterID uint64, count uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reserve(posterID, count)
}

func (s *memStore) Release(_ context.Context, posterID uint64, count uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release(posterID, count)
	return nil
}

func (s *memStore) PosterHead(_ context.Context, posterID uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posters[posterID]
	if !ok {
		return 0, booking.ErrPosterNotFound
	}
	return p.headID, nil
}

func (s *memStore) CreateBooking(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reserve(b.PosterID, b.NumberOfPersons); err != nil {
		return err
	}
	s.nextID++
	b.ID = s.nextID
	s.bookings[b.ID] = *b
	return nil
}

func (s *memStore) GetBooking(_ context.Context, id uint64) (booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	return b, nil
}

func (s *memStore) DecideBooking(_ context.Context, id uint64, to booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if b.Status != booking.StatusPending {
		return &booking.AlreadyDecidedError{Status: b.Status}
	}
	b.Status = to
	s.bookings[id] = b
	if !to.HoldsSeats() {
		s.release(b.PosterID, b.NumberOfPersons)
	}
	return nil
}

func (s *memStore) DeleteBooking(_ context.Context, id uint64) (booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	if b.Status.HoldsSeats() {
		s.release(b.PosterID, b.NumberOfPersons)
	}
	delete(s.bookings, id)
	return b, nil
}

func (s *memStore) seatsLeft(t *testing.T, posterID uint64) uint32 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posters[posterID]
	if !ok {
		t.Fatalf("poster %d missing", posterID)
	}
	return p.seatsLeft
}

// heldSeats sums the seats held by pending and approved bookings.
func (s *memStore) heldSeats() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var held uint32
	for _, b := range s.bookings {
		if b.Status.HoldsSeats() {
			held += b.NumberOfPersons
		}
	}
	return held
}

var (
	student = authz.Actor{ID: 7, Role: authz.RoleStudent}
	head    = authz.Actor{ID: 1, Role: authz.RoleHeadAdmin}
)

func newFixture(seats uint32) (*booking.Service, *memStore) {
	st := newMemStore()
	st.addPoster(100, head.ID, seats)
	return booking.NewService(st), st
}

func TestBookReservesSeats(t *testing.T) {
	svc, st := newFixture(10)

	b, err := svc.Book(context.Background(), student, 100, 4, nil)
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if b.Status != booking.StatusPending {
		t.Fatalf("status = %q, want pending", b.Status)
	}
	if got := st.seatsLeft(t, 100); got != 6 {
		t.Fatalf("seats left = %d, want 6", got)
	}
}

func TestBookInsufficientSeats(t *testing.T) {
	svc, st := newFixture(3)

	_, err := svc.Book(context.Background(), student, 100, 4, nil)
	if !errors.Is(err, booking.ErrInsufficientSeats) {
		t.Fatalf("err = %v, want ErrInsufficientSeats", err)
	}
	if got := st.seatsLeft(t, 100); got != 3 {
		t.Fatalf("failed booking changed the ledger: seats left = %d, want 3", got)
	}
}

func TestBookZeroPersons(t *testing.T) {
	svc, _ := newFixture(10)

	_, err := svc.Book(context.Background(), student, 100, 0, nil)
	if !errors.Is(err, booking.ErrInvalidPersons) {
		t.Fatalf("err = %v, want ErrInvalidPersons", err)
	}
}

func TestBookUnknownPoster(t *testing.T) {
	svc, _ := newFixture(10)

	_, err := svc.Book(context.Background(), student, 999, 1, nil)
	if !errors.Is(err, booking.ErrPosterNotFound) {
		t.Fatalf("err = %v, want ErrPosterNotFound", err)
	}
}

func TestApproveKeepsSeats(t *testing.T) {
	svc, st := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 4, nil)

	if err := svc.Approve(context.Background(), head, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 6 {
		t.Fatalf("seats left = %d, want 6 (approval must not touch the ledger)", got)
	}
}

func TestRejectCreditsSeats(t *testing.T) {
	svc, st := newFixture(10)
	b1, _ := svc.Book(context.Background(), student, 100, 2, nil)
	b2, _ := svc.Book(context.Background(), student, 100, 3, nil)

	if err := svc.Reject(context.Background(), head, b1.ID); err != nil {
		t.Fatalf("Reject b1: %v", err)
	}
	if err := svc.Reject(context.Background(), head, b2.ID); err != nil {
		t.Fatalf("Reject b2: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 10 {
		t.Fatalf("seats left = %d, want 10 after both rejections", got)
	}
}

func TestDecideIsFinal(t *testing.T) {
	svc, _ := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 1, nil)

	if err := svc.Approve(context.Background(), head, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	err := svc.Reject(context.Background(), head, b.ID)
	var decided *booking.AlreadyDecidedError
	if !errors.As(err, &decided) {
		t.Fatalf("err = %v, want *AlreadyDecidedError", err)
	}
	if decided.Status != booking.StatusApproved {
		t.Fatalf("decided status = %q, want approved", decided.Status)
	}
}

func TestDecideAuthorization(t *testing.T) {
	svc, _ := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 1, nil)

	otherHead := authz.Actor{ID: 2, Role: authz.RoleHeadAdmin}
	if err := svc.Approve(context.Background(), otherHead, b.ID); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("foreign head approve err = %v, want ErrForbidden", err)
	}
	if err := svc.Approve(context.Background(), student, b.ID); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("student approve err = %v, want ErrForbidden", err)
	}
}

func TestCancelPendingCreditsSeats(t *testing.T) {
	svc, st := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 4, nil)

	if _, err := svc.Cancel(context.Background(), student, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 10 {
		t.Fatalf("seats left = %d, want 10 after cancelling pending booking", got)
	}
}

func TestCancelApprovedCreditsSeats(t *testing.T) {
	svc, st := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 4, nil)
	if err := svc.Approve(context.Background(), head, b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), student, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 10 {
		t.Fatalf("seats left = %d, want 10 after cancelling approved booking", got)
	}
}

func TestCancelRejectedDoesNotDoubleCredit(t *testing.T) {
	svc, st := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 4, nil)
	if err := svc.Reject(context.Background(), head, b.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 10 {
		t.Fatalf("seats left = %d, want 10 after rejection", got)
	}

	if _, err := svc.Cancel(context.Background(), student, b.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got := st.seatsLeft(t, 100); got != 10 {
		t.Fatalf("seats left = %d, want 10 (rejected booking must not credit again)", got)
	}
}

func TestCancelAuthorization(t *testing.T) {
	svc, _ := newFixture(10)
	b, _ := svc.Book(context.Background(), student, 100, 1, nil)

	other := authz.Actor{ID: 8, Role: authz.RoleStudent}
	if _, err := svc.Cancel(context.Background(), other, b.ID); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("foreign student cancel err = %v, want ErrForbidden", err)
	}
	// Head admins may remove any booking.
	if _, err := svc.Cancel(context.Background(), head, b.ID); err != nil {
		t.Fatalf("head cancel: %v", err)
	}
}

func TestCancelReturnsPaymentProof(t *testing.T) {
	svc, _ := newFixture(10)
	proof := "/uploads/abc.png"
	b, _ := svc.Book(context.Background(), student, 100, 1, &proof)

	got, err := svc.Cancel(context.Background(), student, b.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.PaymentProof == nil || *got.PaymentProof != proof {
		t.Fatalf("payment proof = %v, want %q", got.PaymentProof, proof)
	}
}

// TestConcurrentBookingNoOversell hammers one poster from many
// goroutines and checks that exactly the capacity is sold.
func TestConcurrentBookingNoOversell(t *testing.T) {
	const seats = 10
	const attempts = 50

	svc, st := newFixture(seats)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := authz.Actor{ID: uint64(1000 + i), Role: authz.RoleStudent}
			_, errs[i] = svc.Book(context.Background(), actor, 100, 1, nil)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, booking.ErrInsufficientSeats):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != seats {
		t.Fatalf("successful bookings = %d, want %d", ok, seats)
	}
	if insufficient != attempts-seats {
		t.Fatalf("insufficient errors = %d, want %d", insufficient, attempts-seats)
	}
	if got := st.seatsLeft(t, 100); got != 0 {
		t.Fatalf("seats left = %d, want 0", got)
	}
	if held := st.heldSeats(); held != seats {
		t.Fatalf("held seats = %d, want %d", held, seats)
	}
}

// TestLedgerAccounting drives a mixed sequence of transitions and
// checks the accounting identity seats = seats_left + held after
// every step.
func TestLedgerAccounting(t *testing.T) {
	const seats = 20
	svc, st := newFixture(seats)
	ctx := context.Background()

	check := func(step string) {
		t.Helper()
		if got := st.seatsLeft(t, 100) + st.heldSeats(); got != seats {
			t.Fatalf("%s: seats_left + held = %d, want %d", step, got, seats)
		}
	}

	b1, err := svc.Book(ctx, student, 100, 5, nil)
	if err != nil {
		t.Fatalf("book b1: %v", err)
	}
	check("book b1")

	b2, err := svc.Book(ctx, student, 100, 7, nil)
	if err != nil {
		t.Fatalf("book b2: %v", err)
	}
	check("book b2")

	if err := svc.Approve(ctx, head, b1.ID); err != nil {
		t.Fatalf("approve b1: %v", err)
	}
	check("approve b1")

	if err := svc.Reject(ctx, head, b2.ID); err != nil {
		t.Fatalf("reject b2: %v", err)
	}
	check("reject b2")

	if _, err := svc.Cancel(ctx, student, b1.ID); err != nil {
		t.Fatalf("cancel b1: %v", err)
	}
	check("cancel b1")

	if got := st.seatsLeft(t, 100); got != seats {
		t.Fatalf("seats left = %d, want %d after everything unwound", got, seats)
	}
}
