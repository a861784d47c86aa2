package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/unihub-club-events/internal/booking"
)

// TicketRepo is the MySQL implementation of booking.Store plus the
// read queries handlers use to display bookings.  Every state
// transition runs inside a single transaction, and the seat ledger
// is only ever moved with conditional updates so concurrent
// requests cannot oversell a poster or double-credit it.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying handle for transaction-free reads.
func (r *TicketRepo) DB() *sql.DB { return r.db }

var _ booking.Store = (*TicketRepo)(nil)

// execer is satisfied by both *sql.DB and *sql.Tx so the ledger
// helpers can run standalone or inside a booking transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Reserve atomically takes count seats from the poster.  The
// capacity check and the decrement are one statement; zero rows
// affected means either a missing poster or not enough seats, which
// a follow-up point read distinguishes.
func (r *TicketRepo) Reserve(ctx context.Context, posterID uint64, count uint32) error {
	return reserveSeats(ctx, r.db, posterID, count)
}

// Release credits count seats back, clamped at the poster's total.
func (r *TicketRepo) Release(ctx context.Context, posterID uint64, count uint32) error {
	return releaseSeats(ctx, r.db, posterID, count)
}

func reserveSeats(ctx context.Context, q execer, posterID uint64, count uint32) error {
	res, err := q.ExecContext(ctx,
		`UPDATE posters SET seats_left = seats_left - ?, updated_at = NOW()
		 WHERE id = ? AND seats_left >= ?`,
		count, posterID, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var id uint64
	err = q.QueryRowContext(ctx, `SELECT id FROM posters WHERE id = ?`, posterID).Scan(&id)
	if err == sql.ErrNoRows {
		return booking.ErrPosterNotFound
	}
	if err != nil {
		return err
	}
	return booking.ErrInsufficientSeats
}

func releaseSeats(ctx context.Context, q execer, posterID uint64, count uint32) error {
	res, err := q.ExecContext(ctx,
		`UPDATE posters SET seats_left = LEAST(seats, seats_left + ?), updated_at = NOW()
		 WHERE id = ?`,
		count, posterID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrPosterNotFound
	}
	return nil
}

// PosterHead returns the owning head admin of a poster.
func (r *TicketRepo) PosterHead(ctx context.Context, posterID uint64) (uint64, error) {
	var headID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT head_id FROM posters WHERE id = ?`, posterID).Scan(&headID)
	if err == sql.ErrNoRows {
		return 0, booking.ErrPosterNotFound
	}
	if err != nil {
		return 0, err
	}
	return headID, nil
}

// CreateBooking reserves the seats and inserts the pending row in
// one transaction.  If the insert fails after the reservation, the
// rollback returns the seats.
func (r *TicketRepo) CreateBooking(ctx context.Context, b *booking.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := reserveSeats(ctx, tx, b.PosterID, b.NumberOfPersons); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO ticket_bookings (poster_id, user_id, number_of_persons, payment_proof, status)
		 VALUES (?,?,?,?,?)`,
		b.PosterID, b.UserID, b.NumberOfPersons, b.PaymentProof, string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.ID = uint64(id)
	return nil
}

// GetBooking loads a booking by id.
func (r *TicketRepo) GetBooking(ctx context.Context, id uint64) (booking.Booking, error) {
	var (
		b      booking.Booking
		proof  sql.NullString
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, poster_id, user_id, number_of_persons, payment_proof, status
		 FROM ticket_bookings WHERE id = ?`, id).
		Scan(&b.ID, &b.PosterID, &b.UserID, &b.NumberOfPersons, &proof, &status)
	if err == sql.ErrNoRows {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	if err != nil {
		return booking.Booking{}, err
	}
	if proof.Valid {
		b.PaymentProof = &proof.String
	}
	b.Status = booking.Status(status)
	return b, nil
}

// DecideBooking flips a pending booking to the given status.  The
// status predicate is part of the UPDATE so two concurrent reviews
// cannot both win; the loser observes zero affected rows and gets
// an AlreadyDecidedError with the status that stuck.  Rejection
// credits the seats back inside the same transaction.
func (r *TicketRepo) DecideBooking(ctx context.Context, id uint64, to booking.Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx,
		`UPDATE ticket_bookings SET status = ?, updated_at = NOW()
		 WHERE id = ? AND status = ?`,
		string(to), id, string(booking.StatusPending))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var cur string
		err := tx.QueryRowContext(ctx,
			`SELECT status FROM ticket_bookings WHERE id = ?`, id).Scan(&cur)
		if err == sql.ErrNoRows {
			return booking.ErrBookingNotFound
		}
		if err != nil {
			return err
		}
		return &booking.AlreadyDecidedError{Status: booking.Status(cur)}
	}
	if !to.HoldsSeats() {
		var (
			posterID uint64
			persons  uint32
		)
		if err := tx.QueryRowContext(ctx,
			`SELECT poster_id, number_of_persons FROM ticket_bookings WHERE id = ?`, id).
			Scan(&posterID, &persons); err != nil {
			return err
		}
		if err := releaseSeats(ctx, tx, posterID, persons); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeleteBooking removes a booking, crediting its seats back first
// when the row's current status still holds them.  The row is
// locked for the duration of the transaction so a concurrent
// decision cannot slip between the status read and the credit.
func (r *TicketRepo) DeleteBooking(ctx context.Context, id uint64) (booking.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return booking.Booking{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var (
		b      booking.Booking
		proof  sql.NullString
		status string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, poster_id, user_id, number_of_persons, payment_proof, status
		 FROM ticket_bookings WHERE id = ? FOR UPDATE`, id).
		Scan(&b.ID, &b.PosterID, &b.UserID, &b.NumberOfPersons, &proof, &status)
	if err == sql.ErrNoRows {
		return booking.Booking{}, booking.ErrBookingNotFound
	}
	if err != nil {
		return booking.Booking{}, err
	}
	if proof.Valid {
		b.PaymentProof = &proof.String
	}
	b.Status = booking.Status(status)
	if b.Status.HoldsSeats() {
		if err := releaseSeats(ctx, tx, b.PosterID, b.NumberOfPersons); err != nil {
			return booking.Booking{}, err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ticket_bookings WHERE id = ?`, id); err != nil {
		return booking.Booking{}, err
	}
	if err := tx.Commit(); err != nil {
		return booking.Booking{}, err
	}
	committed = true
	return b, nil
}

// TicketDetail is a booking joined with the poster fields a student
// needs to recognize it in their list.
type TicketDetail struct {
	ID              uint64  `json:"id"`
	PosterID        uint64  `json:"poster_id"`
	NumberOfPersons uint32  `json:"number_of_persons"`
	PaymentProof    *string `json:"payment_proof,omitempty"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	EventTitle      string  `json:"event_title"`
	EventDate       string  `json:"event_date"`
	Location        string  `json:"location"`
	Time            string  `json:"time"`
	Price           uint32  `json:"price"`
}

// ListByUser returns all bookings made by the user, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]TicketDetail, error) {
	const q = `SELECT t.id, t.poster_id, t.number_of_persons, t.payment_proof, t.status, t.created_at,
	                  p.event_title, p.event_date, p.location, p.time, p.price
	           FROM ticket_bookings t
	           JOIN posters p ON p.id = t.poster_id
	           WHERE t.user_id = ?
	           ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TicketDetail, 0)
	for rows.Next() {
		var (
			d       TicketDetail
			proof   sql.NullString
			created time.Time
		)
		if err := rows.Scan(&d.ID, &d.PosterID, &d.NumberOfPersons, &proof, &d.Status, &created,
			&d.EventTitle, &d.EventDate, &d.Location, &d.Time, &d.Price); err != nil {
			return nil, err
		}
		if proof.Valid {
			d.PaymentProof = &proof.String
		}
		d.CreatedAt = created.UTC().Format(time.RFC3339)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingTicket is a pending booking joined with poster and booker
// details, as shown to the reviewing head admin.
type PendingTicket struct {
	ID              uint64  `json:"id"`
	NumberOfPersons uint32  `json:"number_of_persons"`
	PaymentProof    *string `json:"payment_proof,omitempty"`
	CreatedAt       string  `json:"created_at"`
	PosterID        uint64  `json:"poster_id"`
	EventTitle      string  `json:"event_title"`
	EventDate       string  `json:"event_date"`
	UserID          uint64  `json:"user_id"`
	UserName        string  `json:"user_name"`
	UserSurname     string  `json:"user_surname"`
	UserEmail       string  `json:"user_email"`
}

// ListPendingForHead returns all pending bookings on posters owned
// by the given head admin, newest first.
func (r *TicketRepo) ListPendingForHead(ctx context.Context, headID uint64) ([]PendingTicket, error) {
	const q = `SELECT t.id, t.number_of_persons, t.payment_proof, t.created_at,
	                  p.id, p.event_title, p.event_date,
	                  u.id, u.name, u.surname, u.email
	           FROM ticket_bookings t
	           JOIN posters p ON p.id = t.poster_id
	           JOIN users u ON u.id = t.user_id
	           WHERE p.head_id = ? AND t.status = 'pending'
	           ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, headID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]PendingTicket, 0)
	for rows.Next() {
		var (
			p       PendingTicket
			proof   sql.NullString
			created time.Time
		)
		if err := rows.Scan(&p.ID, &p.NumberOfPersons, &proof, &created,
			&p.PosterID, &p.EventTitle, &p.EventDate,
			&p.UserID, &p.UserName, &p.UserSurname, &p.UserEmail); err != nil {
			return nil, err
		}
		if proof.Valid {
			p.PaymentProof = &proof.String
		}
		p.CreatedAt = created.UTC().Format(time.RFC3339)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CalendarEntry is an approved booking shaped as an event calendar
// item for the student's schedule view.
type CalendarEntry struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Type     string `json:"type"`
	Persons  uint32 `json:"persons"`
}

// CalendarForUser returns the user's approved bookings as calendar
// entries.
func (r *TicketRepo) CalendarForUser(ctx context.Context, userID uint64) ([]CalendarEntry, error) {
	const q = `SELECT t.id, p.event_title, p.event_date, p.time, p.location, t.number_of_persons
	           FROM ticket_bookings t
	           JOIN posters p ON p.id = t.poster_id
	           WHERE t.user_id = ? AND t.status = 'approved'
	           ORDER BY p.event_date, p.time`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CalendarEntry, 0)
	for rows.Next() {
		var e CalendarEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &e.Location, &e.Persons); err != nil {
			return nil, err
		}
		e.Type = "ticket"
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
