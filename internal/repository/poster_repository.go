package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/unihub-club-events/internal/model"
)

// PosterRepo provides CRUD access to the 'posters' table.  Seat
// counts are never written here except at creation and an explicit
// owner resize; all other seats_left movement goes through the
// booking store's conditional updates.
type PosterRepo struct{ DB *sql.DB }

func NewPosterRepo(db *sql.DB) *PosterRepo { return &PosterRepo{DB: db} }

// Create inserts a poster with its full capacity available and
// populates the generated ID.
func (r *PosterRepo) Create(ctx context.Context, p *model.Poster) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO posters (event_id, club_id, head_id, event_title, event_date, location, time, description, seats, seats_left, price, image)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.EventID, p.ClubID, p.HeadID, p.EventTitle, p.EventDate, p.Location, p.Time,
		p.Description, p.Seats, p.Seats, p.Price, p.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.SeatsLeft = p.Seats
	return nil
}

const posterColumns = `id, event_id, club_id, head_id, event_title, event_date, location, time,
       description, seats, seats_left, price, image, created_at, updated_at`

// GetByID fetches a poster by id.  booking.ErrPosterNotFound is not
// used here; plain sql.ErrNoRows keeps the repo consistent with the
// other CRUD repos and handlers translate it to 404.
func (r *PosterRepo) GetByID(ctx context.Context, id uint64) (model.Poster, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+posterColumns+` FROM posters WHERE id=? LIMIT 1`, id)
	return scanPoster(row)
}

// List returns all posters, newest first.
func (r *PosterRepo) List(ctx context.Context) ([]model.Poster, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+posterColumns+` FROM posters ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Poster, 0)
	for rows.Next() {
		p, err := scanPosterRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByHead returns the posters owned by a head admin.
func (r *PosterRepo) ListByHead(ctx context.Context, headID uint64) ([]model.Poster, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+posterColumns+` FROM posters WHERE head_id=? ORDER BY created_at DESC`, headID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Poster, 0)
	for rows.Next() {
		p, err := scanPosterRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// resizeSeatsLeft computes seats_left after the total capacity
// changes to newSeats.  Seats held by pending or approved bookings
// stay held, so a resize below the held count is refused with
// ErrConflict rather than clamped.
func resizeSeatsLeft(seats, seatsLeft, newSeats uint32) (uint32, error) {
	held := seats - seatsLeft
	if newSeats < held {
		return 0, ErrConflict
	}
	return newSeats - held, nil
}

// Update rewrites the poster's descriptive fields and, when the
// total seat count changes, resizes the remaining capacity so
// already-booked seats stay booked.  The poster row stays locked
// for the duration so a concurrent booking cannot move seats_left
// between the read and the write.  Only the owning head may update;
// other callers get ErrForbidden.
func (r *PosterRepo) Update(ctx context.Context, p model.Poster, headID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		owner            uint64
		seats, seatsLeft uint32
	)
	err = tx.QueryRowContext(ctx,
		`SELECT head_id, seats, seats_left FROM posters WHERE id=? FOR UPDATE`, p.ID).
		Scan(&owner, &seats, &seatsLeft)
	if err != nil {
		return err
	}
	if owner != headID {
		return ErrForbidden
	}
	newLeft, err := resizeSeatsLeft(seats, seatsLeft, p.Seats)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posters SET event_title=?, event_date=?, location=?, time=?, description=?,
		        seats=?, seats_left=?, price=?, image=?, updated_at=NOW()
		 WHERE id=?`,
		p.EventTitle, p.EventDate, p.Location, p.Time, p.Description,
		p.Seats, newLeft, p.Price, p.Image, p.ID)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a poster owned by the head admin.  A poster with
// seat-holding bookings cannot be deleted; the caller must decide
// or cancel them first (ErrConflict).  The row lock serializes with
// booking transactions, which move the poster's seats_left before
// inserting a booking, so a booking cannot slip in between the
// existence check and the delete.
func (r *PosterRepo) Delete(ctx context.Context, id, headID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner uint64
	err = tx.QueryRowContext(ctx,
		`SELECT head_id FROM posters WHERE id=? FOR UPDATE`, id).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != headID {
		return ErrForbidden
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM posters WHERE id=? AND NOT EXISTS (
		     SELECT 1 FROM ticket_bookings WHERE poster_id=? AND status IN ('pending','approved'))`,
		id, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func scanPoster(row *sql.Row) (model.Poster, error) {
	var (
		p     model.Poster
		image sql.NullString
	)
	err := row.Scan(&p.ID, &p.EventID, &p.ClubID, &p.HeadID, &p.EventTitle, &p.EventDate,
		&p.Location, &p.Time, &p.Description, &p.Seats, &p.SeatsLeft, &p.Price, &image,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Poster{}, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}

func scanPosterRows(rows *sql.Rows) (model.Poster, error) {
	var (
		p     model.Poster
		image sql.NullString
	)
	err := rows.Scan(&p.ID, &p.EventID, &p.ClubID, &p.HeadID, &p.EventTitle, &p.EventDate,
		&p.Location, &p.Time, &p.Description, &p.Seats, &p.SeatsLeft, &p.Price, &image,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Poster{}, err
	}
	if image.Valid {
		p.Image = &image.String
	}
	return p, nil
}
