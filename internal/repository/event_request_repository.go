package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/unihub-club-events/internal/model"
)

// RequestDecidedError is returned when deciding an event request
// that has already been approved or rejected.  Status carries the
// decision on record.
type RequestDecidedError struct {
	Status string
}

func (e *RequestDecidedError) Error() string {
	return fmt.Sprintf("event request already %s", e.Status)
}

// EventRequestRepo provides access to the 'event_requests' table.
// Requests move pending -> approved|rejected exactly once; approval
// inserts the matching events row in the same transaction so an
// approved request and its event can never exist without each other.
type EventRequestRepo struct{ DB *sql.DB }

func NewEventRequestRepo(db *sql.DB) *EventRequestRepo { return &EventRequestRepo{DB: db} }

// Create inserts a pending request and populates the generated ID.
func (r *EventRequestRepo) Create(ctx context.Context, req *model.EventRequest) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO event_requests (club_id, head_id, event_name, event_date, location, short_description,
		         goal, organizers, schedule, sponsorship, club_head, phone, status)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,'pending')`,
		req.ClubID, req.HeadID, req.EventName, req.EventDate, req.Location, req.ShortDescription,
		req.Goal, req.Organizers, req.Schedule, req.Sponsorship, req.ClubHead, req.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	req.ID = uint64(id)
	req.Status = model.RequestPending
	return nil
}

const requestColumns = `id, club_id, head_id, event_name, event_date, location, short_description,
       goal, organizers, schedule, sponsorship, club_head, phone, comment, status, created_at, updated_at`

// GetByID fetches a request by id.
func (r *EventRequestRepo) GetByID(ctx context.Context, id uint64) (model.EventRequest, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM event_requests WHERE id=? LIMIT 1`, id)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return model.EventRequest{}, ErrRequestNotFound
	}
	return req, err
}

// List returns all requests, newest first.  Super-admin review view.
func (r *EventRequestRepo) List(ctx context.Context) ([]model.EventRequest, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM event_requests ORDER BY created_at DESC`)
}

// ListByHead returns the requests filed by a head admin.
func (r *EventRequestRepo) ListByHead(ctx context.Context, headID uint64) ([]model.EventRequest, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM event_requests WHERE head_id=? ORDER BY created_at DESC`, headID)
}

func (r *EventRequestRepo) list(ctx context.Context, query string, args ...any) ([]model.EventRequest, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.EventRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Approve moves a pending request to approved and inserts the
// event it proposed.  The request row is locked so two reviewers
// racing on the same request see one winner; the loser gets
// RequestDecidedError.
func (r *EventRequestRepo) Approve(ctx context.Context, id uint64) (model.EventRequest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.EventRequest{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM event_requests WHERE id=? FOR UPDATE`, id)
	req, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return model.EventRequest{}, ErrRequestNotFound
	}
	if err != nil {
		return model.EventRequest{}, err
	}
	if req.Status != model.RequestPending {
		return model.EventRequest{}, &RequestDecidedError{Status: req.Status}
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE event_requests SET status='approved', updated_at=NOW() WHERE id=?`, id)
	if err != nil {
		return model.EventRequest{}, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (club_id, head_id, event_name, event_date, location, short_description, goal, organizers, schedule, sponsorship)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		req.ClubID, req.HeadID, req.EventName, req.EventDate, req.Location,
		req.ShortDescription, req.Goal, req.Organizers, req.Schedule, req.Sponsorship)
	if err != nil {
		return model.EventRequest{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.EventRequest{}, err
	}
	committed = true
	req.Status = model.RequestApproved
	return req, nil
}

// Reject moves a pending request to rejected, recording the
// reviewer's comment when one was given.  Zero rows means the
// request is gone or already decided; a point read tells which.
func (r *EventRequestRepo) Reject(ctx context.Context, id uint64, comment *string) (model.EventRequest, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE event_requests SET status='rejected', comment=COALESCE(?, comment), updated_at=NOW()
		 WHERE id=? AND status='pending'`, comment, id)
	if err != nil {
		return model.EventRequest{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.EventRequest{}, err
	}
	if n == 0 {
		req, err := r.GetByID(ctx, id)
		if err != nil {
			return model.EventRequest{}, err
		}
		return model.EventRequest{}, &RequestDecidedError{Status: req.Status}
	}
	return r.GetByID(ctx, id)
}

func scanRequest(scan func(dest ...any) error) (model.EventRequest, error) {
	var (
		req         model.EventRequest
		sponsorship sql.NullString
		comment     sql.NullString
	)
	err := scan(&req.ID, &req.ClubID, &req.HeadID, &req.EventName, &req.EventDate, &req.Location,
		&req.ShortDescription, &req.Goal, &req.Organizers, &req.Schedule, &sponsorship,
		&req.ClubHead, &req.Phone, &comment, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return model.EventRequest{}, err
	}
	if sponsorship.Valid {
		req.Sponsorship = &sponsorship.String
	}
	if comment.Valid {
		req.Comment = &comment.String
	}
	return req, nil
}
