package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/unihub-club-events/internal/model"
)

// EventRepo provides CRUD access to the 'events' table.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts an event for the club led by the head admin.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (club_id, head_id, event_name, event_date, location, short_description, goal, organizers, schedule, sponsorship)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.ClubID, e.HeadID, e.EventName, e.EventDate, e.Location, e.ShortDescription,
		e.Goal, e.Organizers, e.Schedule, e.Sponsorship)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

const eventColumns = `id, club_id, head_id, event_name, event_date, location, short_description,
       goal, organizers, schedule, sponsorship, created_at, updated_at`

// GetByID fetches an event by id.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	var (
		e           model.Event
		sponsorship sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id=? LIMIT 1`, id).
		Scan(&e.ID, &e.ClubID, &e.HeadID, &e.EventName, &e.EventDate, &e.Location,
			&e.ShortDescription, &e.Goal, &e.Organizers, &e.Schedule, &sponsorship,
			&e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Event{}, ErrEventNotFound
	}
	if err != nil {
		return model.Event{}, err
	}
	if sponsorship.Valid {
		e.Sponsorship = &sponsorship.String
	}
	return e, nil
}

// List returns all events, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		var (
			e           model.Event
			sponsorship sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ClubID, &e.HeadID, &e.EventName, &e.EventDate, &e.Location,
			&e.ShortDescription, &e.Goal, &e.Organizers, &e.Schedule, &sponsorship,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		if sponsorship.Valid {
			e.Sponsorship = &sponsorship.String
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
