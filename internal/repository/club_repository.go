package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/unihub-club-events/internal/model"
)

// ClubRepo provides CRUD access to the 'clubs' table.
type ClubRepo struct{ DB *sql.DB }

func NewClubRepo(db *sql.DB) *ClubRepo { return &ClubRepo{DB: db} }

var ErrClubNameExists = errors.New("club name already exists")

// Create inserts a club led by the given head admin.
func (r *ClubRepo) Create(ctx context.Context, c *model.Club) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO clubs (name, head_id, goal, description, financing, resources, attraction_methods)
		 VALUES (?,?,?,?,?,?,?)`,
		c.Name, c.HeadID, c.Goal, c.Description, c.Financing, c.Resources, c.AttractionMethods)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrClubNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

const clubColumns = `id, name, head_id, goal, description, financing, resources, attraction_methods,
       rating, created_at, updated_at`

// GetByID fetches a club by id.
func (r *ClubRepo) GetByID(ctx context.Context, id uint64) (model.Club, error) {
	var (
		c         model.Club
		resources sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE id=? LIMIT 1`, id).
		Scan(&c.ID, &c.Name, &c.HeadID, &c.Goal, &c.Description, &c.Financing,
			&resources, &c.AttractionMethods, &c.Rating, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Club{}, ErrClubNotFound
	}
	if err != nil {
		return model.Club{}, err
	}
	if resources.Valid {
		c.Resources = &resources.String
	}
	return c, nil
}

// List returns all clubs ordered by rating, best first.
func (r *ClubRepo) List(ctx context.Context) ([]model.Club, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+clubColumns+` FROM clubs ORDER BY rating DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Club, 0)
	for rows.Next() {
		var (
			c         model.Club
			resources sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.HeadID, &c.Goal, &c.Description, &c.Financing,
			&resources, &c.AttractionMethods, &c.Rating, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if resources.Valid {
			c.Resources = &resources.String
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the club's descriptive fields.  Only the leading
// head admin may update (enforced by the caller through authz; the
// repo re-checks ownership as the last line of defense).
func (r *ClubRepo) Update(ctx context.Context, c model.Club, headID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx, `SELECT head_id FROM clubs WHERE id=?`, c.ID).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrClubNotFound
	}
	if err != nil {
		return err
	}
	if owner != headID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE clubs SET goal=?, description=?, financing=?, resources=?, attraction_methods=?, updated_at=NOW()
		 WHERE id=?`,
		c.Goal, c.Description, c.Financing, c.Resources, c.AttractionMethods, c.ID)
	return err
}
