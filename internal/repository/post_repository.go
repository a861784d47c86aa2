package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/unihub-club-events/internal/model"
)

// PostRepo provides access to the social 'posts' table.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post and populates the generated ID.
func (r *PostRepo) Create(ctx context.Context, p *model.Post) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO posts (club_id, user_id, title, content, image) VALUES (?,?,?,?,?)`,
		p.ClubID, p.UserID, p.Title, p.Content, p.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// List returns the feed, newest first.
func (r *PostRepo) List(ctx context.Context) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, club_id, user_id, title, content, image, likes, created_at, updated_at
		 FROM posts ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Post, 0)
	for rows.Next() {
		var (
			p      model.Post
			clubID sql.NullInt64
			image  sql.NullString
		)
		if err := rows.Scan(&p.ID, &clubID, &p.UserID, &p.Title, &p.Content, &image,
			&p.Likes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if clubID.Valid {
			cid := uint64(clubID.Int64)
			p.ClubID = &cid
		}
		if image.Valid {
			p.Image = &image.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Like increments the like counter in a single atomic update.
func (r *PostRepo) Like(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE posts SET likes = likes + 1, updated_at=NOW() WHERE id=?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post.  Only its author may delete it.
func (r *PostRepo) Delete(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.DB.QueryRowContext(ctx, `SELECT user_id FROM posts WHERE id=?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	return err
}
