package model

import "time"

// Post is a social feed entry written by a user, optionally on
// behalf of a club.
type Post struct {
	ID        uint64    // posts.id
	ClubID    *uint64   // posts.club_id (nullable)
	UserID    uint64    // posts.user_id
	Title     string    // posts.title
	Content   string    // posts.content
	Image     *string   // posts.image (nullable)
	Likes     uint32    // posts.likes
	CreatedAt time.Time // posts.created_at
	UpdatedAt time.Time // posts.updated_at
}
