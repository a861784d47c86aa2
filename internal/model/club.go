package model

import "time"

// Club represents a student club led by a head admin.  Each club
// belongs to exactly one head; events and posters reference the
// club through ClubID.
type Club struct {
	ID                uint64    // clubs.id
	Name              string    // clubs.name
	HeadID            uint64    // clubs.head_id
	Goal              string    // clubs.goal
	Description       string    // clubs.description
	Financing         string    // clubs.financing
	Resources         *string   // clubs.resources (nullable)
	AttractionMethods string    // clubs.attraction_methods
	Rating            int32     // clubs.rating
	CreatedAt         time.Time // clubs.created_at
	UpdatedAt         time.Time // clubs.updated_at
}
