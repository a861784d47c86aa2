package model

import "time"

// Event is an approved club event.  Posters advertising the event
// (and carrying its seat capacity) reference it via EventID.
type Event struct {
	ID               uint64    // events.id
	ClubID           uint64    // events.club_id
	HeadID           uint64    // events.head_id
	EventName        string    // events.event_name
	EventDate        string    // events.event_date
	Location         string    // events.location
	ShortDescription string    // events.short_description
	Goal             string    // events.goal
	Organizers       string    // events.organizers
	Schedule         string    // events.schedule
	Sponsorship      *string   // events.sponsorship (nullable)
	CreatedAt        time.Time // events.created_at
	UpdatedAt        time.Time // events.updated_at
}
