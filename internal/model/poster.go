package model

import "time"

// Poster is a bookable event listing published by a club's head
// admin.  A poster carries a finite seat capacity: Seats is the
// total set at creation and SeatsLeft is the remaining capacity.
// SeatsLeft is only ever changed through ticket booking
// transitions (book, reject, delete) so that at all times
// 0 <= SeatsLeft <= Seats and the seats held by pending and
// approved bookings account exactly for Seats - SeatsLeft.
//
// Fields:
//  ID          – primary key identifier.
//  EventID     – event this poster advertises.
//  ClubID      – club organizing the event.
//  HeadID      – head admin who owns the poster.
//  EventTitle  – display title of the event.
//  EventDate   – date of the event (YYYY-MM-DD).
//  Location    – where the event takes place.
//  Time        – start time as entered by the head.
//  Description – free-form description.
//  Seats       – total seat capacity.
//  SeatsLeft   – remaining seats available for booking.
//  Price       – ticket price in whole currency units.
//  Image       – stored image path (nil when no image uploaded).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Poster struct {
	ID          uint64    // posters.id
	EventID     uint64    // posters.event_id
	ClubID      uint64    // posters.club_id
	HeadID      uint64    // posters.head_id
	EventTitle  string    // posters.event_title
	EventDate   string    // posters.event_date
	Location    string    // posters.location
	Time        string    // posters.time
	Description string    // posters.description
	Seats       uint32    // posters.seats
	SeatsLeft   uint32    // posters.seats_left
	Price       uint32    // posters.price
	Image       *string   // posters.image (nullable)
	CreatedAt   time.Time // posters.created_at
	UpdatedAt   time.Time // posters.updated_at
}
