package model

import "time"

// Event request statuses.  A request starts pending and is decided
// exactly once by a super admin.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// EventRequest is a head admin's proposal for a new club event.
// Approval by a super admin materializes the matching Event row;
// rejection may carry a reviewer comment.
type EventRequest struct {
	ID               uint64    // event_requests.id
	ClubID           uint64    // event_requests.club_id
	HeadID           uint64    // event_requests.head_id
	EventName        string    // event_requests.event_name
	EventDate        string    // event_requests.event_date
	Location         string    // event_requests.location
	ShortDescription string    // event_requests.short_description
	Goal             string    // event_requests.goal
	Organizers       string    // event_requests.organizers
	Schedule         string    // event_requests.schedule
	Sponsorship      *string   // event_requests.sponsorship (nullable)
	ClubHead         string    // event_requests.club_head
	Phone            string    // event_requests.phone
	Comment          *string   // event_requests.comment (nullable)
	Status           string    // event_requests.status
	CreatedAt        time.Time // event_requests.created_at
	UpdatedAt        time.Time // event_requests.updated_at
}
