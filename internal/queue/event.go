// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketApprovedEvent is published when a head admin approves a ticket
// booking.  It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type TicketApprovedEvent struct {
	TicketID        uint64 `json:"ticket_id"`
	PosterID        uint64 `json:"poster_id"`
	UserID          uint64 `json:"user_id"`
	EventTitle      string `json:"event_title"`
	EventDate       string `json:"event_date"`
	Location        string `json:"location"`
	NumberOfPersons uint32 `json:"number_of_persons"`
	ApprovedBy      uint64 `json:"approved_by"`
	ApprovedAt      string `json:"approved_at"`
}
