package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/booking"
	"github.com/iliyamo/unihub-club-events/internal/queue"
	"github.com/iliyamo/unihub-club-events/internal/repository"
	queue_publisher "github.com/iliyamo/unihub-club-events/internal/service"
	"github.com/iliyamo/unihub-club-events/internal/storage"
)

// maxProofBytes bounds payment proof uploads (5 MiB).
const maxProofBytes = 5 << 20

// TicketHandler exposes the ticket booking workflow: students book
// seats on posters and head admins review the resulting requests.
// All mutations go through the booking service so every seat-count
// change is a single atomic transition.
type TicketHandler struct {
	Svc     *booking.Service
	Tickets *repository.TicketRepo
	Posters *repository.PosterRepo
	Blobs   *storage.BlobStore
}

func NewTicketHandler(svc *booking.Service, tickets *repository.TicketRepo, posters *repository.PosterRepo, blobs *storage.BlobStore) *TicketHandler {
	if svc == nil || tickets == nil || posters == nil || blobs == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Svc: svc, Tickets: tickets, Posters: posters, Blobs: blobs}
}

// Book handles POST /v1/tickets.  The request is multipart form data
// with poster_id and number_of_persons fields plus an optional
// payment_proof file.  On success the booking starts out pending and
// its seats are already subtracted from the poster.
func (h *TicketHandler) Book(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	posterID, err := strconv.ParseUint(c.FormValue("poster_id"), 10, 64)
	if err != nil || posterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poster_id"})
	}
	persons, err := strconv.ParseUint(c.FormValue("number_of_persons"), 10, 32)
	if err != nil || persons == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid number_of_persons"})
	}

	// Optional payment proof upload.  Stored before the booking so a
	// failed booking only leaves an orphan blob, never the reverse.
	var proofPath *string
	if fh, err := c.FormFile("payment_proof"); err == nil && fh != nil {
		ext, ok := uploadExt(fh.Filename)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported payment proof format"})
		}
		if fh.Size > maxProofBytes {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment proof too large"})
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
		}
		data, err := io.ReadAll(io.LimitReader(src, maxProofBytes+1))
		src.Close()
		if err != nil || int64(len(data)) > maxProofBytes {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment proof too large"})
		}
		p, err := h.Blobs.Store(data, ext)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
		}
		proofPath = &p
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Svc.Book(ctx, actor, posterID, uint32(persons), proofPath)
	if err != nil {
		if proofPath != nil {
			_ = h.Blobs.Delete(*proofPath)
		}
		return ticketError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                b.ID,
		"poster_id":         b.PosterID,
		"number_of_persons": b.NumberOfPersons,
		"payment_proof":     b.PaymentProof,
		"status":            b.Status,
	})
}

// ListMine handles GET /v1/tickets/my.  It returns the caller's
// bookings joined with poster details, newest first.
func (h *TicketHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Tickets.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/tickets/:id.  Visible to the booking's own
// user and to head admins.
func (h *TicketHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Tickets.GetBooking(ctx, id)
	if err != nil {
		return ticketError(c, err)
	}
	if !authz.CanViewTicket(actor, b.UserID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":                b.ID,
		"poster_id":         b.PosterID,
		"user_id":           b.UserID,
		"number_of_persons": b.NumberOfPersons,
		"payment_proof":     b.PaymentProof,
		"status":            b.Status,
	})
}

// Calendar handles GET /v1/tickets/calendar.  It returns the
// caller's approved bookings shaped as calendar entries.
func (h *TicketHandler) Calendar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Tickets.CalendarForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load calendar failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Pending handles GET /v1/tickets/pending.  It lists pending
// bookings on posters owned by the calling head admin.
func (h *TicketHandler) Pending(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Tickets.ListPendingForHead(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load pending tickets failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Approve handles POST /v1/tickets/:id/approve.  Approving keeps the
// seats that were reserved at booking time; a successful approval is
// announced on the message broker for downstream consumers.
func (h *TicketHandler) Approve(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Approve(ctx, actor, id); err != nil {
		return ticketError(c, err)
	}

	h.publishApproved(id, actor.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket approved"})
}

// Reject handles POST /v1/tickets/:id/reject.  Rejecting credits the
// booking's seats back to the poster in the same transaction.
func (h *TicketHandler) Reject(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Reject(ctx, actor, id); err != nil {
		return ticketError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket rejected"})
}

// Delete handles DELETE /v1/tickets/:id.  Students cancel their own
// bookings; head admins may remove any booking.  Seats flow back to
// the poster when the booking still holds them, and any stored
// payment proof blob is removed afterwards.
func (h *TicketHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Svc.Cancel(ctx, actor, id)
	if err != nil {
		return ticketError(c, err)
	}
	if b.PaymentProof != nil {
		_ = h.Blobs.Delete(*b.PaymentProof)
	}
	return c.NoContent(http.StatusNoContent)
}

// publishApproved loads the approved booking's details and publishes
// a TicketApprovedEvent in the background.  Publish failures are
// logged inside the publisher and never fail the request.
func (h *TicketHandler) publishApproved(ticketID, approvedBy uint64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		b, err := h.Tickets.GetBooking(ctx, ticketID)
		if err != nil {
			return
		}
		p, err := h.Posters.GetByID(ctx, b.PosterID)
		if err != nil {
			return
		}
		_ = queue_publisher.PublishTicketApproved(ctx, queue.TicketApprovedEvent{
			TicketID:        b.ID,
			PosterID:        b.PosterID,
			UserID:          b.UserID,
			EventTitle:      p.EventTitle,
			EventDate:       p.EventDate,
			Location:        p.Location,
			NumberOfPersons: b.NumberOfPersons,
			ApprovedBy:      approvedBy,
			ApprovedAt:      time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// ticketError maps booking errors onto HTTP responses.
func ticketError(c echo.Context, err error) error {
	var decided *booking.AlreadyDecidedError
	switch {
	case errors.Is(err, booking.ErrPosterNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
	case errors.Is(err, booking.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, booking.ErrInsufficientSeats):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats available"})
	case errors.Is(err, booking.ErrInvalidPersons):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number of persons must be positive"})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.As(err, &decided):
		return c.JSON(http.StatusConflict, echo.Map{"error": decided.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
