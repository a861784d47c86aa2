package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/model"
	"github.com/iliyamo/unihub-club-events/internal/repository"
)

// EventRequestStore is the storage surface of the event-request
// workflow.  *repository.EventRequestRepo is the production
// implementation.
type EventRequestStore interface {
	Create(ctx context.Context, req *model.EventRequest) error
	GetByID(ctx context.Context, id uint64) (model.EventRequest, error)
	List(ctx context.Context) ([]model.EventRequest, error)
	ListByHead(ctx context.Context, headID uint64) ([]model.EventRequest, error)
	Approve(ctx context.Context, id uint64) (model.EventRequest, error)
	Reject(ctx context.Context, id uint64, comment *string) (model.EventRequest, error)
}

var _ EventRequestStore = (*repository.EventRequestRepo)(nil)

// EventRequestHandler manages the event proposal workflow.  Head
// admins file requests for new club events; a super admin approves
// or rejects them.  Approval creates the event itself, so events
// only ever exist through this workflow or seeding.
type EventRequestHandler struct {
	Requests EventRequestStore
}

func NewEventRequestHandler(requests EventRequestStore) *EventRequestHandler {
	if requests == nil {
		panic("nil store passed to NewEventRequestHandler")
	}
	return &EventRequestHandler{Requests: requests}
}

type eventRequestReq struct {
	ClubID           uint64  `json:"club_id"`
	EventName        string  `json:"event_name"`
	EventDate        string  `json:"event_date"`
	Location         string  `json:"location"`
	ShortDescription string  `json:"short_description"`
	Goal             string  `json:"goal"`
	Organizers       string  `json:"organizers"`
	Schedule         string  `json:"schedule"`
	Sponsorship      *string `json:"sponsorship"`
	ClubHead         string  `json:"club_head"`
	Phone            string  `json:"phone"`
}

type eventRequestResp struct {
	ID               uint64  `json:"id"`
	ClubID           uint64  `json:"club_id"`
	HeadID           uint64  `json:"head_id"`
	EventName        string  `json:"event_name"`
	EventDate        string  `json:"event_date"`
	Location         string  `json:"location"`
	ShortDescription string  `json:"short_description"`
	Goal             string  `json:"goal"`
	Organizers       string  `json:"organizers"`
	Schedule         string  `json:"schedule"`
	Sponsorship      *string `json:"sponsorship,omitempty"`
	ClubHead         string  `json:"club_head"`
	Phone            string  `json:"phone"`
	Comment          *string `json:"comment,omitempty"`
	Status           string  `json:"status"`
}

func toEventRequestResp(r model.EventRequest) eventRequestResp {
	return eventRequestResp{
		ID:               r.ID,
		ClubID:           r.ClubID,
		HeadID:           r.HeadID,
		EventName:        r.EventName,
		EventDate:        r.EventDate,
		Location:         r.Location,
		ShortDescription: r.ShortDescription,
		Goal:             r.Goal,
		Organizers:       r.Organizers,
		Schedule:         r.Schedule,
		Sponsorship:      r.Sponsorship,
		ClubHead:         r.ClubHead,
		Phone:            r.Phone,
		Comment:          r.Comment,
		Status:           r.Status,
	}
}

// Create handles POST /v1/event-requests for head admins.  The new
// request starts pending.
func (h *EventRequestHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.EventName = strings.TrimSpace(req.EventName)
	if req.ClubID == 0 || req.EventName == "" || req.EventDate == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "club_id/event_name/event_date/location required"})
	}
	if req.ShortDescription == "" || req.Goal == "" || req.Organizers == "" ||
		req.Schedule == "" || req.ClubHead == "" || req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "short_description/goal/organizers/schedule/club_head/phone required"})
	}

	r := model.EventRequest{
		ClubID:           req.ClubID,
		HeadID:           uid,
		EventName:        req.EventName,
		EventDate:        req.EventDate,
		Location:         req.Location,
		ShortDescription: req.ShortDescription,
		Goal:             req.Goal,
		Organizers:       req.Organizers,
		Schedule:         req.Schedule,
		Sponsorship:      req.Sponsorship,
		ClubHead:         req.ClubHead,
		Phone:            req.Phone,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Requests.Create(ctx, &r); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event request failed"})
	}
	return c.JSON(http.StatusCreated, toEventRequestResp(r))
}

// List handles GET /v1/event-requests for super admins.
func (h *EventRequestHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Requests.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event requests failed"})
	}
	out := make([]eventRequestResp, 0, len(items))
	for _, r := range items {
		out = append(out, toEventRequestResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListMine handles GET /v1/event-requests/my for head admins.
func (h *EventRequestHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Requests.ListByHead(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event requests failed"})
	}
	out := make([]eventRequestResp, 0, len(items))
	for _, r := range items {
		out = append(out, toEventRequestResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/event-requests/:id.  Visible to the filing
// head admin and to super admins.
func (h *EventRequestHandler) Get(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event request id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		return eventRequestError(c, err)
	}
	if !authz.CanViewEventRequest(actor, r.HeadID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toEventRequestResp(r))
}

// Approve handles POST /v1/event-requests/:id/approve for super
// admins.  Approval also creates the proposed event.
func (h *EventRequestHandler) Approve(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event request id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.Approve(ctx, id)
	if err != nil {
		return eventRequestError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event request approved", "request": toEventRequestResp(r)})
}

type rejectRequestReq struct {
	Comment *string `json:"comment"`
}

// Reject handles POST /v1/event-requests/:id/reject for super
// admins.  The optional comment is stored for the requesting head.
func (h *EventRequestHandler) Reject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event request id"})
	}
	var body rejectRequestReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	r, err := h.Requests.Reject(ctx, id, body.Comment)
	if err != nil {
		return eventRequestError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "event request rejected", "request": toEventRequestResp(r)})
}

func eventRequestError(c echo.Context, err error) error {
	var decided *repository.RequestDecidedError
	switch {
	case errors.Is(err, repository.ErrRequestNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event request not found"})
	case errors.As(err, &decided):
		return c.JSON(http.StatusConflict, echo.Map{"error": decided.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}
