package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/model"
	"github.com/iliyamo/unihub-club-events/internal/repository"
)

// EventHandler manages club events.  Posters advertising an event
// (and carrying its seat capacity) are managed separately.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(events *repository.EventRepo) *EventHandler {
	if events == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events}
}

type eventResp struct {
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
}

func toEventResp(e model.Event) eventResp {
	return eventResp{
		ID:               e.ID,
		ClubID:           e.ClubID,
		HeadID:           e.HeadID,
		EventName:        e.EventName,
		EventDate:        e.EventDate,
		Location:         e.Location,
		ShortDescription: e.ShortDescription,
		Goal:             e.Goal,
		Organizers:       e.Organizers,
		Schedule:         e.Schedule,
		Sponsorship:      e.Sponsorship,
	}
}

type eventReq struct {
	ClubID           uint64  `json:"club_id"`
	EventName        string  `json:"event_name"`
	EventDate        string  `json:"event_date"`
	Location         string  `json:"location"`
	ShortDescription string  `json:"short_description"`
	Goal             string  `json:"goal"`
	Organizers       string  `json:"organizers"`
	Schedule         string  `json:"schedule"`
	Sponsorship      *string `json:"sponsorship"`
}

// Create handles POST /v1/events for head admins.
func (h *EventHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.EventName = strings.TrimSpace(req.EventName)
	if req.ClubID == 0 || req.EventName == "" || req.EventDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "club_id/event_name/event_date required"})
	}

	e := model.Event{
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
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Create(ctx, &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": e.ID})
}

// List handles GET /v1/events.  Public.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load events failed"})
	}
	out := make([]eventResp, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResp(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/events/:id.  Public.
func (h *EventHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, toEventResp(e))
}
