package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/model"
	"github.com/iliyamo/unihub-club-events/internal/repository"
	"github.com/iliyamo/unihub-club-events/internal/storage"
)

const maxImageBytes = 5 << 20

// PosterHandler manages bookable event posters.  Creation and
// mutation are head-admin operations; browsing is public.
type PosterHandler struct {
	Posters *repository.PosterRepo
	Blobs   *storage.BlobStore
}

func NewPosterHandler(posters *repository.PosterRepo, blobs *storage.BlobStore) *PosterHandler {
	if posters == nil || blobs == nil {
		panic("nil dependency passed to NewPosterHandler")
	}
	return &PosterHandler{Posters: posters, Blobs: blobs}
}

type posterResp struct {
	ID          uint64  `json:"id"`
	EventID     uint64  `json:"event_id"`
	ClubID      uint64  `json:"club_id"`
	HeadID      uint64  `json:"head_id"`
	EventTitle  string  `json:"event_title"`
	EventDate   string  `json:"event_date"`
	Location    string  `json:"location"`
	Time        string  `json:"time"`
	Description string  `json:"description"`
	Seats       uint32  `json:"seats"`
	SeatsLeft   uint32  `json:"seats_left"`
	Price       uint32  `json:"price"`
	Image       *string `json:"image,omitempty"`
}

func toPosterResp(p model.Poster) posterResp {
	return posterResp{
		ID:          p.ID,
		EventID:     p.EventID,
		ClubID:      p.ClubID,
		HeadID:      p.HeadID,
		EventTitle:  p.EventTitle,
		EventDate:   p.EventDate,
		Location:    p.Location,
		Time:        p.Time,
		Description: p.Description,
		Seats:       p.Seats,
		SeatsLeft:   p.SeatsLeft,
		Price:       p.Price,
		Image:       p.Image,
	}
}

// Create handles POST /v1/posters.  The request is multipart form
// data with the poster fields plus an optional image file.  The new
// poster opens with seats_left equal to seats.
func (h *PosterHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := strconv.ParseUint(c.FormValue("event_id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event_id"})
	}
	clubID, err := strconv.ParseUint(c.FormValue("club_id"), 10, 64)
	if err != nil || clubID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club_id"})
	}
	title := c.FormValue("event_title")
	date := c.FormValue("event_date")
	location := c.FormValue("location")
	startTime := c.FormValue("time")
	if title == "" || date == "" || location == "" || startTime == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_title/event_date/location/time required"})
	}
	seats, err := strconv.ParseUint(c.FormValue("seats"), 10, 32)
	if err != nil || seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seats"})
	}
	price, err := strconv.ParseUint(c.FormValue("price"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
	}

	var image *string
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		ext, ok := uploadExt(fh.Filename)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported image format"})
		}
		if fh.Size > maxImageBytes {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "image too large"})
		}
		src, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
		}
		data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
		src.Close()
		if err != nil || int64(len(data)) > maxImageBytes {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "image too large"})
		}
		path, err := h.Blobs.Store(data, ext)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store upload failed"})
		}
		image = &path
	}

	p := model.Poster{
		EventID:     eventID,
		ClubID:      clubID,
		HeadID:      uid,
		EventTitle:  title,
		EventDate:   date,
		Location:    location,
		Time:        startTime,
		Description: c.FormValue("description"),
		Seats:       uint32(seats),
		Price:       uint32(price),
		Image:       image,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posters.Create(ctx, &p); err != nil {
		if image != nil {
			_ = h.Blobs.Delete(*image)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create poster failed"})
	}
	return c.JSON(http.StatusCreated, toPosterResp(p))
}

// List handles GET /v1/posters.  Public; returns all posters.
func (h *PosterHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posters, err := h.Posters.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posters failed"})
	}
	out := make([]posterResp, 0, len(posters))
	for _, p := range posters {
		out = append(out, toPosterResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/posters/:id.  Public; seats_left in the
// response is the live remaining capacity.
func (h *PosterHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poster id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load poster failed"})
	}
	return c.JSON(http.StatusOK, toPosterResp(p))
}

// ListMine handles GET /v1/posters/my for head admins.
func (h *PosterHandler) ListMine(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posters, err := h.Posters.ListByHead(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posters failed"})
	}
	out := make([]posterResp, 0, len(posters))
	for _, p := range posters {
		out = append(out, toPosterResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

type updatePosterReq struct {
	EventTitle  string `json:"event_title"`
	EventDate   string `json:"event_date"`
	Location    string `json:"location"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Seats       uint32 `json:"seats"`
	Price       uint32 `json:"price"`
}

// Update handles PUT /v1/posters/:id.  Resizing seats moves
// seats_left by the same delta so already-booked seats stay booked;
// shrinking below the booked count is refused.
func (h *PosterHandler) Update(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poster id"})
	}
	var req updatePosterReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventTitle == "" || req.EventDate == "" || req.Location == "" || req.Time == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_title/event_date/location/time required"})
	}
	if req.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seats"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Posters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load poster failed"})
	}
	if !authz.CanManagePoster(actor, existing.HeadID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	p := existing
	p.EventTitle = req.EventTitle
	p.EventDate = req.EventDate
	p.Location = req.Location
	p.Time = req.Time
	p.Description = req.Description
	p.Seats = req.Seats
	p.Price = req.Price

	if err := h.Posters.Update(ctx, p, actor.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats cannot drop below booked count"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update poster failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "poster updated"})
}

// Delete handles DELETE /v1/posters/:id.  A poster with pending or
// approved bookings cannot be deleted.
func (h *PosterHandler) Delete(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid poster id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Posters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load poster failed"})
	}
	if !authz.CanManagePoster(actor, existing.HeadID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	if err := h.Posters.Delete(ctx, id, actor.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "poster not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "poster has active bookings"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete poster failed"})
		}
	}
	if existing.Image != nil {
		_ = h.Blobs.Delete(*existing.Image)
	}
	return c.NoContent(http.StatusNoContent)
}
