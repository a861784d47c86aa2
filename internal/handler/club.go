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

// ClubHandler manages student clubs.  Creation and updates belong to
// head admins (super admins may update any club); browsing is public.
type ClubHandler struct {
	Clubs *repository.ClubRepo
}

func NewClubHandler(clubs *repository.ClubRepo) *ClubHandler {
	if clubs == nil {
		panic("nil repository passed to NewClubHandler")
	}
	return &ClubHandler{Clubs: clubs}
}

type clubReq struct {
	Name              string  `json:"name"`
	Goal              string  `json:"goal"`
	Description       string  `json:"description"`
	Financing         string  `json:"financing"`
	Resources         *string `json:"resources"`
	AttractionMethods string  `json:"attraction_methods"`
}

type clubResp struct {
	ID                uint64  `json:"id"`
	Name              string  `json:"name"`
	HeadID            uint64  `json:"head_id"`
	Goal              string  `json:"goal"`
	Description       string  `json:"description"`
	Financing         string  `json:"financing"`
	Resources         *string `json:"resources,omitempty"`
	AttractionMethods string  `json:"attraction_methods"`
	Rating            int32   `json:"rating"`
}

func toClubResp(c model.Club) clubResp {
	return clubResp{
		ID:                c.ID,
		Name:              c.Name,
		HeadID:            c.HeadID,
		Goal:              c.Goal,
		Description:       c.Description,
		Financing:         c.Financing,
		Resources:         c.Resources,
		AttractionMethods: c.AttractionMethods,
		Rating:            c.Rating,
	}
}

// Create handles POST /v1/clubs.  The calling head admin becomes the
// club's head.
func (h *ClubHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	club := model.Club{
		Name:              req.Name,
		HeadID:            uid,
		Goal:              req.Goal,
		Description:       req.Description,
		Financing:         req.Financing,
		Resources:         req.Resources,
		AttractionMethods: req.AttractionMethods,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Clubs.Create(ctx, &club); err != nil {
		if errors.Is(err, repository.ErrClubNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "club name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create club failed"})
	}
	return c.JSON(http.StatusCreated, toClubResp(club))
}

// List handles GET /v1/clubs.  Public.
func (h *ClubHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	clubs, err := h.Clubs.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load clubs failed"})
	}
	out := make([]clubResp, 0, len(clubs))
	for _, cl := range clubs {
		out = append(out, toClubResp(cl))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/clubs/:id.  Public.
func (h *ClubHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	club, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load club failed"})
	}
	return c.JSON(http.StatusOK, toClubResp(club))
}

// Update handles PUT /v1/clubs/:id.  The leading head admin may
// update their own club; super admins may update any.
func (h *ClubHandler) Update(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid club id"})
	}
	var req clubReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	existing, err := h.Clubs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load club failed"})
	}
	if !authz.CanManageClub(actor, existing.HeadID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	club := existing
	club.Goal = req.Goal
	club.Description = req.Description
	club.Financing = req.Financing
	club.Resources = req.Resources
	club.AttractionMethods = req.AttractionMethods

	// CanManageClub already allowed super admins, so the ownership
	// re-check in the repo runs against the club's own head.
	if err := h.Clubs.Update(ctx, club, existing.HeadID); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "club not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update club failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "club updated"})
}
