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

// PostHandler manages the social feed.  Any authenticated user can
// post and like; only the author can delete their post.
type PostHandler struct {
	Posts *repository.PostRepo
}

func NewPostHandler(posts *repository.PostRepo) *PostHandler {
	if posts == nil {
		panic("nil repository passed to NewPostHandler")
	}
	return &PostHandler{Posts: posts}
}

type postReq struct {
	ClubID  *uint64 `json:"club_id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

type postResp struct {
	ID        uint64  `json:"id"`
	ClubID    *uint64 `json:"club_id,omitempty"`
	UserID    uint64  `json:"user_id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Image     *string `json:"image,omitempty"`
	Likes     uint32  `json:"likes"`
	CreatedAt string  `json:"created_at"`
}

func toPostResp(p model.Post) postResp {
	return postResp{
		ID:        p.ID,
		ClubID:    p.ClubID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		Image:     p.Image,
		Likes:     p.Likes,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/posts.
func (h *PostHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req postReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/content required"})
	}

	p := model.Post{
		ClubID:  req.ClubID,
		UserID:  uid,
		Title:   req.Title,
		Content: req.Content,
		Image:   req.Image,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, toPostResp(p))
}

// List handles GET /v1/posts.  Public feed, newest first.
func (h *PostHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load posts failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Like handles POST /v1/posts/:id/like.  The counter moves in one
// atomic update so concurrent likes are never lost.
func (h *PostHandler) Like(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Like(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "like failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "liked"})
}

// Delete handles DELETE /v1/posts/:id.  Author only.
func (h *PostHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Delete(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrPostNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
