package handler // handler defines http handlers

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
)

// getUserID extracts the user_id set by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds the authorization actor for the current request
// from the claims the JWT middleware put in the context.
func getActor(c echo.Context) (authz.Actor, error) {
	id, err := getUserID(c)
	if err != nil {
		return authz.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return authz.Actor{ID: id, Role: role}, nil
}

// uploadExt validates an uploaded file name and returns its
// lowercase extension including the dot.  Only the formats we serve
// back as static files are accepted.
func uploadExt(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		return ext, true
	}
	return "", false
}
