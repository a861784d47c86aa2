package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/handler"
	"github.com/iliyamo/unihub-club-events/internal/middleware"
)

// RegisterAdmin registers super-admin endpoints under /v1.  Super
// admins decide event requests and assign user roles; promoting a
// user to head_admin is what unlocks the head routes for them.
func RegisterAdmin(e *echo.Echo, reqs *handler.EventRequestHandler, auth *handler.AuthHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(authz.RoleSuperAdmin),
	)
	g.GET("/event-requests", reqs.List)
	g.POST("/event-requests/:id/approve", reqs.Approve)
	g.POST("/event-requests/:id/reject", reqs.Reject)

	g.PUT("/users/:id/role", auth.UpdateRole)
}
