package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/handler"
	"github.com/iliyamo/unihub-club-events/internal/middleware"
)

// RegisterStudent registers student-scoped endpoints under /v1.  All
// routes require a valid JWT.  Students book tickets on posters,
// manage their own bookings and calendar, and write on the social
// feed.  DELETE /v1/tickets/:id is also open to head admins, who may
// remove bookings on their posters; the handler enforces ownership.
func RegisterStudent(e *echo.Echo, t *handler.TicketHandler, p *handler.PostHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(authz.RoleStudent, authz.RoleHeadAdmin, authz.RoleSuperAdmin),
	)
	g.POST("/tickets", t.Book)
	g.GET("/tickets/my", t.ListMine)
	g.GET("/tickets/calendar", t.Calendar)
	g.GET("/tickets/:id", t.Get)
	g.DELETE("/tickets/:id", t.Delete)

	g.POST("/posts", p.Create)
	g.POST("/posts/:id/like", p.Like)
	g.DELETE("/posts/:id", p.Delete)
}
