package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/handler"
	"github.com/iliyamo/unihub-club-events/internal/middleware"
)

// RegisterHead registers head-admin endpoints under /v1.  Head
// admins manage their clubs, events and posters and review the
// ticket bookings on their posters.  Club updates are additionally
// open to super admins, who may administer any club.
func RegisterHead(e *echo.Echo, posters *handler.PosterHandler, clubs *handler.ClubHandler, events *handler.EventHandler, tickets *handler.TicketHandler, reqs *handler.EventRequestHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(authz.RoleHeadAdmin),
	)
	g.POST("/posters", posters.Create)
	g.GET("/posters/my", posters.ListMine)
	g.PUT("/posters/:id", posters.Update)
	g.DELETE("/posters/:id", posters.Delete)

	g.POST("/clubs", clubs.Create)
	g.POST("/events", events.Create)

	g.POST("/event-requests", reqs.Create)
	g.GET("/event-requests/my", reqs.ListMine)

	g.GET("/tickets/pending", tickets.Pending)
	g.POST("/tickets/:id/approve", tickets.Approve)
	g.POST("/tickets/:id/reject", tickets.Reject)

	// Club updates and event-request reads allow super admins as
	// well; CanManageClub and CanViewEventRequest decide inside the
	// handlers.
	admin := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(authz.RoleHeadAdmin, authz.RoleSuperAdmin),
	)
	admin.PUT("/clubs/:id", clubs.Update)
	admin.GET("/event-requests/:id", reqs.Get)
}
