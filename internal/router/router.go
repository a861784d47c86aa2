package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/handler"
	"github.com/iliyamo/unihub-club-events/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance.  Currently it exposes only a health
// check; uploaded blobs are served statically from main.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account lifecycle routes.
// Unauthenticated operations live under /v1/auth, while protected
// account endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/verify-email", a.VerifyEmail)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	auth.POST("/change-password", a.ChangePassword)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterPublic registers unauthenticated browse endpoints: the
// poster catalog, clubs, events and the social feed.  These routes
// do not apply any JWT or role middleware so that guests can browse
// before registering.
func RegisterPublic(e *echo.Echo, posters *handler.PosterHandler, clubs *handler.ClubHandler, events *handler.EventHandler, posts *handler.PostHandler) {
	e.GET("/v1/posters", posters.List)
	e.GET("/v1/posters/:id", posters.Get)
	e.GET("/v1/clubs", clubs.List)
	e.GET("/v1/clubs/:id", clubs.Get)
	e.GET("/v1/events", events.List)
	e.GET("/v1/events/:id", events.Get)
	e.GET("/v1/posts", posts.List)
}
