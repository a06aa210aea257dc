package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/dosebuddy/dosebuddy-server/internal/handler"    // import the handlers that implement business logic
	"github.com/dosebuddy/dosebuddy-server/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this to verify the service
	// is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	// Operations that do not require an existing session (register, login,
	// refresh).  The rate limiter sits in front of these because they accept
	// credentials from anyone.
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Logout with a refresh_token in the body ends one session and needs no
	// access token.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me/pushover", a.SetPushoverKey)
	// Logout behind the JWT middleware with an empty body ends every session
	// of the authenticated user.
	auth.POST("/logout", a.Logout)
}

// RegisterMedications registers the medication CRUD and reminder action
// endpoints.  Everything here is user-scoped and requires a valid JWT;
// ownership of the :id medication is enforced in the handlers.
func RegisterMedications(e *echo.Echo, m *handler.MedicationHandler, r *handler.ReminderHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.POST("/medications", m.Create)
	g.GET("/medications", m.List)
	g.GET("/medications/:id", m.Get)
	g.PUT("/medications/:id", m.Update)
	g.DELETE("/medications/:id", m.Delete)
	g.POST("/medications/:id/reactivate", m.Reactivate)

	// Dose recording from the app's medication screen.
	g.POST("/medications/:id/taken", m.MarkTaken)
	g.GET("/medications/:id/last-taken", m.LastTaken)
	g.GET("/medications/:id/taken-today", m.TakenToday)

	// Actions on a fired reminder; notification clients call these with
	// minimal payloads.
	g.POST("/reminders/:id/taken", r.Taken)
	g.POST("/reminders/:id/snooze", r.Snooze)
	g.POST("/reminders/:id/dismiss", r.Dismiss)
}

// RegisterHistory registers dose history listings and adherence summaries.
func RegisterHistory(e *echo.Echo, h *handler.HistoryHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.GET("/history", h.ListUser)
	g.GET("/medications/:id/history", h.ListMedication)
	g.GET("/medications/:id/adherence", h.MedicationStats)
	g.GET("/adherence", h.UserStats)
}

// RegisterDrugInfo registers the openFDA label search.  The rate limiter
// keeps lookups inside the upstream courtesy quota.
func RegisterDrugInfo(e *echo.Echo, d *handler.DrugInfoHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	if limiter != nil {
		g.Use(limiter)
	}
	g.GET("/drugs/search", d.Search)
}
