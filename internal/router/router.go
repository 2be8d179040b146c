package router // route registration for the parking reservation API

import (
	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-reservation/internal/handler"
	"github.com/parkwise/parking-reservation/internal/middleware"
	"github.com/parkwise/parking-reservation/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check for load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes. Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access
// token. Logout deliberately skips the JWT middleware so an expired
// session can still revoke its refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the guest browse endpoints: lot listings
// and per-lot slot occupancy. No JWT or role middleware applies.
func RegisterPublic(e *echo.Echo, p *handler.PublicLotHandler) {
	e.GET("/v1/lots", p.List)
	e.GET("/v1/lots/:id", p.Get)
	e.GET("/v1/lots/:id/slots", p.LotSlots)
}

// RegisterCustomer registers the booking and notification endpoints
// of an authenticated user. Notifications are shared with admins;
// the handler reads the role from the token to pick the inbox.
func RegisterCustomer(e *echo.Echo, b *handler.CustomerBookingHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/cancel", b.Cancel)
	g.DELETE("/bookings/:id", b.Delete)

	g.GET("/notifications", n.List)
	g.GET("/notifications/unread-count", n.UnreadCount)
	g.PATCH("/notifications/:id/read", n.MarkRead)
	g.POST("/notifications/read-all", n.MarkAllRead)
	g.DELETE("/notifications/:id", n.Delete)
}

// RegisterAdmin registers the owner-scoped lot and booking endpoints.
// Every route requires the ADMIN role; the handlers additionally
// resolve the lot through the caller so admins only touch their own.
func RegisterAdmin(e *echo.Echo, l *handler.AdminLotHandler, b *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.GET("/lot", l.Get)
	g.PATCH("/lot", l.Patch)
	g.PATCH("/lot/slots/:number", l.ToggleSlot)

	g.GET("/bookings", b.List)
	g.POST("/bookings/:id/confirm", b.Confirm)
	g.POST("/bookings/:id/cancel", b.Cancel)
}
