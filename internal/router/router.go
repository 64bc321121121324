package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/greenspro/auth-backend/internal/handler"    // import the handlers that implement business logic
	"github.com/greenspro/auth-backend/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/greenspro/auth-backend/internal/model"      // role constants for the admin gate
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this endpoint.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the public auth endpoints under /api.  The limiter
// middleware guards every login-class endpoint against brute forcing; it is
// a pass-through when rate limiting is disabled or Redis is unavailable.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/api", limiter)
	// Account creation; the user stays locked out until an admin approves.
	g.POST("/signup", a.Signup)
	// Credential verification and token issuance for approved users.
	g.POST("/login", a.Login)
	// Issues a single-use reset token and emails the reset link.
	g.POST("/forgot-password", a.ForgotPassword)
	// Consumes the emailed token and sets the new password.
	g.POST("/reset-password/:token", a.ResetPassword)
}

// RegisterAdmin registers the admin login and the protected user-management
// endpoints under /api/admin.  The protected group composes JWTAuth with
// RequireRole(admin): a missing or invalid token yields 401 while a valid
// user-role token yields 403.  The optional cache middleware wraps the user
// listing only.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/api/admin")
	// Admin credential verification; rate limited like the user login.
	g.POST("/login", a.Login, limiter)

	protected := g.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	// Listing is read-heavy for the approval dashboard, so it is cached.
	protected.GET("/users", a.ListUsers, cache)
	// Mutations purge the cached listing inside the handler.
	protected.POST("/approve/:id", a.ApproveUser)
	protected.DELETE("/users/:id", a.DeleteUser)
}
