package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/greenspro/auth-backend/internal/utils" // token parsing with typed claims
)

// Context keys under which JWTAuth stores the verified identity. Handlers
// and downstream middleware read these via c.Get().
const (
    CtxUserID     = "user_id"
    CtxEmail      = "email"
    CtxRole       = "role"
    CtxIsApproved = "is_approved"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the verified identity into the request context.  The provided
// secret must match the one used when issuing tokens.  A missing header and
// an invalid token are both rejected with 401; role enforcement is a
// separate concern handled by RequireRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // ParseAccessToken checks algorithm, signature, expiry and the
            // role enum; every failure collapses into one rejection so the
            // response never reveals why a token was refused.
            claims, err := utils.ParseAccessToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
            }

            c.Set(CtxUserID, claims.UserID)
            c.Set(CtxEmail, claims.Email)
            c.Set(CtxRole, string(claims.Role))
            c.Set(CtxIsApproved, claims.IsApproved)
            return next(c)
        }
    }
}
