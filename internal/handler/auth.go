package handler

import (
	"context"  // context with cancellation for DB calls
	"errors"   // sentinel error matching
	"log"      // server-side error logging
	"net/http" // HTTP status codes
	"net/mail" // email address validation
	"strings"  // input normalization
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/greenspro/auth-backend/internal/config"     // app configuration
	"github.com/greenspro/auth-backend/internal/model"      // user model and roles
	"github.com/greenspro/auth-backend/internal/repository" // sentinel errors
	"github.com/greenspro/auth-backend/internal/utils"      // hashing and token issuing
)

// UserStore is what the auth and admin handlers need from the user table.
// The MySQL repository satisfies it; tests use an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, email, username, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetResetToken(ctx context.Context, userID uint64, token string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, token, newPassword string, cost int) error
	List(ctx context.Context) ([]model.User, error)
	SetApproval(ctx context.Context, id uint64, approved bool) error
	Delete(ctx context.Context, id uint64) error
}

// ResetNotifier dispatches the password-reset notification carrying the raw
// token. Implemented by service.ResetNotifier.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, userID uint64, email, username, token string) error
}

// AuthHandler bundles dependencies for the public auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Notifier ResetNotifier
}

func NewAuthHandler(cfg config.Config, users UserStore, notifier ResetNotifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Notifier: notifier}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Password string `json:"password"`
}
type loginResp struct {
	Token    string `json:"token"`
	Approved bool   `json:"approved"`
	Username string `json:"username"`
}

// validEmail reports whether the address parses as a bare RFC 5322 address.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// Signup: create an unapproved user. No token is issued; the account is
// unusable until an admin approves it.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Valid email is required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 6 characters"})
	}
	if len(req.Username) < 3 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Username must be at least 3 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Email, req.Username, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "User already exists"})
		}
		log.Printf("signup error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal Server Error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Signup successful. You will be able to login only if the admin approves.",
	})
}

// Login: verify credentials, enforce the approval gate, issue a user token.
// Unknown email and wrong password return the same generic message so the
// endpoint is not a user-existence oracle.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Valid email is required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password of min 6 chars is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
		}
		log.Printf("login error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials"})
	}
	if !u.IsApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Your account is not yet approved by the admin."})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, model.RoleUser, u.IsApproved, h.Cfg.TokenTTLMin)
	if err != nil {
		log.Printf("login error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, loginResp{
		Token:    access.Token,
		Approved: u.IsApproved,
		Username: u.Username,
	})
}

// ForgotPassword: generate a fresh reset token (replacing any earlier one),
// persist it on the user row and dispatch the reset link by email.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Valid email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Printf("forgot password error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error."})
	}

	tok, err := utils.NewResetToken()
	if err != nil {
		log.Printf("forgot password error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error."})
	}
	if err := h.Users.SetResetToken(ctx, u.ID, tok.Raw, tok.Exp); err != nil {
		log.Printf("forgot password error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error."})
	}
	if err := h.Notifier.NotifyPasswordReset(ctx, u.ID, u.Email, u.Username, tok.Raw); err != nil {
		log.Printf("forgot password error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error."})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent."})
}

// ResetPassword: consume the token from the URL and set the new password.
// The match and the password update are one atomic store operation, so a
// token can never be used twice.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password must be at least 6 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.ConsumeResetToken(ctx, token, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrTokenInvalid) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid or expired token"})
		}
		log.Printf("reset password error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error."})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful"})
}
