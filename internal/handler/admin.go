package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/greenspro/auth-backend/internal/config"
	"github.com/greenspro/auth-backend/internal/model"
	"github.com/greenspro/auth-backend/internal/repository"
	"github.com/greenspro/auth-backend/internal/utils"
)

// AdminStore is the read surface the admin login needs from the admins table.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (model.Admin, error)
}

// AdminHandler bundles dependencies for the admin endpoints. Purge, when
// set, is invoked after any mutation so the cached user listing is dropped;
// it is nil when Redis is not configured.
type AdminHandler struct {
	Cfg    config.Config
	Users  UserStore
	Admins AdminStore
	Purge  func(context.Context)
}

func NewAdminHandler(cfg config.Config, users UserStore, admins AdminStore) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Admins: admins}
}

type adminUserPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type adminLoginResp struct {
	Token string        `json:"token"`
	User  adminUserPart `json:"user"`
}

// userRow is the listing/approval response shape; password hashes and reset
// tokens never leave the server.
type userRow struct {
	ID         uint64    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type approveReq struct {
	Approved bool `json:"approved"`
}

// Login: same shape as the user login but against the admins table. There
// is no approval gate; an admin row existing means the admin is active.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Password is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
		}
		log.Printf("admin login error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}
	if !utils.VerifyPassword(a.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid email or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, a.ID, a.Email, model.RoleAdmin, true, h.Cfg.TokenTTLMin)
	if err != nil {
		log.Printf("admin login error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, adminLoginResp{
		Token: access.Token,
		User:  adminUserPart{ID: a.ID, Email: a.Email, Role: string(model.RoleAdmin)},
	})
}

// ListUsers: all registered users, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		log.Printf("get users error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to retrieve users"})
	}

	out := make([]userRow, 0, len(users))
	for _, u := range users {
		out = append(out, userRow{
			ID: u.ID, Username: u.Username, Email: u.Email,
			IsApproved: u.IsApproved, CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// ApproveUser: flip the is_approved flag and return the updated row.
func (h *AdminHandler) ApproveUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid user ID"})
	}
	var req approveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.SetApproval(ctx, id, req.Approved); err != nil {
		log.Printf("approve user error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update user approval status"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Printf("approve user error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to update user approval status"})
	}

	if h.Purge != nil {
		h.Purge(ctx)
	}

	msg := "User disapproved"
	if req.Approved {
		msg = "User approved"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": msg,
		"user": userRow{
			ID: u.ID, Username: u.Username, Email: u.Email,
			IsApproved: u.IsApproved, CreatedAt: u.CreatedAt,
		},
	})
}

// DeleteUser: remove a user account entirely.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid user ID"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
		}
		log.Printf("delete user error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to delete user"})
	}

	if h.Purge != nil {
		h.Purge(ctx)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
