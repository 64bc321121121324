package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/greenspro/auth-backend/internal/model"
	"github.com/greenspro/auth-backend/internal/utils"
)

const testSecret = "test-secret"

// gateServer builds an Echo instance with one admin-only route, composing
// JWTAuth and RequireRole the way the real router does.
func gateServer() *echo.Echo {
	e := echo.New()
	g := e.Group("/api/admin", JWTAuth(testSecret), RequireRole(model.RoleAdmin))
	g.GET("/users", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"role":    c.Get(CtxRole),
		})
	})
	return e
}

func request(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGateMissingToken(t *testing.T) {
	if rec := request(gateServer(), ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", rec.Code)
	}
}

func TestGateInvalidToken(t *testing.T) {
	e := gateServer()
	if rec := request(e, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d, want 401", rec.Code)
	}

	wrongKey, err := utils.NewAccessToken("other-secret", 1, "a@x.com", model.RoleAdmin, true, 60)
	if err != nil {
		t.Fatal(err)
	}
	if rec := request(e, wrongKey.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong-secret token: got %d, want 401", rec.Code)
	}

	expired, err := utils.NewAccessToken(testSecret, 1, "a@x.com", model.RoleAdmin, true, -1)
	if err != nil {
		t.Fatal(err)
	}
	if rec := request(e, expired.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: got %d, want 401", rec.Code)
	}
}

func TestGateUserRoleForbidden(t *testing.T) {
	// A valid user token on an admin route must be 403, not 401: the caller
	// is authenticated, just not allowed.
	userTok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", model.RoleUser, true, 60)
	if err != nil {
		t.Fatal(err)
	}
	if rec := request(gateServer(), userTok.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", rec.Code)
	}
}

func TestGateAdminAllowed(t *testing.T) {
	adminTok, err := utils.NewAccessToken(testSecret, 1, "admin@x.com", model.RoleAdmin, true, 60)
	if err != nil {
		t.Fatal(err)
	}
	rec := request(gateServer(), adminTok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
}
