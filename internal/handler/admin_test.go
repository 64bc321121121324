package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenspro/auth-backend/internal/model"
	"github.com/greenspro/auth-backend/internal/utils"
)

func seededAdminStore(t *testing.T, email, password string) *fakeAdminStore {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &fakeAdminStore{admin: model.Admin{ID: 1, Email: email, PasswordHash: hash}}
}

func TestAdminLogin(t *testing.T) {
	h := NewAdminHandler(testCfg(), newFakeUserStore(), seededAdminStore(t, "admin@x.com", "admin@123"))

	rec := doJSON(t, h.Login, http.MethodPost, "/api/admin/login",
		`{"email":"admin@x.com","password":"admin@123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	var resp adminLoginResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.User.Role != "admin" || resp.User.Email != "admin@x.com" {
		t.Fatalf("unexpected user part: %+v", resp.User)
	}
	claims, err := utils.ParseAccessToken("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Role != model.RoleAdmin {
		t.Fatalf("got role %q, want admin", claims.Role)
	}

	// Wrong password and unknown email both collapse to 401.
	rec = doJSON(t, h.Login, http.MethodPost, "/api/admin/login",
		`{"email":"admin@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d, want 401", rec.Code)
	}
	rec = doJSON(t, h.Login, http.MethodPost, "/api/admin/login",
		`{"email":"nobody@x.com","password":"admin@123"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown admin: got %d, want 401", rec.Code)
	}
}

func TestApproveUser(t *testing.T) {
	users := newFakeUserStore()
	h := NewAdminHandler(testCfg(), users, seededAdminStore(t, "admin@x.com", "admin@123"))

	id, err := users.Create(context.Background(), "a@x.com", "alice", "secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h.ApproveUser, http.MethodPost, "/api/admin/approve/1",
		`{"approved":true}`, "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: got %d, want 200 (body: %s)", rec.Code, rec.Body)
	}
	u, err := users.GetByID(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsApproved {
		t.Fatal("user was not approved")
	}

	// Disapprove flips it back.
	rec = doJSON(t, h.ApproveUser, http.MethodPost, "/api/admin/approve/1",
		`{"approved":false}`, "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("disapprove: got %d, want 200", rec.Code)
	}
	if u, _ := users.GetByID(context.Background(), id); u.IsApproved {
		t.Fatal("user is still approved")
	}

	rec = doJSON(t, h.ApproveUser, http.MethodPost, "/api/admin/approve/abc",
		`{"approved":true}`, "id", "abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: got %d, want 400", rec.Code)
	}
	rec = doJSON(t, h.ApproveUser, http.MethodPost, "/api/admin/approve/99",
		`{"approved":true}`, "id", "99")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user: got %d, want 404", rec.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserStore()
	h := NewAdminHandler(testCfg(), users, seededAdminStore(t, "admin@x.com", "admin@123"))

	purged := 0
	h.Purge = func(context.Context) { purged++ }

	if _, err := users.Create(context.Background(), "a@x.com", "alice", "secret1", bcrypt.MinCost); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h.DeleteUser, http.MethodDelete, "/api/admin/users/1", "", "id", "1")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: got %d, want 200", rec.Code)
	}
	if purged != 1 {
		t.Fatalf("cache purge ran %d times, want 1", purged)
	}

	rec = doJSON(t, h.DeleteUser, http.MethodDelete, "/api/admin/users/1", "", "id", "1")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d, want 404", rec.Code)
	}
	rec = doJSON(t, h.DeleteUser, http.MethodDelete, "/api/admin/users/abc", "", "id", "abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: got %d, want 400", rec.Code)
	}
}

func TestListUsers(t *testing.T) {
	users := newFakeUserStore()
	h := NewAdminHandler(testCfg(), users, seededAdminStore(t, "admin@x.com", "admin@123"))

	for _, u := range []struct{ email, name string }{
		{"a@x.com", "alice"}, {"b@x.com", "bob"},
	} {
		if _, err := users.Create(context.Background(), u.email, u.name, "secret1", bcrypt.MinCost); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, h.ListUsers, http.MethodGet, "/api/admin/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	var rows []userRow
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Listing never exposes password hashes or reset tokens.
	if body := rec.Body.String(); strings.Contains(body, "password") || strings.Contains(body, "reset_token") {
		t.Fatalf("listing leaks sensitive fields: %s", body)
	}
}
