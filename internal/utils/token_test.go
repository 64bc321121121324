package utils

import (
	"testing"
	"time"

	"github.com/greenspro/auth-backend/internal/model"
)

const testSecret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	at, err := NewAccessToken(testSecret, 42, "a@x.com", model.RoleUser, true, 60)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseAccessToken(testSecret, at.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "a@x.com" || claims.Role != model.RoleUser || !claims.IsApproved {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseAccessTokenRejections(t *testing.T) {
	at, err := NewAccessToken(testSecret, 1, "a@x.com", model.RoleAdmin, true, 60)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseAccessToken("other-secret", at.Token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
	if _, err := ParseAccessToken(testSecret, "not.a.jwt"); err == nil {
		t.Error("malformed token was accepted")
	}
	if _, err := ParseAccessToken(testSecret, ""); err == nil {
		t.Error("empty token was accepted")
	}

	// Negative TTL yields an already-expired token.
	expired, err := NewAccessToken(testSecret, 1, "a@x.com", model.RoleUser, true, -1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseAccessToken(testSecret, expired.Token); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestNewAccessTokenRejectsUnknownRole(t *testing.T) {
	if _, err := NewAccessToken(testSecret, 1, "a@x.com", model.Role("superuser"), true, 60); err == nil {
		t.Fatal("token issued for a role outside the enum")
	}
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewResetToken()
	if err != nil {
		t.Fatal(err)
	}
	// 32 random bytes hex-encoded.
	if len(a.Raw) != 64 {
		t.Fatalf("token length %d, want 64", len(a.Raw))
	}
	if a.Raw == b.Raw {
		t.Fatal("two reset tokens collided")
	}
	if d := time.Until(a.Exp); d <= 0 || d > resetTokenTTL {
		t.Fatalf("expiry %s from now, want within (0, 1h]", d)
	}
}
