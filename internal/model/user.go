package model

import "time"

// Role is the closed set of authorization tags embedded in access tokens.
// It is validated both when a token is issued and when one is verified so
// that an unknown role string can never flow through the system.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User mirrors the `users` table. Accounts are created by signup with
// IsApproved=false and can only log in after an admin flips the flag.
// ResetToken and ResetTokenExpiry are set by the forgot-password flow and
// cleared atomically when the token is consumed; both are nullable.
//
// Fields:
//  ID               – primary key identifier of the user.
//  Email            – unique email address.
//  Username         – unique display name.
//  PasswordHash     – bcrypt hashed password; never the plaintext.
//  IsApproved       – whether an admin has approved the account.
//  ResetToken       – active password-reset token (null when none).
//  ResetTokenExpiry – expiry of the active reset token (null when none).
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64     // users.id
	Email            string     // users.email
	Username         string     // users.username
	PasswordHash     string     // users.password_hash
	IsApproved       bool       // users.is_approved
	ResetToken       *string    // users.reset_token (nullable)
	ResetTokenExpiry *time.Time // users.reset_token_expiry (nullable)
	CreatedAt        time.Time  // users.created_at
	UpdatedAt        time.Time  // users.updated_at
}

// Admin mirrors the `admins` table. Admin accounts are seeded out-of-band
// (see cmd/createadmin) and carry no approval flag; an admin row existing
// means the admin is active.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
}
