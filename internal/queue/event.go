// Package queue defines message payloads exchanged over the message broker.
package queue

// PasswordResetRequestedEvent is published when a user asks for a password
// reset. It is the fixed payload handed to the mail collaborator: the
// consumer turns it into an email without touching the primary database.
// The reset link already embeds the raw token, so the consumer never needs
// the token separately.
type PasswordResetRequestedEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	ResetLink   string `json:"reset_link"`
	RequestedAt string `json:"requested_at"`
}
