// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error text. For example, ErrDuplicate indicates a
// unique-key collision on signup, while ErrTokenInvalid signals that a
// password-reset token matched no live row.
package repository

import "errors"

// ErrDuplicate is returned when an insert collides with an existing
// email or username. Handlers should translate this into an HTTP 400
// response with a generic "already exists" message.
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when a lookup, update or delete matched no
// row. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrTokenInvalid is returned when a password-reset token matched no
// user or its expiry has passed. The two cases are deliberately not
// distinguished. Handlers should translate this into an HTTP 400
// response.
var ErrTokenInvalid = errors.New("invalid or expired token")
