package auth

import "context"

// TokenGenerator abstracts access-token creation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// SessionStore keeps refresh-token state. Tokens are opaque, single-use
// and expire server-side; Rotate invalidates the presented token.
type SessionStore interface {
	Issue(ctx context.Context, user User) (string, error)
	// Rotate resolves the presented refresh token to a user id, deletes it
	// and issues a replacement. Unknown or expired tokens return ErrNotFound.
	Rotate(ctx context.Context, refreshToken string) (userID string, newToken string, err error)
	Revoke(ctx context.Context, refreshToken string) error
}
