// Package auth gates secured operations behind a bearer token and exposes the
// resolved caller identity to handlers.
package auth

import (
	"context"
	"errors"
	"strings"
)

// AnonymousEditor is the audit identity when no caller can be resolved.
const AnonymousEditor = "system"

// User is an authenticated caller.
type User struct {
	UID           string
	Email         string
	EmailVerified bool
	// Provider names the verifier that accepted the token.
	Provider string
}

// Editor returns the identity recorded on edits: the email when known,
// otherwise the UID, otherwise AnonymousEditor.
func (u *User) Editor() string {
	switch {
	case u == nil:
		return AnonymousEditor
	case u.Email != "":
		return u.Email
	case u.UID != "":
		return u.UID
	default:
		return AnonymousEditor
	}
}

// Error types for authentication failures.
var (
	// ErrNoToken indicates missing Authorization header.
	ErrNoToken = errors.New("missing authorization header")
	// ErrInvalidToken indicates an invalid token format or signature.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token has expired.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrUserDisabled indicates the user account is disabled.
	ErrUserDisabled = errors.New("user disabled")
	// ErrCertificateFetch indicates a network error fetching public keys.
	// This should result in HTTP 503 (service unavailable).
	ErrCertificateFetch = errors.New("failed to fetch certificates")
)

// Verifier validates tokens and returns user information.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// ExtractBearerToken extracts the token from Authorization header.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrInvalidToken
	}
	return token, nil
}

type userContextKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the authenticated user from context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// EditorFromContext resolves the edit identity for the current caller.
func EditorFromContext(ctx context.Context) string {
	return UserFromContext(ctx).Editor()
}
