package auth

import (
	"context"
	"sync"
)

// MockVerifier provides fake token verification for tests.
type MockVerifier struct {
	User  *User
	Error error

	mu     sync.Mutex
	tokens []string
}

// Verify returns the configured user or error.
func (m *MockVerifier) Verify(_ context.Context, token string) (*User, error) {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	return m.User, nil
}

// Tokens returns every token passed to Verify.
func (m *MockVerifier) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

// TestUser returns a standard test user.
func TestUser() *User {
	return &User{
		UID:           "test-user-123",
		Email:         "analyst@example.com",
		EmailVerified: true,
		Provider:      "mock",
	}
}

// Compile-time interface check
var _ Verifier = (*MockVerifier)(nil)
