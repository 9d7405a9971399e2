package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/janisto/kyc-compliance/internal/platform/firebase"
	"github.com/janisto/kyc-compliance/internal/testutil"
)

func newEmulatorVerifier(t *testing.T) *FirebaseVerifier {
	t.Helper()
	testutil.SkipIfEmulatorUnavailable(t)
	testutil.SetupEmulator(t)

	client, err := firebase.NewAuthClient(context.Background(), firebase.Config{ProjectID: testutil.ProjectID})
	if err != nil {
		t.Fatalf("failed to create auth client: %v", err)
	}
	return NewFirebaseVerifier(client)
}

func TestFirebaseVerifierWithEmulator(t *testing.T) {
	verifier := newEmulatorVerifier(t)
	signup := testutil.CreateTestUser(t, "analyst@example.com", "password123")

	user, err := verifier.Verify(context.Background(), signup.IDToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.UID != signup.LocalID {
		t.Fatalf("expected uid %s, got %s", signup.LocalID, user.UID)
	}
	if user.Editor() != "analyst@example.com" {
		t.Fatalf("expected email editor, got %q", user.Editor())
	}
	if user.Provider != ProviderFirebase {
		t.Fatalf("expected provider %s, got %s", ProviderFirebase, user.Provider)
	}
}

func TestFirebaseVerifierRejectsGarbageWithEmulator(t *testing.T) {
	verifier := newEmulatorVerifier(t)

	_, err := verifier.Verify(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
