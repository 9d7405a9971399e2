// Package firebase initializes the Firebase Admin SDK for token verification.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config holds Firebase configuration.
type Config struct {
	ProjectID string
	// CredentialsFile is a service account JSON path. Empty uses application
	// default credentials.
	CredentialsFile string
}

// ClientOptions returns the SDK options for cfg.
func ClientOptions(cfg Config) ([]option.ClientOption, error) {
	if cfg.CredentialsFile == "" {
		return nil, nil
	}
	creds, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read firebase credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
}

// NewAuthClient creates the Firebase Auth client used to verify ID tokens.
func NewAuthClient(ctx context.Context, cfg Config) (*auth.Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	opts, err := ClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}
	return client, nil
}
