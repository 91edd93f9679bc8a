// Package firebaseapp builds the Firebase clients the service talks to: Auth
// for token verification and account changes, Messaging for push delivery.
package firebaseapp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned by Connect when no credentials are set.
var ErrNotConfigured = errors.New("firebase: no service account configured")

// Credentials holds a service account either as one base64-encoded JSON key
// or as its three essential fields. The key wins when both are set.
type Credentials struct {
	ServiceAccountKey string
	ProjectID         string
	ClientEmail       string
	PrivateKey        string
}

type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Configured reports whether any credential was supplied.
func (c Credentials) Configured() bool {
	return strings.TrimSpace(c.ServiceAccountKey) != "" ||
		c.ProjectID != "" || c.ClientEmail != "" || c.PrivateKey != ""
}

// Resolve returns the service account JSON and its project id.
//
// Private keys pasted into environment variables usually carry literal "\n"
// sequences; they are turned back into newlines.
func (c Credentials) Resolve() ([]byte, string, error) {
	if key := strings.TrimSpace(c.ServiceAccountKey); key != "" {
		raw, err := base64.StdEncoding.DecodeString(key)
		if err != nil {
			return nil, "", fmt.Errorf("firebase service account key is not base64: %w", err)
		}
		var sa serviceAccount
		if err := json.Unmarshal(raw, &sa); err != nil {
			return nil, "", fmt.Errorf("firebase service account key is not JSON: %w", err)
		}
		if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
			return nil, "", errors.New("firebase service account key lacks project_id, client_email or private_key")
		}
		return raw, sa.ProjectID, nil
	}

	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project id")
	}
	if c.ClientEmail == "" {
		missing = append(missing, "client email")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "private key")
	}
	if len(missing) > 0 {
		return nil, "", fmt.Errorf("firebase credentials incomplete: missing %s", strings.Join(missing, ", "))
	}
	raw, err := json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   c.ProjectID,
		ClientEmail: c.ClientEmail,
		PrivateKey:  strings.ReplaceAll(c.PrivateKey, `\n`, "\n"),
	})
	if err != nil {
		return nil, "", err
	}
	return raw, c.ProjectID, nil
}

// Clients are the initialized Firebase service clients.
type Clients struct {
	ProjectID string
	Auth      *auth.Client
	Messaging *messaging.Client
}

// Connect initializes the Firebase app and its Auth and Messaging clients.
func Connect(ctx context.Context, c Credentials) (*Clients, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	raw, projectID, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsJSON(raw))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &Clients{ProjectID: projectID, Auth: authClient, Messaging: msgClient}, nil
}
