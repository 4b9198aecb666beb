// Package session owns the authenticated-session state for the gateway.
// Every screen used to read one ambient credential out of browser storage;
// here that becomes an explicit store injected into whatever needs it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session binds a gateway session ID to the upstream backend credential and
// a snapshot of the user profile returned at login.
type Session struct {
	ID           string          `json:"id"`
	BackendToken string          `json:"backendToken"`
	User         json.RawMessage `json:"user,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func New(backendToken string, user json.RawMessage) Session {
	return Session{
		ID:           uuid.NewString(),
		BackendToken: backendToken,
		User:         user,
		CreatedAt:    time.Now(),
	}
}

type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Update rewrites an existing session, used when the backend rotates
	// the credential on password change.
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
