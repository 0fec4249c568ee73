// Package session keeps the server-side session slot of each authenticated
// identity. A slot holds the JSON-serialized user and the ID of the token that
// owns it; absence of the slot means logged out.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
)

// ErrNoSession is returned when a user has no active session slot.
var ErrNoSession = errors.New("no active session")

// Slot is the value stored under a user's session key.
type Slot struct {
	TokenID string     `json:"jti"`
	User    model.User `json:"user"`
}

// Store persists session slots with an expiry.
type Store interface {
	Save(ctx context.Context, slot Slot, ttl time.Duration) error
	Load(ctx context.Context, userID string) (*Slot, error)
	Delete(ctx context.Context, userID string) error
}
