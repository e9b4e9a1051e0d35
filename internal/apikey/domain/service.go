package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Get returns the caller's record, ErrNoKey when none exists.
	Get(ctx context.Context, userID snowflake.ID) (*Response, error)
	// Bind attaches a key the user already possesses to their account after
	// validating it against the remote service.
	Bind(ctx context.Context, userID snowflake.ID, key string) (*Response, error)
	// Provision issues a fresh key of the default tier and binds it.
	Provision(ctx context.Context, userID snowflake.ID) (*Response, error)
	// Delete removes the caller's record.
	Delete(ctx context.Context, userID snowflake.ID) error
	// Access is the feature gate: it returns the record only when one exists
	// and has not expired.
	Access(ctx context.Context, userID snowflake.ID) (*Grant, error)
}

type Response struct {
	Key        string     `json:"key"`
	PolicyName *string    `json:"policy_name,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// Grant is handed to a gated feature page.
type Grant struct {
	Key       string     `json:"key"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

var (
	ErrNoKey          = errors.New("no_key")
	ErrKeyExpired     = errors.New("key_expired")
	ErrDuplicateOwner = errors.New("duplicate_owner")
	ErrDuplicateKey   = errors.New("duplicate_key")
	ErrInvalidKey     = errors.New("invalid_key")
)
