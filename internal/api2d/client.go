// Package api2d talks to the API2D key-management service. The orchestration
// layer only sees the narrow Client interface so it can be exercised against
// a fake.
package api2d

import (
	"context"
	"errors"
	"time"
)

// Descriptor describes a key as reported by the remote service. It is
// transient: consumed once to create or validate a local record, never stored.
type Descriptor struct {
	ID        int64
	UID       int64
	Key       string
	TypeID    string
	CreatedAt time.Time
	Enabled   bool
}

type Client interface {
	// Issue asks the remote service to create n new keys of the given type.
	Issue(ctx context.Context, typeID string, n int) ([]Descriptor, error)
	// Lookup searches by a possibly partial key string.
	Lookup(ctx context.Context, query string) ([]Descriptor, error)
	// Resolve enforces exactly-one-match semantics on top of Lookup.
	Resolve(ctx context.Context, key string) (*Descriptor, error)
}

var (
	// ErrRemoteUnavailable covers every transport-level failure: timeouts,
	// connection errors, and non-2xx responses. Callers never see the
	// underlying cause.
	ErrRemoteUnavailable = errors.New("remote_unavailable")
	ErrKeyNotFound       = errors.New("key_not_found")
	ErrAmbiguousKey      = errors.New("ambiguous_key")
	ErrKeyDisabled       = errors.New("key_disabled")
	ErrKeyMismatch       = errors.New("key_mismatch")
)
