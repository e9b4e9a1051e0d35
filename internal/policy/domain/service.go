package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	GetByName(ctx context.Context, name string) (*ExpirationPolicy, error)
	GetByTypeID(ctx context.Context, typeID string) (*ExpirationPolicy, error)
	// Default returns the policy used for system-issued provisioning.
	Default(ctx context.Context) (*ExpirationPolicy, error)
}

type CreateRequest struct {
	Name      string `json:"name"`
	TypeID    string `json:"type_id"`
	ValidDays int    `json:"valid_days"`
}

type UpdateRequest struct {
	TypeID    *string `json:"type_id"`
	ValidDays *int    `json:"valid_days"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TypeID    string    `json:"type_id"`
	ValidDays int       `json:"valid_days"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidPolicy      = errors.New("invalid_policy")
	ErrPolicyExists       = errors.New("policy_exists")
	ErrPolicyNotFound     = errors.New("policy_not_found")
	ErrNoPolicyConfigured = errors.New("no_policy_configured")
)
