package domain

import (
	"context"
	"errors"
	"time"
)

const HomeSlug = "home"

type Service interface {
	// GetBySlug resolves an active page, rendering its markdown body.
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	// Home returns the landing page, creating a placeholder row the first
	// time it is requested.
	Home(ctx context.Context) (*Response, error)

	List(ctx context.Context) ([]Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Content  string `json:"content"`
	IsActive *bool  `json:"is_active"`
}

type UpdateRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsActive *bool   `json:"is_active"`
}

type Response struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrInvalidPage  = errors.New("invalid_page")
	ErrPageExists   = errors.New("page_exists")
	ErrPageNotFound = errors.New("page_not_found")
)
