package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Active returns banners whose window contains the current instant,
	// newest window first.
	Active(ctx context.Context) ([]Response, error)

	List(ctx context.Context) ([]Response, error)
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}

type CreateRequest struct {
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	MessageType string     `json:"message_type"`
	IsActive    *bool      `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type UpdateRequest struct {
	Title       *string    `json:"title"`
	Message     *string    `json:"message"`
	MessageType *string    `json:"message_type"`
	IsActive    *bool      `json:"is_active"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type Response struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	MessageType string     `json:"message_type"`
	IsActive    bool       `json:"is_active"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

var (
	ErrInvalidNotification  = errors.New("invalid_notification")
	ErrNotificationNotFound = errors.New("notification_not_found")
)
