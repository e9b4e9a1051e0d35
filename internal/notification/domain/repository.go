package domain

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, notification *Notification) error
	Update(ctx context.Context, notification *Notification) error
	Delete(ctx context.Context, notification *Notification) error
	List(ctx context.Context) ([]Notification, error)
	FindByID(ctx context.Context, id int64) (*Notification, error)
	// Active matches is_active rows whose window contains now. Both window
	// edges are inclusive.
	Active(ctx context.Context, now time.Time) ([]Notification, error)
}
