package domain

import "context"

type Repository interface {
	Insert(ctx context.Context, page *Page) error
	Update(ctx context.Context, page *Page) error
	Delete(ctx context.Context, page *Page) error
	List(ctx context.Context) ([]Page, error)
	FindByID(ctx context.Context, id int64) (*Page, error)
	// FindBySlug matches any page regardless of its active flag.
	FindBySlug(ctx context.Context, slug string) (*Page, error)
	FindActiveBySlug(ctx context.Context, slug string) (*Page, error)
}
