package repository

import (
	"context"
	"errors"

	"github.com/speaklab/speaklab/internal/page/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Create(page).Error
}

func (r *repo) Update(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Save(page).Error
}

func (r *repo) Delete(ctx context.Context, page *domain.Page) error {
	return r.db.WithContext(ctx).Delete(page).Error
}

func (r *repo) List(ctx context.Context) ([]domain.Page, error) {
	var pages []domain.Page
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Page, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *repo) FindBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *repo) FindActiveBySlug(ctx context.Context, slug string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *repo) findOne(ctx context.Context, query string, arg any) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).Where(query, arg).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}
