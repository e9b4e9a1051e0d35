package repository

import (
	"context"
	"errors"
	"time"

	"github.com/speaklab/speaklab/internal/notification/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repo) Update(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *repo) Delete(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Delete(notification).Error
}

func (r *repo) List(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).Order("start_date DESC").Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *repo) Active(ctx context.Context, now time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("start_date <= ?", now).
		Where("end_date IS NULL OR end_date >= ?", now).
		Order("start_date DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
