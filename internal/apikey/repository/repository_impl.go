package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	"github.com/speaklab/speaklab/pkg/db"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(conn *gorm.DB) apikeydomain.Repository {
	return &repo{db: conn}
}

func (r *repo) Insert(ctx context.Context, record *apikeydomain.KeyRecord) error {
	err := r.db.WithContext(ctx).Omit("Policy").Create(record).Error
	if err == nil {
		return nil
	}
	if !db.IsDuplicateKeyErr(err) {
		return err
	}
	// Two unique indexes can fire; re-read to tell which one did.
	if existing, findErr := r.FindByUser(ctx, record.UserID); findErr == nil && existing != nil {
		return apikeydomain.ErrDuplicateOwner
	}
	return apikeydomain.ErrDuplicateKey
}

func (r *repo) FindByUser(ctx context.Context, userID snowflake.ID) (*apikeydomain.KeyRecord, error) {
	var record apikeydomain.KeyRecord
	err := r.db.WithContext(ctx).Preload("Policy").Where("user_id = ?", userID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apikeydomain.ErrNoKey
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) FindByKey(ctx context.Context, key string) (*apikeydomain.KeyRecord, error) {
	var record apikeydomain.KeyRecord
	err := r.db.WithContext(ctx).Preload("Policy").Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apikeydomain.ErrNoKey
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repo) DeleteByUser(ctx context.Context, userID snowflake.ID) error {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&apikeydomain.KeyRecord{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return apikeydomain.ErrNoKey
	}
	return nil
}
