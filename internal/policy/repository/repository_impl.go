package repository

import (
	"context"
	"errors"

	apikeydomain "github.com/speaklab/speaklab/internal/apikey/domain"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) policydomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, policy *policydomain.ExpirationPolicy) error {
	return r.db.WithContext(ctx).Create(policy).Error
}

func (r *repo) Update(ctx context.Context, policy *policydomain.ExpirationPolicy) error {
	return r.db.WithContext(ctx).Save(policy).Error
}

// Delete removes the policy and cascades to dependent key records. The SQL
// schema carries ON DELETE CASCADE; the explicit delete keeps AutoMigrate
// installs consistent.
func (r *repo) Delete(ctx context.Context, policy *policydomain.ExpirationPolicy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", policy.ID).Delete(&apikeydomain.KeyRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(policy).Error
	})
}

func (r *repo) List(ctx context.Context) ([]policydomain.ExpirationPolicy, error) {
	var policies []policydomain.ExpirationPolicy
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&policies).Error
	if err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *repo) FindByID(ctx context.Context, id int64) (*policydomain.ExpirationPolicy, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *repo) FindByName(ctx context.Context, name string) (*policydomain.ExpirationPolicy, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *repo) FindByTypeID(ctx context.Context, typeID string) (*policydomain.ExpirationPolicy, error) {
	return r.findOne(ctx, "type_id = ?", typeID)
}

func (r *repo) First(ctx context.Context) (*policydomain.ExpirationPolicy, error) {
	var policy policydomain.ExpirationPolicy
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, policydomain.ErrNoPolicyConfigured
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *repo) findOne(ctx context.Context, query string, arg any) (*policydomain.ExpirationPolicy, error) {
	var policy policydomain.ExpirationPolicy
	err := r.db.WithContext(ctx).Where(query, arg).First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, policydomain.ErrPolicyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &policy, nil
}
