package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/speaklab/speaklab/internal/auth/domain"
	pagedomain "github.com/speaklab/speaklab/internal/page/domain"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"gorm.io/gorm"
)

const (
	defaultPolicyName   = "standard"
	defaultPolicyTypeID = "1"
	defaultPolicyDays   = 30

	homeTitle   = "Home"
	homeContent = "# Welcome to SpeakLab\n\nSign in and link your API key to start practicing."
)

// EnsureDefaultPolicy creates a starter expiration policy when none exists,
// so provisioning works on a fresh install.
func EnsureDefaultPolicy(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&policydomain.ExpirationPolicy{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		return tx.Create(&policydomain.ExpirationPolicy{
			ID:        node.Generate(),
			Name:      defaultPolicyName,
			TypeID:    defaultPolicyTypeID,
			ValidDays: defaultPolicyDays,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	})
}

// EnsureAdminUsers grants the administrator role to existing accounts whose
// email is on the configured list. Accounts that sign up later are handled
// at creation time.
func EnsureAdminUsers(db *gorm.DB, emails []string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if len(emails) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		if v := strings.ToLower(strings.TrimSpace(email)); v != "" {
			normalized = append(normalized, v)
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Model(&authdomain.User{}).
		Where("email IN ? AND is_admin = ?", normalized, false).
		Update("is_admin", true).Error
}

// EnsureHomePage creates the landing page row when it is missing.
func EnsureHomePage(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var page pagedomain.Page
	err = db.WithContext(ctx).Where("slug = ?", pagedomain.HomeSlug).First(&page).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	return db.WithContext(ctx).Create(&pagedomain.Page{
		ID:        node.Generate(),
		Title:     homeTitle,
		Slug:      pagedomain.HomeSlug,
		Content:   homeContent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}).Error
}
