// Package domain contains types for the key records binding a user to one
// remotely issued API key.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
)

// KeyRecord binds exactly one user to exactly one remote key. PolicyID is
// nullable: a key bound before its tier was configured carries no policy and
// never expires.
type KeyRecord struct {
	ID        snowflake.ID                   `gorm:"primaryKey"`
	Key       string                         `gorm:"type:text;not null;uniqueIndex"`
	UserID    snowflake.ID                   `gorm:"column:user_id;not null;uniqueIndex"`
	PolicyID  *snowflake.ID                  `gorm:"column:policy_id;index"`
	Policy    *policydomain.ExpirationPolicy `gorm:"foreignKey:PolicyID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	ExpiresAt *time.Time                     `gorm:"column:expires_at"`
}

// TableName sets the database table name.
func (KeyRecord) TableName() string { return "key_records" }

// ApplyPolicyExpiry sets the expiration from the validity period. An expiry
// that is already set is never recomputed.
func (r *KeyRecord) ApplyPolicyExpiry(validDays int) {
	if r.ExpiresAt != nil || validDays <= 0 {
		return
	}
	expiry := r.CreatedAt.Add(time.Duration(validDays) * 24 * time.Hour)
	r.ExpiresAt = &expiry
}

// Expired reports whether the record's expiry has passed. Records without an
// expiry never expire.
func (r *KeyRecord) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}
