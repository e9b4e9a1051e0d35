// Package domain contains types for expiration policies. A policy binds a
// subscription tier name to a remote key type and a validity period.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ExpirationPolicy maps a tier name to the remote key type issued for it
// and how many days a key of that tier stays valid.
type ExpirationPolicy struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null;uniqueIndex"`
	TypeID    string       `gorm:"column:type_id;type:text;not null"`
	ValidDays int          `gorm:"column:valid_days;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ExpirationPolicy) TableName() string { return "expiration_policies" }
