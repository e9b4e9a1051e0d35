package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	MessageTypeInfo    = "info"
	MessageTypeWarning = "warning"
	MessageTypeSuccess = "success"
	MessageTypeDanger  = "danger"
)

// Notification is a site banner shown while its date window is open.
// A nil EndDate keeps the banner up until it is deactivated.
type Notification struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Message     string       `gorm:"type:text;not null" json:"message"`
	MessageType string       `gorm:"size:32;not null;default:info" json:"message_type"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	StartDate   time.Time    `gorm:"index;not null" json:"start_date"`
	EndDate     *time.Time   `json:"end_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
