package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Page is an editor-managed markdown document served at a stable slug.
type Page struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Slug      string       `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Content   string       `gorm:"type:text" json:"content"`
	IsActive  bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Page) TableName() string {
	return "pages"
}
