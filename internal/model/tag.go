package model

import (
	"time"

	"gorm.io/gorm"
)

// Tag represents a post tag (many-to-many with posts)
type Tag struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// PostCount is computed per request, not stored.
	PostCount int64 `json:"post_count" gorm:"-"`
}
