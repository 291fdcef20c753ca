package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents an isolated blog instance sharing the same
// comment-service deployment. Internal backup/restore endpoints operate on
// exactly one tenant at a time.
type Tenant struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);uniqueIndex"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
