package model

import (
	"time"

	"gorm.io/gorm"
)

// Page publication status.
const (
	PageStatusDraft     = "DRAFT"
	PageStatusPublished = "PUBLISHED"
)

// Page represents a static page (about, notices, etc.) rendered from a
// JSON template of named sections.
type Page struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Title     string         `json:"title" gorm:"type:varchar(255);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Template  string         `json:"template" gorm:"type:jsonb;default:'{}'"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ValidPageStatus reports whether s is one of the known page statuses.
func ValidPageStatus(s string) bool {
	return s == PageStatusDraft || s == PageStatusPublished
}
