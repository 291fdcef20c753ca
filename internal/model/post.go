package model

import (
	"time"

	"gorm.io/gorm"
)

// Post visibility status. A flat label used purely for visibility
// filtering; there are no transitions to enforce.
const (
	PostStatusDraft   = "DRAFT"
	PostStatusPublic  = "PUBLIC"
	PostStatusPrivate = "PRIVATE"
)

// Post represents a blog post
type Post struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"type:varchar(255);not null"`
	Slug         string         `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Summary      string         `json:"summary" gorm:"type:text"`
	Content      string         `json:"content" gorm:"type:text"`
	RenderedHTML string         `json:"rendered_html" gorm:"type:text"`
	Status       string         `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Featured     bool           `json:"featured" gorm:"default:false;index"`
	ViewCount    int64          `json:"view_count" gorm:"default:0"`
	CoverImage   string         `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	CategoryID   *uint          `json:"category_id" gorm:"index"`
	Category     *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags         []Tag          `json:"tags,omitempty" gorm:"many2many:post_tags;"`
	AuthorID     uint           `json:"author_id" gorm:"index;not null"`
	Author       *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// ValidPostStatus reports whether s is one of the known post statuses.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublic, PostStatusPrivate:
		return true
	}
	return false
}
