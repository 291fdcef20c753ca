package model

import (
	"time"
)

// Comment moderation status.
const (
	CommentStatusPending  = "PENDING"
	CommentStatusApproved = "APPROVED"
	CommentStatusRejected = "REJECTED"
	CommentStatusSpam     = "SPAM"
)

// Resource types a comment can attach to.
const (
	ResourceTypePost = "post"
)

// Comment represents a comment in a tenant-scoped reply tree.
//
// Deletion is a soft flag (IsDeleted) rather than row removal so that
// replies keep a valid parent anchor; only the admin hard delete removes
// rows, and it cascades over the whole subtree. There is deliberately no
// gorm soft-delete column here — IsDeleted is part of the API contract and
// must survive export/restore.
type Comment struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	TenantID     uint   `json:"tenant_id" gorm:"index;not null"`
	ResourceType string `json:"resource_type" gorm:"type:varchar(50);not null;default:'post';index:idx_comments_resource"`
	ResourceID   uint   `json:"resource_id" gorm:"not null;index:idx_comments_resource"`
	Content      string `json:"content" gorm:"type:text;not null"`

	// Either an authenticated author or a guest, never both.
	AuthorID          *uint  `json:"author_id,omitempty" gorm:"index"`
	GuestName         string `json:"guest_name,omitempty" gorm:"type:varchar(100)"`
	GuestEmail        string `json:"guest_email,omitempty" gorm:"type:varchar(100)"`
	GuestPasswordHash string `json:"-" gorm:"type:varchar(255)"`

	ParentID *uint `json:"parent_id,omitempty" gorm:"index"`

	Status    string `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	IsPrivate bool   `json:"is_private" gorm:"default:false"`
	IsDeleted bool   `json:"is_deleted" gorm:"default:false"`

	// IPHash is a sha256 of the submitter IP for abuse tracking. The raw
	// IP is never stored.
	IPHash string `json:"-" gorm:"type:varchar(64)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Replies is populated when building the nested tree for responses.
	Replies []*Comment `json:"replies,omitempty" gorm:"-"`
}

// IsGuest reports whether the comment was left without a user account.
func (c *Comment) IsGuest() bool {
	return c.AuthorID == nil
}

// ValidCommentStatus reports whether s is one of the known moderation states.
func ValidCommentStatus(s string) bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected, CommentStatusSpam:
		return true
	}
	return false
}
