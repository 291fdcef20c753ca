package model

import (
	"time"

	"gorm.io/gorm"
)

// Site roles. Admins may manage content and moderate comments.
const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// User represents the user model stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	Picture   string         `json:"picture,omitempty" gorm:"type:varchar(512)"`
	GoogleID  string         `json:"-" gorm:"type:varchar(100);index"`
	Role      string         `json:"role" gorm:"type:varchar(20);not null;default:'author'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsAdmin reports whether the user may access admin endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
