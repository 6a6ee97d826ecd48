package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nick         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"nick"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	AvatarPath   *string   `gorm:"type:varchar(500)" json:"avatar_path,omitempty"` // storage object key
	Role         string    `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	TelegramID   *int64    `gorm:"uniqueIndex" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	MinNickLength     = 2
	MaxNickLength     = 64
	MinPasswordLength = 8
)

// IsAdmin reports whether the user may use admin tools such as broadcasts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// BeforeSave normalizes identity fields and rejects rows that break invariants.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Nick = strings.TrimSpace(u.Nick)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}

	if len([]rune(u.Nick)) < MinNickLength || len([]rune(u.Nick)) > MaxNickLength {
		return gorm.ErrInvalidData
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return gorm.ErrInvalidData
	}
	if !ValidRole(u.Role) {
		return gorm.ErrInvalidData
	}

	return nil
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
