package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// User is an admin panel account.
type User struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email          string     `gorm:"column:email;type:text;not null;uniqueIndex"`
	Name           *string    `gorm:"column:name"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	Role           enums.Role `gorm:"column:role;type:text;not null;default:MANAGER"`
	Image          *string    `gorm:"column:image"`
	AvatarPublicID *string    `gorm:"column:avatar_public_id"`
	LastLoginAt    *time.Time `gorm:"column:last_login_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = enums.RoleManager
	}
	return nil
}
