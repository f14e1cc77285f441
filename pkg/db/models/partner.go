package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner is a company shown in the site's partners strip.
type Partner struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Name      string      `gorm:"column:name;not null"`
	Link      *string     `gorm:"column:link"`
	LogoID    *uuid.UUID  `gorm:"column:logo_id;type:uuid;index"`
	Logo      *MediaAsset `gorm:"foreignKey:LogoID"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (Partner) TableName() string { return "partners" }

func (p *Partner) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
