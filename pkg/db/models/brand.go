package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// Brand groups products under a producer name.
type Brand struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name           string             `gorm:"column:name;not null"`
	Slug           string             `gorm:"column:slug;not null;uniqueIndex"`
	Status         enums.EntityStatus `gorm:"column:status;type:text;not null;default:DRAFT"`
	Description    *string            `gorm:"column:description"`
	SEOTitle       *string            `gorm:"column:seo_title"`
	SEODescription *string            `gorm:"column:seo_description"`
	CoverID        *uuid.UUID         `gorm:"column:cover_id;type:uuid;index"`
	Cover          *MediaAsset        `gorm:"foreignKey:CoverID"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Brand) TableName() string { return "brands" }

func (b *Brand) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}
