package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// MediaAsset is a stored image, independent of which entity references it.
type MediaAsset struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	URL       string                `gorm:"column:url;not null"`
	Alt       *string               `gorm:"column:alt"`
	Width     *int                  `gorm:"column:width"`
	Height    *int                  `gorm:"column:height"`
	MimeType  *string               `gorm:"column:mime_type"`
	PublicID  *string               `gorm:"column:public_id;index"`
	Provider  enums.StorageProvider `gorm:"column:provider;type:text;not null;default:external"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (MediaAsset) TableName() string { return "media_assets" }

func (m *MediaAsset) BeforeCreate(*gorm.DB) error {
	assignID(&m.ID)
	if m.Provider == "" {
		m.Provider = enums.StorageProviderExternal
	}
	return nil
}
