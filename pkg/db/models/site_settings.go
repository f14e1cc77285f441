package models

import "time"

// SiteSettingsID is the primary key of the only site settings row.
const SiteSettingsID = 1

// SiteSettings holds the public site's SEO defaults.
type SiteSettings struct {
	ID              int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title           *string   `gorm:"column:title"`
	Description     *string   `gorm:"column:description"`
	TitleSuffix     string    `gorm:"column:title_suffix;not null"`
	OGImageURL      *string   `gorm:"column:og_image_url"`
	OGImagePublicID *string   `gorm:"column:og_image_public_id"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSettings) TableName() string { return "site_settings" }
