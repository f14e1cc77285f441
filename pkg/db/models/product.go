package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// Product is a catalog entry owned by a brand. It exclusively owns its
// variants and gallery rows.
type Product struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name           string             `gorm:"column:name;not null"`
	Slug           string             `gorm:"column:slug;not null;uniqueIndex"`
	Status         enums.EntityStatus `gorm:"column:status;type:text;not null;default:DRAFT"`
	BrandID        uuid.UUID          `gorm:"column:brand_id;type:uuid;not null;index"`
	Brand          *Brand             `gorm:"foreignKey:BrandID"`
	Description    *string            `gorm:"column:description"`
	SEOTitle       *string            `gorm:"column:seo_title"`
	SEODescription *string            `gorm:"column:seo_description"`
	CoverID        *uuid.UUID         `gorm:"column:cover_id;type:uuid;index"`
	Cover          *MediaAsset        `gorm:"foreignKey:CoverID"`
	Variants       []ProductVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images         []ProductImage     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}

// ProductVariant is one sellable option of a product, e.g. a bottle size.
type ProductVariant struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID   `gorm:"column:product_id;type:uuid;not null;index"`
	Label     *string     `gorm:"column:label"`
	VolumeML  *int        `gorm:"column:volume_ml"`
	Position  int         `gorm:"column:position;not null;default:0"`
	ImageID   *uuid.UUID  `gorm:"column:image_id;type:uuid;index"`
	Image     *MediaAsset `gorm:"foreignKey:ImageID"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// ProductImage orders a media asset inside a product gallery.
type ProductImage struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID   `gorm:"column:product_id;type:uuid;not null;index"`
	MediaID   uuid.UUID   `gorm:"column:media_id;type:uuid;not null;index"`
	Media     *MediaAsset `gorm:"foreignKey:MediaID"`
	Position  int         `gorm:"column:position;not null;default:0"`
}

func (ProductImage) TableName() string { return "product_images" }

func (i *ProductImage) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
