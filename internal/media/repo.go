package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Repository exposes media asset persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create persists an asset.
func (r *Repository) Create(ctx context.Context, asset *models.MediaAsset) (*models.MediaAsset, error) {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return nil, err
	}
	return asset, nil
}

// FindByID retrieves an asset by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error) {
	var m models.MediaAsset
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// IDsByPublicID lists assets that carry the given external ref.
func (r *Repository) IDsByPublicID(ctx context.Context, publicID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.MediaAsset{}).
		Where("public_id = ?", publicID).
		Pluck("id", &ids).Error
	return ids, err
}

// DetachAndDelete clears every reference to the assets and then deletes
// them. Callers run it inside a transaction.
func (r *Repository) DetachAndDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Where("cover_id IN ?", ids).Update("cover_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Brand{}).Where("cover_id IN ?", ids).Update("cover_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.ProductVariant{}).Where("image_id IN ?", ids).Update("image_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Partner{}).Where("logo_id IN ?", ids).Update("logo_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("media_id IN ?", ids).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&models.MediaAsset{}).Error
}
