package partners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every partner with its logo, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Partner, error) {
	var rows []models.Partner
	err := r.db.WithContext(ctx).Preload("Logo").Order("created_at DESC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var p models.Partner
	if err := r.db.WithContext(ctx).Preload("Logo").First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Partner, error) {
	var rows []models.Partner
	err := r.db.WithContext(ctx).Preload("Logo").Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, p *models.Partner) error {
	return r.db.WithContext(ctx).Omit("Logo").Create(p).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Partner{}).Where("id = ?", id).Updates(fields).Error
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Partner{})
	return res.RowsAffected, res.Error
}
