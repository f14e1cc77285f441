package brands

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Repository exposes brand persistence operations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Detail loads the brand with its cover asset.
func (r *Repository) Detail(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var b models.Brand
	if err := r.db.WithContext(ctx).Preload("Cover").First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, b *models.Brand) error {
	return r.db.WithContext(ctx).Omit("Cover").Create(b).Error
}

// UpdateFields overwrites the editable columns, nulls included.
func (r *Repository) UpdateFields(ctx context.Context, b *models.Brand) error {
	return r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"name":            b.Name,
			"slug":            b.Slug,
			"status":          b.Status,
			"description":     b.Description,
			"seo_title":       b.SEOTitle,
			"seo_description": b.SEODescription,
			"cover_id":        b.CoverID,
		}).Error
}

func (r *Repository) SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Brand{}).Where("slug = ?", slug)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MediaExists reports whether the asset row is present.
func (r *Repository) MediaExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MediaAsset{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var sortClauses = map[string][]string{
	SortNameAsc:  {"brands.name ASC"},
	SortNameDesc: {"brands.name DESC"},
	SortStatus:   {"brands.status ASC", "brands.name ASC"},
	SortUpdated:  {"brands.updated_at DESC"},
}

func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Brand, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Brand{})
	if query := strings.TrimSpace(input.Query); query != "" {
		q = q.Where("LOWER(brands.name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if input.Status != nil {
		q = q.Where("brands.status = ?", *input.Status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	clauses, ok := sortClauses[input.Sort]
	if !ok {
		clauses = sortClauses[SortNameAsc]
	}
	for _, c := range clauses {
		q = q.Order(c)
	}

	var rows []models.Brand
	err := q.Order("brands.id ASC").
		Preload("Cover").
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ProductCounts returns how many products each brand owns.
func (r *Repository) ProductCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		BrandID uuid.UUID
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("brand_id, COUNT(*) AS count").
		Where("brand_id IN ?", ids).
		Group("brand_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.BrandID] = row.Count
	}
	return counts, nil
}

func (r *Repository) Options(ctx context.Context) ([]Option, error) {
	var out []Option
	err := r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Select("id", "name").
		Order("name ASC").
		Scan(&out).Error
	return out, err
}

func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Brand{})
	return res.RowsAffected, res.Error
}
