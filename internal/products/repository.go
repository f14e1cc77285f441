package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Detail loads the product with brand, cover, gallery and variants, both
// lists ordered by position.
func (r *Repository) Detail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Cover").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Images.Media").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Variants.Image").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product row only.
func (r *Repository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Omit("Brand", "Cover", "Variants", "Images").Create(p).Error
}

// UpdateFields overwrites the editable columns, nulls included.
func (r *Repository) UpdateFields(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":            p.Name,
			"slug":            p.Slug,
			"status":          p.Status,
			"brand_id":        p.BrandID,
			"description":     p.Description,
			"seo_title":       p.SEOTitle,
			"seo_description": p.SEODescription,
			"cover_id":        p.CoverID,
		}).Error
}

// SlugTaken reports whether another product already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BrandExists reports whether the brand row is present.
func (r *Repository) BrandExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Brand{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistingMediaIDs returns which of ids exist in media_assets.
func (r *Repository) ExistingMediaIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{}, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var rows []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&models.MediaAsset{}).Where("id IN ?", ids).Pluck("id", &rows).Error; err != nil {
		return nil, err
	}
	for _, id := range rows {
		found[id] = struct{}{}
	}
	return found, nil
}

// ReplaceVariants deletes every variant of the product and inserts rows.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, rows []models.ProductVariant) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Omit("Image").Create(&rows).Error
}

// ReplaceImages deletes the gallery of the product and inserts rows.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, rows []models.ProductImage) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Omit("Media").Create(&rows).Error
}

var sortClauses = map[string][]string{
	SortNameAsc:     {"products.name ASC"},
	SortNameDesc:    {"products.name DESC"},
	SortBrand:       {"brands.name ASC", "products.name ASC"},
	SortStatus:      {"products.status ASC", "products.name ASC"},
	SortUpdatedDesc: {"products.updated_at DESC"},
	SortCreatedDesc: {"products.created_at DESC"},
}

// List returns one page of products and the total matching count.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("LEFT JOIN brands ON brands.id = products.brand_id")

	if query := strings.TrimSpace(input.Query); query != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}
	if brand := strings.TrimSpace(input.BrandSlug); brand != "" {
		q = q.Where("brands.slug = ?", brand)
	}
	if input.Status != nil {
		q = q.Where("products.status = ?", *input.Status)
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
	q = q.Order("products.id ASC")

	var rows []models.Product
	err := q.Select("products.*").
		Preload("Brand").
		Preload("Cover").
		Offset(input.Pagination.Offset()).
		Limit(input.Pagination.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// BrandOptions lists every brand for the list filter.
func (r *Repository) BrandOptions(ctx context.Context) ([]BrandRef, error) {
	var rows []models.Brand
	if err := r.db.WithContext(ctx).Select("id", "name", "slug").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]BrandRef, 0, len(rows))
	for _, b := range rows {
		out = append(out, BrandRef{ID: b.ID, Name: b.Name, Slug: b.Slug})
	}
	return out, nil
}

// DeleteByIDs removes the products with their variants and gallery rows.
// Callers run it inside a transaction.
func (r *Repository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id IN ?", ids).Delete(&models.ProductVariant{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("product_id IN ?", ids).Delete(&models.ProductImage{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id IN ?", ids).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}
