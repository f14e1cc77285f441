package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/db"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/metrics"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
	"github.com/alcotrade/alcotrade-cms/pkg/slug"
)

// Service exposes the products screen and the product committer.
type Service interface {
	Save(ctx context.Context, input SaveInput) (uuid.UUID, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Detail(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	counters *metrics.CMSMetrics
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, counters *metrics.CMSMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, counters: counters}, nil
}

// Save writes the whole product aggregate. Media ids are resolved before the
// transaction; unknown ones are dropped and the cover falls back to the first
// surviving image. Variants and gallery rows are replaced wholesale.
func (s *service) Save(ctx context.Context, input SaveInput) (uuid.UUID, error) {
	id, err := s.save(ctx, input)
	s.counters.IncSave("product", err)
	return id, err
}

func (s *service) save(ctx context.Context, input SaveInput) (uuid.UUID, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	brandID, err := uuid.Parse(strings.TrimSpace(input.BrandID))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "brandId is required")
	}
	status := input.Status
	if status == "" {
		status = enums.EntityStatusDraft
	}
	if !status.IsValid() {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]any{"status": status})
	}

	var productID *uuid.UUID
	if input.ID != nil && strings.TrimSpace(*input.ID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*input.ID))
		if err != nil {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		productID = &parsed
	}

	validIDs, err := s.validMediaIDs(ctx, input)
	if err != nil {
		return uuid.Nil, err
	}
	cover := effectiveCover(input.CoverID, validIDs.gallery)

	ok, err := s.repo.BrandExists(ctx, brandID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check brand")
	}
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "brand not found").
			WithDetails(map[string]any{"brandId": brandID})
	}

	var savedID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Name:           name,
			Status:         status,
			BrandID:        brandID,
			Description:    input.Description,
			SEOTitle:       input.SEOTitle,
			SEODescription: input.SEODescription,
			CoverID:        cover,
		}

		if productID != nil {
			existing, err := txRepo.FindByID(ctx, *productID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
			}
			product.ID = existing.ID
			product.Slug = existing.Slug
			if input.RegenerateSlug {
				if product.Slug, err = uniqueSlug(ctx, txRepo, name, &existing.ID); err != nil {
					return err
				}
			}
			if err := txRepo.UpdateFields(ctx, product); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
			}
		} else {
			if product.Slug, err = uniqueSlug(ctx, txRepo, name, nil); err != nil {
				return err
			}
			if err := txRepo.Create(ctx, product); err != nil {
				if db.IsUniqueViolation(err, "") {
					return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product slug already exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
			}
		}
		savedID = product.ID

		variants := make([]models.ProductVariant, 0, len(input.Variants))
		for i, v := range input.Variants {
			position := i
			if v.Position != nil {
				position = *v.Position
			}
			variants = append(variants, models.ProductVariant{
				ProductID: product.ID,
				Label:     trimmed(v.Label),
				VolumeML:  v.VolumeML,
				Position:  position,
				ImageID:   validIDs.lookup(v.ImageID),
			})
		}
		if err := txRepo.ReplaceVariants(ctx, product.ID, variants); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variants")
		}

		images := make([]models.ProductImage, 0, len(validIDs.gallery))
		for i, mediaID := range validIDs.gallery {
			images = append(images, models.ProductImage{ProductID: product.ID, MediaID: mediaID, Position: i})
		}
		if err := txRepo.ReplaceImages(ctx, product.ID, images); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace images")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return uuid.Nil, err
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return savedID, nil
}

type resolvedMedia struct {
	gallery []uuid.UUID
	known   map[uuid.UUID]struct{}
}

func (r resolvedMedia) lookup(raw *string) *uuid.UUID {
	if raw == nil {
		return nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil
	}
	if _, ok := r.known[id]; !ok {
		return nil
	}
	return &id
}

// validMediaIDs checks gallery and variant image ids in one query. Gallery
// order is preserved and duplicates collapse to the first occurrence.
func (s *service) validMediaIDs(ctx context.Context, input SaveInput) (resolvedMedia, error) {
	var candidates []uuid.UUID
	var gallery []uuid.UUID
	seen := map[uuid.UUID]struct{}{}
	for _, raw := range input.ImageIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		gallery = append(gallery, id)
		candidates = append(candidates, id)
	}
	for _, v := range input.Variants {
		if v.ImageID == nil {
			continue
		}
		if id, err := uuid.Parse(strings.TrimSpace(*v.ImageID)); err == nil {
			candidates = append(candidates, id)
		}
	}

	known, err := s.repo.ExistingMediaIDs(ctx, candidates)
	if err != nil {
		return resolvedMedia{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check media ids")
	}

	valid := make([]uuid.UUID, 0, len(gallery))
	for _, id := range gallery {
		if _, ok := known[id]; ok {
			valid = append(valid, id)
		}
	}
	return resolvedMedia{gallery: valid, known: known}, nil
}

func effectiveCover(requested *string, gallery []uuid.UUID) *uuid.UUID {
	if requested != nil {
		if id, err := uuid.Parse(strings.TrimSpace(*requested)); err == nil {
			for _, candidate := range gallery {
				if candidate == id {
					return &id
				}
			}
		}
	}
	if len(gallery) > 0 {
		first := gallery[0]
		return &first
	}
	return nil
}

func uniqueSlug(ctx context.Context, repo *Repository, name string, exclude *uuid.UUID) (string, error) {
	value, err := slug.Unique(ctx, slug.Base(name), func(ctx context.Context, candidate string) (bool, error) {
		return repo.SlugTaken(ctx, candidate, exclude)
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check slug")
	}
	return value, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	input.Pagination = pagination.Normalize(input.Pagination.Page, input.Pagination.PageSize)
	if _, ok := sortClauses[input.Sort]; !ok {
		input.Sort = SortNameAsc
	}

	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	brands, err := s.repo.BrandOptions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brand filters")
	}

	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newListItem(row))
	}
	return &ListResult{
		Page:   pagination.NewPage(items, total, input.Pagination),
		Brands: brands,
	}, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error) {
	p, err := s.repo.Detail(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewSnapshot(p), nil
}

// BulkDelete removes the products. An empty id list is a no-op.
func (s *service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).DeleteByIDs(ctx, ids)
		deleted = n
		return err
	}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete products")
	}
	return deleted, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
