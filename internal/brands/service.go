package brands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/db"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/metrics"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
	"github.com/alcotrade/alcotrade-cms/pkg/redis"
	"github.com/alcotrade/alcotrade-cms/pkg/slug"
)

const defaultOptionsTTL = 10 * time.Minute

// Service exposes the brands screen and the brand committer.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*SaveResult, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[ListItem], error)
	Options(ctx context.Context) ([]Option, error)
	Detail(ctx context.Context, id uuid.UUID) (*draft.BrandSnapshot, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	cache      redis.Cache
	optionsTTL time.Duration
	logg       *logger.Logger
	counters   *metrics.CMSMetrics
}

// NewService wires the brand service. cache may be nil, which disables the
// option list cache.
func NewService(repo *Repository, dbClient *db.Client, cache redis.Cache, optionsTTL time.Duration, logg *logger.Logger, counters *metrics.CMSMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if optionsTTL <= 0 {
		optionsTTL = defaultOptionsTTL
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		cache:      cache,
		optionsTTL: optionsTTL,
		logg:       logg,
		counters:   counters,
	}, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*SaveResult, error) {
	res, err := s.save(ctx, input)
	s.counters.IncSave("brand", err)
	if err == nil {
		s.invalidateOptions(ctx)
	}
	return res, err
}

func (s *service) save(ctx context.Context, input SaveInput) (*SaveResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	status := input.Status
	if status == "" {
		status = enums.EntityStatusDraft
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]any{"status": status})
	}

	var brandID *uuid.UUID
	if input.ID != nil && strings.TrimSpace(*input.ID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*input.ID))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		brandID = &parsed
	}

	cover, err := s.validCover(ctx, input.CoverID)
	if err != nil {
		return nil, err
	}

	result := &SaveResult{}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		brand := &models.Brand{
			Name:           name,
			Status:         status,
			Description:    input.Description,
			SEOTitle:       input.SEOTitle,
			SEODescription: input.SEODescription,
			CoverID:        cover,
		}

		if brandID != nil {
			existing, err := txRepo.FindByID(ctx, *brandID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
			}
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
			}
			brand.ID = existing.ID
			brand.Slug = existing.Slug
			if input.RegenerateSlug {
				if brand.Slug, err = uniqueSlug(ctx, txRepo, name, &existing.ID); err != nil {
					return err
				}
			}
			if err := txRepo.UpdateFields(ctx, brand); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update brand")
			}
			result.ID = brand.ID
			return nil
		}

		if brand.Slug, err = uniqueSlug(ctx, txRepo, name, nil); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, brand); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "brand slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert brand")
		}
		result.ID = brand.ID
		result.Created = true
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save brand")
	}
	return result, nil
}

// validCover drops a cover id that is malformed or has no asset row.
func (s *service) validCover(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, nil
	}
	ok, err := s.repo.MediaExists(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cover")
	}
	if !ok {
		return nil, nil
	}
	return &id, nil
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

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[ListItem], error) {
	input.Pagination = pagination.Normalize(input.Pagination.Page, input.Pagination.PageSize)
	rows, total, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	counts, err := s.repo.ProductCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count brand products")
	}

	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newListItem(row, counts[row.ID]))
	}
	page := pagination.NewPage(items, total, input.Pagination)
	return &page, nil
}

func (s *service) optionsKey() string {
	return s.cache.CacheKey("brands", "options")
}

// Options serves the brand picker from cache when possible. Cache failures
// fall through to the database.
func (s *service) Options(ctx context.Context) ([]Option, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.optionsKey())
		switch {
		case err == nil:
			var cached []Option
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				return cached, nil
			}
		case !redis.IsMiss(err):
			s.warn(ctx, "brands.options_cache_read_failed", err)
		}
	}

	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brand options")
	}
	if options == nil {
		options = []Option{}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(options); err == nil {
			if err := s.cache.Set(ctx, s.optionsKey(), string(payload), s.optionsTTL); err != nil {
				s.warn(ctx, "brands.options_cache_write_failed", err)
			}
		}
	}
	return options, nil
}

func (s *service) invalidateOptions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.optionsKey()); err != nil {
		s.warn(ctx, "brands.options_cache_invalidate_failed", err)
	}
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*draft.BrandSnapshot, error) {
	b, err := s.repo.Detail(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return NewSnapshot(b), nil
}

// BulkDelete removes brands. Brands that still own products are protected by
// the foreign key and the whole batch is rejected.
func (s *service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		n, err := s.repo.WithTx(tx).DeleteByIDs(ctx, ids)
		deleted = n
		return err
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "brand still has products")
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete brands")
	}
	s.invalidateOptions(ctx)
	return deleted, nil
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), msg)
}
