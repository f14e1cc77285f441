package sitesettings

import (
	"context"
	"fmt"
	"strings"

	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

const (
	maxTitle           = 60
	maxDescription     = 160
	maxSuffix          = 30
	defaultTitleSuffix = "| Alcotrade"
	defaultMaxOGBytes  = 10 << 20
	ogBaseName         = "site-og"
)

// Service reads and patches the site SEO defaults.
type Service interface {
	Get(ctx context.Context) (*Settings, error)
	Patch(ctx context.Context, input PatchInput) (*Settings, error)
}

type settingsRepository interface {
	Get(ctx context.Context) (*models.SiteSettings, error)
	Upsert(ctx context.Context, row *models.SiteSettings, columns map[string]any) (*models.SiteSettings, error)
}

type objectStore interface {
	Store(ctx context.Context, input media.UploadInput) (storage.Object, error)
	Destroy(ctx context.Context, publicID string)
}

// Options configures the OG image handling.
type Options struct {
	RootFolder string
	MaxOGBytes int64
}

type service struct {
	repo       settingsRepository
	media      objectStore
	ogPublicID string
	maxOGBytes int64
	logg       *logger.Logger
}

func NewService(repo settingsRepository, mediaSvc objectStore, opts Options, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	if opts.MaxOGBytes <= 0 {
		opts.MaxOGBytes = defaultMaxOGBytes
	}
	return &service{
		repo:       repo,
		media:      mediaSvc,
		ogPublicID: storage.JoinKey(storage.JoinKey(opts.RootFolder, "site-settings"), ogBaseName),
		maxOGBytes: opts.MaxOGBytes,
		logg:       logg,
	}, nil
}

// Get returns nil when the settings were never saved.
func (s *service) Get(ctx context.Context) (*Settings, error) {
	row, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load site settings")
	}
	if row == nil {
		return nil, nil
	}
	return fromModel(row), nil
}

func (s *service) Patch(ctx context.Context, input PatchInput) (*Settings, error) {
	row := &models.SiteSettings{TitleSuffix: defaultTitleSuffix}
	columns := map[string]any{}

	if input.DefaultSEOTitle.Set {
		row.Title = clipped(input.DefaultSEOTitle.Value, maxTitle)
		columns["title"] = row.Title
	}
	if input.DefaultSEODescription.Set {
		row.Description = clipped(input.DefaultSEODescription.Value, maxDescription)
		columns["description"] = row.Description
	}
	if input.TitleSuffix.Set {
		suffix := ""
		if input.TitleSuffix.Value != nil {
			suffix = truncate(strings.TrimSpace(*input.TitleSuffix.Value), maxSuffix)
		}
		if suffix == "" {
			suffix = defaultTitleSuffix
		}
		row.TitleSuffix = suffix
		columns["title_suffix"] = suffix
	}

	switch {
	case input.OGImage != nil:
		obj, err := s.media.Store(ctx, media.UploadInput{
			Reader:   input.OGImage.Reader,
			MimeType: input.OGImage.MimeType,
			Size:     input.OGImage.Size,
			PublicID: s.ogPublicID,
			MaxBytes: s.maxOGBytes,
		})
		if err != nil {
			return nil, err
		}
		url, publicID := obj.URL, obj.PublicID
		row.OGImageURL, row.OGImagePublicID = &url, &publicID
		columns["og_image_url"] = row.OGImageURL
		columns["og_image_public_id"] = row.OGImagePublicID
	case bool(input.RemoveOG):
		s.media.Destroy(ctx, s.storedOGPublicID(ctx))
		columns["og_image_url"] = nil
		columns["og_image_public_id"] = nil
	case input.OGImageURL.Set:
		row.OGImageURL = input.OGImageURL.Value
		columns["og_image_url"] = row.OGImageURL
	}

	saved, err := s.repo.Upsert(ctx, row, columns)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save site settings")
	}
	s.logg.Info(s.logg.WithField(ctx, "fields", len(columns)), "site_settings.updated")
	return fromModel(saved), nil
}

func (s *service) storedOGPublicID(ctx context.Context) string {
	row, err := s.repo.Get(ctx)
	if err == nil && row != nil && row.OGImagePublicID != nil && *row.OGImagePublicID != "" {
		return *row.OGImagePublicID
	}
	return s.ogPublicID
}

func clipped(value *string, max int) *string {
	if value == nil || *value == "" {
		return nil
	}
	out := truncate(*value, max)
	return &out
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}
