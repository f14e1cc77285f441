package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/metrics"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

const defaultMaxUploadBytes = 20 << 20

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type mediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) (*models.MediaAsset, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MediaAsset, error)
	IDsByPublicID(ctx context.Context, publicID string) ([]uuid.UUID, error)
	DetachAndDelete(ctx context.Context, ids []uuid.UUID) error
	WithTx(tx *gorm.DB) *Repository
}

// Service stores uploaded images and cleans every reference up on removal.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Register(ctx context.Context, input RegisterInput) (*models.MediaAsset, error)
	Remove(ctx context.Context, input RemoveInput) error
	// Store validates and uploads without creating an asset row. Avatars and
	// the OG image keep their URL on the owning row instead.
	Store(ctx context.Context, input UploadInput) (storage.Object, error)
	// Destroy deletes a remote object best-effort.
	Destroy(ctx context.Context, publicID string)
}

// UploadInput is one file received from the upload endpoint.
type UploadInput struct {
	Reader   io.Reader
	FileName string
	MimeType string
	Size     int64
	Alt      string
	Folder   string
	PublicID string
	// MaxBytes overrides the configured limit when positive.
	MaxBytes int64
}

// UploadResult is the stored asset plus the provider side reference.
type UploadResult struct {
	Asset    *models.MediaAsset
	PublicID string
}

// RegisterInput records an already hosted image.
type RegisterInput struct {
	URL      string
	Alt      string
	PublicID string
}

// RemoveInput names the asset, the remote object, or both.
type RemoveInput struct {
	MediaID  *uuid.UUID
	PublicID string
}

// Options configures the service.
type Options struct {
	DefaultFolder  string
	MaxUploadBytes int64
}

type service struct {
	tx       txRunner
	repo     mediaRepository
	store    storage.ObjectStore
	opts     Options
	logg     *logger.Logger
	counters *metrics.CMSMetrics
}

// NewService constructs a media service backed by the repository and object store.
func NewService(tx txRunner, repo mediaRepository, store storage.ObjectStore, opts Options, logg *logger.Logger, counters *metrics.CMSMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	opts.DefaultFolder = strings.Trim(opts.DefaultFolder, "/")
	return &service{tx: tx, repo: repo, store: store, opts: opts, logg: logg, counters: counters}, nil
}

func (s *service) Store(ctx context.Context, input UploadInput) (storage.Object, error) {
	if input.Reader == nil {
		return storage.Object{}, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	limit := s.opts.MaxUploadBytes
	if input.MaxBytes > 0 {
		limit = input.MaxBytes
	}
	if input.Size > limit {
		return storage.Object{}, tooLarge(limit)
	}

	data, err := io.ReadAll(io.LimitReader(input.Reader, limit+1))
	if err != nil {
		return storage.Object{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if len(data) == 0 {
		return storage.Object{}, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(data)) > limit {
		return storage.Object{}, tooLarge(limit)
	}

	mime, ext, ok := sniffImage(data, input.MimeType)
	if !ok {
		return storage.Object{}, pkgerrors.New(pkgerrors.CodeUnsupportedMedia, "only image uploads are allowed").
			WithDetails(map[string]any{"mime_type": mime})
	}

	folder := strings.Trim(input.Folder, "/")
	if folder == "" {
		folder = s.opts.DefaultFolder
	}
	name := ""
	if strings.TrimSpace(input.PublicID) != "" {
		folder, name = storage.SplitPublicID(input.PublicID, folder)
	}

	obj, err := s.store.Put(ctx, storage.PutInput{
		Reader:      bytes.NewReader(data),
		Size:        int64(len(data)),
		ContentType: mime,
		Folder:      folder,
		Name:        name,
		Extension:   ext,
		Overwrite:   true,
	})
	s.counters.IncUpload(string(s.store.Provider()), err)
	if err != nil {
		return storage.Object{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload to object store")
	}

	if obj.Width == 0 || obj.Height == 0 {
		obj.Width, obj.Height = dimensions(data)
	}
	if obj.Bytes == 0 {
		obj.Bytes = int64(len(data))
	}
	if obj.Format == "" {
		obj.Format = strings.TrimPrefix(ext, ".")
	}
	return obj, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	obj, err := s.Store(ctx, input)
	if err != nil {
		return nil, err
	}

	mime, _, _ := strings.Cut(input.MimeType, ";")
	asset := &models.MediaAsset{
		URL:      obj.URL,
		Alt:      optional(input.Alt),
		Width:    positive(obj.Width),
		Height:   positive(obj.Height),
		MimeType: optional(mimeFor(obj.Format, mime)),
		PublicID: optional(obj.PublicID),
		Provider: s.store.Provider(),
	}
	if _, err := s.repo.Create(ctx, asset); err != nil {
		s.Destroy(ctx, obj.PublicID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media asset")
	}

	return &UploadResult{Asset: asset, PublicID: obj.PublicID}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.MediaAsset, error) {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	publicID := strings.TrimSpace(input.PublicID)
	if publicID == "" {
		publicID = PublicIDFromURL(url)
	}
	asset := &models.MediaAsset{
		URL:      url,
		Alt:      optional(input.Alt),
		PublicID: optional(publicID),
	}
	if _, err := s.repo.Create(ctx, asset); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media asset")
	}
	return asset, nil
}

// Remove detaches and deletes the asset in one transaction, then destroys
// the remote object. A remote failure is logged and never returned.
func (s *service) Remove(ctx context.Context, input RemoveInput) error {
	publicID := strings.TrimSpace(input.PublicID)
	if input.MediaID == nil && publicID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "mediaId or public_id is required")
	}

	var ids []uuid.UUID
	if input.MediaID != nil {
		asset, err := s.repo.FindByID(ctx, *input.MediaID)
		switch {
		case err == nil:
			ids = append(ids, asset.ID)
			if publicID == "" && asset.PublicID != nil {
				publicID = *asset.PublicID
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media asset")
		}
	}
	if input.MediaID == nil && publicID != "" {
		matched, err := s.repo.IDsByPublicID(ctx, publicID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find media by public id")
		}
		ids = append(ids, matched...)
	}

	if len(ids) > 0 {
		if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).DetachAndDelete(ctx, ids)
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media asset")
		}
	}

	if publicID != "" {
		s.Destroy(ctx, publicID)
	}
	return nil
}

func (s *service) Destroy(ctx context.Context, publicID string) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return
	}
	err := s.store.Delete(ctx, publicID)
	s.counters.IncRemoteDelete(string(s.store.Provider()), err)
	if err != nil && s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"public_id": publicID,
			"provider":  string(s.store.Provider()),
			"error":     err.Error(),
		})
		s.logg.Warn(ctx, "media.remote_delete_failed")
	}
}

func tooLarge(limit int64) error {
	return pkgerrors.New(pkgerrors.CodePayloadTooLarge, fmt.Sprintf("file exceeds %d MB", limit>>20)).
		WithDetails(map[string]any{"max_bytes": limit})
}

func mimeFor(format, declared string) string {
	if format != "" {
		switch strings.ToLower(format) {
		case "jpg", "jpeg":
			return "image/jpeg"
		case "svg":
			return "image/svg+xml"
		default:
			return "image/" + strings.ToLower(format)
		}
	}
	return strings.TrimSpace(declared)
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func positive(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
