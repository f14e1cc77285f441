package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

const defaultMaxAvatarBytes = 5 << 20

// Profile is what the signed-in user sees about themselves.
type Profile struct {
	ImageURL string `json:"imageUrl"`
}

// Avatar is the URL now shown for the user.
type Avatar struct {
	URL string `json:"url"`
}

// AvatarInput is the uploaded avatar file.
type AvatarInput struct {
	Reader   io.Reader
	MimeType string
	Size     int64
}

// Service manages the signed-in user's own account.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, input AvatarInput) (*Avatar, error)
	ResetAvatar(ctx context.Context, userID uuid.UUID) (*Avatar, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetAvatar(ctx context.Context, id uuid.UUID, image, publicID *string) error
}

type objectStore interface {
	Store(ctx context.Context, input media.UploadInput) (storage.Object, error)
	Destroy(ctx context.Context, publicID string)
}

// Options configures avatar handling.
type Options struct {
	RootFolder    string
	DefaultAvatar string
	MaxBytes      int64
}

type service struct {
	users userRepository
	media objectStore
	opts  Options
	logg  *logger.Logger
}

// NewService builds the profile service.
func NewService(users userRepository, mediaSvc objectStore, opts Options, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxAvatarBytes
	}
	if opts.DefaultAvatar == "" {
		opts.DefaultAvatar = "/avatar.jpg"
	}
	return &service{users: users, media: mediaSvc, opts: opts, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{ImageURL: s.imageOf(user)}, nil
}

func (s *service) UploadAvatar(ctx context.Context, userID uuid.UUID, input AvatarInput) (*Avatar, error) {
	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	obj, err := s.media.Store(ctx, media.UploadInput{
		Reader:   input.Reader,
		MimeType: input.MimeType,
		Size:     input.Size,
		Folder:   path.Join(s.opts.RootFolder, "avatars", userID.String()),
		MaxBytes: s.opts.MaxBytes,
	})
	if err != nil {
		return nil, err
	}

	url, publicID := obj.URL, obj.PublicID
	if err := s.users.SetAvatar(ctx, userID, &url, &publicID); err != nil {
		s.media.Destroy(ctx, publicID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save avatar")
	}

	if old := current.AvatarPublicID; old != nil && *old != "" && *old != publicID {
		s.media.Destroy(ctx, *old)
	}
	return &Avatar{URL: url}, nil
}

func (s *service) ResetAvatar(ctx context.Context, userID uuid.UUID) (*Avatar, error) {
	current, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if old := current.AvatarPublicID; old != nil && *old != "" {
		s.media.Destroy(ctx, *old)
	}
	if err := s.users.SetAvatar(ctx, userID, nil, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset avatar")
	}
	return &Avatar{URL: s.opts.DefaultAvatar}, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) imageOf(user *models.User) string {
	if user.Image != nil && *user.Image != "" {
		return *user.Image
	}
	return s.opts.DefaultAvatar
}
