package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/db"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/security"
)

const minPasswordLength = 8

// Service manages admin panel accounts.
type Service interface {
	List(ctx context.Context) ([]ListItem, error)
	Create(ctx context.Context, input CreateInput) (*Created, error)
	SetPassword(ctx context.Context, id uuid.UUID, password string) (*PasswordChanged, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) (*models.User, error)
}

type service struct {
	repo         userRepository
	passwordCfg  config.PasswordConfig
	defaultImage string
}

// NewService builds the users service. defaultImage is shown for accounts
// without an avatar.
func NewService(repo userRepository, passwordCfg config.PasswordConfig, defaultImage string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg, defaultImage: defaultImage}, nil
}

func (s *service) List(ctx context.Context) ([]ListItem, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	items := make([]ListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, newListItem(row, s.defaultImage))
	}
	return items, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Created, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	role := enums.RoleManager
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := enums.ParseRole(input.Role)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
		}
		role = parsed
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	image := input.Image
	if image == nil && s.defaultImage != "" {
		fallback := s.defaultImage
		image = &fallback
	}

	user := &models.User{
		Email:        email,
		Name:         trimmedOrNil(input.Name),
		PasswordHash: hash,
		Role:         role,
		Image:        image,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return newCreated(user), nil
}

func (s *service) SetPassword(ctx context.Context, id uuid.UUID, password string) (*PasswordChanged, error) {
	password = strings.TrimSpace(password)
	if len([]rune(password)) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user, err := s.repo.UpdatePasswordHash(ctx, id, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update password")
	}
	return &PasswordChanged{ID: user.ID, Email: user.Email, UpdatedAt: user.UpdatedAt}, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
