package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Repository persists admin panel accounts. Emails are stored lowercased.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

// List orders newest accounts first.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// UpdatePasswordHash returns the refreshed row.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) (*models.User, error) {
	if err := r.updateByID(ctx, id, map[string]any{"password_hash": hash}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// UpdateLastLogin leaves updated_at alone since a login is not an edit.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// SetAvatar stores the avatar URL with its storage public id. Nil values put
// the user back on the default avatar.
func (r *Repository) SetAvatar(ctx context.Context, id uuid.UUID, image, publicID *string) error {
	return r.updateByID(ctx, id, map[string]any{"image": image, "avatar_public_id": publicID})
}

// UpsertAdmin inserts user or, when the email is taken, promotes that
// account to ADMIN with user's name and password hash.
func (r *Repository) UpsertAdmin(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "name", "updated_at"}),
	}).Create(user).Error
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// updateByID reports gorm.ErrRecordNotFound when no row matched.
func (r *Repository) updateByID(ctx context.Context, id uuid.UUID, values map[string]any) error {
	values["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
