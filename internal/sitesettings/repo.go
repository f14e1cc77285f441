package sitesettings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Repository reads and writes the singleton settings row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the settings row or nil when it was never saved.
func (r *Repository) Get(ctx context.Context) (*models.SiteSettings, error) {
	var row models.SiteSettings
	err := r.db.WithContext(ctx).First(&row, "id = ?", models.SiteSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert inserts row when missing, otherwise writes only the given columns.
func (r *Repository) Upsert(ctx context.Context, row *models.SiteSettings, columns map[string]any) (*models.SiteSettings, error) {
	row.ID = models.SiteSettingsID
	row.UpdatedAt = time.Now().UTC()

	conflict := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}}
	if len(columns) == 0 {
		conflict.DoNothing = true
	} else {
		assignments := make(map[string]any, len(columns)+1)
		for column, value := range columns {
			assignments[column] = value
		}
		assignments["updated_at"] = row.UpdatedAt
		conflict.DoUpdates = clause.Assignments(assignments)
	}

	if err := r.db.WithContext(ctx).Clauses(conflict).Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
