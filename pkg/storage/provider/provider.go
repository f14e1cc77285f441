// Package provider selects the configured media backend.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
	"github.com/alcotrade/alcotrade-cms/pkg/storage/cloudinary"
	"github.com/alcotrade/alcotrade-cms/pkg/storage/gcs"
	"github.com/alcotrade/alcotrade-cms/pkg/storage/supabase"
)

// New returns the object store named by cfg.Storage.Provider.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Provider)) {
	case config.StorageCloudinary, "":
		return cloudinary.New(ctx, cfg.Cloudinary, logg)
	case config.StorageGCS:
		return gcs.NewClient(ctx, cfg.GCS, cfg.GCP, logg)
	case config.StorageSupabase:
		return supabase.New(ctx, cfg.Supabase, logg)
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
}
