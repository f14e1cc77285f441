// Package supabase stores media in a public Supabase Storage bucket.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	storagego "github.com/supabase-community/storage-go"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

type objectAPI interface {
	upload(bucket, objectPath string, r io.Reader, contentType string, upsert bool) error
	remove(bucket, objectPath string) error
}

type sdk struct {
	client *storagego.Client
}

func (s sdk) upload(bucket, objectPath string, r io.Reader, contentType string, upsert bool) error {
	_, err := s.client.UploadFile(bucket, objectPath, r, storagego.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	return err
}

func (s sdk) remove(bucket, objectPath string) error {
	_, err := s.client.RemoveFile(bucket, []string{objectPath})
	return err
}

type Client struct {
	api     objectAPI
	bucket  string
	baseURL string
}

func New(ctx context.Context, cfg config.SupabaseConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URL == "" || cfg.ServiceKey == "" || cfg.Bucket == "" {
		return nil, errors.New("supabase url, service key and bucket are required")
	}
	baseURL := strings.TrimRight(cfg.URL, "/")
	client := storagego.NewClient(baseURL+"/storage/v1", cfg.ServiceKey, nil)

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.Bucket), "supabase storage client initialized")
	}
	return &Client{api: sdk{client: client}, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (c *Client) Provider() enums.StorageProvider {
	return enums.StorageProviderSupabase
}

// Put uploads the object. The sdk call takes no context, so ctx is only
// checked before the request starts.
func (c *Client) Put(ctx context.Context, in storage.PutInput) (storage.Object, error) {
	if in.Reader == nil {
		return storage.Object{}, errors.New("supabase: reader is required")
	}
	if err := ctx.Err(); err != nil {
		return storage.Object{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = uuid.NewString()
	}
	if in.Extension != "" && path.Ext(name) == "" {
		name += in.Extension
	}
	objectPath := storage.JoinKey(in.Folder, name)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := c.api.upload(c.bucket, objectPath, in.Reader, contentType, in.Overwrite); err != nil {
		return storage.Object{}, fmt.Errorf("supabase upload: %w", err)
	}

	return storage.Object{
		URL:      c.PublicURL(objectPath),
		PublicID: objectPath,
		Format:   strings.TrimPrefix(path.Ext(objectPath), "."),
		Bytes:    in.Size,
	}, nil
}

func (c *Client) Delete(ctx context.Context, publicID string) error {
	publicID = strings.Trim(strings.TrimSpace(publicID), "/")
	if publicID == "" {
		return errors.New("supabase: public id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.api.remove(c.bucket, publicID); err != nil {
		return fmt.Errorf("supabase remove: %w", err)
	}
	return nil
}

func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, strings.TrimLeft(objectPath, "/"))
}
