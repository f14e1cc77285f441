// Package cloudinary stores media on Cloudinary, the default image host.
package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

const resourceTypeImage = "image"

type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Client implements storage.ObjectStore on the Cloudinary upload API.
type Client struct {
	api uploadAPI
}

// New parses CLOUDINARY_URL and returns a ready client.
func New(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("cloudinary url is required")
	}
	c, err := cld.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing cloudinary url: %w", err)
	}
	c.Config.URL.Secure = true

	if logg != nil {
		logg.Info(logg.WithField(ctx, "cloud_name", c.Config.Cloud.CloudName), "cloudinary client initialized")
	}
	return &Client{api: &c.Upload}, nil
}

func (c *Client) Provider() enums.StorageProvider {
	return enums.StorageProviderCloudinary
}

// Put uploads an image. Cloudinary derives the extension itself, so
// in.Extension is ignored.
func (c *Client) Put(ctx context.Context, in storage.PutInput) (storage.Object, error) {
	if in.Reader == nil {
		return storage.Object{}, errors.New("cloudinary: reader is required")
	}
	params := uploader.UploadParams{
		Folder:       strings.Trim(in.Folder, "/"),
		PublicID:     strings.Trim(in.Name, "/"),
		Overwrite:    api.Bool(in.Overwrite),
		Invalidate:   api.Bool(in.Overwrite),
		ResourceType: resourceTypeImage,
	}

	res, err := c.api.Upload(ctx, in.Reader, params)
	if err != nil {
		return storage.Object{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res == nil {
		return storage.Object{}, errors.New("cloudinary upload: empty response")
	}
	if res.Error.Message != "" {
		return storage.Object{}, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	return storage.Object{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Bytes:    int64(res.Bytes),
		Version:  int64(res.Version),
	}, nil
}

// Delete destroys the object. A "not found" result counts as success.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return errors.New("cloudinary: public id is required")
	}
	res, err := c.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceTypeImage,
		Invalidate:   api.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res == nil {
		return nil
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", res.Error.Message)
	}
	switch res.Result {
	case "", "ok", "not found":
		return nil
	}
	return fmt.Errorf("cloudinary destroy: unexpected result %q", res.Result)
}
