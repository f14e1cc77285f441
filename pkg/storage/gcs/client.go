// Package gcs stores media objects in a Google Cloud Storage bucket through
// the JSON API.
package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

const (
	scope          = "https://www.googleapis.com/auth/devstorage.read_write"
	defaultAPIBase = "https://storage.googleapis.com"
	pingTimeout    = 5 * time.Second
	requestTimeout = 30 * time.Second
)

type Client struct {
	httpClient *http.Client
	bucket     string
	apiBase    string
	publicBase string
	logg       *logger.Logger
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

// NewClient resolves credentials (inline JSON, a credentials file, or the
// metadata server) and verifies bucket access before returning.
func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	ts, err := tokenSource(ctx, gcp)
	if err != nil {
		return nil, err
	}

	client := newWithTokenSource(ctx, cfg, ts, defaultAPIBase, logg)
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", cfg.BucketName), "gcs client initialized")
	}
	return client, nil
}

func newWithTokenSource(ctx context.Context, cfg config.GCSConfig, ts oauth2.TokenSource, apiBase string, logg *logger.Logger) *Client {
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = requestTimeout

	publicBase := strings.TrimRight(cfg.PublicBase, "/")
	if publicBase == "" {
		publicBase = defaultAPIBase
	}
	return &Client{
		httpClient: httpClient,
		bucket:     cfg.BucketName,
		apiBase:    strings.TrimRight(apiBase, "/"),
		publicBase: publicBase,
		logg:       logg,
	}
}

func tokenSource(ctx context.Context, gcp config.GCPConfig) (oauth2.TokenSource, error) {
	var raw []byte
	switch {
	case gcp.CredentialsJSON != "":
		raw = []byte(gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		b, err := os.ReadFile(gcp.ApplicationCredentials)
		if err != nil {
			return nil, fmt.Errorf("reading credentials file: %w", err)
		}
		raw = b
	default:
		return google.ComputeTokenSource(""), nil
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, scope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	return creds.TokenSource, nil
}

func (c *Client) Provider() enums.StorageProvider {
	return enums.StorageProviderGCS
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

func (c *Client) Close() error {
	return nil
}

// Ping lists at most one object, which needs storage.objects.list.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("gcs client not initialized")
	}
	if c.bucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer closeBody(ctx, c.logg, resp.Body, "gcs: closing response body failed")

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// Put uploads the object with a single media request. The public id is the
// object name inside the bucket.
func (c *Client) Put(ctx context.Context, in storage.PutInput) (storage.Object, error) {
	if in.Reader == nil {
		return storage.Object{}, errors.New("gcs: reader is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = uuid.NewString()
	}
	if in.Extension != "" && path.Ext(name) == "" {
		name += in.Extension
	}
	object := storage.JoinKey(in.Folder, name)

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", object)
	if !in.Overwrite {
		q.Set("ifGenerationMatch", "0")
	}
	u := fmt.Sprintf("%s/upload/storage/v1/b/%s/o?%s", c.apiBase, url.PathEscape(c.bucket), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, in.Reader)
	if err != nil {
		return storage.Object{}, err
	}
	req.Header.Set("Content-Type", contentType)
	if in.Size > 0 {
		req.ContentLength = in.Size
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return storage.Object{}, fmt.Errorf("gcs upload: %w", err)
	}
	defer closeBody(ctx, c.logg, resp.Body, "gcs: closing response body failed")

	if resp.StatusCode != http.StatusOK {
		return storage.Object{}, statusError("gcs upload failed", resp)
	}

	var meta struct {
		Name string `json:"name"`
		Size string `json:"size"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return storage.Object{}, fmt.Errorf("decoding gcs upload response: %w", err)
	}
	if meta.Name != "" {
		object = meta.Name
	}

	return storage.Object{
		URL:      c.PublicURL(object),
		PublicID: object,
		Format:   strings.TrimPrefix(path.Ext(object), "."),
		Bytes:    in.Size,
	}, nil
}

// Delete removes the object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, publicID string) error {
	publicID = strings.Trim(strings.TrimSpace(publicID), "/")
	if publicID == "" {
		return errors.New("gcs: public id is required")
	}
	u := fmt.Sprintf("%s/storage/v1/b/%s/o/%s", c.apiBase, url.PathEscape(c.bucket), url.PathEscape(publicID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gcs delete: %w", err)
	}
	defer closeBody(ctx, c.logg, resp.Body, "gcs: closing response body failed")

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return statusError("gcs delete failed", resp)
}

// PublicURL is the world readable address of an object in the bucket.
func (c *Client) PublicURL(object string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBase, c.bucket, strings.TrimLeft(object, "/"))
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	b = bytes.TrimSpace(b)
	if len(b) > 0 {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, b)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
