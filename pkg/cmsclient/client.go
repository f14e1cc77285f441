// Package cmsclient talks to the admin API the way the editor screens do:
// bearer-authenticated JSON calls plus multipart image uploads.
package cmsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
)

const errorBodyReadLimit int64 = 4096

var errBaseURLRequired = errors.New("cms base url is required")

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("cms api status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("cms api status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.RWMutex
	token string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken starts the client with an already issued access token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New builds a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// File is one image handed to Upload.
type File struct {
	Name     string
	Reader   io.Reader
	Alt      string
	Folder   string
	PublicID string
}

// BrandOption is one entry of the brand picker.
type BrandOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Login exchanges credentials for an access token kept on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return errors.New("login response carried no access token")
	}
	c.mu.Lock()
	c.token = resp.AccessToken
	c.mu.Unlock()
	return nil
}

// Upload sends one image and returns the stored media reference.
func (c *Client) Upload(ctx context.Context, file File) (draft.MediaRef, error) {
	if file.Reader == nil {
		return draft.MediaRef{}, errors.New("file reader is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	name := file.Name
	if name == "" {
		name = "upload"
	}
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return draft.MediaRef{}, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file.Reader); err != nil {
		return draft.MediaRef{}, fmt.Errorf("copy file part: %w", err)
	}
	for key, value := range map[string]string{"alt": file.Alt, "folder": file.Folder, "publicId": file.PublicID} {
		if value == "" {
			continue
		}
		if err := form.WriteField(key, value); err != nil {
			return draft.MediaRef{}, fmt.Errorf("write %s field: %w", key, err)
		}
	}
	if err := form.Close(); err != nil {
		return draft.MediaRef{}, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &buf)
	if err != nil {
		return draft.MediaRef{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var resp struct {
		Media struct {
			ID  string  `json:"id"`
			URL string  `json:"url"`
			Alt *string `json:"alt"`
		} `json:"media"`
		Cloudinary struct {
			PublicID string `json:"publicId"`
		} `json:"cloudinary"`
	}
	if err := c.do(req, &resp); err != nil {
		return draft.MediaRef{}, err
	}

	ref := draft.MediaRef{ID: resp.Media.ID, URL: resp.Media.URL, Alt: resp.Media.Alt}
	if resp.Cloudinary.PublicID != "" {
		publicID := resp.Cloudinary.PublicID
		ref.ExternalRef = &publicID
	}
	return ref, nil
}

// Remove deletes the media row and its remote object. Either value may be empty.
func (c *Client) Remove(ctx context.Context, mediaID, externalRef string) error {
	query := url.Values{}
	if mediaID != "" {
		query.Set("mediaId", mediaID)
	}
	if externalRef != "" {
		query.Set("public_id", externalRef)
	}
	path := "/api/upload"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// SaveProduct commits a product payload and returns its id.
func (c *Client) SaveProduct(ctx context.Context, payload draft.ProductPayload) (string, error) {
	return c.save(ctx, "/api/products/save", payload)
}

// SaveBrand commits a brand payload and returns its id.
func (c *Client) SaveBrand(ctx context.Context, payload draft.BrandPayload) (string, error) {
	return c.save(ctx, "/api/brands/save", payload)
}

// BrandOptions lists every brand for pickers.
func (c *Client) BrandOptions(ctx context.Context) ([]BrandOption, error) {
	var resp struct {
		Data []BrandOption `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/brands/options", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) save(ctx context.Context, path string, payload any) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, dest)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error) > 0 {
		var structured struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details any    `json:"details"`
		}
		if err := json.Unmarshal(envelope.Error, &structured); err == nil {
			apiErr.Code, apiErr.Message, apiErr.Details = structured.Code, structured.Message, structured.Details
			return apiErr
		}
		var plain string
		if err := json.Unmarshal(envelope.Error, &plain); err == nil {
			apiErr.Message = plain
			return apiErr
		}
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
