package controllers

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/internal/auth"
	"github.com/alcotrade/alcotrade-cms/internal/brands"
	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/internal/partners"
	product "github.com/alcotrade/alcotrade-cms/internal/products"
	"github.com/alcotrade/alcotrade-cms/internal/sitesettings"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

type stubProducts struct {
	saved     *product.SaveInput
	saveID    uuid.UUID
	saveErr   error
	listInput *product.ListInput
	deleted   []uuid.UUID
}

func (s *stubProducts) Save(_ context.Context, input product.SaveInput) (uuid.UUID, error) {
	s.saved = &input
	return s.saveID, s.saveErr
}

func (s *stubProducts) List(_ context.Context, input product.ListInput) (*product.ListResult, error) {
	s.listInput = &input
	return &product.ListResult{Page: pagination.NewPage[product.ListItem](nil, 0, input.Pagination)}, nil
}

func (s *stubProducts) Detail(_ context.Context, id uuid.UUID) (*draft.Snapshot, error) {
	return &draft.Snapshot{ID: id.String(), Name: "Prosecco"}, nil
}

func (s *stubProducts) BulkDelete(_ context.Context, ids []uuid.UUID) (int64, error) {
	s.deleted = ids
	return int64(len(ids)), nil
}

type stubBrands struct {
	result  *brands.SaveResult
	options []brands.Option
}

func (s *stubBrands) Save(context.Context, brands.SaveInput) (*brands.SaveResult, error) {
	return s.result, nil
}

func (s *stubBrands) List(_ context.Context, input brands.ListInput) (*pagination.Page[brands.ListItem], error) {
	page := pagination.NewPage[brands.ListItem](nil, 0, input.Pagination)
	return &page, nil
}

func (s *stubBrands) Options(context.Context) ([]brands.Option, error) {
	return s.options, nil
}

func (s *stubBrands) Detail(_ context.Context, id uuid.UUID) (*draft.BrandSnapshot, error) {
	return &draft.BrandSnapshot{ID: id.String()}, nil
}

func (s *stubBrands) BulkDelete(_ context.Context, ids []uuid.UUID) (int64, error) {
	return int64(len(ids)), nil
}

type stubMedia struct {
	uploaded *media.UploadInput
	stored   *media.UploadInput
	removed  *media.RemoveInput
}

func (s *stubMedia) Upload(_ context.Context, input media.UploadInput) (*media.UploadResult, error) {
	data, _ := io.ReadAll(input.Reader)
	input.Size = int64(len(data))
	s.uploaded = &input
	width := 10
	return &media.UploadResult{
		Asset:    &models.MediaAsset{ID: uuid.New(), URL: "https://cdn.test/a.png", Width: &width, Height: &width},
		PublicID: "Alcotrade/a",
	}, nil
}

func (s *stubMedia) Register(_ context.Context, input media.RegisterInput) (*models.MediaAsset, error) {
	return &models.MediaAsset{ID: uuid.New(), URL: input.URL}, nil
}

func (s *stubMedia) Remove(_ context.Context, input media.RemoveInput) error {
	s.removed = &input
	return nil
}

func (s *stubMedia) Store(_ context.Context, input media.UploadInput) (storage.Object, error) {
	s.stored = &input
	return storage.Object{URL: "https://cdn.test/logo.png", PublicID: input.PublicID, Width: 64, Height: 32, Format: "png", Version: 7}, nil
}

func (s *stubMedia) Destroy(context.Context, string) {}

type stubPartners struct {
	update *partners.UpdateInput
}

func (s *stubPartners) List(context.Context) ([]partners.Partner, error) {
	return []partners.Partner{{ID: uuid.New(), Name: "Winery"}}, nil
}

func (s *stubPartners) Create(_ context.Context, input partners.CreateInput) (*partners.Partner, error) {
	return &partners.Partner{ID: uuid.New(), Name: input.Name, Link: input.Link, Image: input.Image}, nil
}

func (s *stubPartners) Update(_ context.Context, id uuid.UUID, input partners.UpdateInput) (*partners.Partner, error) {
	s.update = &input
	return &partners.Partner{ID: id, Name: "Winery", Link: input.Link}, nil
}

func (s *stubPartners) Delete(context.Context, uuid.UUID) error { return nil }

func (s *stubPartners) BulkDelete(_ context.Context, ids []uuid.UUID) (int, error) {
	return len(ids), nil
}

type stubAuth struct {
	loggedOut string
}

func (s *stubAuth) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         auth.SessionUser{ID: uuid.New(), Email: req.Email},
	}, nil
}

func (s *stubAuth) Refresh(context.Context, string, string) (*auth.TokenPair, error) {
	return &auth.TokenPair{AccessToken: "next-access", RefreshToken: "next-refresh"}, nil
}

func (s *stubAuth) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return nil
}

type stubSiteSettings struct {
	patch *sitesettings.PatchInput
	image []byte
}

func (s *stubSiteSettings) Get(context.Context) (*sitesettings.Settings, error) {
	return nil, nil
}

func (s *stubSiteSettings) Patch(_ context.Context, input sitesettings.PatchInput) (*sitesettings.Settings, error) {
	s.patch = &input
	if input.OGImage != nil {
		s.image, _ = io.ReadAll(input.OGImage.Reader)
	}
	return &sitesettings.Settings{TitleSuffix: "| Alcotrade"}, nil
}
