package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alcotrade/alcotrade-cms/api/middleware"
	"github.com/alcotrade/alcotrade-cms/internal/brands"
	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func multipartBody(t *testing.T, fields map[string]string, fileField string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="image.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestProductSaveReturnsID(t *testing.T) {
	id := uuid.New()
	svc := &stubProducts{saveID: id}
	body := `{"name":"Prosecco","status":"ACTIVE","brandId":"` + uuid.NewString() + `","description":null,"seoTitle":null,"seoDescription":null,"coverId":null,"imageIds":["a","b"],"variants":[{"label":"0.75 л","position":0}],"regenerateSlug":true}`

	rec := httptest.NewRecorder()
	ProductSave(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/products/save", body))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["ok"])
	assert.Equal(t, id.String(), resp["id"])
	require.NotNil(t, svc.saved)
	assert.True(t, svc.saved.RegenerateSlug)
	assert.Equal(t, []string{"a", "b"}, svc.saved.ImageIDs)
	require.Len(t, svc.saved.Variants, 1)
	assert.Equal(t, enums.EntityStatusActive, svc.saved.Status)
}

func TestProductsListNormalizesQuery(t *testing.T) {
	svc := &stubProducts{}
	req := httptest.NewRequest(http.MethodGet, "/api/products?query=%20pro%20&brand=bolgrad&status=nope&sort=brand&page=0&pageSize=500", nil)
	rec := httptest.NewRecorder()
	ProductsList(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.listInput)
	assert.Equal(t, "pro", svc.listInput.Query)
	assert.Equal(t, "bolgrad", svc.listInput.BrandSlug)
	assert.Nil(t, svc.listInput.Status)
	assert.Equal(t, pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}, svc.listInput.Pagination)

	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["ok"])
	assert.Contains(t, resp, "items")
	assert.Contains(t, resp, "totalPages")
}

func TestProductDetailWrapsSnapshot(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/products/{id}", ProductDetail(&stubProducts{}, nil))

	id := uuid.New()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	productBody, ok := resp["product"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, id.String(), productBody["id"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsBulkDelete(t *testing.T) {
	svc := &stubProducts{}
	rec := httptest.NewRecorder()
	ProductsBulkDelete(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodDelete, "/api/products", `{"ids":[]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.deleted)

	id := uuid.New()
	rec = httptest.NewRecorder()
	ProductsBulkDelete(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodDelete, "/api/products", `{"ids":["`+id.String()+`"]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.deleted)

	rec = httptest.NewRecorder()
	ProductsBulkDelete(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodDelete, "/api/products", `{"ids":["x"]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBrandSaveCreateAndUpdate(t *testing.T) {
	id := uuid.New()
	svc := &stubBrands{result: &brands.SaveResult{ID: id, Created: true}}

	rec := httptest.NewRecorder()
	BrandSave(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/brands/save", `{"name":"Bolgrad","status":"DRAFT","description":null,"seoTitle":null,"seoDescription":null,"coverId":null}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, id.String(), decodeBody(t, rec)["id"])

	svc.result = &brands.SaveResult{ID: id}
	rec = httptest.NewRecorder()
	BrandSave(svc, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/brands/save", `{"id":"`+id.String()+`","name":"Bolgrad","status":"DRAFT","description":null,"seoTitle":null,"seoDescription":null,"coverId":null}`))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, true, resp["ok"])
	assert.NotContains(t, resp, "id")
}

func TestBrandOptionsAlwaysArray(t *testing.T) {
	rec := httptest.NewRecorder()
	BrandOptions(&stubBrands{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/brands/options", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"data":[]}`, rec.Body.String())
}

func TestMediaUploadCreatesAsset(t *testing.T) {
	svc := &stubMedia{}
	body, contentType := multipartBody(t, map[string]string{"alt": "bottle", "folder": "Alcotrade/products"}, "file", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	MediaUpload(svc, 1<<20, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	mediaBody := resp["media"].(map[string]any)
	assert.Equal(t, "https://cdn.test/a.png", mediaBody["url"])
	assert.Equal(t, "Alcotrade/a", resp["cloudinary"].(map[string]any)["publicId"])
	require.NotNil(t, svc.uploaded)
	assert.Equal(t, "bottle", svc.uploaded.Alt)
	assert.Equal(t, "Alcotrade/products", svc.uploaded.Folder)
	assert.Equal(t, "image/png", svc.uploaded.MimeType)
}

func TestMediaUploadRequiresFile(t *testing.T) {
	body, contentType := multipartBody(t, map[string]string{"alt": "x"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	MediaUpload(&stubMedia{}, 1<<20, nil).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaDelete(t *testing.T) {
	svc := &stubMedia{}
	rec := httptest.NewRecorder()
	MediaDelete(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/upload", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.removed)

	id := uuid.New()
	rec = httptest.NewRecorder()
	MediaDelete(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/upload?mediaId="+id.String()+"&public_id=Alcotrade/x", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.removed)
	assert.Equal(t, id, *svc.removed.MediaID)
	assert.Equal(t, "Alcotrade/x", svc.removed.PublicID)
}

func TestPartnerLogoUploadDefaultsName(t *testing.T) {
	svc := &stubMedia{}
	body, contentType := multipartBody(t, nil, "file", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload/partner-logo", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	PartnerLogoUpload(svc, "Alcotrade/partners", 1<<20, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.stored)
	assert.True(t, strings.HasPrefix(svc.stored.PublicID, "Alcotrade/partners/unnamed_"), svc.stored.PublicID)
	resp := decodeBody(t, rec)
	assert.Equal(t, float64(7), resp["version"])
	assert.Equal(t, "png", resp["format"])
}

func TestPartnerUpdateDistinguishesNullLink(t *testing.T) {
	svc := &stubPartners{}
	r := chi.NewRouter()
	r.Patch("/api/partners/{id}", PartnerUpdate(svc, nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/api/partners/"+uuid.NewString(), `{"link":null}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, svc.update.LinkSet)
	assert.Nil(t, svc.update.Link)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/api/partners/"+uuid.NewString(), `{"name":"New"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.update.LinkSet)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, jsonRequest(http.MethodPatch, "/api/partners/"+uuid.NewString(), `{"link":"https://wine.test"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.update.Link)
	assert.Equal(t, "https://wine.test", *svc.update.Link)
}

func TestPartnersBulkDeleteCounts(t *testing.T) {
	rec := httptest.NewRecorder()
	PartnersBulkDelete(&stubPartners{}, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/partners/bulk-delete", `{"ids":["`+uuid.NewString()+`","`+uuid.NewString()+`"]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"count":2}`, rec.Body.String())
}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	cfg := config.JWTConfig{CookieName: "alcotrade_session", SessionTTLMinutes: 60}
	rec := httptest.NewRecorder()
	AuthLogin(&stubAuth{}, cfg, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"admin@alcotrade.test","password":"secret123"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, "access-token", resp["access_token"])
	assert.Equal(t, "refresh-token", resp["refresh_token"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "access-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthLoginValidatesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	AuthLogin(&stubAuth{}, config.JWTConfig{}, nil).ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"nope"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLogoutUsesBearerToken(t *testing.T) {
	svc := &stubAuth{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer abc")

	rec := httptest.NewRecorder()
	AuthLogout(svc, config.JWTConfig{CookieName: "alcotrade_session"}, nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", svc.loggedOut)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	rec = httptest.NewRecorder()
	AuthLogout(svc, config.JWTConfig{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSiteSettingsPatchMultipart(t *testing.T) {
	svc := &stubSiteSettings{}
	body, contentType := multipartBody(t, map[string]string{"defaultSeoTitle": " Wine ", "removeOg": "1"}, "ogImage", []byte("og"))
	req := httptest.NewRequest(http.MethodPatch, "/api/site-settings", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	SiteSettingsPatch(svc, 1<<20, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.patch)
	require.True(t, svc.patch.DefaultSEOTitle.Set)
	assert.Equal(t, " Wine ", *svc.patch.DefaultSEOTitle.Value)
	assert.False(t, svc.patch.TitleSuffix.Set)
	assert.True(t, bool(svc.patch.RemoveOG))
	assert.Equal(t, []byte("og"), svc.image)
}

func TestSiteSettingsPatchJSON(t *testing.T) {
	svc := &stubSiteSettings{}
	rec := httptest.NewRecorder()
	SiteSettingsPatch(svc, 1<<20, nil).ServeHTTP(rec, jsonRequest(http.MethodPatch, "/api/site-settings", `{"titleSuffix":null,"removeOg":"true"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, svc.patch.TitleSuffix.Set)
	assert.Nil(t, svc.patch.TitleSuffix.Value)
	assert.True(t, bool(svc.patch.RemoveOG))
	assert.Nil(t, svc.patch.OGImage)
}

func TestSiteSettingsGetBeforeFirstWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	SiteSettingsGet(&stubSiteSettings{}, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/site-settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"settings":null}`, rec.Body.String())
}

func TestActorIDRequiresAuthenticatedUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	_, err := actorID(req)
	require.Error(t, err)

	id := uuid.New()
	req = req.WithContext(middleware.WithActor(req.Context(), id.String(), string(enums.RoleManager), ""))
	got, err := actorID(req)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
