package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/pkg/db/dbtest"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

type fakeStore struct {
	puts      []storage.PutInput
	putBody   []byte
	deleted   []string
	putErr    error
	deleteErr error
}

func (f *fakeStore) Provider() enums.StorageProvider { return enums.StorageProviderCloudinary }

func (f *fakeStore) Put(_ context.Context, in storage.PutInput) (storage.Object, error) {
	f.puts = append(f.puts, in)
	f.putBody, _ = io.ReadAll(in.Reader)
	if f.putErr != nil {
		return storage.Object{}, f.putErr
	}
	id := storage.JoinKey(in.Folder, in.Name)
	if in.Name == "" {
		id = storage.JoinKey(in.Folder, "generated")
	}
	return storage.Object{URL: "https://cdn.test/" + id + ".png", PublicID: id, Format: "png"}, nil
}

func (f *fakeStore) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestService(t *testing.T, opts Options) (Service, *fakeStore, *gorm.DB) {
	t.Helper()
	client, conn := dbtest.Client(t)
	store := &fakeStore{}
	svc, err := NewService(client, NewRepository(conn), store, opts, nil, nil)
	require.NoError(t, err)
	return svc, store, conn
}

func TestUploadStoresAssetWithDimensions(t *testing.T) {
	svc, store, conn := newTestService(t, Options{DefaultFolder: "/Alcotrade/"})
	body := pngBytes(t, 4, 3)

	res, err := svc.Upload(context.Background(), UploadInput{
		Reader:   bytes.NewReader(body),
		FileName: "shabo.png",
		MimeType: "application/octet-stream",
		Alt:      " Shabo ",
	})
	require.NoError(t, err)

	require.Len(t, store.puts, 1)
	assert.Equal(t, "Alcotrade", store.puts[0].Folder)
	assert.Equal(t, "image/png", store.puts[0].ContentType)
	assert.True(t, store.puts[0].Overwrite)
	assert.Equal(t, body, store.putBody)

	assert.Equal(t, "Alcotrade/generated", res.PublicID)
	require.NotNil(t, res.Asset.Width)
	assert.Equal(t, 4, *res.Asset.Width)
	assert.Equal(t, 3, *res.Asset.Height)
	assert.Equal(t, "Shabo", *res.Asset.Alt)
	assert.Equal(t, enums.StorageProviderCloudinary, res.Asset.Provider)

	var stored models.MediaAsset
	require.NoError(t, conn.First(&stored, "id = ?", res.Asset.ID).Error)
	assert.Equal(t, "Alcotrade/generated", *stored.PublicID)
	assert.Equal(t, "image/png", *stored.MimeType)
}

func TestUploadExplicitPublicIDSplitsFolder(t *testing.T) {
	svc, store, _ := newTestService(t, Options{DefaultFolder: "Alcotrade"})

	_, err := svc.Upload(context.Background(), UploadInput{
		Reader:   bytes.NewReader(pngBytes(t, 1, 1)),
		PublicID: "/Alcotrade/partners/silpo/",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alcotrade/partners", store.puts[0].Folder)
	assert.Equal(t, "silpo", store.puts[0].Name)
}

func TestUploadRejectsNonImagesAndOversize(t *testing.T) {
	svc, store, _ := newTestService(t, Options{MaxUploadBytes: 64})

	_, err := svc.Upload(context.Background(), UploadInput{Reader: strings.NewReader("%PDF-1.4 hello"), MimeType: "image/png"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnsupportedMedia), "got %v", err)

	_, err = svc.Upload(context.Background(), UploadInput{Reader: bytes.NewReader(make([]byte, 65))})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodePayloadTooLarge), "got %v", err)

	_, err = svc.Upload(context.Background(), UploadInput{Reader: bytes.NewReader(nil)})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	assert.Empty(t, store.puts)
}

func TestUploadStoreFailureIsDependencyError(t *testing.T) {
	svc, store, conn := newTestService(t, Options{})
	store.putErr = errors.New("cloudinary down")

	_, err := svc.Upload(context.Background(), UploadInput{Reader: bytes.NewReader(pngBytes(t, 2, 2))})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency), "got %v", err)

	var count int64
	require.NoError(t, conn.Model(&models.MediaAsset{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveClearsEveryReference(t *testing.T) {
	svc, store, conn := newTestService(t, Options{})

	publicID := "Alcotrade/cover"
	asset := models.MediaAsset{URL: "https://cdn.test/cover.png", PublicID: &publicID}
	keep := models.MediaAsset{URL: "https://cdn.test/keep.png"}
	require.NoError(t, conn.Create(&asset).Error)
	require.NoError(t, conn.Create(&keep).Error)

	brand := models.Brand{Name: "Shabo", Slug: "shabo", Status: enums.EntityStatusActive, CoverID: &asset.ID}
	require.NoError(t, conn.Create(&brand).Error)
	product := models.Product{Name: "Reserve", Slug: "reserve", Status: enums.EntityStatusDraft, BrandID: brand.ID, CoverID: &asset.ID}
	require.NoError(t, conn.Create(&product).Error)
	require.NoError(t, conn.Create(&models.ProductVariant{ProductID: product.ID, Position: 0, ImageID: &asset.ID}).Error)
	require.NoError(t, conn.Create(&models.ProductImage{ProductID: product.ID, MediaID: asset.ID, Position: 0}).Error)
	require.NoError(t, conn.Create(&models.ProductImage{ProductID: product.ID, MediaID: keep.ID, Position: 1}).Error)
	require.NoError(t, conn.Create(&models.Partner{Name: "Silpo", LogoID: &asset.ID}).Error)

	require.NoError(t, svc.Remove(context.Background(), RemoveInput{MediaID: &asset.ID}))

	var reloadedBrand models.Brand
	require.NoError(t, conn.First(&reloadedBrand, "id = ?", brand.ID).Error)
	assert.Nil(t, reloadedBrand.CoverID)

	var reloadedProduct models.Product
	require.NoError(t, conn.First(&reloadedProduct, "id = ?", product.ID).Error)
	assert.Nil(t, reloadedProduct.CoverID)

	var variant models.ProductVariant
	require.NoError(t, conn.First(&variant, "product_id = ?", product.ID).Error)
	assert.Nil(t, variant.ImageID)

	var partner models.Partner
	require.NoError(t, conn.First(&partner).Error)
	assert.Nil(t, partner.LogoID)

	var images []models.ProductImage
	require.NoError(t, conn.Find(&images).Error)
	require.Len(t, images, 1)
	assert.Equal(t, keep.ID, images[0].MediaID)

	err := conn.First(&models.MediaAsset{}, "id = ?", asset.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.Equal(t, []string{publicID}, store.deleted)
}

func TestRemoveByPublicIDOnly(t *testing.T) {
	svc, store, conn := newTestService(t, Options{})

	publicID := "Alcotrade/orphan"
	asset := models.MediaAsset{URL: "https://cdn.test/orphan.png", PublicID: &publicID}
	require.NoError(t, conn.Create(&asset).Error)

	require.NoError(t, svc.Remove(context.Background(), RemoveInput{PublicID: publicID}))
	assert.Equal(t, []string{publicID}, store.deleted)

	err := conn.First(&models.MediaAsset{}, "id = ?", asset.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRemoveSwallowsRemoteFailure(t *testing.T) {
	svc, store, conn := newTestService(t, Options{})
	store.deleteErr = errors.New("remote unavailable")

	asset := models.MediaAsset{URL: "https://cdn.test/a.png"}
	require.NoError(t, conn.Create(&asset).Error)

	require.NoError(t, svc.Remove(context.Background(), RemoveInput{MediaID: &asset.ID, PublicID: "Alcotrade/a"}))
	assert.Equal(t, []string{"Alcotrade/a"}, store.deleted)
}

func TestRemoveRequiresSomeIdentifier(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	err := svc.Remove(context.Background(), RemoveInput{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	missing := uuid.New()
	require.NoError(t, svc.Remove(context.Background(), RemoveInput{MediaID: &missing}))
}

func TestRegisterExtractsPublicID(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})

	asset, err := svc.Register(context.Background(), RegisterInput{
		URL: "https://res.cloudinary.com/demo/image/upload/c_fill,w_200/v1712345/Alcotrade/partners/silpo.png",
	})
	require.NoError(t, err)
	require.NotNil(t, asset.PublicID)
	assert.Equal(t, "Alcotrade/partners/silpo", *asset.PublicID)
	assert.Equal(t, enums.StorageProviderExternal, asset.Provider)

	_, err = svc.Register(context.Background(), RegisterInput{URL: "  "})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
