package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/cmsclient"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
)

type fakeGateway struct {
	mu        sync.Mutex
	uploads   []string
	failOn    string
	removed   []string
	removeErr error
	products  []draft.ProductPayload
	brands    []draft.BrandPayload
	inFlight  int
	maxFlight int
}

func (f *fakeGateway) Upload(_ context.Context, file cmsclient.File) (draft.MediaRef, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	body, _ := io.ReadAll(file.Reader)
	if file.Name == f.failOn {
		return draft.MediaRef{}, errors.New("upload rejected")
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, file.Name)
	n := len(f.uploads)
	f.mu.Unlock()
	publicID := fmt.Sprintf("Alcotrade/%s", strings.TrimSuffix(file.Name, ".png"))
	return draft.MediaRef{ID: fmt.Sprintf("m%d", n), URL: "https://cdn/" + string(body), ExternalRef: &publicID}, nil
}

func (f *fakeGateway) Remove(_ context.Context, mediaID, externalRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, mediaID+"|"+externalRef)
	return f.removeErr
}

func (f *fakeGateway) SaveProduct(_ context.Context, payload draft.ProductPayload) (string, error) {
	f.products = append(f.products, payload)
	return "p-1", nil
}

func (f *fakeGateway) SaveBrand(_ context.Context, payload draft.BrandPayload) (string, error) {
	f.brands = append(f.brands, payload)
	return "b-1", nil
}

func files(names ...string) []cmsclient.File {
	out := make([]cmsclient.File, 0, len(names))
	for _, name := range names {
		out = append(out, cmsclient.File{Name: name, Reader: strings.NewReader(name)})
	}
	return out
}

func TestUploadImagesSequentialInOrder(t *testing.T) {
	gw := &fakeGateway{}
	session, err := NewProductSession(gw, nil, nil)
	require.NoError(t, err)

	require.NoError(t, session.UploadImages(context.Background(), files("a.png", "b.png", "c.png")...))

	d := session.Draft()
	require.Len(t, d.Images, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{d.Images[0].ID, d.Images[1].ID, d.Images[2].ID})
	require.NotNil(t, d.CoverID)
	assert.Equal(t, "m1", *d.CoverID)
	assert.Equal(t, 1, gw.maxFlight)
}

func TestUploadImagesStopsAtFirstFailure(t *testing.T) {
	gw := &fakeGateway{failOn: "b.png"}
	session, err := NewProductSession(gw, nil, nil)
	require.NoError(t, err)

	err = session.UploadImages(context.Background(), files("a.png", "b.png", "c.png")...)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	d := session.Draft()
	require.Len(t, d.Images, 1)
	assert.Equal(t, "m1", d.Images[0].ID)
	assert.Equal(t, []string{"a.png"}, gw.uploads)
}

func TestRemoveImageIsLocalFirstAndSwallowsRemoteErrors(t *testing.T) {
	gw := &fakeGateway{removeErr: errors.New("remote down")}
	session, err := NewProductSession(gw, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, session.UploadImages(ctx, files("a.png", "b.png")...))

	session.RemoveImage(ctx, "m1")
	d := session.Draft()
	require.Len(t, d.Images, 1)
	require.NotNil(t, d.CoverID)
	assert.Equal(t, "m2", *d.CoverID)

	session.RemoveImage(ctx, "unknown")
	session.Wait()
	assert.Equal(t, []string{"m1|Alcotrade/a"}, gw.removed)
}

func TestSaveValidatesBeforeNetwork(t *testing.T) {
	gw := &fakeGateway{}
	session, err := NewProductSession(gw, nil, nil)
	require.NoError(t, err)

	_, err = session.Save(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Empty(t, gw.products)

	session.Apply(func(d draft.ProductDraft) draft.ProductDraft {
		d = draft.SetField(d, draft.FieldName, "Шабо Мерло")
		d = draft.SetField(d, draft.FieldBrandID, "b-1")
		return draft.SetVariantsFromValues(d, "Об'єм", []string{"0,75 л", "1.5 л"})
	})
	require.NoError(t, session.UploadVariantImage(context.Background(), 1, files("v.png")[0]))

	id, err := session.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p-1", id)
	require.Len(t, gw.products, 1)
	payload := gw.products[0]
	require.Len(t, payload.Variants, 2)
	assert.Equal(t, 750, *payload.Variants[0].VolumeML)
	require.NotNil(t, payload.Variants[1].ImageID)
	assert.Equal(t, "m1", *payload.Variants[1].ImageID)

	d := session.Draft()
	require.NotNil(t, d.ID)
	assert.Equal(t, "p-1", *d.ID)
}

func TestBrandSessionCoverLifecycle(t *testing.T) {
	gw := &fakeGateway{}
	session, err := NewBrandSession(gw, nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = session.Save(ctx)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	require.NoError(t, session.UploadCover(ctx, files("cover.png")[0]))
	d := session.Draft()
	require.NotNil(t, d.CoverID)
	assert.Equal(t, "m1", *d.CoverID)

	session.RemoveCover(ctx)
	session.Wait()
	assert.Nil(t, session.Draft().CoverID)
	assert.Equal(t, []string{"m1|Alcotrade/cover"}, gw.removed)

	session.Apply(func(d draft.BrandDraft) draft.BrandDraft { return draft.SetBrandField(d, draft.FieldName, "Shabo") })
	id, err := session.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b-1", id)
	assert.Nil(t, gw.brands[0].CoverID)
}
