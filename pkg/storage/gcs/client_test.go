package gcs

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/alcotrade/alcotrade-cms/pkg/config"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	cfg := config.GCSConfig{BucketName: "media", PublicBase: "https://cdn.example.com/"}
	return newWithTokenSource(context.Background(), cfg, ts, srv.URL, nil)
}

func TestPutUploadsMediaRequest(t *testing.T) {
	t.Parallel()

	var gotPath, gotName, gotAuth, gotType, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("name")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"name":"Alcotrade/brands/logo.png","size":"3"}`))
	})

	obj, err := client.Put(context.Background(), storage.PutInput{
		Reader:      bytes.NewReader([]byte("png")),
		Size:        3,
		ContentType: "image/png",
		Folder:      "Alcotrade/brands",
		Name:        "logo",
		Extension:   ".png",
		Overwrite:   true,
	})
	if err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	if gotPath != "/upload/storage/v1/b/media/o" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotName != "Alcotrade/brands/logo.png" {
		t.Fatalf("unexpected object name %q", gotName)
	}
	if gotAuth != "Bearer test-token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotType != "image/png" || gotBody != "png" {
		t.Fatalf("unexpected upload %q %q", gotType, gotBody)
	}
	if obj.URL != "https://cdn.example.com/media/Alcotrade/brands/logo.png" {
		t.Fatalf("unexpected url %s", obj.URL)
	}
	if obj.PublicID != "Alcotrade/brands/logo.png" || obj.Format != "png" {
		t.Fatalf("unexpected object %+v", obj)
	}
	if client.Provider() != enums.StorageProviderGCS {
		t.Fatalf("unexpected provider %s", client.Provider())
	}
}

func TestPutWithoutOverwriteRequiresNewGeneration(t *testing.T) {
	t.Parallel()

	var generation string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		generation = r.URL.Query().Get("ifGenerationMatch")
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = w.Write([]byte("exists"))
	})

	_, err := client.Put(context.Background(), storage.PutInput{Reader: strings.NewReader("x"), Name: "a"})
	if err == nil || !strings.Contains(err.Error(), "412") {
		t.Fatalf("expected precondition error, got %v", err)
	}
	if generation != "0" {
		t.Fatalf("expected ifGenerationMatch=0, got %q", generation)
	}
}

func TestDeleteTreatsNotFoundAsSuccess(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	if err := client.Delete(context.Background(), "Alcotrade/a b.png"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Fatalf("unexpected method %s", gotMethod)
	}
	if gotPath != "/storage/v1/b/media/o/Alcotrade%2Fa%20b.png" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestDeleteSurfacesServerErrors(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("denied"))
	})

	err := client.Delete(context.Background(), "x.png")
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storage/v1/b/media/o" || r.URL.Query().Get("maxResults") != "1" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatal("expected nil client ping to fail")
	}
}
