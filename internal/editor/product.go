package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/cmsclient"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
)

// ProductSession owns one product draft.
type ProductSession struct {
	remover

	mu    sync.Mutex
	draft draft.ProductDraft
}

// NewProductSession hydrates a session from snapshot; nil starts a new product.
func NewProductSession(gw Gateway, snapshot *draft.Snapshot, logg *logger.Logger) (*ProductSession, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &ProductSession{
		remover: remover{gw: gw, logg: logg},
		draft:   draft.Hydrate(snapshot),
	}, nil
}

// Draft returns the current draft.
func (s *ProductSession) Draft() draft.ProductDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Apply runs a pure draft transition.
func (s *ProductSession) Apply(transition func(draft.ProductDraft) draft.ProductDraft) draft.ProductDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = transition(s.draft)
	return s.draft
}

// UploadImages uploads files one at a time, appending each before the next
// starts. The first failure stops the batch and earlier images stay.
func (s *ProductSession) UploadImages(ctx context.Context, files ...cmsclient.File) error {
	for i, file := range files {
		ref, err := s.gw.Upload(ctx, file)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("upload image %d of %d", i+1, len(files)))
		}
		s.Apply(func(d draft.ProductDraft) draft.ProductDraft { return draft.AddImages(d, ref) })
	}
	return nil
}

// RemoveImage drops the image locally and deletes it remotely in the background.
func (s *ProductSession) RemoveImage(ctx context.Context, id string) {
	var removed *draft.MediaRef
	s.Apply(func(d draft.ProductDraft) draft.ProductDraft {
		for _, img := range d.Images {
			if img.ID == id {
				found := img
				removed = &found
				break
			}
		}
		return draft.RemoveImage(d, id)
	})
	if removed != nil {
		s.remove(ctx, *removed)
	}
}

// UploadVariantImage uploads file and attaches it to the variant at index.
func (s *ProductSession) UploadVariantImage(ctx context.Context, index int, file cmsclient.File) error {
	ref, err := s.gw.Upload(ctx, file)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload variant image")
	}
	s.Apply(func(d draft.ProductDraft) draft.ProductDraft { return draft.SetVariantImage(d, index, ref) })
	return nil
}

// Save validates then commits the draft. On success the draft keeps the
// returned id so later saves update the same product.
func (s *ProductSession) Save(ctx context.Context) (string, error) {
	current := s.Draft()
	details := map[string]string{}
	if strings.TrimSpace(current.Name) == "" {
		details["name"] = "is required"
	}
	if strings.TrimSpace(current.BrandID) == "" {
		details["brandId"] = "is required"
	}
	if len(details) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product draft is incomplete").WithDetails(details)
	}

	id, err := s.gw.SaveProduct(ctx, current.ToSaveInput())
	if err != nil {
		return "", err
	}
	s.Apply(func(d draft.ProductDraft) draft.ProductDraft {
		d.ID = &id
		return d
	})
	return id, nil
}
