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

// BrandSession owns one brand draft.
type BrandSession struct {
	remover

	mu    sync.Mutex
	draft draft.BrandDraft
}

func NewBrandSession(gw Gateway, snapshot *draft.BrandSnapshot, logg *logger.Logger) (*BrandSession, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &BrandSession{
		remover: remover{gw: gw, logg: logg},
		draft:   draft.HydrateBrand(snapshot),
	}, nil
}

func (s *BrandSession) Draft() draft.BrandDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *BrandSession) Apply(transition func(draft.BrandDraft) draft.BrandDraft) draft.BrandDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = transition(s.draft)
	return s.draft
}

// UploadCover replaces the cover. The previous cover stays on the server.
func (s *BrandSession) UploadCover(ctx context.Context, file cmsclient.File) error {
	ref, err := s.gw.Upload(ctx, file)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload brand cover")
	}
	s.Apply(func(d draft.BrandDraft) draft.BrandDraft { return draft.SetBrandCover(d, ref) })
	return nil
}

// RemoveCover clears the cover locally and deletes it remotely in the background.
func (s *BrandSession) RemoveCover(ctx context.Context) {
	var removed *draft.MediaRef
	s.Apply(func(d draft.BrandDraft) draft.BrandDraft {
		if d.CoverID != nil {
			ref := draft.MediaRef{ID: *d.CoverID, ExternalRef: d.CoverPublicID}
			removed = &ref
		}
		return draft.ClearBrandCover(d)
	})
	if removed != nil {
		s.remove(ctx, *removed)
	}
}

func (s *BrandSession) Save(ctx context.Context) (string, error) {
	current := s.Draft()
	if strings.TrimSpace(current.Name) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "brand draft is incomplete").
			WithDetails(map[string]string{"name": "is required"})
	}
	id, err := s.gw.SaveBrand(ctx, current.ToSaveInput())
	if err != nil {
		return "", err
	}
	// updates answer without an id
	if id == "" && current.ID != nil {
		return *current.ID, nil
	}
	s.Apply(func(d draft.BrandDraft) draft.BrandDraft {
		d.ID = &id
		return d
	})
	return id, nil
}
