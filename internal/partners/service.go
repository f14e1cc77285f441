// Package partners manages the partners strip of the public site.
package partners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
)

type mediaService interface {
	Register(ctx context.Context, input media.RegisterInput) (*models.MediaAsset, error)
	Remove(ctx context.Context, input media.RemoveInput) error
}

// Partner is the table row shape.
type Partner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Link  *string   `json:"link"`
	Image *string   `json:"image"`
}

type CreateInput struct {
	Name  string
	Link  *string
	Image *string
}

// UpdateInput only touches the fields that are set. An empty Image clears
// the logo.
type UpdateInput struct {
	Name  *string
	Link  *string
	Image *string
	// LinkSet distinguishes an explicit null link from an absent one.
	LinkSet bool
}

type Service interface {
	List(ctx context.Context) ([]Partner, error)
	Create(ctx context.Context, input CreateInput) (*Partner, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error)
}

type service struct {
	repo  *Repository
	media mediaService
	logg  *logger.Logger
}

func NewService(repo *Repository, mediaSvc mediaService, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("partner repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	return &service{repo: repo, media: mediaSvc, logg: logg}, nil
}

func toDTO(p models.Partner) Partner {
	dto := Partner{ID: p.ID, Name: p.Name, Link: p.Link}
	if p.Logo != nil {
		url := p.Logo.URL
		dto.Image = &url
	}
	return dto
}

func (s *service) List(ctx context.Context) ([]Partner, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partners")
	}
	out := make([]Partner, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Partner, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	partner := &models.Partner{Name: name, Link: input.Link}

	if input.Image != nil && strings.TrimSpace(*input.Image) != "" {
		asset, err := s.media.Register(ctx, media.RegisterInput{URL: *input.Image, Alt: name})
		if err != nil {
			return nil, err
		}
		partner.LogoID = &asset.ID
	}

	if err := s.repo.Create(ctx, partner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create partner")
	}
	return s.load(ctx, partner.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*Partner, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = name
	}
	if input.LinkSet {
		fields["link"] = input.Link
	}
	if input.Image != nil {
		if strings.TrimSpace(*input.Image) == "" {
			fields["logo_id"] = nil
		} else {
			asset, err := s.media.Register(ctx, media.RegisterInput{URL: *input.Image})
			if err != nil {
				return nil, err
			}
			fields["logo_id"] = asset.ID
		}
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update partner")
	}
	return s.load(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	partner, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.DeleteByIDs(ctx, []uuid.UUID{id}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete partner")
	}
	if err := s.releaseLogo(ctx, *partner); err != nil {
		s.warn(ctx, err)
	}
	return nil
}

// BulkDelete deletes the partners, then releases their logos. Logo cleanup
// failures are collected and logged once.
func (s *service) BulkDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "ids is required")
	}
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partners")
	}
	if _, err := s.repo.DeleteByIDs(ctx, ids); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete partners")
	}

	var cleanup error
	for _, row := range rows {
		cleanup = multierr.Append(cleanup, s.releaseLogo(ctx, row))
	}
	if cleanup != nil {
		s.warn(ctx, cleanup)
	}
	return len(ids), nil
}

func (s *service) releaseLogo(ctx context.Context, p models.Partner) error {
	if p.LogoID == nil {
		return nil
	}
	input := media.RemoveInput{MediaID: p.LogoID}
	if p.Logo != nil {
		input.PublicID = media.PublicIDFromURL(p.Logo.URL)
	}
	return s.media.Remove(ctx, input)
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "partner not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	return p, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Partner, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*p)
	return &dto, nil
}

func (s *service) warn(ctx context.Context, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"error":  err.Error(),
		"errors": len(multierr.Errors(err)),
	})
	s.logg.Warn(ctx, "partners.logo_cleanup_failed")
}
