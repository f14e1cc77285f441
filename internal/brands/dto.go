package brands

import (
	"time"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
)

// SaveInput is the brand committer contract.
type SaveInput struct {
	ID             *string
	Name           string
	Status         enums.EntityStatus
	Description    *string
	SEOTitle       *string
	SEODescription *string
	CoverID        *string
	RegenerateSlug bool
}

// SaveInputFromPayload converts the wire payload produced by the brand draft.
func SaveInputFromPayload(p draft.BrandPayload) SaveInput {
	return SaveInput{
		ID:             p.ID,
		Name:           p.Name,
		Status:         p.Status,
		Description:    p.Description,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		CoverID:        p.CoverID,
	}
}

// SaveResult reports whether the brand was created.
type SaveResult struct {
	ID      uuid.UUID
	Created bool
}

const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortStatus   = "status"
	SortUpdated  = "updated"
)

type ListInput struct {
	Query      string
	Status     *enums.EntityStatus
	Sort       string
	Pagination pagination.Params
}

type CoverRef struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

type ListItem struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	Status        enums.EntityStatus `json:"status"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Cover         *CoverRef          `json:"cover"`
	ProductsCount int64              `json:"productsCount"`
}

// Option is one entry of the brand picker.
type Option struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func newListItem(b models.Brand, productsCount int64) ListItem {
	item := ListItem{
		ID:            b.ID,
		Name:          b.Name,
		Slug:          b.Slug,
		Status:        b.Status,
		UpdatedAt:     b.UpdatedAt,
		ProductsCount: productsCount,
	}
	if b.Cover != nil {
		item.Cover = &CoverRef{URL: b.Cover.URL, Alt: b.Cover.Alt}
	}
	return item
}

// NewSnapshot maps a brand with its cover into the edit screen payload.
func NewSnapshot(b *models.Brand) *draft.BrandSnapshot {
	snap := &draft.BrandSnapshot{
		ID:             b.ID.String(),
		Name:           b.Name,
		Slug:           b.Slug,
		Status:         b.Status,
		Description:    b.Description,
		SEOTitle:       b.SEOTitle,
		SEODescription: b.SEODescription,
	}
	if b.CoverID != nil {
		id := b.CoverID.String()
		snap.CoverID = &id
	}
	if b.Cover != nil {
		url := b.Cover.URL
		snap.CoverURL = &url
		snap.CoverPublicID = b.Cover.PublicID
	}
	return snap
}
