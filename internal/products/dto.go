package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
)

// SaveInput is the committer contract. Image and cover ids are raw strings
// so stale or malformed references can be dropped instead of rejected.
type SaveInput struct {
	ID             *string
	Name           string
	Status         enums.EntityStatus
	BrandID        string
	Description    *string
	SEOTitle       *string
	SEODescription *string
	CoverID        *string
	ImageIDs       []string
	Variants       []VariantInput
	RegenerateSlug bool
}

// VariantInput is one variant row to write. A nil Position falls back to the
// array index.
type VariantInput struct {
	ID       *string
	Label    *string
	VolumeML *int
	Position *int
	ImageID  *string
}

// SaveInputFromPayload converts the wire payload produced by the draft.
func SaveInputFromPayload(p draft.ProductPayload) SaveInput {
	variants := make([]VariantInput, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, VariantInput{
			ID:       v.ID,
			Label:    v.Label,
			VolumeML: v.VolumeML,
			Position: v.Position,
			ImageID:  v.ImageID,
		})
	}
	return SaveInput{
		ID:             p.ID,
		Name:           p.Name,
		Status:         p.Status,
		BrandID:        p.BrandID,
		Description:    p.Description,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		CoverID:        p.CoverID,
		ImageIDs:       p.ImageIDs,
		Variants:       variants,
	}
}

// Sort keys accepted by List.
const (
	SortNameAsc     = "name_asc"
	SortNameDesc    = "name_desc"
	SortBrand       = "brand"
	SortStatus      = "status"
	SortUpdatedDesc = "updated_desc"
	SortCreatedDesc = "created_desc"
)

// ListInput captures the table filters of the products screen.
type ListInput struct {
	Query      string
	BrandSlug  string
	Status     *enums.EntityStatus
	Sort       string
	Pagination pagination.Params
}

// BrandRef is the brand summary embedded in list rows.
type BrandRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CoverRef is the cover thumbnail of a list row.
type CoverRef struct {
	URL string  `json:"url"`
	Alt *string `json:"alt"`
}

// ListItem is one products table row.
type ListItem struct {
	ID        uuid.UUID          `json:"id"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Status    enums.EntityStatus `json:"status"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Brand     *BrandRef          `json:"brand"`
	Cover     *CoverRef          `json:"cover"`
}

// ListResult is a page of products plus the brand filter options.
type ListResult struct {
	pagination.Page[ListItem]
	Brands []BrandRef `json:"brands"`
}

func newListItem(p models.Product) ListItem {
	item := ListItem{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Status:    p.Status,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Brand != nil {
		item.Brand = &BrandRef{ID: p.Brand.ID, Name: p.Brand.Name, Slug: p.Brand.Slug}
	}
	if p.Cover != nil {
		item.Cover = &CoverRef{URL: p.Cover.URL, Alt: p.Cover.Alt}
	}
	return item
}

// NewSnapshot maps a fully loaded product into the edit screen payload.
// Variants and images are expected in position order.
func NewSnapshot(p *models.Product) *draft.Snapshot {
	snap := &draft.Snapshot{
		ID:             p.ID.String(),
		Name:           p.Name,
		Slug:           p.Slug,
		Status:         p.Status,
		BrandID:        p.BrandID.String(),
		Description:    p.Description,
		SEOTitle:       p.SEOTitle,
		SEODescription: p.SEODescription,
		Images:         make([]draft.MediaRef, 0, len(p.Images)),
		Variants:       make([]draft.VariantDraft, 0, len(p.Variants)),
	}
	if p.CoverID != nil {
		id := p.CoverID.String()
		snap.CoverID = &id
	}
	if p.Cover != nil {
		ref := mediaRef(p.Cover)
		snap.Cover = &ref
	}
	for _, img := range p.Images {
		if img.Media == nil {
			continue
		}
		snap.Images = append(snap.Images, mediaRef(img.Media))
	}
	for _, v := range p.Variants {
		vd := draft.VariantDraft{
			Label:    v.Label,
			VolumeML: v.VolumeML,
			Position: v.Position,
		}
		id := v.ID.String()
		vd.ID = &id
		if v.ImageID != nil {
			imageID := v.ImageID.String()
			vd.ImageID = &imageID
		}
		if v.Image != nil {
			url := v.Image.URL
			vd.ImageURL = &url
		}
		snap.Variants = append(snap.Variants, vd)
	}
	return snap
}

func mediaRef(m *models.MediaAsset) draft.MediaRef {
	return draft.MediaRef{ID: m.ID.String(), URL: m.URL, Alt: m.Alt, ExternalRef: m.PublicID}
}
