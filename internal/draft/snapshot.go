package draft

import "github.com/alcotrade/alcotrade-cms/pkg/enums"

// Snapshot is the product detail payload served for the edit screen.
type Snapshot struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Slug           string             `json:"slug,omitempty"`
	Status         enums.EntityStatus `json:"status"`
	BrandID        string             `json:"brandId"`
	Description    *string            `json:"description"`
	SEOTitle       *string            `json:"seoTitle"`
	SEODescription *string            `json:"seoDescription"`
	CoverID        *string            `json:"coverId"`
	Cover          *MediaRef          `json:"cover"`
	Images         []MediaRef         `json:"images"`
	Variants       []VariantDraft     `json:"variants"`
}

// BrandSnapshot is the brand detail payload served for the edit screen.
type BrandSnapshot struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Slug           string             `json:"slug,omitempty"`
	Status         enums.EntityStatus `json:"status"`
	Description    *string            `json:"description"`
	SEOTitle       *string            `json:"seoTitle"`
	SEODescription *string            `json:"seoDescription"`
	CoverID        *string            `json:"coverId"`
	CoverURL       *string            `json:"coverUrl"`
	CoverPublicID  *string            `json:"coverPublicId"`
}

// ProductPayload is the save request body for products.
type ProductPayload struct {
	ID             *string            `json:"id,omitempty"`
	Name           string             `json:"name"`
	Status         enums.EntityStatus `json:"status"`
	BrandID        string             `json:"brandId"`
	Description    *string            `json:"description"`
	SEOTitle       *string            `json:"seoTitle"`
	SEODescription *string            `json:"seoDescription"`
	CoverID        *string            `json:"coverId"`
	ImageIDs       []string           `json:"imageIds"`
	Variants       []VariantPayload   `json:"variants"`
}

// VariantPayload is one variant inside ProductPayload.
type VariantPayload struct {
	ID       *string `json:"id,omitempty"`
	Label    *string `json:"label,omitempty"`
	VolumeML *int    `json:"volumeMl,omitempty"`
	Position *int    `json:"position,omitempty"`
	ImageID  *string `json:"imageId,omitempty"`
}

// BrandPayload is the save request body for brands.
type BrandPayload struct {
	ID             *string            `json:"id,omitempty"`
	Name           string             `json:"name"`
	Status         enums.EntityStatus `json:"status"`
	Description    *string            `json:"description"`
	SEOTitle       *string            `json:"seoTitle"`
	SEODescription *string            `json:"seoDescription"`
	CoverID        *string            `json:"coverId"`
}

// ToSaveInput serializes the draft into the product save payload. Gallery
// order becomes imageIds order.
func (d ProductDraft) ToSaveInput() ProductPayload {
	ids := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		ids = append(ids, img.ID)
	}

	variants := make([]VariantPayload, 0, len(d.Variants))
	for _, v := range d.Variants {
		pos := v.Position
		variants = append(variants, VariantPayload{
			ID:       v.ID,
			Label:    v.Label,
			VolumeML: v.VolumeML,
			Position: &pos,
			ImageID:  v.ImageID,
		})
	}

	return ProductPayload{
		ID:             d.ID,
		Name:           d.Name,
		Status:         d.Status,
		BrandID:        d.BrandID,
		Description:    d.Description,
		SEOTitle:       d.SEOTitle,
		SEODescription: d.SEODescription,
		CoverID:        d.CoverID,
		ImageIDs:       ids,
		Variants:       variants,
	}
}

// ToSaveInput serializes the brand draft into its save payload.
func (d BrandDraft) ToSaveInput() BrandPayload {
	return BrandPayload{
		ID:             d.ID,
		Name:           d.Name,
		Status:         d.Status,
		Description:    d.Description,
		SEOTitle:       d.SEOTitle,
		SEODescription: d.SEODescription,
		CoverID:        d.CoverID,
	}
}
