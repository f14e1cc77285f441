// Package draft holds the in-progress edit of a product or brand. Every
// operation is a pure transition: it takes a draft by value and returns the
// corrected draft, so callers never observe a state that breaks the cover or
// variant-position rules.
package draft

import "github.com/alcotrade/alcotrade-cms/pkg/enums"

// MediaRef points at an uploaded media asset.
type MediaRef struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Alt         *string `json:"alt,omitempty"`
	ExternalRef *string `json:"publicId,omitempty"`
}

// VariantDraft is one editable product variant.
type VariantDraft struct {
	ID       *string `json:"id,omitempty"`
	Label    *string `json:"label,omitempty"`
	VolumeML *int    `json:"volumeMl,omitempty"`
	Position int     `json:"position"`
	ImageID  *string `json:"imageId,omitempty"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

// ProductDraft is the editing buffer of one product.
type ProductDraft struct {
	ID             *string
	Name           string
	Status         enums.EntityStatus
	BrandID        string
	Description    *string
	SEOTitle       *string
	SEODescription *string
	Images         []MediaRef
	CoverID        *string
	// CoverFallbackURL is display-only. It is set when the stored cover is
	// not part of the gallery and never counts as a gallery member.
	CoverFallbackURL *string
	Variants         []VariantDraft
}

// BrandDraft is the editing buffer of one brand. A brand carries a single
// cover instead of a gallery.
type BrandDraft struct {
	ID             *string
	Name           string
	Status         enums.EntityStatus
	Description    *string
	SEOTitle       *string
	SEODescription *string
	CoverID        *string
	CoverURL       *string
	CoverPublicID  *string
}

// Field names a single settable product draft attribute.
type Field string

const (
	FieldName           Field = "name"
	FieldStatus         Field = "status"
	FieldBrandID        Field = "brandId"
	FieldDescription    Field = "description"
	FieldSEOTitle       Field = "seoTitle"
	FieldSEODescription Field = "seoDescription"
	FieldImages         Field = "images"
	FieldCoverID        Field = "coverId"
	FieldVariants       Field = "variants"
)

// DefaultVariantCount is how many empty variant rows a new draft starts with.
const DefaultVariantCount = 3

func defaultVariants() []VariantDraft {
	out := make([]VariantDraft, DefaultVariantCount)
	for i := range out {
		out[i].Position = i
	}
	return out
}

func strPtr(s string) *string { return &s }

func cloneImages(in []MediaRef) []MediaRef {
	if in == nil {
		return nil
	}
	out := make([]MediaRef, len(in))
	copy(out, in)
	return out
}

func cloneVariants(in []VariantDraft) []VariantDraft {
	if in == nil {
		return nil
	}
	out := make([]VariantDraft, len(in))
	copy(out, in)
	return out
}

// clone detaches d's slices so a transition never writes through to the
// caller's previous value.
func (d ProductDraft) clone() ProductDraft {
	d.Images = cloneImages(d.Images)
	d.Variants = cloneVariants(d.Variants)
	return d
}
