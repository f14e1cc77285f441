package draft

import (
	"strings"

	"github.com/alcotrade/alcotrade-cms/pkg/enums"
)

// NewProduct returns the draft shown for "create product".
func NewProduct() ProductDraft {
	return ProductDraft{
		Status:   enums.EntityStatusDraft,
		Variants: defaultVariants(),
	}
}

// ensureCover restores the cover rule: with images the cover is one of them,
// without images it is nil.
func ensureCover(d ProductDraft) ProductDraft {
	if len(d.Images) == 0 {
		d.CoverID = nil
		return d
	}
	if d.CoverID != nil && indexOfImage(d.Images, *d.CoverID) >= 0 {
		return d
	}
	d.CoverID = strPtr(d.Images[0].ID)
	return d
}

func indexOfImage(images []MediaRef, id string) int {
	for i, img := range images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Hydrate builds a draft from a server snapshot. A nil snapshot yields the
// default new draft.
func Hydrate(s *Snapshot) ProductDraft {
	if s == nil {
		return NewProduct()
	}

	d := ProductDraft{
		Name:           s.Name,
		Status:         s.Status,
		BrandID:        s.BrandID,
		Description:    s.Description,
		SEOTitle:       s.SEOTitle,
		SEODescription: s.SEODescription,
		Images:         cloneImages(s.Images),
		CoverID:        s.CoverID,
		Variants:       cloneVariants(s.Variants),
	}
	if s.ID != "" {
		d.ID = strPtr(s.ID)
	}
	if !d.Status.IsValid() {
		d.Status = enums.EntityStatusDraft
	}
	if len(d.Variants) == 0 {
		d.Variants = defaultVariants()
	}
	if d.Images == nil {
		d.Images = []MediaRef{}
	}

	if s.Cover != nil && indexOfImage(d.Images, s.Cover.ID) < 0 {
		d.CoverFallbackURL = strPtr(s.Cover.URL)
	}
	return ensureCover(d)
}

// SetField updates one attribute. Values of the wrong type are ignored.
func SetField(d ProductDraft, field Field, value any) ProductDraft {
	d = d.clone()
	switch field {
	case FieldName:
		if v, ok := value.(string); ok {
			d.Name = v
		}
	case FieldStatus:
		switch v := value.(type) {
		case enums.EntityStatus:
			if v.IsValid() {
				d.Status = v
			}
		case string:
			if parsed, err := enums.ParseEntityStatus(v); err == nil {
				d.Status = parsed
			}
		}
	case FieldBrandID:
		if v, ok := value.(string); ok {
			d.BrandID = strings.TrimSpace(v)
		}
	case FieldDescription:
		d.Description = optionalString(value, d.Description)
	case FieldSEOTitle:
		d.SEOTitle = optionalString(value, d.SEOTitle)
	case FieldSEODescription:
		d.SEODescription = optionalString(value, d.SEODescription)
	case FieldImages:
		if v, ok := value.([]MediaRef); ok {
			d.Images = cloneImages(v)
		}
		d = ensureCover(d)
	case FieldCoverID:
		switch v := value.(type) {
		case nil:
			d.CoverID = nil
		case string:
			d.CoverID = strPtr(v)
		case *string:
			d.CoverID = v
		}
		d = ensureCover(d)
	case FieldVariants:
		if v, ok := value.([]VariantDraft); ok {
			d.Variants = cloneVariants(v)
		}
	}
	return d
}

func optionalString(value any, current *string) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return strPtr(v)
	case *string:
		return v
	}
	return current
}

// AddImages appends refs in order. Without a cover the first new image
// becomes the cover.
func AddImages(d ProductDraft, refs ...MediaRef) ProductDraft {
	d = d.clone()
	d.Images = append(d.Images, refs...)
	if d.CoverID == nil && len(refs) > 0 {
		d.CoverID = strPtr(refs[0].ID)
	}
	return ensureCover(d)
}

// RemoveImage drops the image with id. Removing the cover promotes the new
// first image.
func RemoveImage(d ProductDraft, id string) ProductDraft {
	d = d.clone()
	idx := indexOfImage(d.Images, id)
	if idx < 0 {
		return ensureCover(d)
	}
	d.Images = append(d.Images[:idx], d.Images[idx+1:]...)
	if d.CoverID != nil && *d.CoverID == id {
		d.CoverID = nil
	}
	return ensureCover(d)
}

// ReorderImages moves activeID to the slot currently held by overID.
func ReorderImages(d ProductDraft, activeID, overID string) ProductDraft {
	if activeID == overID {
		return d
	}
	from := indexOfImage(d.Images, activeID)
	to := indexOfImage(d.Images, overID)
	if from < 0 || to < 0 {
		return d
	}
	d = d.clone()
	d.Images = moveItem(d.Images, from, to)
	return ensureCover(d)
}

func moveItem[T any](items []T, from, to int) []T {
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]T{item}, items[to:]...)...)
	return items
}

// SetCover assigns the cover explicitly. Unknown ids and nil are corrected to
// the first image when the gallery is not empty.
func SetCover(d ProductDraft, id *string) ProductDraft {
	d = d.clone()
	d.CoverID = id
	return ensureCover(d)
}

// CoverURL returns the URL to display as the cover, including the fallback.
func (d ProductDraft) CoverURL() string {
	if d.CoverID != nil {
		if idx := indexOfImage(d.Images, *d.CoverID); idx >= 0 {
			return d.Images[idx].URL
		}
	}
	if d.CoverFallbackURL != nil {
		return *d.CoverFallbackURL
	}
	return ""
}
