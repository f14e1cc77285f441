package draft

import "github.com/alcotrade/alcotrade-cms/pkg/enums"

// NewBrand returns the draft shown for "create brand".
func NewBrand() BrandDraft {
	return BrandDraft{Status: enums.EntityStatusDraft}
}

// HydrateBrand builds a brand draft from a server snapshot.
func HydrateBrand(s *BrandSnapshot) BrandDraft {
	if s == nil {
		return NewBrand()
	}
	d := BrandDraft{
		Name:           s.Name,
		Status:         s.Status,
		Description:    s.Description,
		SEOTitle:       s.SEOTitle,
		SEODescription: s.SEODescription,
		CoverID:        s.CoverID,
		CoverURL:       s.CoverURL,
		CoverPublicID:  s.CoverPublicID,
	}
	if s.ID != "" {
		d.ID = strPtr(s.ID)
	}
	if !d.Status.IsValid() {
		d.Status = enums.EntityStatusDraft
	}
	if d.CoverID == nil {
		d.CoverURL, d.CoverPublicID = nil, nil
	}
	return d
}

// SetBrandField updates one brand attribute. Image fields go through
// SetBrandCover and ClearBrandCover instead.
func SetBrandField(d BrandDraft, field Field, value any) BrandDraft {
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
	case FieldDescription:
		d.Description = optionalString(value, d.Description)
	case FieldSEOTitle:
		d.SEOTitle = optionalString(value, d.SEOTitle)
	case FieldSEODescription:
		d.SEODescription = optionalString(value, d.SEODescription)
	}
	return d
}

// SetBrandCover replaces the cover with media.
func SetBrandCover(d BrandDraft, media MediaRef) BrandDraft {
	d.CoverID = strPtr(media.ID)
	d.CoverURL = strPtr(media.URL)
	d.CoverPublicID = media.ExternalRef
	return d
}

// ClearBrandCover removes the cover.
func ClearBrandCover(d BrandDraft) BrandDraft {
	d.CoverID, d.CoverURL, d.CoverPublicID = nil, nil, nil
	return d
}
