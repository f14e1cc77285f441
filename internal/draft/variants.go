package draft

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// VariantPatch carries the fields UpdateVariant merges. Nil fields are left
// untouched.
type VariantPatch struct {
	Label    *string
	VolumeML *int
	Position *int
	ImageID  *string
	ImageURL *string
}

func rerank(variants []VariantDraft) []VariantDraft {
	for i := range variants {
		variants[i].Position = i
	}
	return variants
}

// AddVariant appends an empty variant at the next position.
func AddVariant(d ProductDraft) ProductDraft {
	d = d.clone()
	d.Variants = append(d.Variants, VariantDraft{Position: len(d.Variants)})
	return d
}

// RemoveVariant drops the variant at index and compacts positions.
func RemoveVariant(d ProductDraft, index int) ProductDraft {
	if index < 0 || index >= len(d.Variants) {
		return d
	}
	d = d.clone()
	d.Variants = rerank(append(d.Variants[:index], d.Variants[index+1:]...))
	return d
}

// UpdateVariant merges patch into the variant at index.
func UpdateVariant(d ProductDraft, index int, patch VariantPatch) ProductDraft {
	if index < 0 || index >= len(d.Variants) {
		return d
	}
	d = d.clone()
	v := d.Variants[index]
	if patch.Label != nil {
		v.Label = patch.Label
	}
	if patch.VolumeML != nil {
		v.VolumeML = patch.VolumeML
	}
	if patch.Position != nil {
		v.Position = *patch.Position
	}
	if patch.ImageID != nil {
		v.ImageID = patch.ImageID
	}
	if patch.ImageURL != nil {
		v.ImageURL = patch.ImageURL
	}
	d.Variants[index] = v
	return d
}

// SetVariantsFromValues replaces every variant with one per non-empty label,
// parsing a volume in millilitres where the label allows it. optionName is
// the option axis shown in the editor and does not change parsing.
func SetVariantsFromValues(d ProductDraft, optionName string, values []string) ProductDraft {
	d = d.clone()
	variants := make([]VariantDraft, 0, len(values))
	for _, raw := range values {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		variants = append(variants, VariantDraft{
			Label:    strPtr(label),
			VolumeML: ParseVolume(label),
			Position: len(variants),
		})
	}
	d.Variants = variants
	return d
}

// SetVariantImage attaches media to the variant at index.
func SetVariantImage(d ProductDraft, index int, media MediaRef) ProductDraft {
	if index < 0 || index >= len(d.Variants) {
		return d
	}
	d = d.clone()
	d.Variants[index].ImageID = strPtr(media.ID)
	d.Variants[index].ImageURL = strPtr(media.URL)
	return d
}

// ClearVariantImage detaches the image of the variant at index.
func ClearVariantImage(d ProductDraft, index int) ProductDraft {
	if index < 0 || index >= len(d.Variants) {
		return d
	}
	d = d.clone()
	d.Variants[index].ImageID = nil
	d.Variants[index].ImageURL = nil
	return d
}

var (
	litrePattern      = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*л$`)
	millilitrePattern = regexp.MustCompile(`(?i)^(\d+)\s*(?:мл|ml)?$`)
)

// ParseVolume reads a millilitre volume out of a variant label such as
// "0,5 л" or "750 мл". It returns nil for labels it does not understand.
func ParseVolume(label string) *int {
	label = strings.TrimSpace(label)

	if m := litrePattern.FindStringSubmatch(label); m != nil {
		litres, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil {
			return nil
		}
		ml := int(math.Round(litres * 1000))
		return &ml
	}
	if m := millilitrePattern.FindStringSubmatch(label); m != nil {
		ml, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return &ml
	}
	return nil
}
