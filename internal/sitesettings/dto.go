package sitesettings

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
)

// Settings is the public shape of the site SEO defaults.
type Settings struct {
	DefaultSEOTitle       *string   `json:"defaultSeoTitle"`
	DefaultSEODescription *string   `json:"defaultSeoDescription"`
	OGImageURL            *string   `json:"ogImageUrl"`
	TitleSuffix           string    `json:"titleSuffix"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// OptionalString distinguishes an absent JSON key from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// Present is an OptionalString holding value.
func Present(value string) OptionalString {
	return OptionalString{Set: true, Value: &value}
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

// Flag accepts true, "1" and "true".
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*f = Flag(asBool)
		return nil
	}
	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*f = Flag(ParseFlag(asString))
	return nil
}

// ParseFlag reads a form flag value.
func ParseFlag(value string) bool {
	value = strings.TrimSpace(value)
	return value == "1" || strings.EqualFold(value, "true")
}

// PatchInput is a partial update. Unset fields keep their stored value.
type PatchInput struct {
	DefaultSEOTitle       OptionalString `json:"defaultSeoTitle"`
	DefaultSEODescription OptionalString `json:"defaultSeoDescription"`
	TitleSuffix           OptionalString `json:"titleSuffix"`
	OGImageURL            OptionalString `json:"ogImageUrl"`
	RemoveOG              Flag           `json:"removeOg"`
	OGImage               *ImageInput    `json:"-"`
}

// ImageInput is an uploaded OG image.
type ImageInput struct {
	Reader   io.Reader
	MimeType string
	Size     int64
}

func fromModel(row *models.SiteSettings) *Settings {
	return &Settings{
		DefaultSEOTitle:       row.Title,
		DefaultSEODescription: row.Description,
		OGImageURL:            row.OGImageURL,
		TitleSuffix:           row.TitleSuffix,
		UpdatedAt:             row.UpdatedAt,
	}
}
