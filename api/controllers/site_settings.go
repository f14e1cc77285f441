package controllers

import (
	"net/http"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/sitesettings"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type siteSettingsResponse struct {
	types.OK
	Settings *sitesettings.Settings `json:"settings"`
}

// SiteSettingsGet answers with settings null until the row is first written.
func SiteSettingsGet(svc sitesettings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, siteSettingsResponse{OK: types.Ack(), Settings: settings})
	}
}

// SiteSettingsPatch accepts JSON, or multipart when an OG image is attached.
func SiteSettingsPatch(svc sitesettings.Service, maxOGBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input sitesettings.PatchInput

		if validators.IsMultipart(r) {
			if err := validators.ParseMultipart(w, r, maxOGBytes); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input = patchFromForm(r)

			file, header, err := validators.OptionalFormFile(r, "ogImage")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if file != nil {
				defer file.Close()
				input.OGImage = &sitesettings.ImageInput{
					Reader:   file,
					MimeType: header.Header.Get("Content-Type"),
					Size:     header.Size,
				}
			}
		} else if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Patch(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, siteSettingsResponse{OK: types.Ack(), Settings: settings})
	}
}

// Text fields are taken untrimmed; the service clips them.
func patchFromForm(r *http.Request) sitesettings.PatchInput {
	var input sitesettings.PatchInput
	values := r.MultipartForm.Value
	field := func(key string) sitesettings.OptionalString {
		if v, ok := values[key]; ok && len(v) > 0 {
			return sitesettings.Present(v[0])
		}
		return sitesettings.OptionalString{}
	}
	input.DefaultSEOTitle = field("defaultSeoTitle")
	input.DefaultSEODescription = field("defaultSeoDescription")
	input.TitleSuffix = field("titleSuffix")
	if v, ok := values["removeOg"]; ok && len(v) > 0 {
		input.RemoveOG = sitesettings.Flag(sitesettings.ParseFlag(v[0]))
	}
	return input
}
