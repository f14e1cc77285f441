package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/media"
	"github.com/alcotrade/alcotrade-cms/pkg/db/models"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/storage"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type mediaAssetResponse struct {
	ID     string  `json:"id"`
	URL    string  `json:"url"`
	Alt    *string `json:"alt"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

type providerRef struct {
	PublicID string `json:"publicId"`
}

type uploadResponse struct {
	types.OK
	Media      mediaAssetResponse `json:"media"`
	Cloudinary providerRef        `json:"cloudinary"`
}

type partnerLogoResponse struct {
	types.OK
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Version  int64  `json:"version"`
}

func newMediaAssetResponse(asset *models.MediaAsset) mediaAssetResponse {
	return mediaAssetResponse{
		ID:     asset.ID.String(),
		URL:    asset.URL,
		Alt:    asset.Alt,
		Width:  asset.Width,
		Height: asset.Height,
	}
}

// MediaUpload stores one multipart `file` and records it as a media asset.
// Optional fields: alt, folder, publicId.
func MediaUpload(svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, header, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		alt, _ := validators.FormValue(r, "alt")
		folder, _ := validators.FormValue(r, "folder")
		publicID, _ := validators.FormValue(r, "publicId")

		result, err := svc.Upload(r.Context(), media.UploadInput{
			Reader:   file,
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			Alt:      alt,
			Folder:   folder,
			PublicID: publicID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteBody(w, http.StatusCreated, uploadResponse{
			OK:         types.Ack(),
			Media:      newMediaAssetResponse(result.Asset),
			Cloudinary: providerRef{PublicID: result.PublicID},
		})
	}
}

// MediaDelete detaches and deletes an asset by mediaId, destroys the remote
// object by public_id, or both.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rawID := strings.TrimSpace(q.Get("mediaId"))
		publicID := strings.TrimSpace(q.Get("public_id"))
		if rawID == "" && publicID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "mediaId or public_id is required"))
			return
		}

		input := media.RemoveInput{PublicID: publicID}
		if rawID != "" {
			id, err := uuid.Parse(rawID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid mediaId"))
				return
			}
			input.MediaID = &id
		}

		if err := svc.Remove(r.Context(), input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}

// PartnerLogoUpload stores a partner logo without creating an asset row; the
// partner row records the URL when the form is saved. A missing publicId
// falls back to a timestamped name in folder.
func PartnerLogoUpload(svc media.Service, folder string, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		file, header, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		publicID, _ := validators.FormValue(r, "publicId")
		logoFolder, name := storage.SplitPublicID(publicID, folder)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", time.Now().UnixMilli())
		}

		obj, err := svc.Store(r.Context(), media.UploadInput{
			Reader:   file,
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
			PublicID: storage.JoinKey(logoFolder, name),
			MaxBytes: maxBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteBody(w, http.StatusOK, partnerLogoResponse{
			OK:       types.Ack(),
			URL:      obj.URL,
			PublicID: obj.PublicID,
			Width:    obj.Width,
			Height:   obj.Height,
			Format:   obj.Format,
			Version:  obj.Version,
		})
	}
}
