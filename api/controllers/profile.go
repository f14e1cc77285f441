package controllers

import (
	"net/http"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/profile"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type profileResponse struct {
	types.OK
	*profile.Profile
}

type avatarResponse struct {
	types.OK
	*profile.Avatar
}

func ProfileGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		p, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, profileResponse{OK: types.Ack(), Profile: p})
	}
}

// ProfileAvatarUpload replaces the caller's avatar with the multipart `file`.
func ProfileAvatarUpload(svc profile.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
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

		avatar, err := svc.UploadAvatar(r.Context(), userID, profile.AvatarInput{
			Reader:   file,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, avatarResponse{OK: types.Ack(), Avatar: avatar})
	}
}

func ProfileAvatarReset(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		avatar, err := svc.ResetAvatar(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, avatarResponse{OK: types.Ack(), Avatar: avatar})
	}
}
