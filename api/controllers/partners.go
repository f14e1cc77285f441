package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/partners"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type createPartnerRequest struct {
	Name  string  `json:"name" validate:"required"`
	Link  *string `json:"link"`
	Image *string `json:"image"`
}

// Link stays raw so an explicit null can be told apart from an absent key.
type updatePartnerRequest struct {
	Name  *string         `json:"name"`
	Link  json.RawMessage `json:"link"`
	Image *string         `json:"image"`
}

func (req updatePartnerRequest) toInput() (partners.UpdateInput, error) {
	input := partners.UpdateInput{Name: req.Name, Image: req.Image}
	if len(req.Link) == 0 {
		return input, nil
	}
	input.LinkSet = true
	if bytes.Equal(bytes.TrimSpace(req.Link), []byte("null")) {
		return input, nil
	}
	var link string
	if err := json.Unmarshal(req.Link, &link); err != nil {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid link").
			WithDetails(map[string]string{"link": "must be a string or null"})
	}
	input.Link = &link
	return input, nil
}

func PartnersList(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func PartnerCreate(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createPartnerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partner, err := svc.Create(r.Context(), partners.CreateInput{Name: body.Name, Link: body.Link, Image: body.Image})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, partner)
	}
}

// PartnerUpdate patches the partner; an empty image clears the logo.
func PartnerUpdate(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updatePartnerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partner, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, partner)
	}
}

func PartnerDelete(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}

func PartnersBulkDelete(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body idsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids, err := parseIDs(body.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		count, err := svc.BulkDelete(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, types.CountResponse{OK: types.Ack(), Count: int64(count)})
	}
}
