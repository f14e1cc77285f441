package controllers

import (
	"net/http"
	"strings"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/brands"
	"github.com/alcotrade/alcotrade-cms/internal/draft"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type brandListResponse struct {
	types.OK
	*pagination.Page[brands.ListItem]
}

type brandDetailResponse struct {
	types.OK
	Brand *draft.BrandSnapshot `json:"brand"`
}

type saveBrandRequest struct {
	draft.BrandPayload
	RegenerateSlug bool `json:"regenerateSlug,omitempty"`
}

func BrandsList(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := svc.List(r.Context(), brands.ListInput{
			Query:      strings.TrimSpace(q.Get("query")),
			Status:     statusFilter(r),
			Sort:       strings.TrimSpace(q.Get("sort")),
			Pagination: pageParams(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, brandListResponse{OK: types.Ack(), Page: page})
	}
}

// BrandOptions serves the id/name pairs of the product form brand picker.
func BrandOptions(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := svc.Options(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if options == nil {
			options = []brands.Option{}
		}
		responses.WriteSuccess(w, options)
	}
}

func BrandDetail(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, brandDetailResponse{OK: types.Ack(), Brand: snap})
	}
}

// BrandSave answers creates with the new id and updates with a bare ok.
func BrandSave(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body saveBrandRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := brands.SaveInputFromPayload(body.BrandPayload)
		input.RegenerateSlug = body.RegenerateSlug

		res, err := svc.Save(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{"brand_id": res.ID.String(), "created": res.Created})
		logg.Info(ctx, "brand.saved")
		if res.Created {
			responses.WriteBody(w, http.StatusOK, types.IDResponse{OK: types.Ack(), ID: res.ID.String()})
			return
		}
		responses.WriteOK(w)
	}
}

// BrandsBulkDelete fails with CONFLICT while products still reference a brand.
func BrandsBulkDelete(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
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
		if len(ids) == 0 {
			responses.WriteOK(w)
			return
		}
		if _, err := svc.BulkDelete(r.Context(), ids); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteOK(w)
	}
}
