package controllers

import (
	"net/http"
	"strings"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/draft"
	product "github.com/alcotrade/alcotrade-cms/internal/products"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type productListResponse struct {
	types.OK
	*product.ListResult
}

type productDetailResponse struct {
	types.OK
	Product *draft.Snapshot `json:"product"`
}

type saveProductRequest struct {
	draft.ProductPayload
	RegenerateSlug bool `json:"regenerateSlug,omitempty"`
}

// ProductsList serves the products table: search, brand and status filters,
// sort and page-number pagination.
func ProductsList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		result, err := svc.List(r.Context(), product.ListInput{
			Query:      strings.TrimSpace(q.Get("query")),
			BrandSlug:  strings.TrimSpace(q.Get("brand")),
			Status:     statusFilter(r),
			Sort:       strings.TrimSpace(q.Get("sort")),
			Pagination: pageParams(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, productListResponse{OK: types.Ack(), ListResult: result})
	}
}

func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
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
		responses.WriteBody(w, http.StatusOK, productDetailResponse{OK: types.Ack(), Product: snap})
	}
}

// ProductSave commits a whole product draft and answers with its id.
func ProductSave(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body saveProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := product.SaveInputFromPayload(body.ProductPayload)
		input.RegenerateSlug = body.RegenerateSlug

		id, err := svc.Save(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := logg.WithField(r.Context(), "product_id", id.String())
		logg.Info(ctx, "product.saved")
		responses.WriteBody(w, http.StatusOK, types.IDResponse{OK: types.Ack(), ID: id.String()})
	}
}

// ProductsBulkDelete removes the listed products; an empty list is a no-op.
func ProductsBulkDelete(svc product.Service, logg *logger.Logger) http.HandlerFunc {
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
