package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/alcotrade/alcotrade-cms/api/middleware"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/pkg/enums"
	pkgerrors "github.com/alcotrade/alcotrade-cms/pkg/errors"
	"github.com/alcotrade/alcotrade-cms/pkg/pagination"
)

type idsRequest struct {
	IDs []string `json:"ids"`
}

func pathID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
			WithDetails(map[string]string{key: "must be a valid id"})
	}
	return id, nil
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").
				WithDetails(map[string]string{"ids": value + " is not a valid id"})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func actorID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}

func pageParams(r *http.Request) pagination.Params {
	return pagination.Normalize(
		validators.QueryInt(r, "page", 1),
		validators.QueryInt(r, "pageSize", pagination.DefaultPageSize),
	)
}

// statusFilter ignores unknown values so "all" and typos list everything.
func statusFilter(r *http.Request) *enums.EntityStatus {
	raw := validators.QueryString(r, "status")
	if raw == "" {
		return nil
	}
	status, err := enums.ParseEntityStatus(raw)
	if err != nil {
		return nil
	}
	return &status
}
