package controllers

import (
	"net/http"

	"github.com/alcotrade/alcotrade-cms/api/responses"
	"github.com/alcotrade/alcotrade-cms/api/validators"
	"github.com/alcotrade/alcotrade-cms/internal/users"
	"github.com/alcotrade/alcotrade-cms/pkg/logger"
	"github.com/alcotrade/alcotrade-cms/pkg/types"
)

type usersListResponse struct {
	types.OK
	Users []users.ListItem `json:"users"`
}

type userCreatedResponse struct {
	types.OK
	User *users.Created `json:"user"`
}

type passwordChangedResponse struct {
	types.OK
	User *users.PasswordChanged `json:"user"`
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if rows == nil {
			rows = []users.ListItem{}
		}
		responses.WriteBody(w, http.StatusOK, usersListResponse{OK: types.Ack(), Users: rows})
	}
}

func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body users.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithFields(r.Context(), map[string]any{"created_user_id": created.ID.String(), "role": created.Role})
		logg.Info(ctx, "users.created")
		responses.WriteBody(w, http.StatusCreated, userCreatedResponse{OK: types.Ack(), User: created})
	}
}

func UserSetPassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body setPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		changed, err := svc.SetPassword(r.Context(), id, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteBody(w, http.StatusOK, passwordChangedResponse{OK: types.Ack(), User: changed})
	}
}
