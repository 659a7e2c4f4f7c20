package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/catalog-federation/cmd/api/federation"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

/*Writes a JSON response into a http.ResponseWriter. */
func ResponseJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		zap.S().Errorw("writing response", "error", err)
	}
}

/*
Answers with the error body and the status its code maps to. Context errors become request
timeouts and anything outside the taxonomy is reported as a repository error.
*/
func HandleError(err error, w http.ResponseWriter, r *http.Request) {
	status, errResp := statusFor(err)
	log := Logger(r.Context())
	if status >= http.StatusInternalServerError {
		log.Errorw("request failed", "status", status, "error", err)
	} else {
		log.Debugw("request rejected", "status", status, "error", err)
	}
	ResponseJSON(w, status, errResp)
}

func statusFor(err error) (int, pkgerrors.ErrResponse) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return http.StatusGatewayTimeout, pkgerrors.WithDetail(pkgerrors.ErrResponseRequestTimeout, " "+err.Error())
	}

	var errResp pkgerrors.ErrResponse
	if !errors.As(err, &errResp) {
		return http.StatusInternalServerError, pkgerrors.WithDetail(pkgerrors.ErrResponseFromRepository, err.Error())
	}

	switch errResp.Code {
	case pkgerrors.ErrResponseNotFound.Code:
		return http.StatusNotFound, errResp
	case pkgerrors.ErrResponseReferenceNotFound.Code:
		return http.StatusUnprocessableEntity, errResp
	case pkgerrors.ErrResponseEntryBlankFields.Code,
		pkgerrors.ErrResponseEntryInvalidJSON.Code,
		pkgerrors.ErrResponseIdInvalidFormat.Code,
		pkgerrors.ErrResponseValidation.Code,
		pkgerrors.ErrResponseUnknownEntityType.Code:
		return http.StatusBadRequest, errResp
	case pkgerrors.ErrResponseRequestTimeout.Code:
		return http.StatusGatewayTimeout, errResp
	case pkgerrors.ErrResponseSubgraphUnavailable.Code:
		return http.StatusBadGateway, errResp
	default:
		return http.StatusInternalServerError, errResp
	}
}

/* Reads the JSON body into dst. On failure the 102 response is already written. */
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		HandleError(pkgerrors.WithDetail(pkgerrors.ErrResponseEntryInvalidJSON, err.Error()), w, r)
		return false
	}
	return true
}

/* Isolates the ID from the URL. */
func isolateId(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		HandleError(pkgerrors.ErrResponseIdInvalidFormat, w, r)
		return 0, false
	}
	return id, true
}

/* Answers POST /_entities from the types registered on the service. */
func entitiesHandler(registry *federation.Registry) http.HandlerFunc {
	validate := validation.New()
	return func(w http.ResponseWriter, r *http.Request) {
		var req federation.EntitiesRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := validate.Validate(req); err != nil {
			HandleError(err, w, r)
			return
		}

		entities, err := registry.ResolveEntities(r.Context(), req.Representations)
		if err != nil {
			HandleError(err, w, r)
			return
		}
		ResponseJSON(w, http.StatusOK, federation.EntitiesResponse{Entities: entities})
	}
}
