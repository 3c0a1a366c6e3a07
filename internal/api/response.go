package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/services"
)

const maxBodyBytes = 1 << 20

// respondServiceError maps service sentinels onto status codes. notFound
// overrides the message for 404s.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error, notFound string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		if notFound == "" {
			notFound = constants.MsgNotFound
		}
		common.RespondError(w, initTime, nil, notFound, http.StatusNotFound)
	case errors.Is(err, services.ErrUnauthorized):
		common.RespondError(w, initTime, nil, constants.MsgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, services.ErrConflict):
		common.RespondError(w, initTime, nil, constants.MsgEmailTaken, http.StatusConflict)
	default:
		common.RespondError(w, initTime, err, constants.MsgInternalError, http.StatusInternalServerError)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}
