package api

import (
	"context"
	"net/http"
	"time"

	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/models/dtos"
)

type AirportSyncer interface {
	LoadFromURL(ctx context.Context, url string) (dtos.AirportSyncResponse, error)
}

// SyncAirportsHandler handles POST /api/v1/admin/airports/sync.
// Re-downloads the OpenFlights dataset and inserts airports not yet stored.
func SyncAirportsHandler(loader AirportSyncer, url string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		resp, err := loader.LoadFromURL(r.Context(), url)
		if err != nil {
			logging.Error("[SyncAirports] sync failed", "url", url, "error", err)
			common.RespondError(w, initTime, err, constants.MsgInternalError, http.StatusBadGateway)
			return
		}
		common.RespondSuccess(w, initTime, "Airports synced successfully", resp)
	}
}
