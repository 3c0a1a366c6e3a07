package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/services"
)

// withBackend resolves the caller's trip store or answers 401.
func withBackend(backends BackendFunc, fn func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		backend := backends.from(r)
		if backend == nil {
			common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
			return
		}
		fn(w, r, initTime, backend)
	}
}

// CreateTripHandler godoc
// @Summary      Create a trip
// @Description  Endpoints are location ids or inline location details. Distance, duration and the great-circle route are computed server side.
// @Tags         Trips
// @Accept       json
// @Produce      json
// @Param        body  body  dtos.CreateTripRequest  true  "Trip"
// @Success      201 {object} dtos.APIResponse
// @Failure      400 {object} dtos.APIResponse
// @Router       /api/v1/trips [post]
func CreateTripHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		var req dtos.CreateTripRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := backend.CreateTrip(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgTripCreated, resp, http.StatusCreated)
	})
}

func ListTripsHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		trips, err := backend.ListTrips(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", dtos.TripListResponse{Trips: trips})
	})
}

func DeleteTripHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
		if err != nil || tripID <= 0 {
			common.RespondError(w, initTime, nil, "Invalid trip id", http.StatusBadRequest)
			return
		}

		if err := backend.DeleteTrip(r.Context(), tripID); err != nil {
			respondServiceError(w, initTime, err, constants.MsgTripNotFound)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgTripDeleted, nil)
	})
}

func VisitedCountriesHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		countries, err := backend.VisitedCountries(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", dtos.CountriesResponse{Countries: countries})
	})
}

// TripRoutesHandler returns great-circle routes as GeoJSON. format=polyline
// adds an encoded polyline to every feature.
func TripRoutesHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		trips, err := backend.ListTrips(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		withPolyline := r.URL.Query().Get("format") == "polyline"
		common.RespondSuccess(w, initTime, "", services.BuildRoutes(trips, withPolyline))
	})
}

func ExportKMLHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		trips, err := backend.ListTrips(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		var buf bytes.Buffer
		if err := services.ExportKML(&buf, trips); err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
		w.Header().Set("Content-Disposition", `attachment; filename="trips.kml"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})
}

// TripStatsHandler godoc
// @Summary      Trip statistics
// @Tags         Trips
// @Produce      json
// @Param        year       query  string  false  "all or YYYY"
// @Param        trip_type  query  string  false  "all or a trip type"
// @Param        units      query  string  false  "metric or imperial"
// @Success      200 {object} dtos.APIResponse
// @Router       /api/v1/trips/stats [get]
func TripStatsHandler(backends BackendFunc) http.HandlerFunc {
	return withBackend(backends, func(w http.ResponseWriter, r *http.Request, initTime time.Time, backend services.TripBackend) {
		params := r.URL.Query()
		tripType := params.Get("trip_type")
		if tripType == "" {
			tripType = params.Get("type")
		}
		filter := dtos.StatsFilter{
			Year:     params.Get("year"),
			TripType: constants.TripType(tripType),
			Units:    params.Get("units"),
		}

		trips, err := backend.ListTrips(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		stats, err := services.ComputeStats(trips, filter)
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", stats)
	})
}
