package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/resolver"
)

type LocationSearcher interface {
	Search(ctx context.Context, q resolver.Query) ([]resolver.Candidate, error)
}

type LocationGeoJSONer interface {
	GeoJSON(ctx context.Context) (dtos.FeatureCollection, error)
}

// SearchLocationsHandler godoc
// @Summary      Search locations
// @Description  Merges saved locations with geocoder results. Queries under two characters return an empty list.
// @Tags         Locations
// @Produce      json
// @Param        q      query  string  true   "Search text (alias: searchTerm)"
// @Param        limit  query  int     false  "Max results (default 10, max 50)"
// @Param        lang   query  string  false  "Result language"
// @Param        type   query  string  false  "Location type filter"
// @Success      200 {object} dtos.APIResponse
// @Failure      400 {object} dtos.APIResponse
// @Router       /api/v1/locations/search [get]
func SearchLocationsHandler(searcher LocationSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		params := r.URL.Query()

		text := params.Get("q")
		if text == "" {
			text = params.Get("searchTerm")
		}

		limit := 0
		if raw := params.Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				common.RespondError(w, initTime, nil, "limit must be a number", http.StatusBadRequest)
				return
			}
			limit = n
		}

		lang := params.Get("lang")
		if lang == "" {
			lang = acceptLanguage(r.Header.Get("Accept-Language"))
		}

		category := constants.LocationType(strings.ToLower(params.Get("type")))
		if category == "all" {
			category = ""
		}

		candidates, err := searcher.Search(r.Context(), resolver.Query{
			Text:     text,
			Limit:    limit,
			Category: category,
			Language: lang,
		})
		if errors.Is(err, resolver.ErrInvalidCategory) {
			common.RespondError(w, initTime, err, "", http.StatusBadRequest)
			return
		}
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgSearchFailed, http.StatusInternalServerError)
			return
		}

		common.RespondSuccess(w, initTime, "", candidates)
	}
}

// SaveLocationHandler stores a picked candidate, or returns the id of the
// matching saved location.
func SaveLocationHandler(backends BackendFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		backend := backends.from(r)
		if backend == nil {
			common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
			return
		}

		var req dtos.SaveLocationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		resp, err := backend.SaveLocation(r.Context(), req.ToLocation())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}

		if resp.Existed {
			common.RespondSuccess(w, initTime, constants.MsgLocationExists, resp)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgLocationSaved, resp, http.StatusCreated)
	}
}

func LocationsGeoJSONHandler(svc LocationGeoJSONer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		fc, err := svc.GeoJSON(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "")
			return
		}
		common.RespondSuccess(w, initTime, "", fc)
	}
}

// acceptLanguage returns the primary tag of the first listed language.
func acceptLanguage(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	first = strings.Split(first, ";")[0]
	return strings.Split(first, "-")[0]
}
