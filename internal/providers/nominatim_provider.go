package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"travel-log/globetrotter/internal/config"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
)

// maxErrorBody caps how much of a failed response is kept in ProviderError.Details
const maxErrorBody = 512

// NominatimProvider is a client for the OpenStreetMap Nominatim search API
type NominatimProvider struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

type SearchParams struct {
	Query    string
	Language string
	Limit    int
}

// NewNominatimProvider builds a provider from geocoder config. Per-request
// deadlines come from the caller's context, so the client itself has none.
func NewNominatimProvider(cfg config.Geocoder) *NominatimProvider {
	return &NominatimProvider{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		UserAgent: cfg.UserAgent,
		Client:    &http.Client{},
	}
}

// GetProviderType returns the provider type identifier
func (p *NominatimProvider) GetProviderType() string {
	return "nominatim"
}

// Search runs a free-text place search.
func (p *NominatimProvider) Search(ctx context.Context, params SearchParams) ([]dtos.NominatimPlace, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, &ProviderError{
			Code:    constants.ErrCodeBadRequest,
			Message: "Search query cannot be empty",
		}
	}

	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Language != "" {
		q.Set("accept-language", params.Language)
	}

	var places []dtos.NominatimPlace
	if err := p.doGET(ctx, "/search?"+q.Encode(), &places); err != nil {
		return nil, err
	}
	return places, nil
}

// doGET performs a GET request and decodes a JSON body into result
func (p *NominatimProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	// Nominatim's usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", p.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return p.buildHTTPError(resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			Message:    constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

// buildHTTPError creates appropriate error based on status code
func (p *NominatimProvider) buildHTTPError(statusCode int, body string) error {
	code := constants.ErrCodeNetworkError
	switch {
	case statusCode == http.StatusTooManyRequests:
		code = constants.ErrCodeRateLimited
	case statusCode == http.StatusBadRequest:
		code = constants.ErrCodeBadRequest
	case statusCode >= 500:
		code = constants.ErrCodeUpstreamError
	}
	return &ProviderError{
		Code:       code,
		Message:    fmt.Sprintf("%s (HTTP %d)", constants.GetErrorMessage(code), statusCode),
		Details:    body,
		StatusCode: statusCode,
	}
}
