package constants

// Geocoder error codes carried by providers.ProviderError
const (
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeUpstreamError     = "UPSTREAM_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
)

// Error code descriptions for user-facing messages
var ErrorCodeMessages = map[string]string{
	ErrCodeRateLimited:       "Geocoder rate limit exceeded",
	ErrCodeNetworkError:      "Failed to connect to geocoder",
	ErrCodeInvalidDataFormat: "Geocoder returned an unexpected payload",
	ErrCodeUpstreamError:     "Geocoder returned a server error",
	ErrCodeBadRequest:        "Geocoder rejected the request",
}

// GetErrorMessage returns a human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorCodeMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
