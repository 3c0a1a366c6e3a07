package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSearch   CachePrefix = "search:"
	CachePrefixGeocoder CachePrefix = "geocoder:"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 50
	MinQueryLength     = 2

	// Local results needed, as a fraction of the limit, before the geocoder is skipped.
	LocalCoverageRatio = 0.7

	RoutePathSteps  = 100
	RouteTypeGreatC = "great_circle"

	KmToMiles = 0.621371
)

// Per-IP limits for the public search endpoint.
const (
	SearchRatePerSecond = 5
	SearchRateBurst     = 10
)
