// Package resolver answers free-text place searches by merging saved
// locations with geocoder results.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"travel-log/globetrotter/internal/common"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/logging"
	"travel-log/globetrotter/internal/metrics"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
	"travel-log/globetrotter/internal/providers"
)

var ErrInvalidCategory = errors.New("invalid location category")

// maxLocalFetch caps the rows pulled from the store before scoring.
const maxLocalFetch = 200

// LocalStore is the saved-locations side of a search.
type LocalStore interface {
	SearchLocations(ctx context.Context, term string, category constants.LocationType, limit int) ([]entities.Location, error)
}

// Geocoder is the external side of a search.
type Geocoder interface {
	Search(ctx context.Context, params providers.SearchParams) ([]dtos.NominatimPlace, error)
}

type Query struct {
	Text     string
	Limit    int
	Category constants.LocationType
	Language string
}

type Options struct {
	SearchTTL       time.Duration
	GeocoderTTL     time.Duration
	SubQueryTimeout time.Duration
	MinInterval     time.Duration
}

func DefaultOptions() Options {
	return Options{
		SearchTTL:       time.Hour,
		GeocoderTTL:     24 * time.Hour,
		SubQueryTimeout: 2 * time.Second,
		MinInterval:     time.Second,
	}
}

type Resolver struct {
	store    LocalStore
	geocoder Geocoder
	cache    common.CacheInterface
	metrics  *metrics.MetricsRegistry
	opts     Options

	// spacing gate shared by every geocoder call this resolver makes
	limiter *rate.Limiter
	group   singleflight.Group
}

// New builds a resolver. metricsReg may be nil.
func New(store LocalStore, geocoder Geocoder, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry, opts Options) *Resolver {
	return &Resolver{
		store:    store,
		geocoder: geocoder,
		cache:    cache,
		metrics:  metricsReg,
		opts:     opts,
		limiter:  rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

// Search returns up to q.Limit ranked candidates. Only local store failures
// are returned as errors; geocoder trouble just means fewer results.
func (r *Resolver) Search(ctx context.Context, q Query) ([]Candidate, error) {
	term := normalize(q.Text)
	if utf8.RuneCountInString(term) < constants.MinQueryLength {
		return []Candidate{}, nil
	}
	if q.Category != "" && !q.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	q.Limit = clampLimit(q.Limit)
	q.Language = sanitizeLanguage(q.Language)

	key := searchKey(term, q.Language, q.Limit, q.Category)

	var cached []Candidate
	if r.cache.Get(key, &cached) {
		r.cacheHit("search")
		r.countResults("cache", len(cached))
		return cached, nil
	}
	r.cacheMiss("search")

	// callers share one computation; it must outlive any single caller
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		return r.resolve(shared, q, term, key)
	})
	if err != nil {
		return nil, err
	}

	results := v.([]Candidate)
	out := make([]Candidate, len(results))
	copy(out, results)
	return out, nil
}

func (r *Resolver) resolve(ctx context.Context, q Query, term, key string) ([]Candidate, error) {
	local, err := r.searchLocal(ctx, term, q)
	if err != nil {
		return nil, err
	}
	r.countResults("local", len(local))

	if len(local) >= minLocalCoverage(q.Limit) {
		r.cache.Set(key, local, r.opts.SearchTTL)
		return local, nil
	}

	external := r.searchExternal(ctx, q, term)
	r.countResults("external", len(external))

	merged := merge(local, external, q.Limit)
	r.cache.Set(key, merged, r.opts.SearchTTL)
	return merged, nil
}

func (r *Resolver) searchLocal(ctx context.Context, term string, q Query) ([]Candidate, error) {
	fetch := q.Limit * 4
	if fetch > maxLocalFetch {
		fetch = maxLocalFetch
	}

	rows, err := r.store.SearchLocations(ctx, term, q.Category, fetch)
	if err != nil {
		return nil, fmt.Errorf("local location search: %w", err)
	}

	out := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromLocation(row, term))
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if pa, pb := a.LocationType.Priority(), b.LocationType.Priority(); pa != pb {
			return pa > pb
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	out = collapseDuplicates(out)
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// collapseDuplicates keeps the first candidate per dedup key. Input must be
// sorted best first.
func collapseDuplicates(in []Candidate) []Candidate {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, c := range in {
		k := c.dedupKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// searchExternal fans out the geocoder sub-queries and waits for all of them.
// A failed sub-query contributes nothing and never cancels its siblings.
func (r *Resolver) searchExternal(ctx context.Context, q Query, term string) []Candidate {
	subQueries := subQueriesFor(strings.TrimSpace(q.Text), q.Category)
	results := make([][]dtos.NominatimPlace, len(subQueries))

	var g errgroup.Group
	for i, sub := range subQueries {
		g.Go(func() error {
			results[i] = r.geocode(ctx, sub, q.Language, q.Limit)
			return nil
		})
	}
	_ = g.Wait()

	best := make(map[string]Candidate)
	var order []string
	for _, places := range results {
		for _, p := range places {
			c, ok := fromPlace(p, term)
			if !ok {
				continue
			}
			if q.Category != "" && c.LocationType != q.Category {
				continue
			}
			k := c.dedupKey()
			prev, seen := best[k]
			if !seen {
				order = append(order, k)
			}
			if !seen || c.Relevance > prev.Relevance {
				best[k] = c
			}
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

func (r *Resolver) geocode(ctx context.Context, sub, lang string, limit int) []dtos.NominatimPlace {
	key := geocoderKey(sub, lang, limit)

	var cached []dtos.NominatimPlace
	if r.cache.Get(key, &cached) {
		r.cacheHit("geocoder")
		return cached
	}
	r.cacheMiss("geocoder")

	ctx, cancel := context.WithTimeout(ctx, r.opts.SubQueryTimeout)
	defer cancel()

	start := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		logging.Warn("[Resolver] geocoder sub-query skipped, spacing gate exceeded deadline", "query", sub, "error", err)
		r.geocoderOutcome("timeout", start)
		return nil
	}

	places, err := r.geocoder.Search(ctx, providers.SearchParams{Query: sub, Language: lang, Limit: limit})
	if err != nil {
		outcome := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		logging.Warn("[Resolver] geocoder sub-query failed", "query", sub, "outcome", outcome, "error", err)
		r.geocoderOutcome(outcome, start)
		return nil
	}
	r.geocoderOutcome("ok", start)

	r.cache.Set(key, places, r.opts.GeocoderTTL)
	return places
}

// Invalidate drops every cached search whose normalized query occurs inside
// one of the given values, so a newly saved place shows up as a local hit.
// It returns the number of entries removed.
func (r *Resolver) Invalidate(values ...string) int {
	var haystacks []string
	for _, v := range values {
		if n := normalize(v); n != "" {
			haystacks = append(haystacks, n)
		}
	}
	if len(haystacks) == 0 {
		return 0
	}

	removed := 0
	for _, key := range r.cache.Keys(string(constants.CachePrefixSearch)) {
		query, ok := queryFromSearchKey(key)
		if !ok {
			continue
		}
		for _, h := range haystacks {
			if strings.Contains(h, query) {
				r.cache.Delete(key)
				removed++
				break
			}
		}
	}
	if removed > 0 {
		logging.Debug("[Resolver] invalidated cached searches", "count", removed, "values", values)
	}
	return removed
}

// merge keeps every local result, tops up with unseen external ones and
// re-sorts. The sort is stable so local results win ties.
func merge(local, external []Candidate, limit int) []Candidate {
	out := make([]Candidate, 0, limit)
	seen := make(map[string]bool, len(local))
	for _, c := range local {
		out = append(out, c)
		seen[c.dedupKey()] = true
	}
	for _, c := range external {
		if len(out) >= limit {
			break
		}
		if seen[c.dedupKey()] {
			continue
		}
		seen[c.dedupKey()] = true
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

var categoryHints = map[constants.LocationType]string{
	constants.LocationAirport:      "airport",
	constants.LocationTrainStation: "station",
	constants.LocationBusStation:   "bus station",
	constants.LocationPort:         "port",
}

func subQueriesFor(text string, category constants.LocationType) []string {
	subs := []string{text}
	if hint, ok := categoryHints[category]; ok && !strings.Contains(strings.ToLower(text), hint) {
		subs = append(subs, text+" "+hint)
	}
	return subs
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return constants.DefaultSearchLimit
	case limit > constants.MaxSearchLimit:
		return constants.MaxSearchLimit
	default:
		return limit
	}
}

// sanitizeLanguage keeps accept-language style values ("en", "de-CH,en")
// and guarantees the cache key separator cannot appear.
func sanitizeLanguage(lang string) string {
	lang = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == ',':
			return r
		}
		return -1
	}, lang)
	if lang == "" {
		return "en"
	}
	return strings.ToLower(lang)
}

func searchKey(term, lang string, limit int, category constants.LocationType) string {
	return string(constants.CachePrefixSearch) + term + "|" + lang + "|" + strconv.Itoa(limit) + "|" + string(category)
}

func geocoderKey(sub, lang string, limit int) string {
	return string(constants.CachePrefixGeocoder) + normalize(sub) + "|" + lang + "|" + strconv.Itoa(limit)
}

// queryFromSearchKey recovers the normalized query; the query itself may
// contain the separator, the three trailing fields never do.
func queryFromSearchKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, string(constants.CachePrefixSearch))
	if !ok {
		return "", false
	}
	parts := strings.Split(rest, "|")
	if len(parts) < 4 {
		return "", false
	}
	return strings.Join(parts[:len(parts)-3], "|"), true
}

func (r *Resolver) cacheHit(name string) {
	if r.metrics != nil {
		r.metrics.CacheHitsTotal.WithLabelValues(name).Inc()
	}
}

func (r *Resolver) cacheMiss(name string) {
	if r.metrics != nil {
		r.metrics.CacheMissesTotal.WithLabelValues(name).Inc()
	}
}

func (r *Resolver) countResults(source string, n int) {
	if r.metrics != nil && n > 0 {
		r.metrics.ResolverResultsTotal.WithLabelValues(source).Add(float64(n))
	}
}

func (r *Resolver) geocoderOutcome(outcome string, start time.Time) {
	if r.metrics != nil {
		r.metrics.GeocoderRequestsTotal.WithLabelValues(outcome).Inc()
		r.metrics.GeocoderRequestDuration.Observe(time.Since(start).Seconds())
	}
}
