package common

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestCacheServiceRoundTrip(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)

	in := []cachedThing{{Name: "Paris", Score: 100}}
	cs.Set("search:paris", in, time.Minute)

	var out []cachedThing
	require.True(t, cs.Get("search:paris", &out))
	assert.Equal(t, in, out)

	// mutating the caller's copy must not leak into the cache
	in[0].Name = "changed"
	out = nil
	require.True(t, cs.Get("search:paris", &out))
	assert.Equal(t, "Paris", out[0].Name)
}

func TestCacheServiceMissAndDelete(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)

	var out []cachedThing
	assert.False(t, cs.Get("nope", &out))

	cs.Set("k", []cachedThing{}, time.Minute)
	cs.Delete("k")
	assert.False(t, cs.Get("k", &out))
}

func TestCacheServiceExpiry(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	cs.Set("k", 1, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	var out int
	assert.False(t, cs.Get("k", &out))
	assert.Empty(t, cs.Keys("k"))
}

func TestCacheServiceKeysByPrefix(t *testing.T) {
	cs := NewCacheService(time.Minute, time.Minute)
	cs.Set("search:a", 1, time.Minute)
	cs.Set("search:b", 2, time.Minute)
	cs.Set("geocoder:a", 3, time.Minute)

	keys := cs.Keys("search:")
	sort.Strings(keys)
	assert.Equal(t, []string{"search:a", "search:b"}, keys)
}
