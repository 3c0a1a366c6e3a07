package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jfk = Point{Lat: 40.6413, Lon: -73.7781}
	hnd = Point{Lat: 35.5494, Lon: 139.7798}
	lhr = Point{Lat: 51.4700, Lon: -0.4543}
)

func TestDistance(t *testing.T) {
	assert.InDelta(t, 10875.36, Distance(jfk, hnd), 1)
	assert.InDelta(t, 5540.01, Distance(lhr, jfk), 1)
	assert.InDelta(t, 111.19, Distance(Point{0, 0}, Point{0, 1}), 0.01)
}

func TestDistanceSymmetricAndZero(t *testing.T) {
	assert.InDelta(t, Distance(jfk, hnd), Distance(hnd, jfk), 1e-9)
	assert.Equal(t, 0.0, Distance(lhr, lhr))
}

func TestValidPoint(t *testing.T) {
	assert.True(t, ValidPoint(Point{Lat: 90, Lon: -180}))
	assert.False(t, ValidPoint(Point{Lat: 90.1, Lon: 0}))
	assert.False(t, ValidPoint(Point{Lat: 0, Lon: 181}))
	assert.False(t, ValidPoint(Point{Lat: math.NaN(), Lon: 0}))
}

func TestPathEndpoints(t *testing.T) {
	path := Path(lhr, jfk, 100)
	require.Len(t, path, 101)

	assert.Equal(t, lhr, path[0])
	last := path[len(path)-1]
	assert.InDelta(t, jfk.Lat, last.Lat, 1e-6)
	assert.InDelta(t, jfk.Lon, last.Lon, 1e-6)
}

func TestPathStaysOnGreatCircle(t *testing.T) {
	path := Path(lhr, jfk, 50)
	total := Distance(lhr, jfk)

	// every sample is the same arc fraction along the route
	for i, p := range path {
		frac := float64(i) / 50
		assert.InDelta(t, total*frac, Distance(lhr, p), 0.5, "point %d", i)
	}
}

func TestPathCrossesAntimeridian(t *testing.T) {
	start := Point{Lat: 10, Lon: 170}
	end := Point{Lat: -10, Lon: -170}

	path := Path(start, end, 20)
	require.Len(t, path, 21)

	for i := 1; i < len(path); i++ {
		assert.LessOrEqual(t, math.Abs(path[i].Lon-path[i-1].Lon), 180.0)
		assert.GreaterOrEqual(t, path[i].Lon, 170.0-1e-9)
	}

	last := path[len(path)-1]
	assert.InDelta(t, end.Lat, last.Lat, 1e-6)
	assert.InDelta(t, end.Lon, math.Mod(last.Lon+540, 360)-180, 1e-6)
}

func TestPathCoincidentPoints(t *testing.T) {
	path := Path(jfk, jfk, 10)
	require.Len(t, path, 11)
	for _, p := range path {
		assert.Equal(t, jfk, p)
	}
}

func TestPathClampsSteps(t *testing.T) {
	path := Path(lhr, jfk, 0)
	assert.Len(t, path, 2)
}

func TestEncodePolylineRoundTrip(t *testing.T) {
	path := Path(lhr, jfk, 10)
	decoded, err := DecodePolyline(EncodePolyline(path))
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestEncodePolylineKnownValue(t *testing.T) {
	// reference example from the encoded polyline algorithm format docs
	got := EncodePolyline([]Point{{38.5, -120.2}, {40.7, -120.95}, {43.252, -126.453}})
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", got)
}

func TestWKTLineString(t *testing.T) {
	got := WKTLineString([]Point{{Lat: 1, Lon: 2}, {Lat: -3.5, Lon: 4.25}})
	assert.Equal(t, "LINESTRING(2.000000 1.000000, 4.250000 -3.500000)", got)
}

func TestLineStringUsesLonLatOrder(t *testing.T) {
	ls := LineString([]Point{{Lat: 1, Lon: 2}})
	assert.Equal(t, "LineString", ls.Type)
	assert.Equal(t, [2]float64{2, 1}, ls.Coordinates[0])
}
