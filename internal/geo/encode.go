package geo

import (
	"fmt"
	"strconv"
	"strings"

	polyline "github.com/twpayne/go-polyline"
)

// LineStringGeometry is a GeoJSON LineString. Coordinates are [lon, lat].
type LineStringGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// PointGeometry is a GeoJSON Point. Coordinates are [lon, lat].
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func LineString(path []Point) LineStringGeometry {
	coords := make([][2]float64, len(path))
	for i, p := range path {
		coords[i] = [2]float64{p.Lon, p.Lat}
	}
	return LineStringGeometry{Type: "LineString", Coordinates: coords}
}

func PointGeoJSON(p Point) PointGeometry {
	return PointGeometry{Type: "Point", Coordinates: [2]float64{p.Lon, p.Lat}}
}

// EncodePolyline encodes path in the Google encoded polyline format (1e5 precision).
func EncodePolyline(path []Point) string {
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{p.Lat, p.Lon}
	}
	return string(polyline.EncodeCoords(coords))
}

// DecodePolyline is the inverse of EncodePolyline.
func DecodePolyline(s string) ([]Point, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	out := make([]Point, len(coords))
	for i, c := range coords {
		out[i] = Point{Lat: c[0], Lon: c[1]}
	}
	return out, nil
}

// WKTLineString renders path as well-known text for ST_GeomFromText.
func WKTLineString(path []Point) string {
	var b strings.Builder
	b.WriteString("LINESTRING(")
	for i, p := range path {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(p.Lon, 'f', 6, 64))
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(p.Lat, 'f', 6, 64))
	}
	b.WriteByte(')')
	return b.String()
}
