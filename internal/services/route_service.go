package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/twpayne/go-kml"
	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/geo"
	"travel-log/globetrotter/internal/models/dtos"
	"travel-log/globetrotter/internal/models/entities"
)

// BuildRoutes renders one great-circle LineString feature per trip. With
// withPolyline each feature also carries the encoded path.
func BuildRoutes(trips []entities.TripDetail, withPolyline bool) dtos.FeatureCollection {
	features := make([]dtos.Feature, 0, len(trips))
	for _, t := range trips {
		path := geo.Path(t.Origin(), t.Destination(), constants.RoutePathSteps)

		props := map[string]any{
			"trip_id":     t.ID,
			"name":        t.Name,
			"trip_type":   t.TripType,
			"origin":      t.OriginName,
			"destination": t.DestinationName,
			"distance_km": t.DistanceKm,
		}
		if t.DepartureDate != nil {
			props["departure_date"] = *t.DepartureDate
		}
		if withPolyline {
			props["polyline"] = geo.EncodePolyline(path)
		}

		features = append(features, dtos.Feature{
			Type:       "Feature",
			Geometry:   geo.LineString(path),
			Properties: props,
		})
	}
	return dtos.NewFeatureCollection(features)
}

// ExportKML writes a KML document with a tessellated path per trip followed by
// a point per distinct endpoint.
func ExportKML(w io.Writer, trips []entities.TripDetail) error {
	children := []kml.Element{kml.Name("Travel log")}

	for _, t := range trips {
		path := geo.Path(t.Origin(), t.Destination(), constants.RoutePathSteps)
		coords := make([]kml.Coordinate, 0, len(path))
		for _, p := range path {
			coords = append(coords, kml.Coordinate{Lon: p.Lon, Lat: p.Lat})
		}

		children = append(children, kml.Placemark(
			kml.Name(t.Name),
			kml.Description(fmt.Sprintf("%s to %s, %.0f km", t.OriginName, t.DestinationName, t.DistanceKm)),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
	}

	for _, stop := range visitedStops(trips) {
		children = append(children, kml.Placemark(
			kml.Name(stop.name),
			kml.Point(
				kml.Coordinates(kml.Coordinate{Lon: stop.point.Lon, Lat: stop.point.Lat}),
			),
		))
	}

	return kml.KML(kml.Document(children...)).WriteIndent(w, "", "  ")
}

type stop struct {
	name  string
	point geo.Point
}

func visitedStops(trips []entities.TripDetail) []stop {
	seen := map[string]struct{}{}
	var stops []stop
	add := func(name string, p geo.Point) {
		key := fmt.Sprintf("%s|%.5f|%.5f", strings.ToLower(name), p.Lat, p.Lon)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		stops = append(stops, stop{name: name, point: p})
	}
	for _, t := range trips {
		add(t.OriginName, t.Origin())
		add(t.DestinationName, t.Destination())
	}
	return stops
}
