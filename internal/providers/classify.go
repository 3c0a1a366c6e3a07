package providers

import (
	"strings"

	"travel-log/globetrotter/internal/constants"
	"travel-log/globetrotter/internal/models/dtos"
)

var (
	settlementTypes = map[string]bool{
		"city": true, "town": true, "village": true, "hamlet": true,
		"municipality": true, "suburb": true, "borough": true,
	}
	landmarkClasses = map[string]bool{"tourism": true, "historic": true}
	landmarkTypes   = map[string]bool{
		"attraction": true, "museum": true, "monument": true, "viewpoint": true,
		"castle": true, "memorial": true, "peak": true, "park": true, "zoo": true,
		"theme_park": true, "cathedral": true,
	}
)

// Classify maps a Nominatim class/type pair onto a location category.
func Classify(place dtos.NominatimPlace) constants.LocationType {
	class := strings.ToLower(place.Class)
	typ := strings.ToLower(place.Type)

	switch {
	case typ == "aerodrome" || typ == "airport" || (class == "aeroway" && typ == "terminal"):
		return constants.LocationAirport
	case class == "railway" && (typ == "station" || typ == "halt" || typ == "stop"),
		typ == "train_station",
		class == "public_transport" && typ == "station" && strings.Contains(strings.ToLower(place.Name), "station"):
		return constants.LocationTrainStation
	case typ == "bus_station" || (class == "highway" && typ == "bus_stop"):
		return constants.LocationBusStation
	case typ == "ferry_terminal" || typ == "port" || typ == "harbour" || typ == "marina":
		return constants.LocationPort
	case class == "place" && settlementTypes[typ],
		class == "boundary" && typ == "administrative" && settlementTypes[strings.ToLower(place.AddressType)]:
		return constants.LocationCity
	case landmarkClasses[class], landmarkTypes[typ]:
		return constants.LocationLandmark
	}

	if settlementTypes[strings.ToLower(place.AddressType)] {
		return constants.LocationCity
	}
	return constants.LocationOther
}

var categorySuffixes = map[constants.LocationType][]string{
	constants.LocationAirport:      {" Airport", " Airfield", " Aerodrome"},
	constants.LocationTrainStation: {" Railway Station", " Train Station", " Station"},
	constants.LocationBusStation:   {" Bus Station", " Bus Terminal"},
	constants.LocationPort:         {" Ferry Terminal", " Port", " Harbour"},
}

// StripCategorySuffix drops a trailing category word that the category badge
// already conveys ("Heathrow Airport" -> "Heathrow"). The suffix must follow a
// space and the name is never reduced to nothing.
func StripCategorySuffix(name string, t constants.LocationType) string {
	for _, suffix := range categorySuffixes[t] {
		if len(name) > len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
			trimmed := strings.TrimSpace(name[:len(name)-len(suffix)])
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return name
}
