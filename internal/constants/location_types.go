package constants

import (
	"database/sql/driver"
	"fmt"
)

// LocationType mirrors the CHECK constraint on locations.location_type
type LocationType string

const (
	LocationAirport      LocationType = "airport"
	LocationTrainStation LocationType = "train_station"
	LocationBusStation   LocationType = "bus_station"
	LocationPort         LocationType = "port"
	LocationCity         LocationType = "city"
	LocationLandmark     LocationType = "landmark"
	LocationOther        LocationType = "other"
)

var locationPriority = map[LocationType]int{
	LocationAirport:      100,
	LocationTrainStation: 80,
	LocationCity:         60,
	LocationBusStation:   50,
	LocationPort:         50,
	LocationLandmark:     40,
	LocationOther:        20,
}

func (t LocationType) String() string { return string(t) }

func (t LocationType) Valid() bool {
	_, ok := locationPriority[t]
	return ok
}

// Priority ranks categories when relevance ties. Unknown types rank as other.
func (t LocationType) Priority() int {
	if p, ok := locationPriority[t]; ok {
		return p
	}
	return locationPriority[LocationOther]
}

func (t *LocationType) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*t = LocationType(v)
	case []byte:
		*t = LocationType(v)
	default:
		return fmt.Errorf("LocationType: cannot scan type %T", src)
	}
	return nil
}

func (t LocationType) Value() (driver.Value, error) { return string(t), nil }

// TripType mirrors the CHECK constraint on trips.trip_type
type TripType string

const (
	TripFlight TripType = "flight"
	TripTrain  TripType = "train"
	TripBus    TripType = "bus"
	TripCar    TripType = "car"
	TripFerry  TripType = "ferry"
	TripOther  TripType = "other"
)

// kg CO2 per passenger km
var carbonFactors = map[TripType]float64{
	TripFlight: 0.255,
	TripTrain:  0.041,
	TripCar:    0.171,
	TripBus:    0.089,
	TripFerry:  0.113,
	TripOther:  0.1,
}

// TripTypes lists every trip type in display order.
var TripTypes = []TripType{TripFlight, TripTrain, TripBus, TripCar, TripFerry, TripOther}

func (t TripType) String() string { return string(t) }

func (t TripType) Valid() bool {
	_, ok := carbonFactors[t]
	return ok
}

func (t TripType) CarbonFactor() float64 {
	if f, ok := carbonFactors[t]; ok {
		return f
	}
	return carbonFactors[TripOther]
}

func (t *TripType) Scan(src interface{}) error {
	if src == nil {
		*t = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*t = TripType(v)
	case []byte:
		*t = TripType(v)
	default:
		return fmt.Errorf("TripType: cannot scan type %T", src)
	}
	return nil
}

func (t TripType) Value() (driver.Value, error) { return string(t), nil }
