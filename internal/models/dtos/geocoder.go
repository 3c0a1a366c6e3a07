package dtos

// NominatimPlace is one element of a Nominatim /search response
// (format=json, addressdetails=1).
type NominatimPlace struct {
	PlaceID     int64            `json:"place_id"`
	OsmID       int64            `json:"osm_id"`
	OsmType     string           `json:"osm_type"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Class       string           `json:"class"`
	Type        string           `json:"type"`
	AddressType string           `json:"addresstype"`
	Importance  float64          `json:"importance"`
	Address     NominatimAddress `json:"address"`
}

type NominatimAddress struct {
	City         string `json:"city,omitempty"`
	Town         string `json:"town,omitempty"`
	Village      string `json:"village,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	County       string `json:"county,omitempty"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

// Locality picks the most specific settlement name Nominatim returned.
func (a NominatimAddress) Locality() string {
	for _, v := range []string{a.City, a.Town, a.Village, a.Municipality, a.County, a.State} {
		if v != "" {
			return v
		}
	}
	return ""
}
