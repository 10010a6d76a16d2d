package entities

// PlaceMatch is one row returned by the text-geocoding service.
// Lat and Lon are kept verbatim; either may be empty when the row is incomplete.
type PlaceMatch struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}
