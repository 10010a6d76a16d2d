package entities

// Facility is the canonical record handed to chat formatting and map rendering.
// Every field is a plain string; unknown contact details are "" rather than absent.
type Facility struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
}

const (
	// DefaultFacilityName is used when an element carries no usable name.
	DefaultFacilityName = "Healthcare facility"

	// DefaultFacilityType is used when an element carries neither amenity nor healthcare tags.
	DefaultFacilityType = "healthcare"

	// UnnamedPlaceholder is the display name of text-search rows with no name at all.
	UnnamedPlaceholder = "—"
)

// Coordinate represents geographical coordinates in degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
