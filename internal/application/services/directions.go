package services

import (
	"net/url"
	"strings"
)

const directionsBaseURL = "https://www.openstreetmap.org/directions"

// DirectionsLink returns an OpenStreetMap directions URL ending at lat,lon, or "" when either is blank.
func DirectionsLink(lat, lon string) string {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return ""
	}
	return directionsBaseURL + "?from=&to=" + url.QueryEscape(lat+","+lon)
}
