package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

// LocationGeocoder resolves free text to a coordinate.
type LocationGeocoder interface {
	Geocode(ctx context.Context, text string) (entities.Coordinate, bool)
}

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	geocoder LocationGeocoder
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(geocoder LocationGeocoder) *GeolocationHandler {
	return &GeolocationHandler{geocoder: geocoder}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		respondWithError(w, r, http.StatusBadRequest, "address parameter is required")
		return
	}

	coords, ok := h.geocoder.Geocode(r.Context(), address)
	if !ok {
		respondWithError(w, r, http.StatusNotFound, "location not found")
		return
	}

	respondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"address": address,
		"lat":     coords.Latitude,
		"lon":     coords.Longitude,
	})
}
