package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/Harikishanth/HealBee-AI/internal/application/services"
	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

const maxGPSResultLimit = 50

// FacilityLocator is the search surface the facility endpoints depend on.
type FacilityLocator interface {
	Locate(ctx context.Context, locationText string) services.SearchResult
	SearchByGPS(ctx context.Context, q services.GPSQuery) []entities.Facility
	HintsFor(names []string) []string
}

// FacilityHandler handles nearby-facility endpoints
type FacilityHandler struct {
	locator FacilityLocator
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(locator FacilityLocator) *FacilityHandler {
	return &FacilityHandler{locator: locator}
}

// FacilityResponse is a Facility plus a ready-made directions link.
type FacilityResponse struct {
	entities.Facility
	DirectionsURL string `json:"directions_url"`
}

// FacilityListResponse is the envelope returned by both nearby endpoints.
type FacilityListResponse struct {
	Facilities []FacilityResponse `json:"facilities"`
	Count      int                `json:"count"`
	Source     string             `json:"source"`
}

// NearbyByLocation handles GET /api/facilities/nearby?location=...
func (h *FacilityHandler) NearbyByLocation(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		respondWithError(w, r, http.StatusBadRequest, "location parameter is required")
		return
	}

	result := h.locator.Locate(r.Context(), location)
	h.respondWithFacilities(w, r, result.Facilities, result.Source)
}

// NearbyByGPS handles GET /api/facilities/nearby/gps?lat=...&lon=...&radius=...&conditions=...&limit=...
func (h *FacilityHandler) NearbyByGPS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, err := parseCoordinate(query.Get("lat"), 90)
	if err != "" {
		respondWithError(w, r, http.StatusBadRequest, "lat "+err)
		return
	}
	lon, err := parseCoordinate(query.Get("lon"), 180)
	if err != "" {
		respondWithError(w, r, http.StatusBadRequest, "lon "+err)
		return
	}

	radius, ok := parseOptionalInt(query.Get("radius"))
	if !ok {
		respondWithError(w, r, http.StatusBadRequest, "invalid radius parameter")
		return
	}
	limit, ok := parseOptionalInt(query.Get("limit"))
	if !ok || limit < 0 {
		respondWithError(w, r, http.StatusBadRequest, "invalid limit parameter")
		return
	}
	if limit > maxGPSResultLimit {
		limit = maxGPSResultLimit
	}

	var hints []string
	if conditions := splitList(query.Get("conditions")); len(conditions) > 0 {
		hints = h.locator.HintsFor(conditions)
	}

	facilities := h.locator.SearchByGPS(r.Context(), services.GPSQuery{
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		Hints:        hints,
		Limit:        limit,
	})

	source := services.SourceProximity
	if len(facilities) == 0 {
		source = services.SourceNone
	}
	h.respondWithFacilities(w, r, facilities, source)
}

// ConditionHints handles GET /api/condition-hints?conditions=a,b
func (h *FacilityHandler) ConditionHints(w http.ResponseWriter, r *http.Request) {
	hints := h.locator.HintsFor(splitList(r.URL.Query().Get("conditions")))
	respondWithJSON(w, r, http.StatusOK, map[string][]string{
		"hints": hints,
	})
}

func (h *FacilityHandler) respondWithFacilities(w http.ResponseWriter, r *http.Request, facilities []entities.Facility, source string) {
	out := make([]FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, FacilityResponse{
			Facility:      f,
			DirectionsURL: services.DirectionsLink(f.Lat, f.Lon),
		})
	}

	// Empty lists usually mean an upstream hiccup; keep them out of shared caches
	if len(out) == 0 {
		w.Header().Set("Cache-Control", "no-store")
	}

	respondWithJSON(w, r, http.StatusOK, FacilityListResponse{
		Facilities: out,
		Count:      len(out),
		Source:     source,
	})
}

// parseCoordinate returns a non-empty problem description when raw is missing, malformed or out of range.
func parseCoordinate(raw string, bound float64) (float64, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "parameter is required"
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, "parameter is not a number"
	}
	if v < -bound || v > bound {
		return 0, "parameter is out of range"
	}
	return v, ""
}

func parseOptionalInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
