package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
)

// Result sources reported alongside text-location searches.
const (
	SourceProximity  = "overpass"
	SourceTextSearch = "text_search"
	SourceNone       = "none"
)

// LocatorOptions holds the caps and radii used by the two search entry points.
type LocatorOptions struct {
	LocationRadiusMeters   int
	LocationCandidateLimit int
	FallbackPerTierLimit   int
	FallbackResultLimit    int
	GPSRadiusMeters        int
	GPSResultLimit         int
}

// DefaultLocatorOptions returns the stock radii and caps.
func DefaultLocatorOptions() LocatorOptions {
	return LocatorOptions{
		LocationRadiusMeters:   8000,
		LocationCandidateLimit: 20,
		FallbackPerTierLimit:   8,
		FallbackResultLimit:    30,
		GPSRadiusMeters:        10000,
		GPSResultLimit:         6,
	}
}

func (o LocatorOptions) withDefaults() LocatorOptions {
	d := DefaultLocatorOptions()
	if o.LocationRadiusMeters <= 0 {
		o.LocationRadiusMeters = d.LocationRadiusMeters
	}
	if o.LocationCandidateLimit <= 0 {
		o.LocationCandidateLimit = d.LocationCandidateLimit
	}
	if o.FallbackPerTierLimit <= 0 {
		o.FallbackPerTierLimit = d.FallbackPerTierLimit
	}
	if o.FallbackResultLimit <= 0 {
		o.FallbackResultLimit = d.FallbackResultLimit
	}
	if o.GPSRadiusMeters <= 0 {
		o.GPSRadiusMeters = d.GPSRadiusMeters
	}
	if o.GPSResultLimit <= 0 {
		o.GPSResultLimit = d.GPSResultLimit
	}
	return o
}

// GPSQuery describes a search around a known coordinate. Zero values take the defaults;
// any other radius, negative included, is clamped into the engine's band.
type GPSQuery struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Hints        []string
	Limit        int
}

// SearchResult is a text-location search outcome together with the tier that produced it.
type SearchResult struct {
	Facilities []entities.Facility
	Source     string
}

// FacilityLocatorService composes geocoding, proximity lookup and text-search fallback
// into the text-location and GPS search entry points.
type FacilityLocatorService struct {
	resolver *LocationResolver
	engine   *FacilityQueryEngine
	hints    *ConditionHints
	opts     LocatorOptions
}

// NewFacilityLocatorService creates a new locator service
func NewFacilityLocatorService(resolver *LocationResolver, engine *FacilityQueryEngine, hints *ConditionHints, opts LocatorOptions) *FacilityLocatorService {
	if hints == nil {
		hints = NewConditionHints()
	}
	return &FacilityLocatorService{
		resolver: resolver,
		engine:   engine,
		hints:    hints,
		opts:     opts.withDefaults(),
	}
}

// Search returns facilities near a free-text location. It never returns nil.
func (s *FacilityLocatorService) Search(ctx context.Context, locationText string) []entities.Facility {
	return s.Locate(ctx, locationText).Facilities
}

// Locate runs the text-location search: geocode then proximity query, falling back
// to per-tier text search when either step comes back empty.
func (s *FacilityLocatorService) Locate(ctx context.Context, locationText string) SearchResult {
	locationText = strings.TrimSpace(locationText)
	if locationText == "" {
		return SearchResult{Facilities: []entities.Facility{}, Source: SourceNone}
	}

	ctx, span := observability.StartSpan(ctx, "FacilityLocatorService.Locate")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("location.text", locationText))

	logger := observability.LoggerFromContext(ctx)

	if center, ok := s.resolver.Resolve(ctx, locationText); ok {
		batch := s.engine.Nearby(ctx, center, s.opts.LocationRadiusMeters)
		facilities := truncate(Dedupe(extractAll(batch.Candidates)), s.opts.LocationCandidateLimit)
		if len(facilities) > 0 {
			logger.Info().
				Str("location", locationText).
				Int("count", len(facilities)).
				Msg("facilities found by proximity query")
			observability.SetSpanAttributes(span, attribute.String("result.source", SourceProximity))
			return SearchResult{Facilities: facilities, Source: SourceProximity}
		}
	}

	facilities := s.textSearchFallback(ctx, locationText)
	source := SourceTextSearch
	if len(facilities) == 0 {
		source = SourceNone
	}
	logger.Info().
		Str("location", locationText).
		Str("source", source).
		Int("count", len(facilities)).
		Msg("text search fallback finished")
	observability.SetSpanAttributes(span, attribute.String("result.source", source))

	return SearchResult{Facilities: facilities, Source: source}
}

// SearchByGPS returns the facilities around a known coordinate ranked against the hints.
// There is no geocoding step and no text-search fallback. It never returns nil.
func (s *FacilityLocatorService) SearchByGPS(ctx context.Context, q GPSQuery) []entities.Facility {
	radius := q.RadiusMeters
	if radius == 0 {
		radius = s.opts.GPSRadiusMeters
	}
	hints := q.Hints
	if len(hints) == 0 {
		hints = DefaultHints()
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.opts.GPSResultLimit
	}

	ctx, span := observability.StartSpan(ctx, "FacilityLocatorService.SearchByGPS")
	defer span.End()

	center := entities.Coordinate{Latitude: q.Latitude, Longitude: q.Longitude}
	batch := s.engine.Nearby(ctx, center, radius)
	facilities := Rank(Dedupe(extractAll(batch.Candidates)), hints, limit)

	observability.SetSpanAttributes(span, attribute.Int("result.count", len(facilities)))
	observability.LoggerFromContext(ctx).Debug().
		Float64("lat", q.Latitude).
		Float64("lon", q.Longitude).
		Strs("hints", hints).
		Int("count", len(facilities)).
		Msg("gps facility search finished")

	return facilities
}

// HintsFor maps condition names to ranking keywords.
func (s *FacilityLocatorService) HintsFor(names []string) []string {
	return s.hints.HintsFor(names)
}

// DirectionsLink returns a map directions URL for a facility coordinate.
func (s *FacilityLocatorService) DirectionsLink(lat, lon string) string {
	return DirectionsLink(lat, lon)
}

// Geocode exposes the location resolver for callers that only need a coordinate.
func (s *FacilityLocatorService) Geocode(ctx context.Context, text string) (entities.Coordinate, bool) {
	return s.resolver.Resolve(ctx, text)
}

func (s *FacilityLocatorService) textSearchFallback(ctx context.Context, locationText string) []entities.Facility {
	limit := s.opts.FallbackResultLimit
	out := make([]entities.Facility, 0, limit)
	seen := make(map[FacilityKey]struct{})

	for _, tier := range s.engine.TextSearch(ctx, locationText, s.opts.FallbackPerTierLimit) {
		for _, match := range tier.Matches {
			if len(out) >= limit {
				return out
			}
			lat, lon := strings.TrimSpace(match.Lat), strings.TrimSpace(match.Lon)
			if _, _, ok := parseLatLon(lat, lon); !ok {
				continue
			}
			key := FacilityKey{Lat: lat, Lon: lon, Text: truncateRunes(match.DisplayName, displayKeyLength)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, entities.Facility{
				Name:    placeName(match),
				Type:    tier.Tier,
				Address: strings.TrimSpace(match.DisplayName),
				Lat:     lat,
				Lon:     lon,
			})
		}
	}
	return out
}

func extractAll(candidates []entities.RawCandidate) []entities.Facility {
	out := make([]entities.Facility, 0, len(candidates))
	for _, c := range candidates {
		if f, ok := ExtractFacility(c); ok {
			out = append(out, f)
		}
	}
	return out
}

// placeName prefers the explicit name, then the first segment of the display name.
func placeName(m entities.PlaceMatch) string {
	if name := strings.TrimSpace(m.Name); name != "" {
		return name
	}
	first, _, _ := strings.Cut(m.DisplayName, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return entities.UnnamedPlaceholder
}
