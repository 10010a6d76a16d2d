package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/domain/providers"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
	apperrors "github.com/Harikishanth/HealBee-AI/pkg/errors"
	"github.com/Harikishanth/HealBee-AI/pkg/throttle"
)

const (
	poiServiceName          = "overpass"
	defaultProximityTimeout = 30 * time.Second
	defaultMinRadius        = 500
	defaultMaxRadius        = 15000
)

// TextSearchTiers are the facility-type queries run, in order, by the text-search fallback.
var TextSearchTiers = []string{"hospital", "clinic", "primary health centre", "PHC"}

// CandidateBatch is the outcome of one proximity query.
// Err is set when the upstream call failed; Candidates is then empty.
type CandidateBatch struct {
	Candidates []entities.RawCandidate
	Err        error
}

// Empty reports whether the batch carries no candidates.
func (b CandidateBatch) Empty() bool {
	return len(b.Candidates) == 0
}

// TierResult holds the rows returned for one text-search tier.
type TierResult struct {
	Tier    string
	Matches []entities.PlaceMatch
	Err     error
}

// QueryEngineOptions tunes the facility query engine.
type QueryEngineOptions struct {
	MinRadiusMeters   int
	MaxRadiusMeters   int
	ProximityTimeout  time.Duration
	TextSearchTimeout time.Duration
	Pacer             *throttle.Pacer
	Metrics           *observability.Metrics
}

// FacilityQueryEngine issues the proximity POI query and the text-search fallback queries.
type FacilityQueryEngine struct {
	pois       providers.PointOfInterestProvider
	geocoder   providers.GeocodingProvider
	minRadius  int
	maxRadius  int
	poiTimeout time.Duration
	txtTimeout time.Duration
	pacer      *throttle.Pacer
	metrics    *observability.Metrics
}

// NewFacilityQueryEngine creates a query engine. Zero options take the defaults.
func NewFacilityQueryEngine(pois providers.PointOfInterestProvider, geocoder providers.GeocodingProvider, opts QueryEngineOptions) *FacilityQueryEngine {
	if opts.MinRadiusMeters <= 0 {
		opts.MinRadiusMeters = defaultMinRadius
	}
	if opts.MaxRadiusMeters <= 0 {
		opts.MaxRadiusMeters = defaultMaxRadius
	}
	if opts.MaxRadiusMeters < opts.MinRadiusMeters {
		opts.MaxRadiusMeters = opts.MinRadiusMeters
	}
	if opts.ProximityTimeout <= 0 {
		opts.ProximityTimeout = defaultProximityTimeout
	}
	if opts.TextSearchTimeout <= 0 {
		opts.TextSearchTimeout = defaultGeocodeTimeout
	}
	return &FacilityQueryEngine{
		pois:       pois,
		geocoder:   geocoder,
		minRadius:  opts.MinRadiusMeters,
		maxRadius:  opts.MaxRadiusMeters,
		poiTimeout: opts.ProximityTimeout,
		txtTimeout: opts.TextSearchTimeout,
		pacer:      opts.Pacer,
		metrics:    opts.Metrics,
	}
}

// ClampRadius forces radius into the configured band.
func (e *FacilityQueryEngine) ClampRadius(radius int) int {
	if radius < e.minRadius {
		return e.minRadius
	}
	if radius > e.maxRadius {
		return e.maxRadius
	}
	return radius
}

// Nearby runs one proximity query around center. It never returns an error directly;
// failures are recorded on the batch and logged.
func (e *FacilityQueryEngine) Nearby(ctx context.Context, center entities.Coordinate, radius int) CandidateBatch {
	radius = e.ClampRadius(radius)

	ctx, span := observability.StartSpan(ctx, "FacilityQueryEngine.Nearby")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.Float64("geo.lat", center.Latitude),
		attribute.Float64("geo.lon", center.Longitude),
		attribute.Int("geo.radius_m", radius),
		attribute.Int64("throttle.interval_ms", e.pacer.Interval().Milliseconds()),
	)

	logger := observability.LoggerFromContext(ctx)

	if e.pois == nil {
		return CandidateBatch{Candidates: []entities.RawCandidate{}, Err: apperrors.NewInternalError("no POI provider configured", nil)}
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return CandidateBatch{Candidates: []entities.RawCandidate{}, Err: apperrors.NewExternalError("proximity query cancelled", err)}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.poiTimeout)
	defer cancel()

	start := time.Now()
	candidates, err := e.pois.HealthcareAround(callCtx, center, radius)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordUpstreamCall(ctx, e.metrics, poiServiceName, observability.OutcomeError, time.Since(start))
		logger.Warn().Err(err).Int("radius_m", radius).Msg("proximity query failed")
		return CandidateBatch{Candidates: []entities.RawCandidate{}, Err: err}
	}

	outcome := observability.OutcomeSuccess
	if len(candidates) == 0 {
		outcome = observability.OutcomeEmpty
	}
	observability.RecordUpstreamCall(ctx, e.metrics, poiServiceName, outcome, time.Since(start))
	observability.SetSpanAttributes(span, attribute.Int("poi.candidates", len(candidates)))

	if candidates == nil {
		candidates = []entities.RawCandidate{}
	}
	return CandidateBatch{Candidates: candidates}
}

// TextSearch runs every fallback tier in order as "<tier> in <location>".
// A failed tier yields no rows and does not stop later tiers.
func (e *FacilityQueryEngine) TextSearch(ctx context.Context, location string, perTier int) []TierResult {
	if perTier <= 0 {
		perTier = 1
	}

	ctx, span := observability.StartSpan(ctx, "FacilityQueryEngine.TextSearch")
	defer span.End()
	observability.SetSpanAttributes(span,
		attribute.String("location.text", location),
		attribute.Int64("throttle.interval_ms", e.pacer.Interval().Milliseconds()),
	)

	logger := observability.LoggerFromContext(ctx)
	results := make([]TierResult, 0, len(TextSearchTiers))

	for _, tier := range TextSearchTiers {
		result := TierResult{Tier: tier, Matches: []entities.PlaceMatch{}}
		matches, err := e.searchTier(ctx, fmt.Sprintf("%s in %s", tier, location), perTier)
		if err != nil {
			result.Err = err
			logger.Warn().Err(err).Str("tier", tier).Msg("text search tier failed")
		} else if matches != nil {
			result.Matches = matches
		}
		results = append(results, result)
	}

	return results
}

func (e *FacilityQueryEngine) searchTier(ctx context.Context, query string, limit int) ([]entities.PlaceMatch, error) {
	if e.geocoder == nil {
		return nil, apperrors.NewInternalError("no geocoding provider configured", nil)
	}
	if err := e.pacer.Wait(ctx); err != nil {
		return nil, apperrors.NewExternalError("text search cancelled", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, e.txtTimeout)
	defer cancel()

	start := time.Now()
	matches, err := e.geocoder.Search(callCtx, query, limit)
	if err != nil {
		observability.RecordUpstreamCall(ctx, e.metrics, geocodeServiceName, observability.OutcomeError, time.Since(start))
		return nil, err
	}

	outcome := observability.OutcomeSuccess
	if len(matches) == 0 {
		outcome = observability.OutcomeEmpty
	}
	observability.RecordUpstreamCall(ctx, e.metrics, geocodeServiceName, outcome, time.Since(start))
	return matches, nil
}
