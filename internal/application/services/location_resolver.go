package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/domain/providers"
	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
	apperrors "github.com/Harikishanth/HealBee-AI/pkg/errors"
	"github.com/Harikishanth/HealBee-AI/pkg/throttle"
)

const (
	geocodeServiceName    = "nominatim"
	defaultGeocodeTimeout = 15 * time.Second
)

// LocationResolver turns free-text place descriptions into coordinates with a single best-effort lookup.
type LocationResolver struct {
	geocoder providers.GeocodingProvider
	pacer    *throttle.Pacer
	timeout  time.Duration
	metrics  *observability.Metrics
}

// NewLocationResolver creates a resolver. A nil pacer disables the courtesy pause; a non-positive timeout uses 15s.
func NewLocationResolver(geocoder providers.GeocodingProvider, pacer *throttle.Pacer, timeout time.Duration, metrics *observability.Metrics) *LocationResolver {
	if timeout <= 0 {
		timeout = defaultGeocodeTimeout
	}
	return &LocationResolver{
		geocoder: geocoder,
		pacer:    pacer,
		timeout:  timeout,
		metrics:  metrics,
	}
}

// Resolve returns the coordinate of the best match for text, or false when nothing usable was found.
// Failures are logged and never retried.
func (r *LocationResolver) Resolve(ctx context.Context, text string) (entities.Coordinate, bool) {
	coord, err := r.lookup(ctx, text)
	if err != nil {
		logger := observability.LoggerFromContext(ctx)
		if apperrors.IsType(err, apperrors.ErrorTypeExternal) {
			logger.Warn().Err(err).Str("location", text).Msg("geocoding failed")
		} else {
			logger.Debug().Err(err).Str("location", text).Msg("location not resolved")
		}
		return entities.Coordinate{}, false
	}
	return coord, true
}

func (r *LocationResolver) lookup(ctx context.Context, text string) (entities.Coordinate, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.Coordinate{}, apperrors.NewValidationError("location text is empty")
	}
	if r.geocoder == nil {
		return entities.Coordinate{}, apperrors.NewInternalError("no geocoding provider configured", nil)
	}

	ctx, span := observability.StartSpan(ctx, "LocationResolver.Resolve")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("location.text", text))

	if err := r.pacer.Wait(ctx); err != nil {
		return entities.Coordinate{}, apperrors.NewExternalError("geocoding cancelled", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	matches, err := r.geocoder.Search(callCtx, text, 1)
	if err != nil {
		observability.RecordError(span, err)
		observability.RecordUpstreamCall(ctx, r.metrics, geocodeServiceName, observability.OutcomeError, time.Since(start))
		return entities.Coordinate{}, err
	}

	coord, err := firstCoordinate(matches)
	outcome := observability.OutcomeSuccess
	if err != nil {
		outcome = observability.OutcomeEmpty
	}
	observability.RecordUpstreamCall(ctx, r.metrics, geocodeServiceName, outcome, time.Since(start))
	return coord, err
}

func firstCoordinate(matches []entities.PlaceMatch) (entities.Coordinate, error) {
	if len(matches) == 0 {
		return entities.Coordinate{}, apperrors.NewNotFoundError("no geocoding match")
	}
	lat, lon, ok := parseLatLon(matches[0].Lat, matches[0].Lon)
	if !ok {
		return entities.Coordinate{}, apperrors.NewNotFoundError("geocoding match has no usable coordinate")
	}
	return entities.Coordinate{Latitude: lat, Longitude: lon}, nil
}

// parseLatLon parses both values as floats; blank or malformed values fail.
func parseLatLon(latText, lonText string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
