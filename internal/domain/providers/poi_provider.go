package providers

import (
	"context"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

// PointOfInterestProvider defines the proximity POI query service
type PointOfInterestProvider interface {
	// HealthcareAround returns healthcare elements within radiusMeters of center, in upstream order
	HealthcareAround(ctx context.Context, center entities.Coordinate, radiusMeters int) ([]entities.RawCandidate, error)
}
