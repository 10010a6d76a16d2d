package providers

import (
	"context"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

// GeocodingProvider defines the free-text place search service
type GeocodingProvider interface {
	// Search runs one text query and returns at most limit matches, best first
	Search(ctx context.Context, query string, limit int) ([]entities.PlaceMatch, error)
}
