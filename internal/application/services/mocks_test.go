package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

type MockGeocodingProvider struct {
	mock.Mock
}

func (m *MockGeocodingProvider) Search(ctx context.Context, query string, limit int) ([]entities.PlaceMatch, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PlaceMatch), args.Error(1)
}

type MockPOIProvider struct {
	mock.Mock
}

func (m *MockPOIProvider) HealthcareAround(ctx context.Context, center entities.Coordinate, radiusMeters int) ([]entities.RawCandidate, error) {
	args := m.Called(ctx, center, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.RawCandidate), args.Error(1)
}

func node(id int64, lat, lon float64, tags map[string]any) entities.RawCandidate {
	return entities.RawCandidate{
		ID:       id,
		Geometry: entities.PointGeometry{Position: &entities.Coordinate{Latitude: lat, Longitude: lon}},
		Tags:     tags,
	}
}

func way(id int64, lat, lon float64, tags map[string]any) entities.RawCandidate {
	return entities.RawCandidate{
		ID:       id,
		Geometry: entities.AreaGeometry{Center: &entities.Coordinate{Latitude: lat, Longitude: lon}},
		Tags:     tags,
	}
}
