package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

func TestExtractFacility_PointWithFullTags(t *testing.T) {
	c := node(1, 12.9815, 80.218, map[string]any{
		"name":             " Apollo Spectra ",
		"amenity":          "hospital",
		"addr:street":      "Velachery Main Road",
		"addr:housenumber": "12",
		"addr:city":        "Chennai",
		"addr:postcode":    "600042",
		"contact:phone":    []any{"+91 44 1234 5678", "+91 44 0000 0000"},
		"phone":            "ignored",
		"website":          "https://example.org",
	})

	f, ok := ExtractFacility(c)
	require.True(t, ok)

	assert.Equal(t, entities.Facility{
		Name:    "Apollo Spectra",
		Type:    "hospital",
		Address: "Velachery Main Road, 12, Chennai, 600042",
		Phone:   "+91 44 1234 5678",
		Website: "https://example.org",
		Lat:     "12.9815",
		Lon:     "80.218",
	}, f)
}

func TestExtractFacility_NameFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		c        entities.RawCandidate
		expected string
	}{
		{"brand when no name", node(1, 1, 2, map[string]any{"brand": "Apollo Pharmacy"}), "Apollo Pharmacy"},
		{"node ignores street", node(1, 1, 2, map[string]any{"addr:street": "Main Road"}), entities.DefaultFacilityName},
		{"area uses street", way(1, 1, 2, map[string]any{"addr:street": "Main Road", "addr:full": "1 Main Road"}), "Main Road"},
		{"area uses full address", way(1, 1, 2, map[string]any{"addr:full": "1 Main Road"}), "1 Main Road"},
		{"blank name is skipped", node(1, 1, 2, map[string]any{"name": "   ", "brand": "Brand"}), "Brand"},
		{"nothing usable", node(1, 1, 2, nil), entities.DefaultFacilityName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := ExtractFacility(tt.c)
			require.True(t, ok)
			assert.Equal(t, tt.expected, f.Name)
		})
	}
}

func TestExtractFacility_TypeAndContactFallbacks(t *testing.T) {
	f, ok := ExtractFacility(way(2, 13, 80, map[string]any{
		"healthcare":     "dentist",
		"contact:mobile": "98400",
		"contact:url":    []any{"https://dental.example"},
	}))
	require.True(t, ok)

	assert.Equal(t, "dentist", f.Type)
	assert.Equal(t, "98400", f.Phone)
	assert.Equal(t, "https://dental.example", f.Website)
	assert.Equal(t, "", f.Address)

	f, ok = ExtractFacility(node(3, 13, 80, map[string]any{"name": "X", "phone": 4412345.0}))
	require.True(t, ok)
	assert.Equal(t, entities.DefaultFacilityType, f.Type)
	assert.Equal(t, "4412345", f.Phone)
	assert.Equal(t, "", f.Website)
}

func TestExtractFacility_RejectsMissingCoordinate(t *testing.T) {
	tests := []struct {
		name string
		c    entities.RawCandidate
	}{
		{"point without position", entities.RawCandidate{Geometry: entities.PointGeometry{}, Tags: map[string]any{"name": "A"}}},
		{"area without center", entities.RawCandidate{Geometry: entities.AreaGeometry{}, Tags: map[string]any{"name": "B"}}},
		{"no geometry", entities.RawCandidate{Tags: map[string]any{"name": "C"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractFacility(tt.c)
			assert.False(t, ok)
		})
	}
}

func TestScalarText_EmptyList(t *testing.T) {
	assert.Equal(t, "", scalarText([]any{}))
	assert.Equal(t, "", scalarText(nil))
	assert.Equal(t, "true", scalarText(true))
}
