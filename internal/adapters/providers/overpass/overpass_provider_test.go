package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	apperrors "github.com/Harikishanth/HealBee-AI/pkg/errors"
)

func TestBuildHealthcareQuery(t *testing.T) {
	query := BuildHealthcareQuery(entities.Coordinate{Latitude: 12.9815, Longitude: 80.218}, 8000, 25)

	assert.True(t, strings.HasPrefix(query, "[out:json][timeout:25];"))
	assert.Contains(t, query, `node(around:8000,12.9815,80.218)["amenity"~"hospital|clinic|doctors"];`)
	assert.Contains(t, query, `node(around:8000,12.9815,80.218)["healthcare"];`)
	assert.Contains(t, query, `way(around:8000,12.9815,80.218)["amenity"~"hospital|clinic|doctors"];`)
	assert.Contains(t, query, `way(around:8000,12.9815,80.218)["healthcare"];`)
	assert.Contains(t, query, "out center body;")
}

func TestHealthcareAround_DecodesElementsInOrder(t *testing.T) {
	var gotData, gotAgent, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAgent = r.Header.Get("User-Agent")
		assert.NoError(t, r.ParseForm())
		gotData = r.PostForm.Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "elements": [
    {"type": "node", "id": 1, "lat": 12.98, "lon": 80.21, "tags": {"amenity": "hospital", "name": "City Hospital"}},
    {"type": "way", "id": 2, "center": {"lat": 12.99, "lon": 80.22}, "tags": {"healthcare": "clinic", "name": ["Skin Care", "Alt"]}},
    {"type": "node", "id": 3, "tags": {"amenity": "clinic"}},
    {"type": "area", "id": 4, "tags": {}},
    {"type": "way", "id": 5}
  ]
}`))
	}))
	defer server.Close()

	provider := NewProviderWithOptions(server.URL, "test-agent/1.0", 25, server.Client())
	candidates, err := provider.HealthcareAround(context.Background(), entities.Coordinate{Latitude: 12.98, Longitude: 80.21}, 500)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "test-agent/1.0", gotAgent)
	assert.Contains(t, gotData, "around:500,12.98,80.21")

	require.Len(t, candidates, 4)
	assert.Equal(t, int64(1), candidates[0].ID)
	point, ok := candidates[0].Geometry.(entities.PointGeometry)
	require.True(t, ok)
	require.NotNil(t, point.Position)
	assert.Equal(t, 12.98, point.Position.Latitude)
	assert.Equal(t, "City Hospital", candidates[0].Tags["name"])

	area, ok := candidates[1].Geometry.(entities.AreaGeometry)
	require.True(t, ok)
	require.NotNil(t, area.Center)
	assert.Equal(t, 80.22, area.Center.Longitude)
	assert.Equal(t, []any{"Skin Care", "Alt"}, candidates[1].Tags["name"])

	missing, ok := candidates[2].Geometry.(entities.PointGeometry)
	require.True(t, ok)
	assert.Nil(t, missing.Position)

	assert.Equal(t, int64(5), candidates[3].ID)
	_, ok = candidates[3].Geometry.(entities.AreaGeometry)
	assert.True(t, ok)
	assert.NotNil(t, candidates[3].Tags)
}

func TestHealthcareAround_RemarkWithoutElementsIsExternalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": [], "remark": "runtime error: Query timed out"}`))
	}))
	defer server.Close()

	provider := NewProviderWithOptions(server.URL, "", 0, server.Client())
	candidates, err := provider.HealthcareAround(context.Background(), entities.Coordinate{}, 1000)

	require.Error(t, err)
	assert.Nil(t, candidates)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

func TestHealthcareAround_EmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	provider := NewProviderWithOptions(server.URL, "", 0, server.Client())
	candidates, err := provider.HealthcareAround(context.Background(), entities.Coordinate{}, 1000)

	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestHealthcareAround_FailuresAreExternalErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "gateway timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusGatewayTimeout)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>busy</html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			provider := NewProviderWithOptions(server.URL, "", 0, server.Client())
			_, err := provider.HealthcareAround(context.Background(), entities.Coordinate{}, 1000)

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
		})
	}
}

func TestHealthcareAround_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := NewProviderWithOptions(server.URL, "", 0, server.Client())
	_, err := provider.HealthcareAround(ctx, entities.Coordinate{}, 1000)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}
