package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Harikishanth/HealBee-AI/internal/api/handlers"
	"github.com/Harikishanth/HealBee-AI/internal/application/services"
	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

type MockFacilityLocator struct {
	mock.Mock
}

func (m *MockFacilityLocator) Locate(ctx context.Context, locationText string) services.SearchResult {
	args := m.Called(ctx, locationText)
	return args.Get(0).(services.SearchResult)
}

func (m *MockFacilityLocator) SearchByGPS(ctx context.Context, q services.GPSQuery) []entities.Facility {
	args := m.Called(ctx, q)
	return args.Get(0).([]entities.Facility)
}

func (m *MockFacilityLocator) HintsFor(names []string) []string {
	args := m.Called(names)
	return args.Get(0).([]string)
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) handlers.FacilityListResponse {
	t.Helper()
	var resp handlers.FacilityListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNearbyByLocation_Success(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("Locate", mock.Anything, "Velachery").Return(services.SearchResult{
		Facilities: []entities.Facility{{
			Name: "Kamakshi Hospital", Type: "hospital", Phone: "+91 44 2244", Lat: "12.98", Lon: "80.21",
		}},
		Source: services.SourceProximity,
	})

	handler := handlers.NewFacilityHandler(locator)
	req := httptest.NewRequest(http.MethodGet, "/api/facilities/nearby?location=%20Velachery%20", nil)
	rec := httptest.NewRecorder()
	handler.NearbyByLocation(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeList(t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "overpass", resp.Source)
	require.Len(t, resp.Facilities, 1)
	assert.Equal(t, "Kamakshi Hospital", resp.Facilities[0].Name)
	assert.Equal(t, "https://www.openstreetmap.org/directions?from=&to=12.98%2C80.21", resp.Facilities[0].DirectionsURL)
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	locator.AssertExpectations(t)
}

func TestNearbyByLocation_FlatJSONShape(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("Locate", mock.Anything, "Adyar").Return(services.SearchResult{
		Facilities: []entities.Facility{{Name: "Clinic", Type: "clinic", Lat: "13", Lon: "80.25"}},
		Source:     services.SourceTextSearch,
	})

	handler := handlers.NewFacilityHandler(locator)
	rec := httptest.NewRecorder()
	handler.NearbyByLocation(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby?location=Adyar", nil))

	assert.JSONEq(t, `{
  "facilities": [{
    "name": "Clinic", "type": "clinic", "address": "", "phone": "", "website": "",
    "lat": "13", "lon": "80.25",
    "directions_url": "https://www.openstreetmap.org/directions?from=&to=13%2C80.25"
  }],
  "count": 1,
  "source": "text_search"
}`, rec.Body.String())
}

func TestNearbyByLocation_MissingLocation(t *testing.T) {
	locator := new(MockFacilityLocator)
	handler := handlers.NewFacilityHandler(locator)

	rec := httptest.NewRecorder()
	handler.NearbyByLocation(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby?location=%20", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	locator.AssertNotCalled(t, "Locate", mock.Anything, mock.Anything)
}

func TestNearbyByLocation_EmptyResultIsNotCached(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("Locate", mock.Anything, "nowhere").Return(services.SearchResult{
		Facilities: []entities.Facility{},
		Source:     services.SourceNone,
	})

	handler := handlers.NewFacilityHandler(locator)
	rec := httptest.NewRecorder()
	handler.NearbyByLocation(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby?location=nowhere", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"facilities":[],"count":0,"source":"none"}`, rec.Body.String())
}

func TestNearbyByGPS_MapsConditionsToHints(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("HintsFor", []string{"dandruff", "hair fall"}).Return([]string{"dermatology", "skin", "clinic", "hospital"})
	locator.On("SearchByGPS", mock.Anything, services.GPSQuery{
		Latitude:     13.0,
		Longitude:    80.2,
		RadiusMeters: 3000,
		Hints:        []string{"dermatology", "skin", "clinic", "hospital"},
		Limit:        4,
	}).Return([]entities.Facility{{Name: "Skin Clinic", Type: "clinic", Lat: "13.01", Lon: "80.2"}})

	handler := handlers.NewFacilityHandler(locator)
	req := httptest.NewRequest(http.MethodGet, "/api/facilities/nearby/gps?lat=13.0&lon=80.2&radius=3000&conditions=dandruff,%20hair%20fall,&limit=4", nil)
	rec := httptest.NewRecorder()
	handler.NearbyByGPS(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeList(t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "overpass", resp.Source)
	locator.AssertExpectations(t)
}

func TestNearbyByGPS_DefaultsLeftToService(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("SearchByGPS", mock.Anything, services.GPSQuery{Latitude: -33.9, Longitude: 151.2}).
		Return([]entities.Facility{})

	handler := handlers.NewFacilityHandler(locator)
	rec := httptest.NewRecorder()
	handler.NearbyByGPS(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby/gps?lat=-33.9&lon=151.2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"facilities":[],"count":0,"source":"none"}`, rec.Body.String())
	locator.AssertNotCalled(t, "HintsFor", mock.Anything)
	locator.AssertExpectations(t)
}

func TestNearbyByGPS_CapsLimit(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("SearchByGPS", mock.Anything, mock.MatchedBy(func(q services.GPSQuery) bool {
		return q.Limit == 50
	})).Return([]entities.Facility{})

	handler := handlers.NewFacilityHandler(locator)
	rec := httptest.NewRecorder()
	handler.NearbyByGPS(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby/gps?lat=1&lon=2&limit=500", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	locator.AssertExpectations(t)
}

func TestNearbyByGPS_BadParameters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing lat", "lon=80.2"},
		{"missing lon", "lat=13"},
		{"non numeric lat", "lat=north&lon=80.2"},
		{"lat out of range", "lat=91&lon=80.2"},
		{"lon out of range", "lat=13&lon=-181"},
		{"bad radius", "lat=13&lon=80.2&radius=far"},
		{"bad limit", "lat=13&lon=80.2&limit=many"},
		{"negative limit", "lat=13&lon=80.2&limit=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locator := new(MockFacilityLocator)
			handler := handlers.NewFacilityHandler(locator)

			rec := httptest.NewRecorder()
			handler.NearbyByGPS(rec, httptest.NewRequest(http.MethodGet, "/api/facilities/nearby/gps?"+tt.query, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			locator.AssertNotCalled(t, "SearchByGPS", mock.Anything, mock.Anything)
		})
	}
}

func TestConditionHints(t *testing.T) {
	locator := new(MockFacilityLocator)
	locator.On("HintsFor", []string(nil)).Return([]string{"hospital", "clinic"})
	locator.On("HintsFor", []string{"dental pain"}).Return([]string{"dentist", "dental", "clinic", "hospital"})

	handler := handlers.NewFacilityHandler(locator)

	rec := httptest.NewRecorder()
	handler.ConditionHints(rec, httptest.NewRequest(http.MethodGet, "/api/condition-hints", nil))
	assert.JSONEq(t, `{"hints":["hospital","clinic"]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ConditionHints(rec, httptest.NewRequest(http.MethodGet, "/api/condition-hints?conditions=dental%20pain", nil))
	assert.JSONEq(t, `{"hints":["dentist","dental","clinic","hospital"]}`, rec.Body.String())
}
