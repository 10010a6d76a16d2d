package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/nominatim"
	"github.com/Harikishanth/HealBee-AI/internal/adapters/providers/overpass"
	"github.com/Harikishanth/HealBee-AI/internal/application/services"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, o options)
	}{
		{
			name: "location search",
			args: []string{"-location", " Velachery "},
			check: func(t *testing.T, o options) {
				assert.False(t, o.useGPS)
				assert.Equal(t, "Velachery", o.location)
			},
		},
		{
			name: "gps search at the origin",
			args: []string{"-lat", "0", "-lon", "0", "-conditions", "fever, cough,", "-limit", "3"},
			check: func(t *testing.T, o options) {
				assert.True(t, o.useGPS)
				assert.Equal(t, []string{"fever", "cough"}, o.conditions)
				assert.Equal(t, 3, o.limit)
			},
		},
		{name: "nothing given", args: nil, wantErr: true},
		{name: "lat without lon", args: []string{"-lat", "13"}, wantErr: true},
		{name: "both modes", args: []string{"-location", "x", "-lat", "1", "-lon", "2"}, wantErr: true},
		{name: "malformed number", args: []string{"-lat", "north", "-lon", "2"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestRun_GPSWritesJSON(t *testing.T) {
	poiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[{"type":"node","id":1,"lat":13.01,"lon":80.2,"tags":{"name":"Eye Hospital","amenity":"hospital"}}]}`))
	}))
	defer poiServer.Close()

	geocoder := nominatim.NewProviderWithOptions("http://127.0.0.1:0", "", nil)
	pois := overpass.NewProviderWithOptions(poiServer.URL, "", 25, poiServer.Client())
	locator := services.NewFacilityLocatorService(
		services.NewLocationResolver(geocoder, nil, 0, nil),
		services.NewFacilityQueryEngine(pois, geocoder, services.QueryEngineOptions{}),
		nil,
		services.DefaultLocatorOptions(),
	)

	var buf bytes.Buffer
	err := run(context.Background(), locator, options{useGPS: true, lat: 13, lon: 80.2, conditions: []string{"eye redness"}}, &buf)
	require.NoError(t, err)

	var out output
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "gps", out.Mode)
	assert.Equal(t, []string{"hospital", "clinic", "eye"}, out.Hints)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Eye Hospital", out.Facilities[0].Name)
}
