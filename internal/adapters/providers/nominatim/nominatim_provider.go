package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/domain/providers"
	apperrors "github.com/Harikishanth/HealBee-AI/pkg/errors"
)

const (
	defaultBaseURL     = "https://nominatim.openstreetmap.org"
	defaultHTTPTimeout = 15 * time.Second
	defaultUserAgent   = "HealBee/1.0 (health app; nominatim usage)"
)

// Provider implements GeocodingProvider against the Nominatim /search endpoint.
type Provider struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewProvider creates a Nominatim provider with default settings.
func NewProvider() *Provider {
	return NewProviderWithOptions(defaultBaseURL, defaultUserAgent, nil)
}

// NewProviderWithOptions allows overriding base URL, user agent and HTTP client (used for tests).
func NewProviderWithOptions(baseURL, userAgent string, httpClient *http.Client) *Provider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// Search runs a single free-text search capped at limit rows.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]entities.PlaceMatch, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("query is required")
	}
	if limit <= 0 {
		limit = 1
	}

	params := url.Values{}
	params.Set("q", trimmed)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(limit))

	reqURL := fmt.Sprintf("%s/search?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build search request", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("search returned status %d", resp.StatusCode), nil)
	}

	var rows []searchRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, apperrors.NewExternalError("failed to decode search response", err)
	}

	matches := make([]entities.PlaceMatch, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, entities.PlaceMatch{
			Lat:         scalarString(row.Lat),
			Lon:         scalarString(row.Lon),
			Name:        strings.TrimSpace(scalarString(row.Name)),
			DisplayName: scalarString(row.DisplayName),
		})
	}
	return matches, nil
}

var _ providers.GeocodingProvider = (*Provider)(nil)

// searchRow mirrors the fields we read from a Nominatim jsonv2/json row.
// Values are decoded loosely because lat/lon arrive as strings on some mirrors and numbers on others.
type searchRow struct {
	Lat         any `json:"lat"`
	Lon         any `json:"lon"`
	Name        any `json:"name"`
	DisplayName any `json:"display_name"`
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
