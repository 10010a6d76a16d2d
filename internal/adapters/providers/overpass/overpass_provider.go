package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
	"github.com/Harikishanth/HealBee-AI/internal/domain/providers"
	apperrors "github.com/Harikishanth/HealBee-AI/pkg/errors"
)

const (
	defaultEndpoint     = "https://overpass-api.de/api/interpreter"
	defaultHTTPTimeout  = 30 * time.Second
	defaultQueryTimeout = 25
	defaultUserAgent    = "HealBee/1.0 (health app; nominatim usage)"
	elementTypeNode     = "node"
	elementTypeWay      = "way"
	elementTypeRelation = "relation"
	formContentType     = "application/x-www-form-urlencoded"
)

// Provider implements PointOfInterestProvider against an Overpass API interpreter endpoint.
type Provider struct {
	endpoint     string
	userAgent    string
	queryTimeout int
	httpClient   *http.Client
}

// NewProvider creates an Overpass provider with default settings.
func NewProvider() *Provider {
	return NewProviderWithOptions(defaultEndpoint, defaultUserAgent, defaultQueryTimeout, nil)
}

// NewProviderWithOptions allows overriding endpoint, user agent, server-side timeout and HTTP client (used for tests).
func NewProviderWithOptions(endpoint, userAgent string, queryTimeoutSeconds int, httpClient *http.Client) *Provider {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	if queryTimeoutSeconds <= 0 {
		queryTimeoutSeconds = defaultQueryTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Provider{
		endpoint:     endpoint,
		userAgent:    userAgent,
		queryTimeout: queryTimeoutSeconds,
		httpClient:   httpClient,
	}
}

var _ providers.PointOfInterestProvider = (*Provider)(nil)

// HealthcareAround queries hospitals, clinics, doctors and generic healthcare features around center.
func (p *Provider) HealthcareAround(ctx context.Context, center entities.Coordinate, radiusMeters int) ([]entities.RawCandidate, error) {
	query := BuildHealthcareQuery(center, radiusMeters, p.queryTimeout)

	resp, err := p.execute(ctx, query)
	if err != nil {
		return nil, err
	}

	if len(resp.Elements) == 0 && resp.Remark != "" {
		return nil, apperrors.NewExternalError("overpass query reported an error", fmt.Errorf("%s", resp.Remark))
	}

	return convertElements(resp.Elements), nil
}

func (p *Provider) execute(ctx context.Context, query string) (*overpassResponse, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build overpass request", err)
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("overpass request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("overpass returned status %d", resp.StatusCode), nil)
	}

	var payload overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode overpass response", err)
	}
	return &payload, nil
}

// convertElements keeps upstream order. Elements of unknown type are skipped.
func convertElements(elements []overpassElement) []entities.RawCandidate {
	candidates := make([]entities.RawCandidate, 0, len(elements))
	for _, el := range elements {
		var geometry entities.Geometry
		switch el.Type {
		case elementTypeNode:
			geometry = entities.PointGeometry{Position: coordinate(el.Lat, el.Lon)}
		case elementTypeWay, elementTypeRelation:
			var center *entities.Coordinate
			if el.Center != nil {
				center = coordinate(el.Center.Lat, el.Center.Lon)
			}
			geometry = entities.AreaGeometry{Center: center}
		default:
			continue
		}

		tags := el.Tags
		if tags == nil {
			tags = map[string]any{}
		}
		candidates = append(candidates, entities.RawCandidate{
			ID:       el.ID,
			Geometry: geometry,
			Tags:     tags,
		})
	}
	return candidates
}

func coordinate(lat, lon *float64) *entities.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &entities.Coordinate{Latitude: *lat, Longitude: *lon}
}

type overpassResponse struct {
	Remark   string            `json:"remark,omitempty"`
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string          `json:"type"`
	ID     int64           `json:"id"`
	Lat    *float64        `json:"lat,omitempty"`
	Lon    *float64        `json:"lon,omitempty"`
	Center *overpassCenter `json:"center,omitempty"`
	Tags   map[string]any  `json:"tags,omitempty"`
}

type overpassCenter struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}
