package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

var (
	addressTags = []string{"addr:full", "addr:street", "addr:housenumber", "addr:city", "addr:state", "addr:postcode"}
	phoneTags   = []string{"contact:phone", "phone", "contact:mobile"}
	websiteTags = []string{"contact:website", "website", "contact:url"}
)

// ExtractFacility converts one raw candidate into a Facility.
// Candidates without a resolvable coordinate are rejected.
func ExtractFacility(c entities.RawCandidate) (entities.Facility, bool) {
	var position *entities.Coordinate
	isArea := false

	switch g := c.Geometry.(type) {
	case entities.PointGeometry:
		position = g.Position
	case entities.AreaGeometry:
		position = g.Center
		isArea = true
	default:
		return entities.Facility{}, false
	}
	if position == nil {
		return entities.Facility{}, false
	}

	nameTags := []string{"name", "brand"}
	if isArea {
		nameTags = append(nameTags, "addr:street", "addr:full")
	}

	return entities.Facility{
		Name:    firstTag(c.Tags, nameTags, entities.DefaultFacilityName),
		Type:    firstTag(c.Tags, []string{"amenity", "healthcare"}, entities.DefaultFacilityType),
		Address: joinTags(c.Tags, addressTags),
		Phone:   firstTag(c.Tags, phoneTags, ""),
		Website: firstTag(c.Tags, websiteTags, ""),
		Lat:     formatCoordinate(position.Latitude),
		Lon:     formatCoordinate(position.Longitude),
	}, true
}

// firstTag returns the first non-blank value among keys, or fallback.
func firstTag(tags map[string]any, keys []string, fallback string) string {
	for _, key := range keys {
		if v := tagString(tags, key); v != "" {
			return v
		}
	}
	return fallback
}

func joinTags(tags map[string]any, keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if v := tagString(tags, key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// tagString coerces a tag value to a trimmed string. Lists yield their first element.
func tagString(tags map[string]any, key string) string {
	v, ok := tags[key]
	if !ok {
		return ""
	}
	return scalarText(v)
}

func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		if len(val) == 0 {
			return ""
		}
		return scalarText(val[0])
	case []string:
		if len(val) == 0 {
			return ""
		}
		return strings.TrimSpace(val[0])
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
