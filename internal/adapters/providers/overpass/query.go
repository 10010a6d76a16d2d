package overpass

import (
	"fmt"
	"strconv"

	"github.com/Harikishanth/HealBee-AI/internal/domain/entities"
)

// healthcareAmenityPattern matches the amenity values treated as healthcare facilities.
const healthcareAmenityPattern = "hospital|clinic|doctors"

// BuildHealthcareQuery renders the Overpass QL used for proximity searches.
// Nodes and ways are both selected; ways are returned with their center point.
func BuildHealthcareQuery(center entities.Coordinate, radiusMeters, queryTimeoutSeconds int) string {
	around := fmt.Sprintf("around:%d,%s,%s",
		radiusMeters,
		strconv.FormatFloat(center.Latitude, 'f', -1, 64),
		strconv.FormatFloat(center.Longitude, 'f', -1, 64),
	)

	return fmt.Sprintf(`[out:json][timeout:%d];
(
  node(%s)["amenity"~"%s"];
  node(%s)["healthcare"];
  way(%s)["amenity"~"%s"];
  way(%s)["healthcare"];
);
out center body;
`,
		queryTimeoutSeconds,
		around, healthcareAmenityPattern,
		around,
		around, healthcareAmenityPattern,
		around,
	)
}
