package entities

// Geometry is implemented by PointGeometry and AreaGeometry only.
type Geometry interface {
	isGeometry()
}

// PointGeometry is a map node. Position is nil when the element had no lat/lon.
type PointGeometry struct {
	Position *Coordinate
}

func (PointGeometry) isGeometry() {}

// AreaGeometry is a way or relation. Center is the service-reported center point, nil if not reported.
type AreaGeometry struct {
	Center *Coordinate
}

func (AreaGeometry) isGeometry() {}

// RawCandidate is one unprocessed element from a proximity POI query.
// Tag values are usually strings but may be lists or numbers depending on the upstream encoder.
type RawCandidate struct {
	ID       int64
	Geometry Geometry
	Tags     map[string]any
}
