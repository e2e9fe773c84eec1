// Package jobs contains the concrete job implementations bound into the
// registry: polygonArea, analysis (geometry-within-country),
// notification, and the privileged reportGeneration. Jobs are opaque
// units per spec §1 ("the core treats each job as an opaque unit
// satisfying a single contract"); no GeoJSON or computational-geometry
// library appears anywhere in the retrieved example pack (checked
// across every go.mod under _examples/), so this file's parsing and area
// math use only the standard library — a documented exception recorded
// in DESIGN.md, not a default choice.
package jobs

import (
	"encoding/json"
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// geoFeature is the minimal subset of a GeoJSON Feature/Geometry this
// engine understands: a Polygon or a Point, optionally wrapped in a
// Feature envelope.
type geoFeature struct {
	Type       string          `json:"type"`
	Geometry   *geoGeometry    `json:"geometry,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
}

type geoGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// parseGeoJSON extracts the geometry type and raw coordinates from a
// GeoJSON document, whether it's a bare Geometry or a Feature wrapping
// one.
func parseGeoJSON(raw string) (geomType string, coords json.RawMessage, err error) {
	var f geoFeature
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return "", nil, fmt.Errorf("parse geoJson: %w", err)
	}
	if f.Geometry != nil {
		return f.Geometry.Type, f.Geometry.Coordinates, nil
	}
	if f.Type == "" || f.Coordinates == nil {
		return "", nil, fmt.Errorf("parse geoJson: missing geometry")
	}
	return f.Type, f.Coordinates, nil
}

// polygonAreaMeters computes the area of a GeoJSON Polygon's outer ring
// in square meters, using an equirectangular projection centered on the
// ring's mean latitude followed by the planar shoelace formula. This is
// an approximation adequate for small-to-regional polygons, not a
// geodesic-exact ellipsoidal calculation.
func polygonAreaMeters(coordsRaw json.RawMessage) (float64, error) {
	var rings [][][2]float64
	if err := json.Unmarshal(coordsRaw, &rings); err != nil {
		return 0, fmt.Errorf("parse polygon coordinates: %w", err)
	}
	if len(rings) == 0 || len(rings[0]) < 3 {
		return 0, fmt.Errorf("polygon outer ring needs at least 3 points")
	}
	outer := rings[0]

	meanLat := 0.0
	for _, pt := range outer {
		meanLat += pt[1]
	}
	meanLat /= float64(len(outer))
	meanLatRad := meanLat * math.Pi / 180

	type xy struct{ x, y float64 }
	projected := make([]xy, len(outer))
	for i, pt := range outer {
		lonRad := pt[0] * math.Pi / 180
		latRad := pt[1] * math.Pi / 180
		projected[i] = xy{
			x: earthRadiusMeters * lonRad * math.Cos(meanLatRad),
			y: earthRadiusMeters * latRad,
		}
	}

	area := 0.0
	n := len(projected)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += projected[i].x*projected[j].y - projected[j].x*projected[i].y
	}
	return math.Abs(area) / 2, nil
}

// centroid returns the arithmetic mean of a ring's points as [lon, lat],
// used by the analysis job for a coarse point-in-region lookup.
func centroid(coordsRaw json.RawMessage, geomType string) ([2]float64, error) {
	switch geomType {
	case "Point":
		var pt [2]float64
		if err := json.Unmarshal(coordsRaw, &pt); err != nil {
			return [2]float64{}, fmt.Errorf("parse point coordinates: %w", err)
		}
		return pt, nil
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(coordsRaw, &rings); err != nil {
			return [2]float64{}, fmt.Errorf("parse polygon coordinates: %w", err)
		}
		if len(rings) == 0 || len(rings[0]) == 0 {
			return [2]float64{}, fmt.Errorf("polygon has no coordinates")
		}
		var sumLon, sumLat float64
		for _, pt := range rings[0] {
			sumLon += pt[0]
			sumLat += pt[1]
		}
		n := float64(len(rings[0]))
		return [2]float64{sumLon / n, sumLat / n}, nil
	default:
		return [2]float64{}, fmt.Errorf("unsupported geometry type %q", geomType)
	}
}
