package jobs

import (
	"fmt"

	"github.com/arvindkr/geoflow/pkg/models"
)

// PolygonAreaOutput is the value the polygonArea job produces.
type PolygonAreaOutput struct {
	Area float64 `json:"area"`
	Unit string  `json:"unit"`
}

// PolygonAreaJob computes the area of the task's GeoJSON polygon.
type PolygonAreaJob struct{}

// Run implements registry.Job.
func (PolygonAreaJob) Run(task *models.Task) (interface{}, error) {
	geomType, coords, err := parseGeoJSON(task.GeoJSON)
	if err != nil {
		writeErrorEnvelope(task, err.Error())
		return nil, err
	}
	if geomType != "Polygon" {
		err := fmt.Errorf("polygonArea requires a Polygon geometry, got %q", geomType)
		writeErrorEnvelope(task, err.Error())
		return nil, err
	}

	area, err := polygonAreaMeters(coords)
	if err != nil {
		writeErrorEnvelope(task, err.Error())
		return nil, err
	}

	out := PolygonAreaOutput{Area: area, Unit: "square meters"}
	if _, err := writeOutput(task, out); err != nil {
		return nil, err
	}
	return out, nil
}
