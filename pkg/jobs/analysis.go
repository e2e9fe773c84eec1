package jobs

import "github.com/arvindkr/geoflow/pkg/models"

// AnalysisOutput is the value the analysis (geometry-within-country) job
// produces.
type AnalysisOutput struct {
	Country string `json:"country"`
}

type countryBounds struct {
	name                           string
	minLon, minLat, maxLon, maxLat float64
}

// countryTable is a coarse bounding-box gazetteer, enough to exercise
// the geometry-within-country contract without pulling in a shapefile
// or a boundary dataset — this job is an opaque unit per spec §1, and
// no such dataset or library appears anywhere in the retrieved example
// pack.
var countryTable = []countryBounds{
	{"United States", -125, 24, -66, 49},
	{"Germany", 5.8, 47.2, 15.1, 55.1},
	{"Japan", 129.3, 30.9, 145.9, 45.6},
	{"Brazil", -74, -34, -34, 5.3},
	{"Australia", 112.9, -43.7, 153.7, -10.6},
}

// AnalysisJob resolves the task's GeoJSON geometry's centroid to a
// country, or "Unknown" when no entry in the table contains it.
type AnalysisJob struct{}

// Run implements registry.Job.
func (AnalysisJob) Run(task *models.Task) (interface{}, error) {
	geomType, coords, err := parseGeoJSON(task.GeoJSON)
	if err != nil {
		writeErrorEnvelope(task, err.Error())
		return nil, err
	}

	point, err := centroid(coords, geomType)
	if err != nil {
		writeErrorEnvelope(task, err.Error())
		return nil, err
	}

	country := "Unknown"
	for _, c := range countryTable {
		if point[0] >= c.minLon && point[0] <= c.maxLon && point[1] >= c.minLat && point[1] <= c.maxLat {
			country = c.name
			break
		}
	}

	out := AnalysisOutput{Country: country}
	if _, err := writeOutput(task, out); err != nil {
		return nil, err
	}
	return out, nil
}
