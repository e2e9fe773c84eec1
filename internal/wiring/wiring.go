// Package wiring assembles the job registry shared by cmd/geoflowd and
// tests, grounded on the teacher's task-registration calls in
// cmd/goflow/main.go (RegisterTask/RegisterFlow against a
// WorkflowService) — here collapsed into one constructor since the job
// set is fixed rather than dynamically registered over HTTP.
package wiring

import (
	"github.com/arvindkr/geoflow/pkg/jobs"
	"github.com/arvindkr/geoflow/pkg/registry"
	"github.com/arvindkr/geoflow/pkg/store"
)

// NewRegistry returns the registry populated with every built-in job,
// binding the report generator to s for its privileged workflow write.
func NewRegistry(s store.Store) *registry.Registry {
	return registry.New(map[string]registry.Job{
		"polygonArea":      jobs.PolygonAreaJob{},
		"analysis":         jobs.AnalysisJob{},
		"notification":     jobs.NotificationJob{},
		"reportGeneration": jobs.ReportGenerationJob{Store: s},
	})
}
