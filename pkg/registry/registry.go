// Package registry implements the job registry (component B): a mapping
// from taskType to a Job, populated at process start and immutable
// thereafter, grounded on the teacher's WorkflowService task map in
// pkg/service/service.go (RegisterTask populating an immutable-after-
// setup map consulted by the worker pool).
package registry

import (
	"github.com/pkg/errors"

	"github.com/arvindkr/geoflow/pkg/engineerr"
	"github.com/arvindkr/geoflow/pkg/models"
)

// Job is the contract every task-type implementation satisfies: given a
// task, produce a serializable value or fail with a JobError. A job may
// mutate task.Output as a side channel before returning or failing; the
// runner persists whatever Output holds after Run returns.
type Job interface {
	Run(task *models.Task) (interface{}, error)
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(task *models.Task) (interface{}, error)

func (f JobFunc) Run(task *models.Task) (interface{}, error) { return f(task) }

// Registry maps taskType strings to Job implementations.
type Registry struct {
	jobs map[string]Job
}

// New returns a Registry populated from the given taskType -> Job mapping.
// The map is copied; the registry is immutable after construction.
func New(jobs map[string]Job) *Registry {
	r := &Registry{jobs: make(map[string]Job, len(jobs))}
	for k, v := range jobs {
		r.jobs[k] = v
	}
	return r
}

// Lookup resolves a taskType to its Job, or fails with ErrUnknownTaskType.
func (r *Registry) Lookup(taskType string) (Job, error) {
	job, ok := r.jobs[taskType]
	if !ok {
		return nil, errors.Wrapf(engineerr.ErrUnknownTaskType, "task type %q", taskType)
	}
	return job, nil
}

// Has reports whether taskType resolves in the registry, used by the
// factory to validate a workflow definition before creating any rows.
func (r *Registry) Has(taskType string) bool {
	_, ok := r.jobs[taskType]
	return ok
}
