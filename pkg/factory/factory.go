// Package factory implements the workflow factory (component C): given a
// validated workflow definition, a clientId, and an opaque client
// payload, it materializes one workflow row and N task rows with
// dependency edges wired, per spec §4.C. Grounded on the teacher's
// WorkflowService.CreateWorkflow (internal/service/workflow.go), which
// validates inputs before ever touching the store and logs through the
// shared Logger interface.
package factory

import (
	"fmt"

	"github.com/arvindkr/geoflow/internal/definition"
	"github.com/arvindkr/geoflow/pkg/engineerr"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/registry"
	"github.com/arvindkr/geoflow/pkg/store"
)

// Logger is the logging interface the factory logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Factory creates workflow+task rows from a validated template.
type Factory struct {
	store    store.Store
	registry *registry.Registry
	logger   Logger
}

// New returns a Factory backed by the given store and job registry.
func New(s store.Store, r *registry.Registry, logger Logger) *Factory {
	return &Factory{store: s, registry: r, logger: logger}
}

// CreateWorkflow validates def in full, then — only if validation
// succeeds — persists a Workflow row and one Task per step, with
// dependsOn edges resolved to task ids.
func (f *Factory) CreateWorkflow(def *definition.Workflow, clientID, geoJSON string) (models.Workflow, error) {
	if err := f.validate(def); err != nil {
		return models.Workflow{}, err
	}

	wf, err := f.store.CreateWorkflow(models.Workflow{
		ClientID: clientID,
		Status:   models.WorkflowInitial,
	})
	if err != nil {
		return models.Workflow{}, fmt.Errorf("create workflow: %w", err)
	}

	stepToTaskID := make(map[int]string, len(def.Steps))
	tasks := make([]models.Task, 0, len(def.Steps))
	for _, step := range def.Steps {
		t, err := f.store.CreateTask(models.Task{
			ClientID:   clientID,
			WorkflowID: wf.WorkflowID,
			TaskType:   step.TaskType,
			StepNumber: step.StepNumber,
			Status:     models.TaskQueued,
			GeoJSON:    geoJSON,
		})
		if err != nil {
			return models.Workflow{}, fmt.Errorf("create task for step %d: %w", step.StepNumber, err)
		}
		stepToTaskID[step.StepNumber] = t.TaskID
		tasks = append(tasks, t)
	}

	for i, step := range def.Steps {
		if step.DependsOn == nil {
			continue
		}
		depTaskID := stepToTaskID[*step.DependsOn]
		tasks[i].DependsOn = &depTaskID
		if err := f.store.UpdateTask(tasks[i]); err != nil {
			return models.Workflow{}, fmt.Errorf("wire dependency for step %d: %w", step.StepNumber, err)
		}
	}

	f.logger.Infof("created workflow %s (%s) with %d tasks", wf.WorkflowID, def.Name, len(tasks))
	wf.Tasks = tasks
	return wf, nil
}

// validate enforces spec §4.C step 1 in full before any row is created.
func (f *Factory) validate(def *definition.Workflow) error {
	if def.Name == "" {
		return engineerr.InvalidWorkflow("workflow name is required")
	}
	if len(def.Steps) == 0 {
		return engineerr.InvalidWorkflow("workflow must have at least one step")
	}

	seenSteps := make(map[int]bool, len(def.Steps))
	for _, step := range def.Steps {
		if step.StepNumber <= 0 {
			return engineerr.InvalidWorkflow(fmt.Sprintf("step number %d must be positive", step.StepNumber))
		}
		if seenSteps[step.StepNumber] {
			return engineerr.InvalidWorkflow(fmt.Sprintf("duplicate step number %d", step.StepNumber))
		}
		seenSteps[step.StepNumber] = true

		if !f.registry.Has(step.TaskType) {
			return engineerr.InvalidWorkflow(fmt.Sprintf("unknown task type %q at step %d", step.TaskType, step.StepNumber))
		}
	}

	for _, step := range def.Steps {
		if step.DependsOn == nil {
			continue
		}
		if *step.DependsOn >= step.StepNumber {
			return engineerr.InvalidWorkflow(fmt.Sprintf("step %d must depend on a strictly earlier step, not %d", step.StepNumber, *step.DependsOn))
		}
		if !seenSteps[*step.DependsOn] {
			return engineerr.InvalidWorkflow(fmt.Sprintf("step %d depends on non-existent step %d", step.StepNumber, *step.DependsOn))
		}
	}

	return nil
}
