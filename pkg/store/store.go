// Package store defines the entity store contract (component A):
// durable read/write of Workflow, Task, and Result rows with relational
// lookups, plus an in-memory implementation used both as the default
// runtime backend and in tests.
package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/arvindkr/geoflow/pkg/models"
)

// ErrNotFound is returned when a lookup by id finds no row.
var ErrNotFound = errors.New("not found")

// TaskView pairs a Task with its dependency task, hydrated by the store so
// callers never need a second round-trip to evaluate the dependency's
// status.
type TaskView struct {
	Task          models.Task
	DependsOnTask *models.Task
}

// Store is the entity store contract consumed by the factory, runner,
// dispatcher, and reconciler. Implementations must guarantee read-your-
// writes consistency: once an Update* call returns, a subsequent lookup in
// the same process observes the write.
type Store interface {
	CreateWorkflow(w models.Workflow) (models.Workflow, error)
	GetWorkflow(workflowID string) (models.Workflow, error)
	UpdateWorkflow(w models.Workflow) error

	CreateTask(t models.Task) (models.Task, error)
	GetTask(taskID string) (models.Task, error)
	UpdateTask(t models.Task) error

	// ListTasksByStatus returns every task in the given status, with its
	// dependsOn task (if any) hydrated.
	ListTasksByStatus(status models.TaskStatus) ([]TaskView, error)
	// ListTasksByWorkflow returns every task belonging to a workflow.
	ListTasksByWorkflow(workflowID string) ([]models.Task, error)

	CreateResult(r models.Result) (models.Result, error)
	GetResult(resultID string) (models.Result, error)
}

// NewID returns a new opaque, globally unique identifier.
func NewID() string {
	return uuid.NewString()
}
