// Package runner implements the task runner (component D): executes a
// single task end to end — marks it in progress, resolves dependency
// input, invokes the job, persists the result, updates task status, and
// always triggers workflow reconciliation. Grounded on the single-task
// execution path of the teacher's WorkerPool.executeTask
// (pkg/service/worker_pool.go), stripped of concurrency: spec §5 runs
// the runner cooperatively, one task at a time, inside the dispatcher's
// loop.
package runner

import (
	"encoding/json"
	"fmt"

	"github.com/arvindkr/geoflow/pkg/engineerr"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/reconciler"
	"github.com/arvindkr/geoflow/pkg/registry"
	"github.com/arvindkr/geoflow/pkg/store"
)

// Logger is the logging interface the runner logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Runner drives a single task through its lifecycle.
type Runner struct {
	store      store.Store
	registry   *registry.Registry
	reconciler *reconciler.Reconciler
	logger     Logger
}

// New returns a Runner backed by the given store, job registry, and
// reconciler.
func New(s store.Store, r *registry.Registry, rec *reconciler.Reconciler, logger Logger) *Runner {
	return &Runner{store: s, registry: r, reconciler: rec, logger: logger}
}

// Run executes task, which must be in TaskQueued status. It always
// invokes the reconciler for the task's workflow before returning,
// whether the job succeeded or failed.
func (r *Runner) Run(task models.Task) error {
	starting := "starting job..."
	task.Status = models.TaskInProgress
	task.Progress = &starting
	if err := r.store.UpdateTask(task); err != nil {
		return fmt.Errorf("runner: mark task %s in progress: %w", task.TaskID, err)
	}

	runErr := r.execute(&task)

	task.Progress = nil
	if runErr != nil {
		task.Status = models.TaskFailed
	} else {
		task.Status = models.TaskCompleted
	}
	if err := r.store.UpdateTask(task); err != nil {
		return fmt.Errorf("runner: persist task %s outcome: %w", task.TaskID, err)
	}

	if err := r.reconciler.Reconcile(task.WorkflowID); err != nil {
		r.logger.Errorf("runner: reconcile workflow %s after task %s: %v", task.WorkflowID, task.TaskID, err)
	}

	if runErr != nil {
		r.logger.Errorf("task %s (%s) failed: %v", task.TaskID, task.TaskType, runErr)
		return runErr
	}
	return nil
}

// execute resolves the dependency input, invokes the job, and — on
// success — persists a Result row and wires task.ResultID.
func (r *Runner) execute(task *models.Task) error {
	if task.DependsOn != nil {
		dep, err := r.store.GetTask(*task.DependsOn)
		if err != nil {
			return fmt.Errorf("runner: load dependency %s: %w", *task.DependsOn, err)
		}
		if dep.Status != models.TaskCompleted {
			return fmt.Errorf("%w: dependency %s is %s", engineerr.ErrDependencyNotSatisfied, dep.TaskID, dep.Status)
		}
		task.Input = dep.Output
	}

	job, err := r.registry.Lookup(task.TaskType)
	if err != nil {
		return err
	}

	result, err := job.Run(task)
	if err != nil {
		return fmt.Errorf("%w: %v", engineerr.ErrJobFailure, err)
	}

	data, err := serialize(result)
	if err != nil {
		return fmt.Errorf("%w: serialize result: %v", engineerr.ErrJobFailure, err)
	}
	created, err := r.store.CreateResult(models.Result{TaskID: task.TaskID, Data: data})
	if err != nil {
		return fmt.Errorf("runner: persist result for task %s: %w", task.TaskID, err)
	}
	task.ResultID = &created.ResultID
	return nil
}

func serialize(v interface{}) (string, error) {
	if v == nil {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
