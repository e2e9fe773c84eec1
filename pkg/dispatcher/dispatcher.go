// Package dispatcher implements the dispatcher loop (component E): a
// single cooperative loop that repeatedly selects the next runnable
// queued task, honoring dependency and step-ordering rules, hands it to
// the runner, and sleeps a fixed interval after every iteration, whether
// or not a task ran (spec §4.E, §5). Grounded structurally on the polling shape of the
// teacher's WorkerPool.worker loop (pkg/service/worker_pool.go), with
// its concurrency stripped out: this loop runs one task at a time in
// the calling goroutine, matching the single-threaded cooperative model
// spec §5 requires.
package dispatcher

import (
	"context"
	"sort"
	"time"

	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/runner"
	"github.com/arvindkr/geoflow/pkg/store"
)

// DefaultInterval is the spec's fixed poll interval.
const DefaultInterval = 2 * time.Second

// Logger is the logging interface the dispatcher logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Dispatcher runs the polling loop.
type Dispatcher struct {
	store    store.Store
	runner   *runner.Runner
	logger   Logger
	interval time.Duration
}

// New returns a Dispatcher polling at interval. A non-positive interval
// falls back to DefaultInterval.
func New(s store.Store, r *runner.Runner, logger Logger, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Dispatcher{store: s, runner: r, logger: logger, interval: interval}
}

// Run drives the loop until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.tick()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.interval):
		}
	}
}

// Sweep re-queues every task found in_progress, meant to run once before
// Run starts. This process is the only writer of Task rows, so any
// in_progress row still present at boot is orphaned from a prior crash
// (spec §9 "Stuck in_progress tasks after crash").
func (d *Dispatcher) Sweep() error {
	views, err := d.store.ListTasksByStatus(models.TaskInProgress)
	if err != nil {
		return err
	}
	for _, view := range views {
		task := view.Task
		task.Status = models.TaskQueued
		task.Progress = nil
		if err := d.store.UpdateTask(task); err != nil {
			return err
		}
		d.logger.Infof("dispatcher: requeued orphaned in_progress task %s", task.TaskID)
	}
	return nil
}

// tick performs one dispatch iteration: it finds the first unblocked
// queued task, in step-number order, and runs it.
func (d *Dispatcher) tick() {
	views, err := d.store.ListTasksByStatus(models.TaskQueued)
	if err != nil {
		d.logger.Errorf("dispatcher: list queued tasks: %v", err)
		return
	}
	if len(views) == 0 {
		return
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Task.StepNumber < views[j].Task.StepNumber })

	siblingsCache := make(map[string][]models.Task)
	for _, view := range views {
		if d.blocked(view, siblingsCache) {
			continue
		}
		if err := d.runner.Run(view.Task); err != nil {
			d.logger.Errorf("dispatcher: task %s failed: %v", view.Task.TaskID, err)
		}
		return
	}
}

// blocked implements spec §4.E step 4's blocked? predicate.
func (d *Dispatcher) blocked(view store.TaskView, siblingsCache map[string][]models.Task) bool {
	task := view.Task
	if task.DependsOn != nil {
		if view.DependsOnTask == nil {
			return true
		}
		switch view.DependsOnTask.Status {
		case models.TaskQueued, models.TaskInProgress, models.TaskFailed:
			return true
		}
		return false
	}

	siblings, ok := siblingsCache[task.WorkflowID]
	if !ok {
		siblings, _ = d.store.ListTasksByWorkflow(task.WorkflowID)
		siblingsCache[task.WorkflowID] = siblings
	}
	for _, sib := range siblings {
		if sib.TaskID == task.TaskID {
			continue
		}
		if sib.StepNumber < task.StepNumber && (sib.Status == models.TaskQueued || sib.Status == models.TaskInProgress) {
			return true
		}
	}
	return false
}
