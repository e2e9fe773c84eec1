// Package reconciler implements the workflow reconciler (component G):
// invoked after every task transition, it recomputes the owning
// workflow's status from its tasks and, on the first terminal
// transition, writes an aggregated finalResult (spec §4.G). Grounded on
// the teacher's WorkflowService.UpdateWorkflowStatus
// (internal/service/workflow.go), which reads the current row, computes
// a new one, and persists it through the same transactional pattern.
package reconciler

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/arvindkr/geoflow/pkg/aggregate"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

// Logger is the logging interface the reconciler logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Reconciler recomputes workflow status/finalResult from task state.
type Reconciler struct {
	store  store.Store
	logger Logger
}

// New returns a Reconciler backed by the given store.
func New(s store.Store, logger Logger) *Reconciler {
	return &Reconciler{store: s, logger: logger}
}

// TaskEntry is one row of the aggregated finalResult's tasks array.
type TaskEntry struct {
	TaskID     string            `json:"taskId"`
	Type       string            `json:"type"`
	StepNumber int               `json:"stepNumber"`
	Status     models.TaskStatus `json:"status"`
	Output     interface{}       `json:"output,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// FinalResult is the aggregated envelope the reconciler writes on a
// workflow's first terminal transition.
type FinalResult struct {
	WorkflowID  string                `json:"workflowId"`
	Status      models.WorkflowStatus `json:"status"`
	Tasks       []TaskEntry           `json:"tasks"`
	GeneratedAt string                `json:"generatedAt"`
}

// Reconcile loads workflowID with its tasks, recomputes status, and — on
// the first transition into a terminal status, unless a successful
// reportGeneration task has already written a richer finalResult —
// persists an aggregated finalResult.
func (r *Reconciler) Reconcile(workflowID string) error {
	wf, err := r.store.GetWorkflow(workflowID)
	if err != nil {
		return fmt.Errorf("reconcile: load workflow %s: %w", workflowID, err)
	}

	var anyFailed, anyInProgress, hasSuccessfulReport bool
	completed := 0
	for _, t := range wf.Tasks {
		switch t.Status {
		case models.TaskFailed:
			anyFailed = true
		case models.TaskInProgress:
			anyInProgress = true
		case models.TaskCompleted:
			completed++
		}
		if t.TaskType == "reportGeneration" && t.Status == models.TaskCompleted {
			hasSuccessfulReport = true
		}
	}
	allCompleted := len(wf.Tasks) > 0 && completed == len(wf.Tasks)

	newStatus := models.WorkflowInitial
	switch {
	case anyFailed:
		newStatus = models.WorkflowFailed
	case allCompleted:
		newStatus = models.WorkflowCompleted
	default:
		anyLeftQueued := false
		for _, t := range wf.Tasks {
			if t.Status == models.TaskQueued {
				anyLeftQueued = true
				break
			}
		}
		if len(wf.Tasks) > 0 && !anyLeftQueued {
			newStatus = models.WorkflowInProgress
		} else if completed > 0 || anyInProgress {
			newStatus = models.WorkflowInProgress
		}
	}

	changed := false
	if wf.Status != newStatus {
		wf.Status = newStatus
		changed = true
	}

	terminal := anyFailed || allCompleted
	if terminal && !anyInProgress && wf.FinalResult == nil && !hasSuccessfulReport {
		envelope := r.buildFinalResult(wf)
		data, err := json.Marshal(envelope)
		if err != nil {
			return fmt.Errorf("reconcile: marshal final result: %w", err)
		}
		serialized := string(data)
		wf.FinalResult = &serialized
		changed = true
	}

	if !changed {
		return nil
	}
	if err := r.store.UpdateWorkflow(wf); err != nil {
		return fmt.Errorf("reconcile: persist workflow %s: %w", workflowID, err)
	}
	r.logger.Infof("reconciled workflow %s -> %s", workflowID, wf.Status)
	return nil
}

func (r *Reconciler) buildFinalResult(wf models.Workflow) FinalResult {
	tasks := make([]models.Task, len(wf.Tasks))
	copy(tasks, wf.Tasks)
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].StepNumber < tasks[j].StepNumber })

	entries := make([]TaskEntry, 0, len(tasks))
	for _, t := range tasks {
		entry := TaskEntry{TaskID: t.TaskID, Type: t.TaskType, StepNumber: t.StepNumber, Status: t.Status}
		switch t.Status {
		case models.TaskCompleted:
			if t.Output != nil {
				entry.Output = aggregate.ParseOrRaw(*t.Output)
			}
		case models.TaskFailed:
			entry.Error, _ = aggregate.ExtractError(t.Output)
		}
		entries = append(entries, entry)
	}

	return FinalResult{
		WorkflowID:  wf.WorkflowID,
		Status:      wf.Status,
		Tasks:       entries,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
