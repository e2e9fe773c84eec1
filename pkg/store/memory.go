package store

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/arvindkr/geoflow/pkg/models"
)

// MemoryStore is an in-memory Store implementation. It is the default
// runtime backend: single-process, mutex-guarded, and read-your-writes
// consistent by construction (every read and write takes the same lock).
type MemoryStore struct {
	mu        sync.RWMutex
	workflows map[string]models.Workflow
	tasks     map[string]models.Task
	results   map[string]models.Result
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workflows: make(map[string]models.Workflow),
		tasks:     make(map[string]models.Task),
		results:   make(map[string]models.Result),
	}
}

func (m *MemoryStore) CreateWorkflow(w models.Workflow) (models.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.WorkflowID == "" {
		w.WorkflowID = NewID()
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now
	m.workflows[w.WorkflowID] = w
	return w, nil
}

func (m *MemoryStore) GetWorkflow(workflowID string) (models.Workflow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workflows[workflowID]
	if !ok {
		return models.Workflow{}, errors.Wrapf(ErrNotFound, "workflow %s", workflowID)
	}
	for _, t := range m.tasks {
		if t.WorkflowID == workflowID {
			w.Tasks = append(w.Tasks, t)
		}
	}
	return w, nil
}

func (m *MemoryStore) UpdateWorkflow(w models.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.workflows[w.WorkflowID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "workflow %s", w.WorkflowID)
	}
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = time.Now()
	w.Tasks = nil
	m.workflows[w.WorkflowID] = w
	return nil
}

func (m *MemoryStore) CreateTask(t models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.TaskID == "" {
		t.TaskID = NewID()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now
	m.tasks[t.TaskID] = t
	return t, nil
}

func (m *MemoryStore) GetTask(taskID string) (models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return models.Task{}, errors.Wrapf(ErrNotFound, "task %s", taskID)
	}
	return t, nil
}

func (m *MemoryStore) UpdateTask(t models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[t.TaskID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "task %s", t.TaskID)
	}
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	m.tasks[t.TaskID] = t
	return nil
}

func (m *MemoryStore) ListTasksByStatus(status models.TaskStatus) ([]TaskView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var views []TaskView
	for _, t := range m.tasks {
		if t.Status != status {
			continue
		}
		view := TaskView{Task: t}
		if t.DependsOn != nil {
			if dep, ok := m.tasks[*t.DependsOn]; ok {
				depCopy := dep
				view.DependsOnTask = &depCopy
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (m *MemoryStore) ListTasksByWorkflow(workflowID string) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tasks []models.Task
	for _, t := range m.tasks {
		if t.WorkflowID == workflowID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (m *MemoryStore) CreateResult(r models.Result) (models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ResultID == "" {
		r.ResultID = NewID()
	}
	m.results[r.ResultID] = r
	return r, nil
}

func (m *MemoryStore) GetResult(resultID string) (models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[resultID]
	if !ok {
		return models.Result{}, errors.Wrapf(ErrNotFound, "result %s", resultID)
	}
	return r, nil
}
