// Package pgstore is the durable Store adapter (component A, Postgres
// backend). It is grounded line-for-line in structure on the teacher's
// internal/storage/postgres.go — a thin sqlx wrapper using
// Get/Select/QueryRowx/Exec against a DBInterface so the same struct
// works over either *sqlx.DB or *sqlx.Tx — but its schema (workflows /
// tasks / results, opaque string ids) is this spec's, not the
// teacher's (workflows / tasks / dependencies, integer workflow ids).
package pgstore

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

// DBInterface is the subset of *sqlx.DB / *sqlx.Tx this package needs,
// so the same code path serves both plain connections and transactions.
type DBInterface interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	QueryRowx(query string, args ...interface{}) *sqlx.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Store is the Postgres-backed implementation of store.Store.
type Store struct {
	db DBInterface
}

// New opens a connection pool against dsn and verifies it is reachable.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pgstore: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil
}

func (s *Store) CreateWorkflow(w models.Workflow) (models.Workflow, error) {
	if w.WorkflowID == "" {
		w.WorkflowID = store.NewID()
	}
	_, err := s.db.Exec(`INSERT INTO workflows (workflow_id, client_id, status, final_result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`,
		w.WorkflowID, w.ClientID, w.Status, w.FinalResult)
	if err != nil {
		return models.Workflow{}, fmt.Errorf("pgstore: create workflow: %w", err)
	}
	return w, nil
}

func (s *Store) GetWorkflow(workflowID string) (models.Workflow, error) {
	var w models.Workflow
	err := s.db.Get(&w, "SELECT workflow_id, client_id, status, final_result, created_at, updated_at FROM workflows WHERE workflow_id = $1", workflowID)
	if err == sql.ErrNoRows {
		return models.Workflow{}, fmt.Errorf("pgstore: workflow %s: %w", workflowID, store.ErrNotFound)
	}
	if err != nil {
		return models.Workflow{}, fmt.Errorf("pgstore: get workflow: %w", err)
	}
	tasks, err := s.ListTasksByWorkflow(workflowID)
	if err != nil {
		return models.Workflow{}, err
	}
	w.Tasks = tasks
	return w, nil
}

func (s *Store) UpdateWorkflow(w models.Workflow) error {
	res, err := s.db.Exec(`UPDATE workflows SET client_id = $1, status = $2, final_result = $3, updated_at = now() WHERE workflow_id = $4`,
		w.ClientID, w.Status, w.FinalResult, w.WorkflowID)
	if err != nil {
		return fmt.Errorf("pgstore: update workflow: %w", err)
	}
	return checkRowsAffected(res, w.WorkflowID)
}

func (s *Store) CreateTask(t models.Task) (models.Task, error) {
	if t.TaskID == "" {
		t.TaskID = store.NewID()
	}
	_, err := s.db.Exec(`INSERT INTO tasks
		(task_id, client_id, workflow_id, task_type, step_number, status, depends_on, geo_json, input, output, progress, result_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`,
		t.TaskID, t.ClientID, t.WorkflowID, t.TaskType, t.StepNumber, t.Status, t.DependsOn, t.GeoJSON, t.Input, t.Output, t.Progress, t.ResultID)
	if err != nil {
		return models.Task{}, fmt.Errorf("pgstore: create task: %w", err)
	}
	return t, nil
}

func (s *Store) GetTask(taskID string) (models.Task, error) {
	var t models.Task
	err := s.db.Get(&t, "SELECT * FROM tasks WHERE task_id = $1", taskID)
	if err == sql.ErrNoRows {
		return models.Task{}, fmt.Errorf("pgstore: task %s: %w", taskID, store.ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("pgstore: get task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTask(t models.Task) error {
	res, err := s.db.Exec(`UPDATE tasks SET
		status = $1, depends_on = $2, input = $3, output = $4, progress = $5, result_id = $6, updated_at = now()
		WHERE task_id = $7`,
		t.Status, t.DependsOn, t.Input, t.Output, t.Progress, t.ResultID, t.TaskID)
	if err != nil {
		return fmt.Errorf("pgstore: update task: %w", err)
	}
	return checkRowsAffected(res, t.TaskID)
}

func (s *Store) ListTasksByStatus(status models.TaskStatus) ([]store.TaskView, error) {
	var tasks []models.Task
	if err := s.db.Select(&tasks, "SELECT * FROM tasks WHERE status = $1 ORDER BY step_number", status); err != nil {
		return nil, fmt.Errorf("pgstore: list tasks by status: %w", err)
	}
	views := make([]store.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := store.TaskView{Task: t}
		if t.DependsOn != nil {
			dep, err := s.GetTask(*t.DependsOn)
			if err == nil {
				view.DependsOnTask = &dep
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Store) ListTasksByWorkflow(workflowID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Select(&tasks, "SELECT * FROM tasks WHERE workflow_id = $1 ORDER BY step_number", workflowID); err != nil {
		return nil, fmt.Errorf("pgstore: list tasks by workflow: %w", err)
	}
	return tasks, nil
}

func (s *Store) CreateResult(r models.Result) (models.Result, error) {
	if r.ResultID == "" {
		r.ResultID = store.NewID()
	}
	_, err := s.db.Exec("INSERT INTO results (result_id, task_id, data) VALUES ($1, $2, $3)", r.ResultID, r.TaskID, r.Data)
	if err != nil {
		return models.Result{}, fmt.Errorf("pgstore: create result: %w", err)
	}
	return r, nil
}

func (s *Store) GetResult(resultID string) (models.Result, error) {
	var r models.Result
	err := s.db.Get(&r, "SELECT * FROM results WHERE result_id = $1", resultID)
	if err == sql.ErrNoRows {
		return models.Result{}, fmt.Errorf("pgstore: result %s: %w", resultID, store.ErrNotFound)
	}
	if err != nil {
		return models.Result{}, fmt.Errorf("pgstore: get result: %w", err)
	}
	return r, nil
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgstore: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("pgstore: %s: %w", id, store.ErrNotFound)
	}
	return nil
}
