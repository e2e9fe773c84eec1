// Package models defines the three persistent entities the engine operates
// on: Workflow, Task, and Result.
package models

import "time"

// WorkflowStatus is the lifecycle status of a Workflow.
type WorkflowStatus string

const (
	WorkflowInitial    WorkflowStatus = "initial"
	WorkflowInProgress WorkflowStatus = "in_progress"
	WorkflowCompleted  WorkflowStatus = "completed"
	WorkflowFailed     WorkflowStatus = "failed"
)

// TaskStatus is the lifecycle status of a Task.
type TaskStatus string

const (
	TaskQueued     TaskStatus = "queued"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Workflow is an instantiated, persistent collection of tasks sharing a
// client id.
type Workflow struct {
	WorkflowID  string         `json:"workflowId" db:"workflow_id"`
	ClientID    string         `json:"clientId" db:"client_id"`
	Status      WorkflowStatus `json:"status" db:"status"`
	FinalResult *string        `json:"finalResult,omitempty" db:"final_result"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`

	// Tasks is a back-reference hydrated by the store on lookup; it is not
	// itself persisted as a column.
	Tasks []Task `json:"tasks,omitempty" db:"-"`
}

// Task is a single unit of work belonging to a Workflow.
type Task struct {
	TaskID     string     `json:"taskId" db:"task_id"`
	ClientID   string     `json:"clientId" db:"client_id"`
	WorkflowID string     `json:"workflowId" db:"workflow_id"`
	TaskType   string     `json:"taskType" db:"task_type"`
	StepNumber int        `json:"stepNumber" db:"step_number"`
	Status     TaskStatus `json:"status" db:"status"`
	DependsOn  *string    `json:"dependsOn,omitempty" db:"depends_on"`
	GeoJSON    string     `json:"geoJson" db:"geo_json"`
	Input      *string    `json:"input,omitempty" db:"input"`
	Output     *string    `json:"output,omitempty" db:"output"`
	Progress   *string    `json:"progress,omitempty" db:"progress"`
	ResultID   *string    `json:"resultId,omitempty" db:"result_id"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" db:"updated_at"`
}

// Result is the persisted output of a successfully completed Task.
type Result struct {
	ResultID string `json:"resultId" db:"result_id"`
	TaskID   string `json:"taskId" db:"task_id"`
	Data     string `json:"data" db:"data"`
}
