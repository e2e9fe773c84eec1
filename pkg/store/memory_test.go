package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

func TestMemoryStore_WorkflowRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()

	wf, err := s.CreateWorkflow(models.Workflow{ClientID: "c1", Status: models.WorkflowInitial})
	assert.NoError(t, err)
	assert.NotEmpty(t, wf.WorkflowID)

	fetched, err := s.GetWorkflow(wf.WorkflowID)
	assert.NoError(t, err)
	assert.Equal(t, "c1", fetched.ClientID)
	assert.Empty(t, fetched.Tasks)

	fetched.Status = models.WorkflowCompleted
	assert.NoError(t, s.UpdateWorkflow(fetched))

	reloaded, err := s.GetWorkflow(wf.WorkflowID)
	assert.NoError(t, err)
	assert.Equal(t, models.WorkflowCompleted, reloaded.Status)
}

func TestMemoryStore_GetWorkflow_NotFound(t *testing.T) {
	s := store.NewMemoryStore()
	_, err := s.GetWorkflow("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_TaskLifecycleAndHydration(t *testing.T) {
	s := store.NewMemoryStore()
	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1"})

	dep, err := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskQueued})
	assert.NoError(t, err)

	child, err := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "notification", StepNumber: 2, Status: models.TaskQueued, DependsOn: &dep.TaskID})
	assert.NoError(t, err)

	views, err := s.ListTasksByStatus(models.TaskQueued)
	assert.NoError(t, err)
	assert.Len(t, views, 2)

	var childView *store.TaskView
	for i := range views {
		if views[i].Task.TaskID == child.TaskID {
			childView = &views[i]
		}
	}
	assert.NotNil(t, childView)
	assert.NotNil(t, childView.DependsOnTask)
	assert.Equal(t, dep.TaskID, childView.DependsOnTask.TaskID)

	tasks, err := s.ListTasksByWorkflow(wf.WorkflowID)
	assert.NoError(t, err)
	assert.Len(t, tasks, 2)

	dep.Status = models.TaskCompleted
	assert.NoError(t, s.UpdateTask(dep))

	reloaded, err := s.GetTask(dep.TaskID)
	assert.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, reloaded.Status)
}

func TestMemoryStore_Results(t *testing.T) {
	s := store.NewMemoryStore()
	r, err := s.CreateResult(models.Result{TaskID: "t1", Data: `{"area":1}`})
	assert.NoError(t, err)

	fetched, err := s.GetResult(r.ResultID)
	assert.NoError(t, err)
	assert.Equal(t, `{"area":1}`, fetched.Data)

	_, err = s.GetResult("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
