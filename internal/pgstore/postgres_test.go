package pgstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvindkr/geoflow/internal/pgstore"
	"github.com/arvindkr/geoflow/internal/testutil"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

func TestPgStore_WorkflowAndTaskLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers-backed test in short mode")
	}

	testDB := testutil.SetupTestDB(t, "../../migrations")
	defer testDB.Teardown(t)

	s, err := pgstore.New(testDB.ConnStr)
	assert.NoError(t, err)
	defer s.Close()

	wf, err := s.CreateWorkflow(models.Workflow{ClientID: "client-1", Status: models.WorkflowInitial})
	assert.NoError(t, err)
	assert.NotEmpty(t, wf.WorkflowID)

	task, err := s.CreateTask(models.Task{
		ClientID:   "client-1",
		WorkflowID: wf.WorkflowID,
		TaskType:   "polygonArea",
		StepNumber: 1,
		Status:     models.TaskQueued,
		GeoJSON:    `{"type":"Point","coordinates":[1,2]}`,
	})
	assert.NoError(t, err)

	loaded, err := s.GetWorkflow(wf.WorkflowID)
	assert.NoError(t, err)
	assert.Len(t, loaded.Tasks, 1)
	assert.Equal(t, task.TaskID, loaded.Tasks[0].TaskID)

	task.Status = models.TaskCompleted
	output := `{"area":1}`
	task.Output = &output
	assert.NoError(t, s.UpdateTask(task))

	reloadedTask, err := s.GetTask(task.TaskID)
	assert.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, reloadedTask.Status)

	result, err := s.CreateResult(models.Result{TaskID: task.TaskID, Data: output})
	assert.NoError(t, err)

	fetchedResult, err := s.GetResult(result.ResultID)
	assert.NoError(t, err)
	assert.Equal(t, output, fetchedResult.Data)

	_, err = s.GetTask("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPgStore_ListTasksByStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers-backed test in short mode")
	}

	testDB := testutil.SetupTestDB(t, "../../migrations")
	defer testDB.Teardown(t)

	s, err := pgstore.New(testDB.ConnStr)
	assert.NoError(t, err)
	defer s.Close()

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "client-1"})
	dep, _ := s.CreateTask(models.Task{ClientID: "client-1", WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskQueued, GeoJSON: "{}"})
	_, _ = s.CreateTask(models.Task{ClientID: "client-1", WorkflowID: wf.WorkflowID, TaskType: "notification", StepNumber: 2, Status: models.TaskQueued, GeoJSON: "{}", DependsOn: &dep.TaskID})

	views, err := s.ListTasksByStatus(models.TaskQueued)
	assert.NoError(t, err)
	assert.Len(t, views, 2)
}
