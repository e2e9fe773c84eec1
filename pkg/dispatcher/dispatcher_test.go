package dispatcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arvindkr/geoflow/pkg/dispatcher"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/reconciler"
	"github.com/arvindkr/geoflow/pkg/registry"
	"github.com/arvindkr/geoflow/pkg/runner"
	"github.com/arvindkr/geoflow/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Errorf(format string, args ...interface{}) {}

func TestDispatcher_RunsUnblockedStepInOrder(t *testing.T) {
	var order []string
	s := store.NewMemoryStore()
	reg := registry.New(map[string]registry.Job{
		"polygonArea": registry.JobFunc(func(task *models.Task) (interface{}, error) {
			order = append(order, "polygonArea")
			return nil, nil
		}),
		"notification": registry.JobFunc(func(task *models.Task) (interface{}, error) {
			order = append(order, "notification")
			return nil, nil
		}),
	})
	rec := reconciler.New(s, nopLogger{})
	rn := runner.New(s, reg, rec, nopLogger{})
	d := dispatcher.New(s, rn, nopLogger{}, time.Hour)

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1"})
	dep, _ := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskQueued})
	_, _ = s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "notification", StepNumber: 2, Status: models.TaskQueued, DependsOn: &dep.TaskID})

	ctx, cancel := testContext()
	defer cancel()
	go d.Run(ctx)

	assert.Eventually(t, func() bool {
		return len(order) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"polygonArea", "notification"}, order)
}

func TestDispatcher_BlockedByUnfinishedDependency(t *testing.T) {
	s := store.NewMemoryStore()
	reg := registry.New(map[string]registry.Job{
		"notification": registry.JobFunc(func(task *models.Task) (interface{}, error) { return nil, nil }),
	})
	rec := reconciler.New(s, nopLogger{})
	rn := runner.New(s, reg, rec, nopLogger{})
	d := dispatcher.New(s, rn, nopLogger{}, time.Hour)

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1"})
	dep, _ := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskQueued})
	child, _ := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "notification", StepNumber: 2, Status: models.TaskQueued, DependsOn: &dep.TaskID})

	ctx, cancel := testContext()
	defer cancel()
	go d.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	reloaded, _ := s.GetTask(child.TaskID)
	assert.Equal(t, models.TaskQueued, reloaded.Status)
}

func TestDispatcher_Sweep_RequeuesOrphanedInProgress(t *testing.T) {
	s := store.NewMemoryStore()
	reg := registry.New(map[string]registry.Job{})
	rec := reconciler.New(s, nopLogger{})
	rn := runner.New(s, reg, rec, nopLogger{})
	d := dispatcher.New(s, rn, nopLogger{}, time.Hour)

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1"})
	progress := "starting job..."
	task, _ := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskInProgress, Progress: &progress})

	assert.NoError(t, d.Sweep())

	reloaded, _ := s.GetTask(task.TaskID)
	assert.Equal(t, models.TaskQueued, reloaded.Status)
	assert.Nil(t, reloaded.Progress)
}
