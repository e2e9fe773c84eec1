package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arvindkr/geoflow/internal/definition"
	"github.com/arvindkr/geoflow/internal/httpapi"
	"github.com/arvindkr/geoflow/pkg/factory"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/registry"
	"github.com/arvindkr/geoflow/pkg/runner"
	"github.com/arvindkr/geoflow/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Infof(format string, args ...interface{})  {}
func (nopLogger) Errorf(format string, args ...interface{}) {}

func newTestServer(t *testing.T) (*httptest.Server, store.Store, *runner.Runner) {
	t.Helper()
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "example_workflow.yaml"),
		[]byte("name: example_workflow\nsteps:\n  - taskType: polygonArea\n    stepNumber: 1\n"), 0644))

	s := store.NewMemoryStore()
	reg := registry.New(map[string]registry.Job{
		"polygonArea": registry.JobFunc(func(task *models.Task) (interface{}, error) {
			return map[string]interface{}{"area": 1}, nil
		}),
	})
	fac := factory.New(s, reg, nopLogger{})
	defs := definition.NewLoader(dir)
	srv := httpapi.New(s, fac, defs, "example_workflow", nopLogger{})

	rec := reconcilerFor(s)
	rn := runner.New(s, reg, rec, nopLogger{})
	return httptest.NewServer(srv.Handler()), s, rn
}

func TestAnalysisHandler_Accepts(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"clientId": "c1", "geoJson": `{"type":"Point","coordinates":[1,2]}`})
	resp, err := ts.Client().Post(ts.URL+"/analysis", "application/json", bytes.NewReader(body))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out["workflowId"])
}

func TestAnalysisHandler_RejectsMissingClientID(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"geoJson": `{}`})
	resp, err := ts.Client().Post(ts.URL+"/analysis", "application/json", bytes.NewReader(body))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out["error"], "InvalidWorkflow:"), "error %q must begin with InvalidWorkflow:", out["error"])
}

func TestAnalysisHandler_UnknownWorkflowNamePrefixed(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]interface{}{
		"clientId":     "c1",
		"geoJson":      `{}`,
		"workflowName": "missing-workflow",
	})
	resp, err := ts.Client().Post(ts.URL+"/analysis", "application/json", bytes.NewReader(body))
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, strings.HasPrefix(out["error"], "InvalidWorkflow:"), "error %q must begin with InvalidWorkflow:", out["error"])
}

func TestStatusHandler_UnknownWorkflow404(t *testing.T) {
	ts, _, _ := newTestServer(t)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/workflow/missing/status")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResultsHandler_PendingBeforeTerminal(t *testing.T) {
	ts, s, _ := newTestServer(t)
	defer ts.Close()

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1", Status: models.WorkflowInitial})
	resp, err := ts.Client().Get(ts.URL + "/workflow/" + wf.WorkflowID + "/results")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "initial", out["status"])
}

func TestResultsHandler_ReturnsParsedFinalResultWhenCompleted(t *testing.T) {
	ts, s, rn := newTestServer(t)
	defer ts.Close()

	wf, _ := s.CreateWorkflow(models.Workflow{ClientID: "c1", Status: models.WorkflowInitial})
	task, _ := s.CreateTask(models.Task{WorkflowID: wf.WorkflowID, TaskType: "polygonArea", StepNumber: 1, Status: models.TaskQueued, GeoJSON: `{}`})
	assert.NoError(t, rn.Run(task))

	resp, err := ts.Client().Get(ts.URL + "/workflow/" + wf.WorkflowID + "/results")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "completed", out["status"])
	assert.NotNil(t, out["finalResult"])
}
