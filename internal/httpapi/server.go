// Package httpapi is the thin HTTP adapter (spec §6): it accepts
// analysis requests, materializes a workflow through the factory, and
// exposes read-only status/results endpoints. Grounded on the teacher's
// internal/http/server.go — a bare net/http.ServeMux wired with
// http.HandleFunc per route, logging through the shared logrus logger —
// generalized to JSON request/response bodies and path-suffix id
// routing the way the teacher's own server_test.go (WorkflowByIDHandler)
// exercises it.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/arvindkr/geoflow/internal/definition"
	"github.com/arvindkr/geoflow/pkg/aggregate"
	"github.com/arvindkr/geoflow/pkg/engineerr"
	"github.com/arvindkr/geoflow/pkg/factory"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

// Logger is the logging interface the server logs through.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Server is the HTTP adapter over the workflow factory and store.
type Server struct {
	store           store.Store
	factory         *factory.Factory
	definitions     *definition.Loader
	defaultWorkflow string
	logger          Logger
}

// New returns a Server. defaultWorkflow is the definition name used when
// a POST /analysis request omits workflowName.
func New(s store.Store, f *factory.Factory, defs *definition.Loader, defaultWorkflow string, logger Logger) *Server {
	return &Server{store: s, factory: f, definitions: defs, defaultWorkflow: defaultWorkflow, logger: logger}
}

// Handler builds the routed mux, grounded on the teacher's flat
// HandleFunc registration style.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/analysis", s.analysisHandler)
	mux.HandleFunc("/workflow/", s.workflowHandler)
	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "geoflow server is running")
}

type analysisRequest struct {
	ClientID     string `json:"clientId"`
	GeoJSON      string `json:"geoJson"`
	WorkflowName string `json:"workflowName"`
}

type analysisResponse struct {
	WorkflowID string `json:"workflowId"`
	Message    string `json:"message"`
}

func (s *Server) analysisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidWorkflow: malformed request body")
		return
	}
	if req.ClientID == "" {
		writeError(w, http.StatusBadRequest, "InvalidWorkflow: clientId is required")
		return
	}
	if req.GeoJSON == "" {
		writeError(w, http.StatusBadRequest, "InvalidWorkflow: geoJson is required")
		return
	}
	workflowName := req.WorkflowName
	if workflowName == "" {
		workflowName = s.defaultWorkflow
	}

	def, err := s.definitions.Load(workflowName)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("InvalidWorkflow: unknown workflow %q", workflowName))
		return
	}

	wf, err := s.factory.CreateWorkflow(def, req.ClientID, req.GeoJSON)
	if err != nil {
		if strings.Contains(err.Error(), engineerr.ErrInvalidWorkflow.Error()) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Errorf("analysis: create workflow: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create workflow")
		return
	}

	writeJSON(w, http.StatusAccepted, analysisResponse{
		WorkflowID: wf.WorkflowID,
		Message:    fmt.Sprintf("workflow %s accepted", wf.WorkflowID),
	})
}

// workflowHandler dispatches /workflow/{id}/status and
// /workflow/{id}/results by trimming the known path suffixes, the way
// the teacher's WorkflowByIDHandler trims "/workflows/" to recover an id.
func (s *Server) workflowHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/workflow/")
	switch {
	case strings.HasSuffix(rest, "/status"):
		s.statusHandler(w, r, strings.TrimSuffix(rest, "/status"))
	case strings.HasSuffix(rest, "/results"):
		s.resultsHandler(w, r, strings.TrimSuffix(rest, "/results"))
	default:
		http.NotFound(w, r)
	}
}

type statusResponse struct {
	WorkflowID     string `json:"workflowId"`
	Status         string `json:"status"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request, workflowID string) {
	if r.Method != http.MethodGet || workflowID == "" {
		http.NotFound(w, r)
		return
	}
	wf, err := s.store.GetWorkflow(workflowID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	completed := 0
	for _, t := range wf.Tasks {
		if t.Status == models.TaskCompleted {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		WorkflowID:     wf.WorkflowID,
		Status:         string(wf.Status),
		CompletedTasks: completed,
		TotalTasks:     len(wf.Tasks),
	})
}

type resultsResponse struct {
	WorkflowID  string      `json:"workflowId"`
	Status      string      `json:"status"`
	FinalResult interface{} `json:"finalResult,omitempty"`
}

type resultsPendingResponse struct {
	Message    string `json:"message"`
	WorkflowID string `json:"workflowId"`
	Status     string `json:"status"`
}

func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request, workflowID string) {
	if r.Method != http.MethodGet || workflowID == "" {
		http.NotFound(w, r)
		return
	}
	wf, err := s.store.GetWorkflow(workflowID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if wf.Status != models.WorkflowCompleted {
		writeJSON(w, http.StatusBadRequest, resultsPendingResponse{
			Message:    "workflow has not completed",
			WorkflowID: wf.WorkflowID,
			Status:     string(wf.Status),
		})
		return
	}

	var parsed interface{}
	if wf.FinalResult != nil {
		parsed = aggregate.ParseOrRaw(*wf.FinalResult)
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		WorkflowID:  wf.WorkflowID,
		Status:      string(wf.Status),
		FinalResult: parsed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
