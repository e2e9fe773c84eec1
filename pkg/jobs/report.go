// report.go implements the report generator (component F): a
// privileged job, activated by taskType "reportGeneration", that
// aggregates the outputs of preceding tasks in the same workflow into a
// structured report and writes it directly into the owning workflow's
// finalResult (spec §4.F).
package jobs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arvindkr/geoflow/pkg/aggregate"
	"github.com/arvindkr/geoflow/pkg/engineerr"
	"github.com/arvindkr/geoflow/pkg/models"
	"github.com/arvindkr/geoflow/pkg/store"
)

// ReportEntry is one task's contribution to a generated report.
type ReportEntry struct {
	TaskID     string      `json:"taskId"`
	Type       string      `json:"type"`
	StepNumber int         `json:"stepNumber"`
	Status     string      `json:"status"`
	Output     interface{} `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// ReportSummary carries the report's aggregate counts.
type ReportSummary struct {
	TotalTasks        int    `json:"totalTasks"`
	CompletedTasks    int    `json:"completedTasks"`
	FailedTasks       int    `json:"failedTasks"`
	ReportGeneratedAt string `json:"reportGeneratedAt"`
}

// Report is the structured value the report generation job returns.
type Report struct {
	WorkflowID  string        `json:"workflowId"`
	Tasks       []ReportEntry `json:"tasks"`
	FinalReport string        `json:"finalReport"`
	Summary     ReportSummary `json:"summary"`
}

// ReportGenerationJob is the privileged report generator. Unlike every
// other job it is given direct store access, because spec §4.F step 6
// requires it to write the owning workflow's finalResult itself.
type ReportGenerationJob struct {
	Store store.Store
}

// Run implements registry.Job.
func (j ReportGenerationJob) Run(task *models.Task) (interface{}, error) {
	all, err := j.Store.ListTasksByWorkflow(task.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("report: list tasks for workflow %s: %w", task.WorkflowID, err)
	}

	preceding := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.TaskID == task.TaskID || t.StepNumber >= task.StepNumber {
			continue
		}
		preceding = append(preceding, t)
	}
	sort.Slice(preceding, func(i, k int) bool { return preceding[i].StepNumber < preceding[k].StepNumber })

	for _, t := range preceding {
		if t.Status == models.TaskQueued || t.Status == models.TaskInProgress {
			return nil, engineerr.ErrReportPrematurelyRequested
		}
	}

	entries := make([]ReportEntry, 0, len(preceding))
	var completedCount, failedCount int
	var successLines, failureLines []string
	for _, t := range preceding {
		entry := ReportEntry{TaskID: t.TaskID, Type: t.TaskType, StepNumber: t.StepNumber, Status: string(t.Status)}
		switch t.Status {
		case models.TaskCompleted:
			completedCount++
			var parsed interface{}
			if t.Output != nil {
				parsed = aggregate.ParseOrRaw(*t.Output)
			}
			entry.Output = parsed
			successLines = append(successLines, fmt.Sprintf("- `%s` (Step %d): %s", t.TaskType, t.StepNumber, summarizeOutput(parsed)))
		case models.TaskFailed:
			failedCount++
			message, raw := aggregate.ExtractError(t.Output)
			entry.Error = message
			if raw != nil {
				entry.Output = *raw
			}
			failureLines = append(failureLines, fmt.Sprintf("- `%s` (Step %d): %s", t.TaskType, t.StepNumber, message))
		default:
			// queued/in_progress can't reach here after the premature check above.
		}
		entries = append(entries, entry)
	}

	generatedAt := time.Now().UTC().Format(time.RFC3339)
	summary := ReportSummary{
		TotalTasks:        len(preceding),
		CompletedTasks:    completedCount,
		FailedTasks:       failedCount,
		ReportGeneratedAt: generatedAt,
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workflow Report\n")
	fmt.Fprintf(&b, "Workflow ID: %s\n", task.WorkflowID)
	fmt.Fprintf(&b, "Total: %d, Completed: %d, Failed: %d\n", summary.TotalTasks, summary.CompletedTasks, summary.FailedTasks)
	if len(successLines) > 0 {
		b.WriteString("Successful Tasks:\n")
		for _, line := range successLines {
			b.WriteString(line + "\n")
		}
	}
	if len(failureLines) > 0 {
		b.WriteString("Failed Tasks:\n")
		for _, line := range failureLines {
			b.WriteString(line + "\n")
		}
	}
	fmt.Fprintf(&b, "Generated at: %s\n", generatedAt)

	report := Report{
		WorkflowID:  task.WorkflowID,
		Tasks:       entries,
		FinalReport: b.String(),
		Summary:     summary,
	}

	serialized, err := writeOutput(task, report)
	if err != nil {
		return nil, fmt.Errorf("report: serialize: %w", err)
	}

	wf, err := j.Store.GetWorkflow(task.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("report: load workflow %s: %w", task.WorkflowID, err)
	}
	wf.FinalResult = &serialized
	if err := j.Store.UpdateWorkflow(wf); err != nil {
		return nil, fmt.Errorf("report: persist workflow %s finalResult: %w", task.WorkflowID, err)
	}

	return report, nil
}

// summarizeOutput renders a completed task's parsed output as a short,
// type-aware human-readable line (spec §4.F step "Output summarization
// is type-aware").
func summarizeOutput(v interface{}) string {
	switch val := v.(type) {
	case map[string]interface{}:
		if area, ok := val["area"].(float64); ok {
			unit, _ := val["unit"].(string)
			if unit == "" {
				unit = "square meters"
			}
			return fmt.Sprintf("Area calculated: %v %s", area, unit)
		}
		if country, ok := val["country"].(string); ok {
			return fmt.Sprintf("Location: %s", country)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return strings.Join(keys, ", ")
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
