package jobs

import (
	"fmt"

	"github.com/arvindkr/geoflow/pkg/aggregate"
	"github.com/arvindkr/geoflow/pkg/models"
)

// NotificationOutput is the value the notification job produces.
type NotificationOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NotificationJob composes a message summarizing whatever it received as
// input (typically a preceding task's output, threaded in by the
// runner) and reports it "sent". It never contacts a real notification
// backend — that collaborator is out of scope per spec §1.
type NotificationJob struct{}

// Run implements registry.Job.
func (NotificationJob) Run(task *models.Task) (interface{}, error) {
	message := fmt.Sprintf("workflow %s step %d complete", task.WorkflowID, task.StepNumber)
	if task.Input != nil {
		message = fmt.Sprintf("%s (input: %v)", message, aggregate.ParseOrRaw(*task.Input))
	}

	out := NotificationOutput{Status: "sent", Message: message}
	if _, err := writeOutput(task, out); err != nil {
		return nil, err
	}
	return out, nil
}
