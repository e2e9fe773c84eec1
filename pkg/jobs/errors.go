package jobs

import (
	"encoding/json"

	"github.com/arvindkr/geoflow/pkg/models"
)

// errorEnvelope is the structured error shape jobs write into
// task.Output before failing (spec §4.D: "the job implementation is
// permitted ... to write a serialized error envelope into task.output
// before failing").
type errorEnvelope struct {
	Message string `json:"message"`
}

// writeErrorEnvelope serializes a JobError envelope into task.Output.
// Marshaling a fixed struct cannot fail, so it returns nothing; callers
// return their own error unchanged after calling it.
func writeErrorEnvelope(task *models.Task, message string) {
	data, err := json.Marshal(errorEnvelope{Message: message})
	if err != nil {
		return
	}
	s := string(data)
	task.Output = &s
}

func writeOutput(task *models.Task, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(data)
	task.Output = &s
	return s, nil
}
