// Package engineerr holds the sentinel error taxonomy shared by the
// factory, registry, runner, and report generator, per the error
// taxonomy in the design notes: InvalidWorkflow, UnknownTaskType,
// JobError, DependencyNotSatisfied, ReportPrematurelyRequested.
package engineerr

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidWorkflow is returned by the factory when a workflow
	// definition fails validation. No rows are created when this error is
	// returned.
	ErrInvalidWorkflow = errors.New("InvalidWorkflow")

	// ErrUnknownTaskType is returned by the registry when a taskType has no
	// bound job. Should not occur once factory validation has run.
	ErrUnknownTaskType = errors.New("UnknownTaskType")

	// ErrJobFailure wraps any error surfaced by a job's Run method.
	ErrJobFailure = errors.New("JobError")

	// ErrDependencyNotSatisfied is the runner's defensive check: the
	// dispatcher should never hand it a task whose dependency isn't
	// completed.
	ErrDependencyNotSatisfied = errors.New("DependencyNotSatisfied")

	// ErrReportPrematurelyRequested is the report generator's defensive
	// check: a preceding task was still queued or in progress.
	ErrReportPrematurelyRequested = errors.New("ReportPrematurelyRequested")
)

// InvalidWorkflow wraps a validation failure with the required
// "InvalidWorkflow:"-style message so HTTP callers can prefix-match it.
// errors.Wrap puts its message argument before the wrapped error's text,
// so building the string with fmt.Errorf's %w keeps ErrInvalidWorkflow's
// text in front where the HTTP contract expects it.
func InvalidWorkflow(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidWorkflow, reason)
}
