package seed

import (
	"errors"
	"fmt"
)

// ResetError reports a failed reset step.
type ResetError struct {
	// Command is the external client that was run, empty for an
	// in-process reset.
	Command string

	// Stderr is the trimmed standard error of the client, if any.
	Stderr string

	Err error
}

// Error implements the error interface.
func (e *ResetError) Error() string {
	switch {
	case e.Command == "":
		return fmt.Sprintf("reset failed: %v", e.Err)
	case e.Stderr != "":
		return fmt.Sprintf("reset via %s failed: %v: %s", e.Command, e.Err, e.Stderr)
	default:
		return fmt.Sprintf("reset via %s failed: %v", e.Command, e.Err)
	}
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// IsResetFailed returns true if err is, or wraps, a ResetError.
func IsResetFailed(err error) bool {
	var re *ResetError
	return errors.As(err, &re)
}

// StepError reports the step a run stopped at. The step's failure has
// already been passed to the Reporter.
type StepError struct {
	Step string
	Err  error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// FailedStep returns the step err stopped at, if it came from a step.
func FailedStep(err error) (string, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step, true
	}
	return "", false
}
