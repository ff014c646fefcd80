package sender

import (
	"fmt"

	"github.com/pkg/errors"
)

// Step names the pipeline stage a fatal error came from
type Step string

const (
	StepConfig       Step = "config"
	StepQuery        Step = "query"
	StepPrecondition Step = "precondition"
	StepSigning      Step = "signing"
	StepSubmission   Step = "submission"
)

// StepError tags a fatal error with the stage it happened in.
// Watch outcomes are never StepErrors.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause walk through StepError
func (e *StepError) Cause() error {
	return e.Err
}

func stepError(step Step, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// StepOf returns the step of the first StepError in err's chain, "" if there is none
func StepOf(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
