package filesync

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/litedo/types"
)

// Outcome is the status reported by every file operation.
type Outcome string

const (
	OutcomeSuccess     Outcome = "success"
	OutcomeConflict    Outcome = "conflict-needs-confirmation"
	OutcomeFormatError Outcome = "format-error"
	OutcomeIOError     Outcome = "io-error"
	OutcomeCancelled   Outcome = "user-cancelled"
)

// Result is the outcome of a file operation with a human readable message.
type Result struct {
	Outcome Outcome
	Message string
	Err     error
	// Changed is set when the operation read or wrote the bound file.
	Changed bool
}

// OK reports a successful operation.
func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

func (r Result) String() string {
	if r.Message == "" {
		return string(r.Outcome)
	}
	return fmt.Sprintf("%s: %s", r.Outcome, r.Message)
}

func success(format string, args ...any) Result {
	return Result{Outcome: OutcomeSuccess, Message: fmt.Sprintf(format, args...)}
}

func transferred(format string, args ...any) Result {
	r := success(format, args...)
	r.Changed = true
	return r
}

// failure maps an error to format-error or io-error.
func failure(err error) Result {
	switch {
	case errors.Is(err, types.ErrFormat), errors.Is(err, types.ErrValidation):
		return Result{Outcome: OutcomeFormatError, Message: err.Error(), Err: err}
	case errors.Is(err, types.ErrConflict):
		return Result{Outcome: OutcomeConflict, Message: err.Error(), Err: err}
	}
	return Result{Outcome: OutcomeIOError, Message: err.Error(), Err: err}
}
