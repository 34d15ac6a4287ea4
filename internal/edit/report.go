package edit

import (
	"errors"
	"fmt"
)

// ErrOutOfOrder reports that a collection command was executed or reverted
// while its slot was in the wrong state, such as executing twice without a
// revert. SetProperty never reports it: both of its calls are the same swap.
var ErrOutOfOrder = errors.New("command applied out of order")

// Op names the command kind that failed.
type Op string

const (
	OpSet        Op = "set"
	OpAddItem    Op = "add_item"
	OpRemoveItem Op = "remove_item"
)

// Phase tells whether the failure happened while executing or reverting.
type Phase string

const (
	PhaseExecute Phase = "execute"
	PhaseRevert  Phase = "revert"
)

// Failure describes a mutation that was skipped. Err wraps one of the
// property package errors or ErrOutOfOrder.
type Failure struct {
	Op     Op
	Phase  Phase
	Handle any
	Path   string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s %q: %v", f.Op, f.Phase, f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Reporter receives every skipped mutation. Commands never return errors;
// the reporter is the only place failures surface.
type Reporter interface {
	Report(Failure)
}

// ReporterFunc adapts a function into a Reporter.
type ReporterFunc func(Failure)

func (f ReporterFunc) Report(failure Failure) {
	if f != nil {
		f(failure)
	}
}
