package main

import (
	"errors"
	"fmt"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitHelp        = 2
	exitCounterOnly = 3
)

// errCounterOnly reports that only the persisted counter was touched.
var errCounterOnly = errors.New("counter updated, no file processed")

type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return "usage: " + e.Msg }

type InputNotFoundError struct {
	Path    string
	Waited  string
	Summary string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input file %s not found after waiting %s (%s)", e.Path, e.Waited, e.Summary)
}

// ProcessingError aborts a pass on the given 1-based input line.
type ProcessingError struct {
	Line int
	Text string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// WriteError names the step of the output swap that failed.
type WriteError struct {
	Step string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Step, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errCounterOnly):
		return exitCounterOnly
	default:
		return exitFailure
	}
}
