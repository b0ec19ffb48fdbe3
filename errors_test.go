package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitCounterOnly, exitCode(fmt.Errorf("counter: %w", errCounterOnly)))
	assert.Equal(t, exitFailure, exitCode(&UsageError{Msg: "bad"}))
	assert.Equal(t, exitFailure, exitCode(&WriteError{Step: "remove", Path: "x", Err: errors.New("denied")}))
}

func TestProcessingErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("failed to annotate x: %w", &ProcessingError{Line: 7, Text: "G1 Z", Err: cause})
	assert.True(t, errors.Is(err, cause))

	var perr *ProcessingError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 7, perr.Line)
	assert.Contains(t, err.Error(), `line 7 "G1 Z": boom`)
}
