package domain

import (
	"errors"
	"fmt"
)

// ErrGenerationInProgress is returned when a second action starts while one is running.
var ErrGenerationInProgress = errors.New("generation already in progress")

// EmptyPromptError is returned for blank prompts.
type EmptyPromptError struct{}

func (e *EmptyPromptError) Error() string {
	return "Please enter a prompt!"
}

// FailureKind classifies a failed attempt.
type FailureKind string

const (
	FailureNetwork FailureKind = "network"
	FailureStatus  FailureKind = "status"
	FailureDecode  FailureKind = "decode"
)

// TransientRequestError is one failed attempt inside the retry loop.
type TransientRequestError struct {
	Attempt    int
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *TransientRequestError) Error() string {
	prefix := fmt.Sprintf("%s failure", e.Kind)
	if e.Attempt > 0 {
		prefix = fmt.Sprintf("attempt %d: %s", e.Attempt, prefix)
	}
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("%s (status %d)", prefix, e.StatusCode)
	}
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *TransientRequestError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is returned after the final attempt fails.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("retries exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}
