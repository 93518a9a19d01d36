package session

import "github.com/doeshing/raix/internal/domain"

// Event is a discrete transition of the UI state.
type Event interface {
	isEvent()
}

// PromptEdited replaces the prompt text.
type PromptEdited struct {
	Prompt string
}

// PromptRejected reports a blank submission.
type PromptRejected struct {
	Reason string
}

// Submitted starts a generation action.
type Submitted struct {
	Prompt string
}

// AttemptStarted is published right after the attempt counter is incremented.
type AttemptStarted struct {
	Attempt     int
	MaxAttempts int
}

// AttemptFailed reports one failed round-trip.
type AttemptFailed struct {
	Attempt int
	Err     error
}

// Succeeded ends an action with a remote result.
type Succeeded struct {
	Result domain.ExecutionResult
	Record domain.AttemptRecord
}

// Exhausted ends an action after the last attempt failed.
type Exhausted struct {
	Result domain.ExecutionResult
	Record domain.AttemptRecord
	Err    error
}

// Exported reports a written session log.
type Exported struct {
	Export domain.ExportResult
}

// ExportFailed reports an export error.
type ExportFailed struct {
	Err error
}

func (PromptEdited) isEvent()   {}
func (PromptRejected) isEvent() {}
func (Submitted) isEvent()      {}
func (AttemptStarted) isEvent() {}
func (AttemptFailed) isEvent()  {}
func (Succeeded) isEvent()      {}
func (Exhausted) isEvent()      {}
func (Exported) isEvent()       {}
func (ExportFailed) isEvent()   {}
