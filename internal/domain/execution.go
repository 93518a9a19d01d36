package domain

import "strings"

// Placeholders shown when the executor omits a field.
const (
	NoCodePlaceholder   = "# No code generated..."
	NoOutputPlaceholder = "No terminal output available."
)

// Markers shown once every attempt has failed.
const (
	ExhaustedCodeMarker   = "# Error connecting to backend after max retries..."
	ExhaustedOutputMarker = "Max retries reached. Check backend logs."
)

// Markers stored in the session log for an exhausted action.
const (
	RecordErrorCode       = "# Error"
	RecordExhaustedOutput = "Max retries reached."
)

// Outcome describes how a generation action ended.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// PromptRequest captures one user instruction.
type PromptRequest struct {
	Prompt string
}

// Validate rejects blank prompts before any network traffic happens.
func (r PromptRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &EmptyPromptError{}
	}
	return nil
}

// ExecutionResult is what the remote executor produced for a prompt.
// Empty fields mean the executor did not return them.
type ExecutionResult struct {
	GeneratedCode  string  `json:"final_code"`
	TerminalOutput string  `json:"output"`
	Outcome        Outcome `json:"outcome,omitempty"`
}

// WithPlaceholders substitutes display placeholders for absent fields.
func (r ExecutionResult) WithPlaceholders() ExecutionResult {
	if r.GeneratedCode == "" {
		r.GeneratedCode = NoCodePlaceholder
	}
	if r.TerminalOutput == "" {
		r.TerminalOutput = NoOutputPlaceholder
	}
	return r
}

// ExhaustedResult is the display pair used after the last failed attempt.
func ExhaustedResult() ExecutionResult {
	return ExecutionResult{
		GeneratedCode:  ExhaustedCodeMarker,
		TerminalOutput: ExhaustedOutputMarker,
		Outcome:        OutcomeFailed,
	}
}

// ExportResult describes a finished session log export.
type ExportResult struct {
	Path  string
	Count int
	Bytes int
}
