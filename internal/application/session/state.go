// Package session models the front end as an explicit state value driven by
// discrete events.
package session

import "fmt"

// Button labels for the generate action.
const (
	LabelIdle       = "Generate Code"
	LabelGenerating = "Generating..."
)

// State is everything the front end renders.
type State struct {
	Prompt      string
	Code        string
	Output      string
	RetryCount  int
	MaxAttempts int
	Loading     bool
	Notice      string
	LastError   string
	LogCount    int
	LastExport  string
}

// CanSubmit reports whether the generate action is enabled.
func (s State) CanSubmit() bool {
	return !s.Loading
}

// ButtonLabel returns the generate action label.
func (s State) ButtonLabel() string {
	if s.Loading {
		return LabelGenerating
	}
	return LabelIdle
}

// Reduce applies e to s and returns the next state. It has no side effects.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case PromptEdited:
		s.Prompt = ev.Prompt
	case PromptRejected:
		// a rejected submission never starts a loop
		s.Loading = false
		s.Notice = ev.Reason
	case Submitted:
		if s.Loading {
			return s
		}
		s.Prompt = ev.Prompt
		s.Loading = true
		s.Code = ""
		s.Output = ""
		s.Notice = ""
		s.LastError = ""
	case AttemptStarted:
		s.RetryCount = ev.Attempt
		s.MaxAttempts = ev.MaxAttempts
	case AttemptFailed:
		if ev.Err != nil {
			s.LastError = fmt.Sprintf("attempt %d: %v", ev.Attempt, ev.Err)
		}
	case Succeeded:
		s = finish(s, ev.Result.GeneratedCode, ev.Result.TerminalOutput, ev.Record.Retries)
	case Exhausted:
		s = finish(s, ev.Result.GeneratedCode, ev.Result.TerminalOutput, ev.Record.Retries)
	case Exported:
		s.LastExport = ev.Export.Path
		s.Notice = fmt.Sprintf("Exported %d records to %s", ev.Export.Count, ev.Export.Path)
	case ExportFailed:
		s.Notice = fmt.Sprintf("Export failed: %v", ev.Err)
	}
	return s
}

func finish(s State, code, output string, retries int) State {
	s.Loading = false
	s.Code = code
	s.Output = output
	s.RetryCount = retries
	s.LogCount++
	return s
}
