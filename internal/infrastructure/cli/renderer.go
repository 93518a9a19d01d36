package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/raix/internal/application/session"
	"github.com/doeshing/raix/internal/domain"
	"github.com/doeshing/raix/internal/infrastructure/logstore"
)

// RenderResult prints the generated code, terminal output and retry count.
func RenderResult(out io.Writer, state session.State) {
	fmt.Fprintln(out, "Generated Code:")
	fmt.Fprintln(out, indent(state.Code))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Terminal Output:")
	fmt.Fprintln(out, indent(state.Output))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Retry Attempts: %d\n", state.RetryCount)
}

type runReport struct {
	Prompt  string `json:"prompt"`
	Code    string `json:"code"`
	Output  string `json:"output"`
	Retries int    `json:"retries"`
	Outcome string `json:"outcome"`
	Error   string `json:"error,omitempty"`
}

// RenderJSON prints the result as a single JSON object.
func RenderJSON(out io.Writer, state session.State, runErr error) error {
	report := runReport{
		Prompt:  state.Prompt,
		Code:    state.Code,
		Output:  state.Output,
		Retries: state.RetryCount,
		Outcome: string(domain.OutcomeSucceeded),
	}
	if runErr != nil {
		report.Outcome = string(domain.OutcomeFailed)
		report.Error = runErr.Error()
	}
	data, err := logstore.Encode(report)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func indent(text string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}
