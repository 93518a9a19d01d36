package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doeshing/raix/internal/application/generate"
	"github.com/doeshing/raix/internal/application/session"
	"github.com/doeshing/raix/internal/domain"
)

func TestEnterWithBlankPromptShowsNotice(t *testing.T) {
	gen := &fakeGenerator{}
	m := New(context.Background(), gen, &fakeExporter{}, "   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state := next.(Model).State()

	if cmd != nil {
		t.Fatal("blank prompt should not start a loop")
	}
	if state.Notice != "Please enter a prompt!" || state.Loading {
		t.Fatalf("unexpected state: %+v", state)
	}
	if gen.calls.Load() != 0 {
		t.Fatal("generator must not be called")
	}
}

func TestEnterStartsLoopAndIgnoresSecondEnter(t *testing.T) {
	m := New(context.Background(), &fakeGenerator{}, &fakeExporter{}, "print hello")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected loop command")
	}
	if !m.State().Loading || m.State().ButtonLabel() != session.LabelGenerating {
		t.Fatalf("expected loading state, got %+v", m.State())
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("second enter while loading must be a no-op")
	}
	if next.(Model).State() != m.State() {
		t.Fatal("state changed on ignored enter")
	}
}

func TestLoopEventsDriveState(t *testing.T) {
	gen := &fakeGenerator{}
	m := New(context.Background(), gen, &fakeExporter{}, "print hello")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// run the loop synchronously and replay its events
	events := make(chan session.Event, eventBuffer)
	done := runLoop(context.Background(), gen, domain.PromptRequest{Prompt: "print hello"}, events)()
	if err := done.(loopDoneMsg).err; err != nil {
		t.Fatalf("loop error: %v", err)
	}

	m.events = events
	for {
		msg := waitForEvent(events)()
		if msg == nil {
			break
		}
		next, _ = m.Update(msg)
		m = next.(Model)
	}

	state := m.State()
	if state.Loading {
		t.Fatal("terminal event should clear loading")
	}
	if state.Code != "print('hello')" || state.Output != "hello" || state.RetryCount != 2 || state.LogCount != 1 {
		t.Fatalf("unexpected final state: %+v", state)
	}

	view := m.View()
	for _, want := range []string{"Generated Code:", "Terminal Output", "Retry Attempts: 2", session.LabelIdle} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestProgressIsVisibleWhileLoading(t *testing.T) {
	m := New(context.Background(), &fakeGenerator{}, &fakeExporter{}, "print hello")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(loopEventMsg{event: session.AttemptStarted{Attempt: 2, MaxAttempts: 3}})
	next, _ = next.(Model).Update(loopEventMsg{event: session.AttemptFailed{Attempt: 2, Err: errors.New("status 502")}})

	view := next.(Model).View()
	if !strings.Contains(view, "attempt 2/3") || !strings.Contains(view, "status 502") {
		t.Fatalf("progress not rendered:\n%s", view)
	}
}

func TestExportKey(t *testing.T) {
	exporter := &fakeExporter{result: domain.ExportResult{Path: "recursive-ai-logs-2026-03-01.json", Count: 2}}
	m := New(context.Background(), &fakeGenerator{}, exporter, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if cmd == nil {
		t.Fatal("expected export command")
	}
	next, _ := m.Update(cmd())
	state := next.(Model).State()
	if state.LastExport != "recursive-ai-logs-2026-03-01.json" || !strings.Contains(state.Notice, "Exported 2 records") {
		t.Fatalf("unexpected state: %+v", state)
	}

	exporter.err = errors.New("read-only file system")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	next, _ = m.Update(cmd())
	if !strings.Contains(next.(Model).State().Notice, "read-only file system") {
		t.Fatalf("export failure not surfaced: %+v", next.(Model).State())
	}
}

func TestTypingUpdatesPrompt(t *testing.T) {
	m := New(context.Background(), &fakeGenerator{}, &fakeExporter{}, "")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	if got := next.(Model).State().Prompt; got != "hi" {
		t.Fatalf("Prompt = %q", got)
	}
}

func TestEscQuits(t *testing.T) {
	m := New(context.Background(), &fakeGenerator{}, &fakeExporter{}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("esc should quit")
	}
}

type fakeGenerator struct {
	calls atomic.Int32
}

func (f *fakeGenerator) Execute(_ context.Context, req domain.PromptRequest, observe generate.Observer) (domain.ExecutionResult, error) {
	f.calls.Add(1)
	result := domain.ExecutionResult{GeneratedCode: "print('hello')", TerminalOutput: "hello", Outcome: domain.OutcomeSucceeded}
	observe(session.AttemptStarted{Attempt: 1, MaxAttempts: 3})
	observe(session.AttemptFailed{Attempt: 1, Err: errors.New("connection refused")})
	observe(session.AttemptStarted{Attempt: 2, MaxAttempts: 3})
	observe(session.Succeeded{Result: result, Record: domain.AttemptRecord{Prompt: req.Prompt, Retries: 2}})
	return result, nil
}

type fakeExporter struct {
	result domain.ExportResult
	err    error
}

func (f *fakeExporter) Export() (domain.ExportResult, error) {
	if f.err != nil {
		return domain.ExportResult{}, f.err
	}
	return f.result, nil
}
