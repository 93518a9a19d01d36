// Package tui is the interactive front end: a prompt box, a generate action,
// code and output panes, a retry counter and a session log export.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/raix/internal/application/generate"
	"github.com/doeshing/raix/internal/application/session"
	"github.com/doeshing/raix/internal/domain"
)

const (
	defaultWidth  = 80
	eventBuffer   = 16
	promptExample = "Write a function to check prime number"
)

// Generator runs one generation action.
type Generator interface {
	Execute(ctx context.Context, req domain.PromptRequest, observe generate.Observer) (domain.ExecutionResult, error)
}

// Exporter writes the session log.
type Exporter interface {
	Export() (domain.ExportResult, error)
}

// loopEventMsg carries one event published by the running loop.
type loopEventMsg struct {
	event session.Event
}

// loopDoneMsg is delivered when Execute returns.
type loopDoneMsg struct {
	err error
}

type exportMsg struct {
	event session.Event
}

// Model is the bubbletea model. All visible state lives in a session.State
// and only changes through session.Reduce.
type Model struct {
	ctx       context.Context
	generator Generator
	exporter  Exporter

	state   session.State
	events  chan session.Event
	input   textinput.Model
	spinner spinner.Model
	width   int
	theme   theme
}

type theme struct {
	title  lipgloss.Style
	label  lipgloss.Style
	code   lipgloss.Style
	output lipgloss.Style
	button lipgloss.Style
	busy   lipgloss.Style
	notice lipgloss.Style
	help   lipgloss.Style
}

func newTheme() theme {
	accent := lipgloss.Color("#3b82f6")
	green := lipgloss.Color("#00ff90")
	muted := lipgloss.Color("#9ca3af")
	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1)

	return theme{
		title:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:  lipgloss.NewStyle().Bold(true),
		code:   panel.Foreground(green),
		output: panel,
		button: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 2),
		busy:   lipgloss.NewStyle().Bold(true).Foreground(muted).Padding(0, 2),
		notice: lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")),
		help:   lipgloss.NewStyle().Foreground(muted),
	}
}

// New builds the model. prompt prefills the input.
func New(ctx context.Context, generator Generator, exporter Exporter, prompt string) Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = promptExample
	input.CharLimit = 4000
	input.SetValue(prompt)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		generator: generator,
		exporter:  exporter,
		state:     session.State{Prompt: prompt},
		input:     input,
		spinner:   sp,
		width:     defaultWidth,
		theme:     newTheme(),
	}
}

// State returns the current UI state.
func (m Model) State() session.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-6, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyCtrlE:
			return m, m.exportCmd()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != m.state.Prompt {
			m.state = session.Reduce(m.state, session.PromptEdited{Prompt: m.input.Value()})
		}
		return m, cmd

	case loopEventMsg:
		m.state = session.Reduce(m.state, msg.event)
		return m, waitForEvent(m.events)

	case loopDoneMsg:
		var empty *domain.EmptyPromptError
		if errors.As(msg.err, &empty) || errors.Is(msg.err, domain.ErrGenerationInProgress) {
			m.state = session.Reduce(m.state, session.PromptRejected{Reason: msg.err.Error()})
		}
		return m, nil

	case exportMsg:
		m.state = session.Reduce(m.state, msg.event)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit starts a generation action unless one is already running.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.state.CanSubmit() {
		return m, nil
	}
	req := domain.PromptRequest{Prompt: m.input.Value()}
	if err := req.Validate(); err != nil {
		m.state = session.Reduce(m.state, session.PromptRejected{Reason: err.Error()})
		return m, nil
	}

	m.state = session.Reduce(m.state, session.Submitted{Prompt: req.Prompt})
	m.events = make(chan session.Event, eventBuffer)
	return m, tea.Batch(runLoop(m.ctx, m.generator, req, m.events), waitForEvent(m.events))
}

// runLoop executes the action and forwards its events; the channel is
// closed when Execute returns.
func runLoop(ctx context.Context, generator Generator, req domain.PromptRequest, events chan<- session.Event) tea.Cmd {
	return func() tea.Msg {
		defer close(events)
		_, err := generator.Execute(ctx, req, func(ev session.Event) {
			events <- ev
		})
		return loopDoneMsg{err: err}
	}
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return loopEventMsg{event: ev}
	}
}

func (m Model) exportCmd() tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		result, err := exporter.Export()
		if err != nil {
			return exportMsg{event: session.ExportFailed{Err: err}}
		}
		return exportMsg{event: session.Exported{Export: result}}
	}
}

func (m Model) View() string {
	t := m.theme
	paneWidth := max(m.width-4, 20)
	var b strings.Builder

	b.WriteString(t.title.Render("Recursive AI Executor"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.state.Loading {
		progress := m.state.ButtonLabel()
		if m.state.MaxAttempts > 0 {
			progress = fmt.Sprintf("%s attempt %d/%d", progress, m.state.RetryCount, m.state.MaxAttempts)
		}
		b.WriteString(m.spinner.View() + t.busy.Render(progress))
	} else {
		b.WriteString(t.button.Render(m.state.ButtonLabel()))
	}
	b.WriteString("\n\n")

	b.WriteString(t.label.Render("Generated Code:"))
	b.WriteString("\n")
	b.WriteString(t.code.Width(paneWidth).Render(m.state.Code))
	b.WriteString("\n")
	b.WriteString(t.label.Render("Terminal Output"))
	b.WriteString("\n")
	b.WriteString(t.output.Width(paneWidth).Render(m.state.Output))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Retry Attempts: %d\n", m.state.RetryCount))

	if m.state.Loading && m.state.LastError != "" {
		b.WriteString(t.help.Render(m.state.LastError))
		b.WriteString("\n")
	}
	if m.state.Notice != "" {
		b.WriteString(t.notice.Render(m.state.Notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.help.Render(fmt.Sprintf("%d log record(s) | enter generate | ctrl+e export logs | esc quit", m.state.LogCount)))
	b.WriteString("\n")
	return b.String()
}
