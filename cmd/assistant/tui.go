package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tailored-agentic-units/assistant/observability"
	"github.com/tailored-agentic-units/assistant/ollama"
	"github.com/tailored-agentic-units/assistant/orchestrator"
	"github.com/tailored-agentic-units/assistant/prompt"
)

// Messages bridged from the orchestrator's subscriber into the tea loop.
type (
	deltaMsg      struct{ text string }
	streamErrMsg  struct{ message string }
	diagnosticMsg struct{ message string }
	completeMsg   struct{}
)

// teaSubscriber forwards orchestrator notifications over a channel so the
// tea runtime consumes them as messages on its own goroutine.
type teaSubscriber struct {
	events chan tea.Msg
}

func newTeaSubscriber() *teaSubscriber {
	return &teaSubscriber{events: make(chan tea.Msg, 64)}
}

func (s *teaSubscriber) OnDelta(_, text string)         { s.events <- deltaMsg{text: text} }
func (s *teaSubscriber) OnError(_, message string)      { s.events <- streamErrMsg{message: message} }
func (s *teaSubscriber) OnDiagnostic(_, message string) { s.events <- diagnosticMsg{message: message} }
func (s *teaSubscriber) OnComplete(string)              { s.events <- completeMsg{} }

func waitForEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-events }
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87ceeb"))
	userStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	helpMessage = "enter send · esc cancel · ctrl+c quit"
)

type tuiModel struct {
	orch        *orchestrator.Orchestrator
	events      chan tea.Msg
	contextFile string

	transcript string
	history    viewport.Model
	input      textinput.Model
	wait       spinner.Model

	modelName string
	streaming bool
	ready     bool
}

func newTUIModel(o *orchestrator.Orchestrator, events chan tea.Msg, modelName, contextFile string) tuiModel {
	in := textinput.New()
	in.Focus()
	in.Prompt = "> "
	in.Placeholder = "Ask about your code"
	in.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return tuiModel{
		orch:        o,
		events:      events,
		contextFile: contextFile,
		history:     viewport.New(0, 0),
		input:       in,
		wait:        sp,
		modelName:   modelName,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.history.Width = msg.Width
		m.history.Height = msg.Height - 3
		m.ready = true
		m.history.SetContent(m.transcript)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.orch.CancelCurrentRequest()
			return m, tea.Quit

		case tea.KeyEsc:
			if m.streaming {
				m.orch.CancelCurrentRequest()
				m.streaming = false
				m.append(faintStyle.Render("(cancelled)") + "\n\n")
			}
			return m, nil

		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			if line == "" || m.streaming {
				return m, nil
			}
			flags := prompt.Flags{ActiveFile: m.contextFile != ""}
			if err := m.orch.Submit(line, flags); err != nil {
				m.append(errorStyle.Render("error: "+err.Error()) + "\n")
				return m, nil
			}
			m.input.Reset()
			m.streaming = true
			m.append(userStyle.Render("you") + " " + line + "\n")
			return m, m.wait.Tick
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case deltaMsg:
		m.append(msg.text)
		return m, waitForEvent(m.events)

	case completeMsg:
		m.streaming = false
		m.append("\n\n")
		return m, waitForEvent(m.events)

	case streamErrMsg:
		m.streaming = false
		m.append("\n" + errorStyle.Render("error: "+msg.message) + "\n\n")
		return m, waitForEvent(m.events)

	case diagnosticMsg:
		m.append(faintStyle.Render("(skipped a malformed frame)") + "\n")
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.wait, cmd = m.wait.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m tuiModel) View() string {
	if !m.ready {
		return "starting..."
	}

	status := faintStyle.Render(helpMessage)
	if m.streaming {
		status = m.wait.View() + " generating"
	}

	return fmt.Sprintf("%s\n%s\n%s %s",
		m.history.View(),
		m.input.View(),
		titleStyle.Render("["+m.modelName+"]"),
		status,
	)
}

func (m *tuiModel) append(s string) {
	m.transcript += s
	m.history.SetContent(m.transcript)
	m.history.GotoBottom()
}

func runInteractive(cfg *orchestrator.Config, contextFile string) error {
	sub := newTeaSubscriber()

	o, err := orchestrator.New(cfg,
		orchestrator.WithSubscriber(sub),
		orchestrator.WithSources(fileSources{path: contextFile}),
		orchestrator.WithObserver(observability.NoOpObserver{}),
	)
	if err != nil {
		return err
	}

	models, err := o.Models(context.Background())
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	selected, ok := ollama.ResolveDefault(models, o.Model())
	if !ok {
		return fmt.Errorf("server at %s hosts no models", cfg.Server.BaseURL)
	}
	o.SetModel(selected)

	p := tea.NewProgram(
		newTUIModel(o, sub.events, selected, contextFile),
		tea.WithAltScreen(),
	)
	_, err = p.Run()

	// The tea loop no longer drains subscriber events; keep the dispatcher
	// unblocked while Close waits for it to finish.
	go func() {
		for range sub.events {
		}
	}()
	o.Close()
	return err
}
