package ui

import (
	"fmt"
	"strings"

	"curse-modpack/pack"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DoneMsg tells the progress model the batch finished.
type DoneMsg struct {
	Err error
}

// ProgressModel renders the progress of Executor.Apply. Feed it the
// executor's events through the channel; closing the channel ends it.
type ProgressModel struct {
	spinner spinner.Model
	events  <-chan tea.Msg

	status    string
	current   string
	completed []string
	errors    []string
	done      bool
	err       error
}

// NewProgress creates the model reading from events.
func NewProgress(events <-chan tea.Msg) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ProgressModel{
		spinner: s,
		events:  events,
		status:  "Preparing changes...",
	}
}

// Observer returns an Executor observer forwarding events into ch.
func Observer(ch chan<- tea.Msg) func(pack.Event) {
	return func(ev pack.Event) { ch <- ev }
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForActivity())
}

func (m ProgressModel) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || m.done {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.current = ""
		m.status = "Finished"
		if msg.Err != nil {
			m.status = "Stopped"
		}
		return m, tea.Quit

	case pack.Event:
		step := fmt.Sprintf("[%d/%d] %s", msg.Index+1, msg.Total, msg.Change)
		switch msg.Type {
		case pack.EventStart:
			m.status = "Applying changes..."
			m.current = step
		case pack.EventFetch:
			m.current = step + " (downloading)"
		case pack.EventCommit:
			m.completed = append(m.completed, step)
			m.current = ""
		case pack.EventRollback:
			m.errors = append(m.errors, fmt.Sprintf("%s: %v", step, msg.Err))
			m.current = ""
		}
		return m, m.waitForActivity()
	}

	return m, nil
}

// Err returns the error the batch finished with.
func (m ProgressModel) Err() error { return m.err }

func (m ProgressModel) View() string {
	var symbol string
	if m.done {
		symbol = Success("✓")
		if m.err != nil || len(m.errors) > 0 {
			symbol = Error("✗")
		}
	} else {
		symbol = m.spinner.View()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n %s %s\n\n", symbol, m.status)

	if m.current != "" {
		b.WriteString(Bold("Current:") + "\n")
		fmt.Fprintf(&b, "  • %s\n\n", m.current)
	}

	if len(m.errors) > 0 {
		b.WriteString(Error("Errors:") + "\n")
		for _, e := range m.errors {
			fmt.Fprintf(&b, "  • %s\n", e)
		}
		b.WriteString("\n")
	}

	if len(m.completed) > 0 {
		b.WriteString(Success("Completed:") + "\n")
		start := 0
		if len(m.completed) > 5 && !m.done {
			start = len(m.completed) - 5
		}
		for _, c := range m.completed[start:] {
			fmt.Fprintf(&b, "  • %s\n", c)
		}
		b.WriteString("\n")
	}

	return b.String()
}
