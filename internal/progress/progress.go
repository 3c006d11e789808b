// Package progress shows a transient spinner while a slow request is
// in flight. When stdout is not a terminal the spinner is skipped and
// the wrapped function runs directly, so piped output stays clean.
package progress

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

type doneMsg struct{ err error }

type model struct {
	spinner spinner.Model
	label   string
	run     func() error
	err     error
}

func newModel(label string, run func() error) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return model{spinner: s, label: label, run: run}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return doneMsg{err: m.run()}
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		// The request keeps running; only ctrl+c abandons the wait.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m model) View() string {
	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// isTerminal reports whether stdout is a character device.
func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// Run executes fn, showing a spinner with the given label while it
// runs. The spinner line is erased when fn returns. In non-interactive
// sessions fn runs without any decoration.
func Run(ctx context.Context, label string, fn func() error) error {
	if !isTerminal() {
		return fn()
	}

	m := newModel(label, fn)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok {
		return fm.err
	}
	return nil
}
