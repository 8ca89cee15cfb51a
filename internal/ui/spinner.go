// Package ui renders the progress messages an orchestrator operation emits:
// a bubbletea spinner for an interactive terminal, plain lines otherwise.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/aman-cerp/ragterm/internal/async"
)

// IsTTY reports whether out is a terminal bubbletea can render an
// interactive program to.
func IsTTY(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunProgress drains sink until it closes, rendering each message to out.
// Picks the interactive spinner for a TTY and falls back to plain lines
// otherwise (piped output, CI, `--no-color` runs).
func RunProgress(sink *async.ProgressSink, out io.Writer, noColor bool) {
	styles := GetStyles(noColor)
	if !IsTTY(out) || noColor {
		runPlain(sink, out, styles)
		return
	}
	runSpinner(sink, out, styles)
}

func runPlain(sink *async.ProgressSink, out io.Writer, styles Styles) {
	for p := range sink.Messages() {
		fmt.Fprintln(out, styles.Stage.Render(formatProgress(p)))
	}
}

func formatProgress(p async.Progress) string {
	if p.Total > 0 {
		return fmt.Sprintf("%s (%d/%d)", p.Message, p.Current, p.Total)
	}
	return p.Message
}

type progressMsg async.Progress

type doneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	styles  Styles
	message string
	done    bool
}

func newSpinnerModel(styles Styles) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Active
	return spinnerModel{spinner: s, styles: styles}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.message = formatProgress(async.Progress(msg))
		return m, nil
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s\n", m.spinner.View(), m.styles.Stage.Render(m.message))
}

func runSpinner(sink *async.ProgressSink, out io.Writer, styles Styles) {
	model := newSpinnerModel(styles)

	var opts []tea.ProgramOption
	if f, ok := out.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}
	program := tea.NewProgram(model, opts...)

	go func() {
		for p := range sink.Messages() {
			program.Send(progressMsg(p))
		}
		program.Send(doneMsg{})
	}()

	_, _ = program.Run()
}
