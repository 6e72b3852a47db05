package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// spinnerDoneMsg signals that the wrapped work finished
type spinnerDoneMsg struct {
	err error
}

// spinnerModel is the bubbletea model shown while a long step runs
type spinnerModel struct {
	spinner    spinner.Model
	title      string
	cancel     context.CancelFunc
	cancelling bool
	done       bool
	err        error
}

func newSpinnerModel(title string, cancel context.CancelFunc) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return spinnerModel{spinner: s, title: title, cancel: cancel}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// Keep running until the work notices the cancellation
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	if m.cancelling {
		return m.spinner.View() + " " + m.title + ColorDim(" (cancelling)") + "\n"
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// RunWithSpinner runs fn while a spinner labelled title is shown.
// Without a terminal the title is logged and fn runs directly.
// Console logging is muted while the spinner is visible. RunWithSpinner
// returns only after fn has returned.
func RunWithSpinner(ctx context.Context, splog *Splog, title string, fn func(context.Context) error) error {
	if !IsTTY() || splog.IsQuiet() {
		splog.Info("%s", title)
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(title, cancel), tea.WithOutput(os.Stderr))

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(spinnerDoneMsg{err: err})
	}()

	splog.SetQuiet(true)
	_, runErr := p.Run()
	splog.SetQuiet(false)

	err := <-result
	if runErr != nil {
		splog.Debug("spinner stopped: %v", runErr)
	}
	if err == nil {
		splog.Success("%s", title)
	}
	return err
}

// IsTTY returns true if stdin and stdout are terminals
func IsTTY() bool {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	f.Close()
	return true
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
