package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lite-lake/sshkit"
)

const progressBarWidth = 40

type progressMsg struct {
	transferred int64
	total       int64
}

type progressDoneMsg struct {
	err error
}

type progressModel struct {
	label       string
	transferred int64
	total       int64
	err         error
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.transferred = msg.transferred
		m.total = msg.total
		return m, nil
	case progressDoneMsg:
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = errors.New("interrupted")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.total <= 0 {
		return fmt.Sprintf("%s %s\n", titleStyle.Render(m.label),
			dimStyle.Render(fmt.Sprintf("%d bytes", m.transferred)))
	}

	ratio := float64(m.transferred) / float64(m.total)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * progressBarWidth)
	bar := barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", progressBarWidth-filled))

	return fmt.Sprintf("%s %s %3.0f%% (%d/%d bytes)\n",
		titleStyle.Render(m.label), bar, ratio*100, m.transferred, m.total)
}

// runWithProgress drives fn under a progress display, feeding the transfer
// callback into the bubbletea program.
func runWithProgress(label string, fn func(progress sshkit.ProgressFunc) error) error {
	program := tea.NewProgram(progressModel{label: label}, tea.WithOutput(os.Stderr))

	go func() {
		err := fn(func(transferred, total int64) {
			program.Send(progressMsg{transferred: transferred, total: total})
		})
		program.Send(progressDoneMsg{err: err})
	}()

	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(progressModel); ok {
		return m.err
	}
	return nil
}
