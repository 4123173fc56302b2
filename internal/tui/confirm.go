package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel asks a yes/no question. Anything but an explicit yes is a no.
type ConfirmModel struct {
	Prompt   string
	answered bool
	accepted bool
}

func NewConfirm(prompt string) ConfirmModel {
	return ConfirmModel{Prompt: prompt}
}

func (m ConfirmModel) Init() tea.Cmd { return nil }

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answered, m.accepted = true, true
		return m, tea.Quit
	case "n", "N", "esc", "q", "ctrl+c", "enter":
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.answered {
		answer := "no"
		if m.accepted {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", promptStyle.Render(m.Prompt), answer)
	}
	return fmt.Sprintf("%s %s", promptStyle.Render(m.Prompt), mutedStyle.Render("[y/N]"))
}

// Answered reports whether a key settled the question.
func (m ConfirmModel) Answered() bool { return m.answered }

// Accepted reports whether the operator said yes.
func (m ConfirmModel) Accepted() bool { return m.accepted }

// Confirm runs a ConfirmModel on in/out and returns the answer.
func Confirm(prompt string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewConfirm(prompt), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirm: %w", err)
	}
	m, ok := final.(ConfirmModel)
	if !ok {
		return false, nil
	}
	return m.Accepted(), nil
}
