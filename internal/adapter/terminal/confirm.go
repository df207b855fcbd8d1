package terminal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel shows a question with a "no" and a "yes" button. The "no"
// button is on the left and focused initially.
type confirmModel struct {
	prompt  string
	yes, no string
	styles  styles

	onYes    bool
	answered bool
}

func newConfirmModel(prompt, yes, no string, s styles) confirmModel {
	return confirmModel{prompt: prompt, yes: yes, no: no, styles: s}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch km.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.onYes = !m.onYes
	case "y", "Y":
		m.onYes, m.answered = true, true
		return m, tea.Quit
	case "n", "N":
		m.onYes, m.answered = false, true
		return m, tea.Quit
	case "enter":
		m.answered = true
		return m, tea.Quit
	case "esc", "ctrl+c", "q":
		m.onYes, m.answered = false, true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	noStyle, yesStyle := m.styles.ButtonSelected, m.styles.Button
	if m.onYes {
		noStyle, yesStyle = m.styles.Button, m.styles.ButtonSelected
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, noStyle.Render(m.no), " ", yesStyle.Render(m.yes))
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Prompt.Render(m.prompt),
		buttons,
		m.styles.Help.Render("←/→ switch • enter select • y/n answer • esc cancel"),
	) + "\n"
}

// Confirmed reports the final answer.
func (m confirmModel) Confirmed() bool { return m.answered && m.onYes }
