package terminal

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// inputModel asks for one line of text. Enter is refused while validate
// reports a problem.
type inputModel struct {
	prompt   string
	input    textinput.Model
	validate func(string) string
	styles   styles

	problem   string
	submitted bool
	cancelled bool
}

func newInputModel(prompt, value string, validate func(string) string, s styles) inputModel {
	ti := textinput.New()
	ti.CharLimit = 0 // no limit, so a long seeded title is kept whole
	ti.SetValue(value)
	ti.Width = 60
	ti.Focus()
	return inputModel{prompt: prompt, input: ti, validate: validate, styles: s}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			if m.validate != nil {
				if m.problem = m.validate(m.input.Value()); m.problem != "" {
					return m, nil
				}
			}
			m.submitted = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.problem != "" && m.validate != nil {
		m.problem = m.validate(m.input.Value())
	}
	return m, cmd
}

func (m inputModel) View() string {
	if m.submitted || m.cancelled {
		return ""
	}
	parts := []string{m.styles.Prompt.Render(m.prompt), m.input.View()}
	if m.problem != "" {
		parts = append(parts, m.styles.Invalid.Render(m.problem))
	}
	parts = append(parts, m.styles.Help.Render("enter confirm • esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// Result returns the entered text and whether it was submitted.
func (m inputModel) Result() (string, bool) {
	return m.input.Value(), m.submitted
}
