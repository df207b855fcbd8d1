package terminal

import "github.com/charmbracelet/lipgloss"

const prefix = "[Clockify]"

var (
	colorPrimary = lipgloss.Color("#03A9F4")
	colorDim     = lipgloss.Color("#626262")
	colorSuccess = lipgloss.Color("#04B575")
	colorWarning = lipgloss.Color("#F7DC6F")
	colorError   = lipgloss.Color("#FF6B6B")
)

type styles struct {
	Prefix lipgloss.Style
	Info   lipgloss.Style
	Warn   lipgloss.Style
	Error  lipgloss.Style

	Prompt         lipgloss.Style
	Button         lipgloss.Style
	ButtonSelected lipgloss.Style
	Invalid        lipgloss.Style
	Help           lipgloss.Style
}

func newStyles() styles {
	button := lipgloss.NewStyle().
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim)
	return styles{
		Prefix: lipgloss.NewStyle().Foreground(colorPrimary).Bold(true),
		Info:   lipgloss.NewStyle().Foreground(colorSuccess),
		Warn:   lipgloss.NewStyle().Foreground(colorWarning),
		Error:  lipgloss.NewStyle().Foreground(colorError).Bold(true),

		Prompt:         lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Button:         button,
		ButtonSelected: button.BorderForeground(colorPrimary).Foreground(colorPrimary).Bold(true),
		Invalid:        lipgloss.NewStyle().Foreground(colorError),
		Help:           lipgloss.NewStyle().Foreground(colorDim).MarginTop(1),
	}
}
