// Package terminal is the interactive host: notifications are printed with
// lipgloss styles and prompts run as small bubbletea programs.
package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"clockify-button/internal/ports"
)

// Host implements ports.Host on a terminal.
type Host struct {
	in     io.Reader
	out    io.Writer
	log    *slog.Logger
	styles styles
	editor string
	run    func(ctx context.Context, name string, args ...string) error
}

var _ ports.Host = (*Host)(nil)

// New returns a Host reading keys from in and drawing to out. The editor is
// taken from $EDITOR.
func New(in io.Reader, out io.Writer, log *slog.Logger) *Host {
	return &Host{
		in:     in,
		out:    out,
		log:    log,
		styles: newStyles(),
		editor: os.Getenv("EDITOR"),
		run:    runAttached,
	}
}

func (h *Host) Info(msg string)  { h.notify(h.styles.Info, msg) }
func (h *Host) Warn(msg string)  { h.notify(h.styles.Warn, msg) }
func (h *Host) Error(msg string) { h.notify(h.styles.Error, msg) }

func (h *Host) notify(style lipgloss.Style, msg string) {
	body := strings.TrimSpace(strings.TrimPrefix(msg, prefix))
	fmt.Fprintln(h.out, h.styles.Prefix.Render(prefix)+" "+style.Render(body))
}

func (h *Host) Confirm(ctx context.Context, prompt, yes, no string) (bool, error) {
	m, err := h.program(ctx, newConfirmModel(prompt, yes, no, h.styles))
	if err != nil {
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return m.(confirmModel).Confirmed(), nil
}

func (h *Host) Input(ctx context.Context, req ports.InputRequest) (string, bool, error) {
	m, err := h.program(ctx, newInputModel(req.Prompt, req.Value, req.Validate, h.styles))
	if err != nil {
		return "", false, fmt.Errorf("input prompt: %w", err)
	}
	value, ok := m.(inputModel).Result()
	return value, ok, nil
}

// OpenFile opens path in $EDITOR, or tells the user where the file is.
func (h *Host) OpenFile(ctx context.Context, path string) error {
	fields := strings.Fields(h.editor)
	if len(fields) == 0 {
		h.Info("Edit your token file: " + path)
		return nil
	}
	h.log.Debug("opening file in editor", slog.String("editor", fields[0]), slog.String("path", path))
	args := append(fields[1:], path)
	if err := h.run(ctx, fields[0], args...); err != nil {
		return fmt.Errorf("open %s with %s: %w", path, fields[0], err)
	}
	return nil
}

func (h *Host) program(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(h.in),
		tea.WithOutput(h.out),
	)
	return p.Run()
}

func runAttached(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}
