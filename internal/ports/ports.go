package ports

import (
	"context"
	"time"

	"clockify-button/internal/domain"
)

// Clockify defines the typed operations the workflow needs from the Clockify API.
type Clockify interface {
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error)
	ListTasks(ctx context.Context, workspaceID, projectID string) ([]domain.Task, error)
	ListTimeEntries(ctx context.Context, workspaceID string, inProgress bool) ([]domain.TimeEntry, error)
	ListProjectTimeEntries(ctx context.Context, project domain.Project, inProgress bool) ([]domain.TimeEntry, error)
	// CreateTimeEntry and StopRunningTimeEntry report an unexpected status as
	// false; the error is reserved for network-level failures.
	CreateTimeEntry(ctx context.Context, workspaceID, projectID, title string) (bool, error)
	StopRunningTimeEntry(ctx context.Context, workspaceID string) (bool, error)
	TestCredential(ctx context.Context) bool
}

// InputRequest describes a free-text prompt shown by the host.
type InputRequest struct {
	Prompt string
	Value  string
	// Validate returns a non-empty message when the value must be rejected.
	Validate func(string) string
}

// Host is the UI surface the button runs inside: notifications, prompts and
// the ability to open a file for the user.
type Host interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// Confirm asks a question with two choices and reports whether yes was picked.
	Confirm(ctx context.Context, prompt, yes, no string) (bool, error)
	// Input returns the entered text; ok is false when the user cancelled.
	Input(ctx context.Context, req InputRequest) (value string, ok bool, err error)
	OpenFile(ctx context.Context, path string) error
}

// TokenStore provides the API token.
type TokenStore interface {
	Path() string
	Load(ctx context.Context) (string, error)
}

// Clock yields the current instant. Injected so tests are deterministic.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// RunGuard serializes runs of the button. Acquire returns domain.ErrBusy when
// another run holds it; the returned release must always be called.
type RunGuard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// Sink receives projects and entries and persists them to a reporting store.
type Sink interface {
	SyncEntries(ctx context.Context, entries []domain.TimeEntry) error
	SyncProjects(ctx context.Context, projects []domain.Project) error
}
