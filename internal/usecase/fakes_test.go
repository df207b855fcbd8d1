package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeClockify struct {
	workspaces []domain.Workspace
	projects   []domain.Project
	running    []domain.TimeEntry
	entries    []domain.TimeEntry

	listErr   error
	createOK  bool
	stopOK    bool
	mutateErr error

	calls   []string
	created []string // titles
	stopped []string // workspace ids
}

func (f *fakeClockify) ListWorkspaces(context.Context) ([]domain.Workspace, error) {
	f.calls = append(f.calls, "workspaces")
	return f.workspaces, f.listErr
}

func (f *fakeClockify) ListProjects(_ context.Context, workspaceID string) ([]domain.Project, error) {
	f.calls = append(f.calls, "projects:"+workspaceID)
	return f.projects, nil
}

func (f *fakeClockify) ListTasks(context.Context, string, string) ([]domain.Task, error) {
	f.calls = append(f.calls, "tasks")
	return nil, nil
}

func (f *fakeClockify) ListTimeEntries(_ context.Context, workspaceID string, inProgress bool) ([]domain.TimeEntry, error) {
	if inProgress {
		f.calls = append(f.calls, "running:"+workspaceID)
		return f.running, nil
	}
	f.calls = append(f.calls, "entries:"+workspaceID)
	return f.entries, nil
}

func (f *fakeClockify) ListProjectTimeEntries(ctx context.Context, p domain.Project, inProgress bool) ([]domain.TimeEntry, error) {
	return f.ListTimeEntries(ctx, p.WorkspaceID, inProgress)
}

func (f *fakeClockify) CreateTimeEntry(_ context.Context, _, _, title string) (bool, error) {
	f.calls = append(f.calls, "create")
	f.created = append(f.created, title)
	return f.createOK, f.mutateErr
}

func (f *fakeClockify) StopRunningTimeEntry(_ context.Context, workspaceID string) (bool, error) {
	f.calls = append(f.calls, "stop")
	f.stopped = append(f.stopped, workspaceID)
	return f.stopOK, f.mutateErr
}

func (f *fakeClockify) TestCredential(context.Context) bool { return f.listErr == nil }

func (f *fakeClockify) mutations() int { return len(f.created) + len(f.stopped) }

type fakeHost struct {
	mu     sync.Mutex
	infos  []string
	warns  []string
	errors []string
	opened []string

	confirmYes  bool
	confirmErr  error
	confirmSeen []string

	input     string
	inputOK   bool
	inputErr  error
	inputSeen []ports.InputRequest
	openErr   error
}

func (h *fakeHost) Info(msg string)  { h.mu.Lock(); h.infos = append(h.infos, msg); h.mu.Unlock() }
func (h *fakeHost) Warn(msg string)  { h.mu.Lock(); h.warns = append(h.warns, msg); h.mu.Unlock() }
func (h *fakeHost) Error(msg string) { h.mu.Lock(); h.errors = append(h.errors, msg); h.mu.Unlock() }

func (h *fakeHost) Confirm(_ context.Context, prompt, yes, no string) (bool, error) {
	h.confirmSeen = append(h.confirmSeen, prompt+"|"+yes+"|"+no)
	return h.confirmYes, h.confirmErr
}

func (h *fakeHost) Input(_ context.Context, req ports.InputRequest) (string, bool, error) {
	h.inputSeen = append(h.inputSeen, req)
	return h.input, h.inputOK, h.inputErr
}

func (h *fakeHost) OpenFile(_ context.Context, path string) error {
	h.opened = append(h.opened, path)
	return h.openErr
}

type fakeGuard struct {
	busy     bool
	acquired int
	released int
}

func (g *fakeGuard) Acquire(context.Context) (func(), error) {
	if g.busy {
		return nil, domain.ErrBusy
	}
	g.acquired++
	return func() { g.released++ }, nil
}

type fakeTokens struct {
	token string
	err   error
}

func (fakeTokens) Path() string { return "/home/me/clockify-token.txt" }

func (t fakeTokens) Load(context.Context) (string, error) { return t.token, t.err }

type fakeSink struct {
	projects []domain.Project
	entries  []domain.TimeEntry
	err      error
}

func (s *fakeSink) SyncEntries(_ context.Context, entries []domain.TimeEntry) error {
	s.entries = append(s.entries, entries...)
	return s.err
}

func (s *fakeSink) SyncProjects(_ context.Context, projects []domain.Project) error {
	s.projects = append(s.projects, projects...)
	return s.err
}
