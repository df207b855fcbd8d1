package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
)

func newSync(c *fakeClockify, s *fakeSink, g *fakeGuard) *SyncUseCase {
	return &SyncUseCase{
		Log:       discardLogger(),
		Client:    func(context.Context) (ports.Clockify, error) { return c, nil },
		Sink:      s,
		Guard:     g,
		Workspace: "Acme",
	}
}

func TestSync_UpsertsProjectsAndEntries(t *testing.T) {
	c := baseClockify()
	end := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c.entries = []domain.TimeEntry{{ID: "e1", ProjectID: "p1", WorkspaceID: "w1", Start: end.Add(-time.Hour), End: &end}}
	s := &fakeSink{}
	g := &fakeGuard{}

	res, err := newSync(c, s, g).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.WorkspaceID != "w1" || res.Projects != 2 || res.Entries != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(s.projects) != 2 || len(s.entries) != 1 {
		t.Fatalf("sink got %d projects, %d entries", len(s.projects), len(s.entries))
	}
	if g.released != 1 {
		t.Fatal("guard not released")
	}
}

func TestSync_BusyGuard(t *testing.T) {
	c := baseClockify()
	_, err := newSync(c, &fakeSink{}, &fakeGuard{busy: true}).Run(context.Background())
	if !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("err = %v", err)
	}
	if len(c.calls) != 0 {
		t.Fatalf("calls = %v", c.calls)
	}
}

func TestSync_UnknownWorkspace(t *testing.T) {
	uc := newSync(baseClockify(), &fakeSink{}, &fakeGuard{})
	uc.Workspace = "missing"
	if _, err := uc.Run(context.Background()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSync_NoWorkspaceConfigured(t *testing.T) {
	uc := newSync(baseClockify(), &fakeSink{}, &fakeGuard{})
	uc.Workspace = ""
	if _, err := uc.Run(context.Background()); !errors.Is(err, domain.ErrMissingConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestSync_SinkFailure(t *testing.T) {
	boom := errors.New("deadlock")
	_, err := newSync(baseClockify(), &fakeSink{err: boom}, &fakeGuard{}).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
