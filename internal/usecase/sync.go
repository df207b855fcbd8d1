package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
	"clockify-button/internal/resolve"
)

// SyncUseCase mirrors a workspace's projects and time entries into a Sink.
type SyncUseCase struct {
	Log       *slog.Logger
	Client    func(ctx context.Context) (ports.Clockify, error)
	Sink      ports.Sink
	Guard     ports.RunGuard
	Workspace string
}

// SyncResult counts what a sync run upserted.
type SyncResult struct {
	WorkspaceID string
	Projects    int
	Entries     int
}

func (uc *SyncUseCase) Run(ctx context.Context) (SyncResult, error) {
	var res SyncResult
	if uc.Client == nil || uc.Sink == nil || uc.Guard == nil {
		return res, errors.New("usecase not initialized: missing dependencies")
	}
	if uc.Workspace == "" {
		return res, fmt.Errorf("sync workspace: %w", domain.ErrMissingConfig)
	}

	release, err := uc.Guard.Acquire(ctx)
	if err != nil {
		return res, fmt.Errorf("sync: %w", err)
	}
	defer release()

	client, err := uc.Client(ctx)
	if err != nil {
		return res, err
	}
	workspaces, err := client.ListWorkspaces(ctx)
	if err != nil {
		return res, err
	}
	ws, err := resolve.One(workspaces, uc.Workspace)
	if err != nil {
		return res, fmt.Errorf("sync workspace: %w", err)
	}
	res.WorkspaceID = ws.ID
	uc.Log.Info("fetching workspace data", slog.String("workspace_id", ws.ID), slog.String("workspace", ws.Name))

	projects, err := client.ListProjects(ctx, ws.ID)
	if err != nil {
		return res, err
	}
	entries, err := client.ListTimeEntries(ctx, ws.ID, false)
	if err != nil {
		return res, err
	}
	uc.Log.Info("fetched workspace data", slog.Int("projects", len(projects)), slog.Int("entries", len(entries)))

	if len(projects) == 0 && len(entries) == 0 {
		uc.Log.Info("nothing to sync")
		return res, nil
	}
	if err := uc.Sink.SyncProjects(ctx, projects); err != nil {
		return res, fmt.Errorf("sync projects: %w", err)
	}
	res.Projects = len(projects)
	if err := uc.Sink.SyncEntries(ctx, entries); err != nil {
		return res, fmt.Errorf("sync entries: %w", err)
	}
	res.Entries = len(entries)
	uc.Log.Info("sync completed", slog.Int("projects", res.Projects), slog.Int("entries", res.Entries))
	return res, nil
}
