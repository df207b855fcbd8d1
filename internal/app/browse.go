package app

import (
	"context"
	"fmt"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
	"clockify-button/internal/resolve"
)

// Browser answers read-only questions about the account. It backs the CLI's
// listing commands.
type Browser struct {
	client ports.Clockify
}

// Browse connects with the stored token.
func (a *App) Browse(ctx context.Context, host ports.Host) (*Browser, error) {
	client, err := a.Connector(host)(ctx)
	if err != nil {
		return nil, err
	}
	return &Browser{client: client}, nil
}

func (b *Browser) Workspaces(ctx context.Context) ([]domain.Workspace, error) {
	return b.client.ListWorkspaces(ctx)
}

func (b *Browser) Workspace(ctx context.Context, query string) (domain.Workspace, error) {
	all, err := b.client.ListWorkspaces(ctx)
	if err != nil {
		return domain.Workspace{}, err
	}
	ws, err := resolve.One(all, query)
	if err != nil {
		return ws, fmt.Errorf("workspace: %w", err)
	}
	return ws, nil
}

func (b *Browser) Projects(ctx context.Context, workspace string) ([]domain.Project, error) {
	ws, err := b.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return b.client.ListProjects(ctx, ws.ID)
}

func (b *Browser) Project(ctx context.Context, workspace, project string) (domain.Project, error) {
	projects, err := b.Projects(ctx, workspace)
	if err != nil {
		return domain.Project{}, err
	}
	p, err := resolve.One(projects, project)
	if err != nil {
		return p, fmt.Errorf("project: %w", err)
	}
	return p, nil
}

func (b *Browser) Tasks(ctx context.Context, workspace, project string) ([]domain.Task, error) {
	p, err := b.Project(ctx, workspace, project)
	if err != nil {
		return nil, err
	}
	return b.client.ListTasks(ctx, p.WorkspaceID, p.ID)
}

// Entries lists time entries of the workspace, narrowed to one project when
// project is not blank.
func (b *Browser) Entries(ctx context.Context, workspace, project string, running bool) ([]domain.TimeEntry, error) {
	if project != "" {
		p, err := b.Project(ctx, workspace, project)
		if err != nil {
			return nil, err
		}
		return b.client.ListProjectTimeEntries(ctx, p, running)
	}
	ws, err := b.Workspace(ctx, workspace)
	if err != nil {
		return nil, err
	}
	return b.client.ListTimeEntries(ctx, ws.ID, running)
}

// CheckToken reports whether the stored token is accepted.
func (a *App) CheckToken(ctx context.Context, host ports.Host) bool {
	_, err := a.Connector(host)(ctx)
	return err == nil
}
