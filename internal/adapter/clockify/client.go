package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"clockify-button/internal/domain"
	"clockify-button/internal/ports"
	"clockify-button/internal/resolve"
)

// isoMillis matches the timestamps Clockify expects: UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Client implements ports.Clockify on top of a Transport.
type Client struct {
	tr    *Transport
	clock ports.Clock
	log   *slog.Logger
}

var _ ports.Clockify = (*Client)(nil)

func NewClient(tr *Transport, clock ports.Clock, log *slog.Logger) *Client {
	if clock == nil {
		clock = ports.ClockFunc(time.Now)
	}
	return &Client{tr: tr, clock: clock, log: log}
}

// ListWorkspaces returns all workspaces visible to the token.
// GET workspaces/
func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	var raw []rawWorkspace
	if err := c.getList(ctx, "workspaces/", false, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, 0, len(raw))
	for _, w := range raw {
		out = append(out, domain.Workspace{ID: w.ID, Name: w.Name})
	}
	return out, nil
}

// ListProjects returns the projects of a workspace.
// GET workspaces/{id}/projects/
func (c *Client) ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	var raw []rawProject
	path := "workspaces/" + url.PathEscape(workspaceID) + "/projects/"
	if err := c.getList(ctx, path, false, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(raw))
	for _, p := range raw {
		ws := p.WorkspaceID
		if ws == "" {
			ws = workspaceID
		}
		out = append(out, domain.Project{ID: p.ID, Name: p.Name, WorkspaceID: ws})
	}
	return out, nil
}

// ListTasks returns the tasks of a project.
// GET workspaces/{w}/projects/{p}/tasks/
func (c *Client) ListTasks(ctx context.Context, workspaceID, projectID string) ([]domain.Task, error) {
	var raw []rawTask
	path := "workspaces/" + url.PathEscape(workspaceID) + "/projects/" + url.PathEscape(projectID) + "/tasks/"
	if err := c.getList(ctx, path, false, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(raw))
	for _, t := range raw {
		pid := t.ProjectID
		if pid == "" {
			pid = projectID
		}
		out = append(out, domain.Task{ID: t.ID, Name: t.Name, ProjectID: pid})
	}
	return out, nil
}

// ListTimeEntries returns the time entries of a workspace, or only the running
// ones when inProgress is set. A blank body yields no entries.
// GET workspaces/{id}/timeEntries/[inProgress]
func (c *Client) ListTimeEntries(ctx context.Context, workspaceID string, inProgress bool) ([]domain.TimeEntry, error) {
	path := "workspaces/" + url.PathEscape(workspaceID) + "/timeEntries/"
	if inProgress {
		path += "inProgress"
	}
	var raw []rawTimeEntry
	if err := c.getList(ctx, path, true, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.TimeEntry, 0, len(raw))
	for _, r := range raw {
		e, err := r.toDomain(workspaceID)
		if err != nil {
			return nil, fmt.Errorf("clockify: time entry %s: %w", r.ID, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// ListProjectTimeEntries returns the workspace's entries that belong to project.
func (c *Client) ListProjectTimeEntries(ctx context.Context, project domain.Project, inProgress bool) ([]domain.TimeEntry, error) {
	all, err := c.ListTimeEntries(ctx, project.WorkspaceID, inProgress)
	if err != nil {
		return nil, err
	}
	want := resolve.Normalize(project.ID)
	out := make([]domain.TimeEntry, 0, len(all))
	for _, e := range all {
		if resolve.Normalize(e.ProjectID) == want {
			out = append(out, e)
		}
	}
	return out, nil
}

// CreateTimeEntry starts a new billable entry at the current instant.
// POST workspaces/{id}/timeEntries/ expects 201.
func (c *Client) CreateTimeEntry(ctx context.Context, workspaceID, projectID, title string) (bool, error) {
	body := createTimeEntryRequest{
		Description: title,
		ProjectID:   projectID,
		Start:       c.clock.Now().UTC().Format(isoMillis),
		End:         nil,
		Billable:    true,
	}
	resp, err := c.tr.Do(ctx, http.MethodPost, "workspaces/"+url.PathEscape(workspaceID)+"/timeEntries/", body)
	if err != nil {
		return false, err
	}
	if resp.Status != http.StatusCreated {
		c.log.Warn("create time entry rejected", slog.Int("status", resp.Status), slog.String("reason", resp.Reason))
		return false, nil
	}
	return true, nil
}

// StopRunningTimeEntry ends the workspace's running entry at the current instant.
// PUT workspaces/{id}/timeEntries/endStarted expects 200.
func (c *Client) StopRunningTimeEntry(ctx context.Context, workspaceID string) (bool, error) {
	body := stopTimeEntryRequest{End: c.clock.Now().UTC().Format(isoMillis)}
	resp, err := c.tr.Do(ctx, http.MethodPut, "workspaces/"+url.PathEscape(workspaceID)+"/timeEntries/endStarted", body)
	if err != nil {
		return false, err
	}
	if resp.Status != http.StatusOK {
		c.log.Warn("stop time entry rejected", slog.Int("status", resp.Status), slog.String("reason", resp.Reason))
		return false, nil
	}
	return true, nil
}

// TestCredential reports whether the token can list workspaces.
func (c *Client) TestCredential(ctx context.Context) bool {
	if _, err := c.ListWorkspaces(ctx); err != nil {
		c.log.Debug("credential test failed", slog.String("error", err.Error()))
		return false
	}
	return true
}

// getList GETs path, requires 200, and decodes a JSON array into out. With
// lenient set, a blank body is an empty list and a lone object is wrapped
// into a one-element list.
func (c *Client) getList(ctx context.Context, path string, lenient bool, out any) error {
	resp, err := c.tr.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return &TransportError{Status: resp.Status, Reason: resp.Reason}
	}
	body := bytes.TrimSpace(resp.Body)
	if lenient {
		if len(body) == 0 {
			return nil
		}
		if body[0] == '{' {
			body = append(append([]byte{'['}, body...), ']')
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("clockify: decode %s: %w", path, err)
	}
	return nil
}

type rawWorkspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawProject struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId"`
}

type rawTask struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ProjectID string `json:"projectId"`
}

// rawTimeEntry mirrors the JSON from the Clockify time entry endpoints.
type rawTimeEntry struct {
	ID           string      `json:"id"`
	Description  string      `json:"description"`
	ProjectID    string      `json:"projectId"`
	WorkspaceID  string      `json:"workspaceId"`
	TimeInterval rawInterval `json:"timeInterval"`
}

type rawInterval struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

func (r rawTimeEntry) toDomain(workspaceID string) (domain.TimeEntry, error) {
	e := domain.TimeEntry{
		ID:          r.ID,
		Description: r.Description,
		ProjectID:   r.ProjectID,
		WorkspaceID: r.WorkspaceID,
	}
	if e.WorkspaceID == "" {
		e.WorkspaceID = workspaceID
	}
	if r.TimeInterval.Start != "" {
		start, err := time.Parse(time.RFC3339, r.TimeInterval.Start)
		if err != nil {
			return e, fmt.Errorf("start: %w", err)
		}
		e.Start = start
	}
	if r.TimeInterval.End != nil && *r.TimeInterval.End != "" {
		end, err := time.Parse(time.RFC3339, *r.TimeInterval.End)
		if err != nil {
			return e, fmt.Errorf("end: %w", err)
		}
		e.End = &end
	}
	return e, nil
}

type createTimeEntryRequest struct {
	Description string  `json:"description"`
	ProjectID   string  `json:"projectId"`
	Start       string  `json:"start"`
	End         *string `json:"end"`
	Billable    bool    `json:"billable"`
}

type stopTimeEntryRequest struct {
	End string `json:"end"`
}
