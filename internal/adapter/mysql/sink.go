package mysql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"clockify-button/internal/domain"
	"clockify-button/internal/metrics"
	"clockify-button/internal/ports"
)

// Client implements ports.Sink on top of the clockify_* reporting tables.
type Client struct {
	db  *sql.DB
	log *slog.Logger
	now func() time.Time
}

var _ ports.Sink = (*Client)(nil)

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log, now: time.Now}, nil
}

const upsertEntry = `
INSERT INTO clockify_time_entries
  (id, workspace_id, project_id, description, started_at, ended_at, duration_sec, synced_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  project_id=VALUES(project_id),
  description=VALUES(description),
  started_at=VALUES(started_at),
  ended_at=VALUES(ended_at),
  duration_sec=VALUES(duration_sec),
  synced_at=VALUES(synced_at);
`

// SyncEntries upserts entries. Running entries are stored with NULL end and duration.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	syncedAt := c.now().UTC()
	err := c.inTx(ctx, upsertEntry, func(stmt *sql.Stmt) error {
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, entryArgs(e, syncedAt)...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.SyncedRowsTotal.WithLabelValues("clockify_time_entries").Add(float64(len(entries)))
	c.log.Info("mysql sink upserted entries", slog.Int("count", len(entries)))
	return nil
}

const upsertProject = `
INSERT INTO clockify_projects
  (id, workspace_id, name, synced_at)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  workspace_id=VALUES(workspace_id),
  name=VALUES(name),
  synced_at=VALUES(synced_at);
`

// SyncProjects upserts projects.
func (c *Client) SyncProjects(ctx context.Context, projects []domain.Project) error {
	if len(projects) == 0 {
		return nil
	}
	syncedAt := c.now().UTC()
	err := c.inTx(ctx, upsertProject, func(stmt *sql.Stmt) error {
		for _, p := range projects {
			if _, err := stmt.ExecContext(ctx, p.ID, p.WorkspaceID, p.Name, syncedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.SyncedRowsTotal.WithLabelValues("clockify_projects").Add(float64(len(projects)))
	c.log.Info("mysql sink upserted projects", slog.Int("count", len(projects)))
	return nil
}

// inTx prepares q inside a transaction and commits when fn succeeds.
func (c *Client) inTx(ctx context.Context, q string, fn func(*sql.Stmt) error) error {
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	if err := fn(stmt); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// entryArgs maps an entry to the upsertEntry placeholders.
func entryArgs(e domain.TimeEntry, syncedAt time.Time) []any {
	var project, end, duration any
	if e.ProjectID != "" {
		project = e.ProjectID
	}
	if e.End != nil {
		end = e.End.UTC()
		duration = int64(e.End.Sub(e.Start) / time.Second)
	}
	return []any{e.ID, e.WorkspaceID, project, e.Description, e.Start.UTC(), end, duration, syncedAt}
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }
