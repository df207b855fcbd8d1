// Package migrate applies the reporting schema embedded under sql/.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

// Run applies pending migrations in lexicographic order. Files are named
// 0001_description.sql and run as one batch each, so the DSN needs
// multiStatements=true.
func Run(ctx context.Context, dsn string, log *slog.Logger) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		return fmt.Errorf("migrate: ping: %w", err)
	}
	return Apply(ctx, db, migrationsFS, log)
}

// Apply runs the migrations found in fsys that db has not seen yet.
func Apply(ctx context.Context, db *sql.DB, fsys fs.FS, log *slog.Logger) error {
	const ddl = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    applied_at DATETIME(6) NOT NULL
) ENGINE=InnoDB;`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return err
	}

	files, err := Pending(fsys)
	if err != nil {
		return err
	}
	applied, err := loadApplied(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range files {
		if applied[m.Version] {
			log.Debug("migration already applied", slog.Int("version", m.Version), slog.String("file", m.Name))
			continue
		}
		b, err := fs.ReadFile(fsys, m.Path)
		if err != nil {
			return err
		}
		log.Info("applying migration", slog.Int("version", m.Version), slog.String("file", m.Name))
		if _, err := db.ExecContext(ctx, string(b)); err != nil {
			return fmt.Errorf("applying %s: %w", m.Name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations(version, applied_at) VALUES(?, ?)", m.Version, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

// Migration is one SQL file.
type Migration struct {
	Version int
	Name    string
	Path    string
}

// Pending lists the migrations in fsys sorted by version.
func Pending(fsys fs.FS) ([]Migration, error) {
	paths, err := fs.Glob(fsys, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	out := make([]Migration, 0, len(paths))
	seen := make(map[int]string, len(paths))
	for _, p := range paths {
		name := path.Base(p)
		v, err := parseVersion(name)
		if err != nil {
			return nil, fmt.Errorf("invalid migration filename %q: %w", name, err)
		}
		if prev, ok := seen[v]; ok {
			return nil, fmt.Errorf("migrations %q and %q share version %d", prev, name, v)
		}
		seen[v] = name
		out = append(out, Migration{Version: v, Name: name, Path: p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Embedded returns the migrations shipped with the binary.
func Embedded() fs.FS { return migrationsFS }

func loadApplied(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		m[v] = true
	}
	return m, rows.Err()
}

func parseVersion(name string) (int, error) {
	i := strings.IndexByte(name, '_')
	if i <= 0 {
		return 0, fmt.Errorf("missing version prefix")
	}
	return strconv.Atoi(name[:i])
}
