package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"clockify-button/internal/domain"
	"clockify-button/internal/usecase"
)

func toggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Stop the running time entry, or start a new one (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, opts)
		},
	}
}

func runToggle(cmd *cobra.Command, opts *rootOptions) error {
	e, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer e.close()

	out, err := e.app.Toggle(cmd.Context(), e.host, usecase.Options{})
	if err != nil {
		e.log.Debug("toggle failed", slog.String("run_id", out.RunID), slog.String("error", err.Error()))
		return errReported
	}
	switch out.State {
	case usecase.StateBusy:
		e.log.Info("another run is in progress")
	case usecase.StateFailed:
		return errReported
	}
	return nil
}

func workspacesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			b, err := e.app.Browse(cmd.Context(), e.host)
			if err != nil {
				return errReported
			}
			ws, err := b.Workspaces(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ws))
			for _, w := range ws {
				rows = append(rows, []string{w.ID, w.Name})
			}
			printTable(cmd, []string{"ID", "NAME"}, rows)
			return nil
		},
	}
}

func projectsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			b, err := e.app.Browse(cmd.Context(), e.host)
			if err != nil {
				return errReported
			}
			projects, err := b.Projects(cmd.Context(), e.app.Config().Clockify.Workspace)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				rows = append(rows, []string{p.ID, p.Name})
			}
			printTable(cmd, []string{"ID", "NAME"}, rows)
			return nil
		},
	}
}

func tasksCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks [project]",
		Short: "List tasks of a project (default: the configured project)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			cfg := e.app.Config().Clockify
			project := cfg.Project
			if len(args) == 1 {
				project = args[0]
			}
			b, err := e.app.Browse(cmd.Context(), e.host)
			if err != nil {
				return errReported
			}
			tasks, err := b.Tasks(cmd.Context(), cfg.Workspace, project)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(tasks))
			for _, t := range tasks {
				rows = append(rows, []string{t.ID, t.Name})
			}
			printTable(cmd, []string{"ID", "NAME"}, rows)
			return nil
		},
	}
}

func entriesCmd(opts *rootOptions) *cobra.Command {
	var running, all bool
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List time entries of the configured project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			cfg := e.app.Config().Clockify
			project := cfg.Project
			if all {
				project = ""
			}
			b, err := e.app.Browse(cmd.Context(), e.host)
			if err != nil {
				return errReported
			}
			entries, err := b.Entries(cmd.Context(), cfg.Workspace, project, running)
			if err != nil {
				return err
			}
			printTable(cmd, []string{"ID", "PROJECT", "START", "END", "DESCRIPTION"}, entryRows(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&running, "running", false, "only the entry in progress")
	cmd.Flags().BoolVar(&all, "all", false, "entries of every project in the workspace")
	return cmd
}

func tokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Check the stored API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			if !e.app.CheckToken(cmd.Context(), e.host) {
				return errReported
			}
			e.host.Info("API token in '" + e.app.TokenPath() + "' is valid.")
			return nil
		},
	}
}

func syncCmd(opts *rootOptions) *cobra.Command {
	var every time.Duration
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror projects and time entries of the workspace into MySQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			ctx := cmd.Context()

			run := func() error {
				res, err := e.app.Sync(ctx, e.host, "")
				if err != nil {
					return err
				}
				e.log.Info("sync completed",
					slog.String("workspace_id", res.WorkspaceID),
					slog.Int("projects", res.Projects),
					slog.Int("entries", res.Entries),
				)
				return nil
			}
			if every <= 0 {
				return run()
			}

			ticker := time.NewTicker(every)
			defer ticker.Stop()
			e.log.Info("starting periodic sync", slog.Duration("interval", every))
			if err := run(); err != nil {
				e.log.Error("initial sync failed", slog.String("error", err.Error()))
			}
			for {
				select {
				case <-ctx.Done():
					e.log.Info("shutting down")
					return nil
				case <-ticker.C:
					if err := run(); err != nil {
						e.log.Error("periodic sync failed", slog.String("error", err.Error()))
					}
				}
			}
		},
	}
	cmd.Flags().DurationVar(&every, "every", 0, "repeat the sync at this interval until interrupted")
	return cmd
}

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the button over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer e.close()
			if addr == "" {
				addr = e.app.Config().HTTP.Addr
			}

			srv := e.app.HTTPServer(addr)
			errc := make(chan error, 1)
			go func() {
				e.log.Info("http server listening", slog.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
			}
			e.log.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR)")
	return cmd
}

func entryRows(entries []domain.TimeEntry) [][]string {
	const layout = "2006-01-02 15:04"
	rows := make([][]string, 0, len(entries))
	for _, en := range entries {
		end := "running"
		if en.End != nil {
			end = en.End.Local().Format(layout)
		}
		rows = append(rows, []string{en.ID, en.ProjectID, en.Start.Local().Format(layout), end, en.Description})
	}
	return rows
}

func printTable(cmd *cobra.Command, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing found")
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(cmd.OutOrStdout(), t)
}
