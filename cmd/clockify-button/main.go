package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clockify-button/internal/adapter/terminal"
	"clockify-button/internal/app"
	"clockify-button/internal/config"
)

// errReported marks failures the user has already been shown.
var errReported = errors.New("reported")

type rootOptions struct {
	verbose   bool
	workspace string
	project   string
}

func main() {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "clockify-button",
		Short:         "Start or stop a Clockify timer for one project",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, &opts)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.workspace, "workspace", "", "workspace name or id (overrides CLOCKIFY_WORKSPACE)")
	rootCmd.PersistentFlags().StringVar(&opts.project, "project", "", "project name or id (overrides CLOCKIFY_PROJECT)")

	rootCmd.AddCommand(toggleCmd(&opts))
	rootCmd.AddCommand(workspacesCmd(&opts))
	rootCmd.AddCommand(projectsCmd(&opts))
	rootCmd.AddCommand(tasksCmd(&opts))
	rootCmd.AddCommand(entriesCmd(&opts))
	rootCmd.AddCommand(tokenCmd(&opts))
	rootCmd.AddCommand(syncCmd(&opts))
	rootCmd.AddCommand(serveCmd(&opts))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

// env is what every command needs: a logger, the wired app and a terminal host.
type env struct {
	log  *slog.Logger
	app  *app.App
	host *terminal.Host
}

func setup(cmd *cobra.Command, opts *rootOptions) (*env, error) {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		return nil, err
	}
	if opts.workspace != "" {
		cfg.Clockify.Workspace = opts.workspace
	}
	if opts.project != "" {
		cfg.Clockify.Project = opts.project
	}

	application, err := app.New(cmd.Context(), logger, cfg)
	if err != nil {
		logger.Error("failed to initialize app", slog.String("error", err.Error()))
		return nil, err
	}
	return &env{
		log:  logger,
		app:  application,
		host: terminal.New(os.Stdin, os.Stdout, logger),
	}, nil
}

func (e *env) close() {
	if err := e.app.Close(); err != nil {
		e.log.Warn("failed to close app", slog.String("error", err.Error()))
	}
}
