package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clockify-button/internal/adapter/clockify"
	"clockify-button/internal/adapter/guard"
	msql "clockify-button/internal/adapter/mysql"
	"clockify-button/internal/adapter/tokenfile"
	"clockify-button/internal/config"
	"clockify-button/internal/domain"
	"clockify-button/internal/migrate"
	"clockify-button/internal/ports"
	"clockify-button/internal/usecase"
)

// App wires adapters and use cases. Hosts are supplied per call: the CLI
// passes a terminal host, the HTTP server one host per request.
type App struct {
	log    *slog.Logger
	cfg    config.Config
	tokens ports.TokenStore

	button    ports.RunGuard
	syncGuard ports.RunGuard
	redis     *guard.Redis

	newClient usecase.ClientFactory

	sinkMu sync.Mutex
	sink   *msql.Client
}

func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	tokens, err := tokenfile.New(cfg.Clockify.TokenFile)
	if err != nil {
		return nil, err
	}
	a := &App{
		log:       log,
		cfg:       cfg,
		tokens:    tokens,
		button:    guard.NewLocal(),
		syncGuard: guard.NewLocal(),
	}
	a.newClient = func(token string) ports.Clockify {
		tr := clockify.NewTransport(cfg.Clockify.BaseURL, token, cfg.Clockify.Timeout, log)
		return clockify.NewClient(tr, nil, log)
	}

	if cfg.Redis.Addr != "" {
		r, err := guard.Connect(ctx, guard.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
			Key:  "toggle",
			TTL:  cfg.Redis.LockTTL,
		}, log)
		if err != nil {
			return nil, err
		}
		a.redis = r
		a.button = r
		a.syncGuard = r.WithKey("sync")
		log.Info("using redis run guard", slog.String("addr", cfg.Redis.Addr))
	}
	return a, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() config.Config { return a.cfg }

// TokenPath is where the API token is read from.
func (a *App) TokenPath() string { return a.tokens.Path() }

// Connector returns a client constructor that reports credential problems to host.
func (a *App) Connector(host ports.Host) func(ctx context.Context) (ports.Clockify, error) {
	return func(ctx context.Context) (ports.Clockify, error) {
		return usecase.Connect(ctx, a.log, a.tokens, host, a.newClient)
	}
}

// Toggle runs the button once. Blank option fields fall back to the config.
func (a *App) Toggle(ctx context.Context, host ports.Host, opts usecase.Options) (usecase.Outcome, error) {
	uc := &usecase.TimerUseCase{
		Log:    a.log,
		Host:   host,
		Guard:  a.button,
		Client: a.Connector(host),
	}
	return uc.Toggle(ctx, a.withDefaults(opts))
}

// Sync mirrors the workspace into MySQL. workspace may be blank to use the config.
func (a *App) Sync(ctx context.Context, host ports.Host, workspace string) (usecase.SyncResult, error) {
	sink, err := a.openSink(ctx)
	if err != nil {
		return usecase.SyncResult{}, err
	}
	uc := &usecase.SyncUseCase{
		Log:       a.log,
		Client:    a.Connector(host),
		Sink:      sink,
		Guard:     a.syncGuard,
		Workspace: a.withDefaults(usecase.Options{Workspace: workspace}).Workspace,
	}
	return uc.Run(ctx)
}

// ErrSinkDisabled is returned by Sync when no MySQL DSN is configured.
var ErrSinkDisabled = errors.New("reporting sync disabled: MYSQL_DSN is not set")

// sinkOpenTimeout bounds migrating and connecting the sink.
const sinkOpenTimeout = 30 * time.Second

// openSink migrates and opens the MySQL sink on first use. Only a working
// sink is kept; after a failure the next call tries again. The caller's
// cancellation does not apply, so an aborted request cannot poison later syncs.
func (a *App) openSink(ctx context.Context) (*msql.Client, error) {
	if a.cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("%w: %w", ErrSinkDisabled, domain.ErrMissingConfig)
	}
	a.sinkMu.Lock()
	defer a.sinkMu.Unlock()
	if a.sink != nil {
		return a.sink, nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkOpenTimeout)
	defer cancel()
	if err := migrate.Run(ctx, a.cfg.MySQL.DSN, a.log); err != nil {
		return nil, err
	}
	sink, err := msql.NewClient(ctx, a.cfg.MySQL.DSN, a.log)
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	a.sink = sink
	return sink, nil
}

func (a *App) withDefaults(opts usecase.Options) usecase.Options {
	if opts.Workspace == "" {
		opts.Workspace = a.cfg.Clockify.Workspace
	}
	if opts.Project == "" {
		opts.Project = a.cfg.Clockify.Project
	}
	return opts
}

// Close releases the sink and Redis connections.
func (a *App) Close() error {
	var errs []error
	a.sinkMu.Lock()
	defer a.sinkMu.Unlock()
	if a.sink != nil {
		errs = append(errs, a.sink.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}
