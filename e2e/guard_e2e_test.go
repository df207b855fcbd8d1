//go:build e2e

package e2e

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"clockify-button/internal/adapter/guard"
	"clockify-button/internal/domain"
)

func startRedis(t *testing.T, ctx context.Context) string {
	t.Helper()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	endpoint, err := c.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	return endpoint
}

func TestRedisGuard_SerializesAcrossClients(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	addr := startRedis(t, ctx)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := guard.Config{Addr: addr, Key: "toggle", TTL: time.Minute}
	a, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect a: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	b, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect b: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	release, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	if _, err := b.Acquire(ctx); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("acquire b while held: %v", err)
	}
	if _, err := a.WithKey("sync").Acquire(ctx); err != nil {
		t.Fatalf("other key must be free: %v", err)
	}

	release()
	release2, err := b.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire b after release: %v", err)
	}
	// Releasing a again must not drop b's lock.
	release()
	if _, err := a.Acquire(ctx); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("stale release freed the lock: %v", err)
	}
	release2()
}

func TestRedisGuard_RenewsWhileHeld(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	addr := startRedis(t, ctx)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := guard.Config{Addr: addr, Key: "renew", TTL: time.Second}
	a, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect a: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	b, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect b: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })

	release, err := a.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	// A run that outlives the TTL, e.g. a prompt left open.
	time.Sleep(3 * time.Second)
	if _, err := b.Acquire(ctx); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("lock expired while still held: %v", err)
	}

	release()
	releaseB, err := b.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire b after release: %v", err)
	}
	releaseB()
}

func TestRedisGuard_ExpiresWhenHolderDies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	addr := startRedis(t, ctx)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := guard.Config{Addr: addr, Key: "ttl", TTL: time.Second}
	dead, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := dead.Acquire(ctx); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	// Closing the client stops renewal without releasing, like a crashed process.
	_ = dead.Close()

	g, err := guard.Connect(ctx, cfg, log)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })

	time.Sleep(1500 * time.Millisecond)
	release, err := g.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire after ttl: %v", err)
	}
	release()
}
