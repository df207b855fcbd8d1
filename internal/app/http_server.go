package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clockify-button/internal/domain"
	"clockify-button/internal/usecase"
)

// HTTPServer returns a configured http.Server that exposes the button over HTTP.
// Call ListenAndServe on the returned server in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http trigger server configured", slog.String("addr", addr), slog.Bool("auth", a.cfg.HTTP.JWTSecret != ""))
	return srv
}

// Router builds the echo instance with all routes registered.
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(a.log))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	var auth []echo.MiddlewareFunc
	if a.cfg.HTTP.JWTSecret != "" {
		auth = append(auth, bearerAuth(a.cfg.HTTP.JWTSecret))
	}
	e.POST("/toggle", a.handleToggle, auth...)
	e.POST("/sync", a.handleSync, auth...)
	return e
}

type toggleResponse struct {
	RunID         string         `json:"run_id"`
	State         string         `json:"state"`
	Workspace     string         `json:"workspace,omitempty"`
	Project       string         `json:"project,omitempty"`
	Title         string         `json:"title,omitempty"`
	Error         string         `json:"error,omitempty"`
	Notifications []notification `json:"notifications"`
}

// POST /toggle?workspace=&project=&confirm=true&title=...
func (a *App) handleToggle(c echo.Context) error {
	q := c.QueryParams()
	host := &requestHost{}
	if v := q.Get("confirm"); v != "" {
		ok, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "confirm must be a boolean")
		}
		host.confirm = ok
	}
	if q.Has("title") {
		host.title, host.hasTitle = q.Get("title"), true
	}

	ctx, cancel := withTimeout(c.Request().Context(), q.Get("timeout"))
	defer cancel()

	out, err := a.Toggle(ctx, host, usecase.Options{
		Workspace: strings.TrimSpace(q.Get("workspace")),
		Project:   strings.TrimSpace(q.Get("project")),
	})
	resp := toggleResponse{
		RunID:         out.RunID,
		State:         string(out.State),
		Workspace:     out.Workspace.Name,
		Project:       out.Project.Name,
		Title:         out.Title,
		Notifications: host.notifications(),
	}
	status := http.StatusOK
	switch {
	case err != nil:
		status = http.StatusInternalServerError
		resp.Error = err.Error()
	case out.State == usecase.StateBusy:
		status = http.StatusConflict
	case out.State == usecase.StateFailed:
		status = http.StatusUnprocessableEntity
		if out.Reason != nil {
			resp.Error = out.Reason.Error()
		}
	}
	return c.JSON(status, resp)
}

// POST /sync?workspace=
func (a *App) handleSync(c echo.Context) error {
	host := &requestHost{}
	ctx, cancel := withTimeout(c.Request().Context(), c.QueryParam("timeout"))
	defer cancel()

	res, err := a.Sync(ctx, host, strings.TrimSpace(c.QueryParam("workspace")))
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrBusy):
			status = http.StatusConflict
		case errors.Is(err, domain.ErrMissingConfig), errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAmbiguous):
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, map[string]any{
			"status":        "error",
			"error":         err.Error(),
			"notifications": host.notifications(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"workspace_id": res.WorkspaceID,
		"projects":     res.Projects,
		"entries":      res.Entries,
	})
}

// withTimeout applies an optional ?timeout=5m override.
func withTimeout(ctx context.Context, raw string) (context.Context, context.CancelFunc) {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// bearerAuth requires an HS256 token signed with secret.
func bearerAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			tkn, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if sub, err := tkn.Claims.GetSubject(); err == nil && sub != "" {
				c.Set("subject", sub)
			}
			return next(c)
		}
	}
}

// requestLogger provides basic request logging.
func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.Info("http request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", c.Response().Status),
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("remote", c.RealIP()),
				slog.Duration("dur", time.Since(start)),
			)
			return nil
		}
	}
}
