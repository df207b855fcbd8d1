package clockify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clockify-button/internal/metrics"
)

// DefaultBaseURL is the Clockify REST API root.
const DefaultBaseURL = "https://api.clockify.me/api/"

const maxBodyBytes = 10 << 20

// Response is the raw outcome of one API call. Status codes are data here;
// deciding which ones are failures is up to the caller.
type Response struct {
	Status int
	Reason string
	Body   []byte
}

// TransportError reports an unexpected HTTP status.
type TransportError struct {
	Status int
	Reason string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("unexpected response: [%d] '%s'", e.Status, e.Reason)
}

// Transport performs authenticated calls against the Clockify API.
type Transport struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func NewTransport(baseURL, token string, timeout time.Duration, log *slog.Logger) *Transport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Transport{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Do sends method to path (relative to the base URL). A non-nil body is sent
// as JSON. Only network and encoding failures are returned as errors.
func (t *Transport) Do(ctx context.Context, method, path string, body any) (Response, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("clockify: marshal body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+strings.TrimPrefix(path, "/"), rdr)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("X-Api-Key", t.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(method, "error").Inc()
		return Response{}, fmt.Errorf("clockify: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.APIRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("clockify: read body: %w", err)
	}
	t.log.Debug("clockify request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)
	return Response{Status: resp.StatusCode, Reason: reason(resp), Body: data}, nil
}

// reason extracts the reason phrase from a status line like "404 Not Found".
func reason(resp *http.Response) string {
	if r := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); r != "" {
		return r
	}
	return http.StatusText(resp.StatusCode)
}
