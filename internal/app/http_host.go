package app

import (
	"context"
	"sync"

	"clockify-button/internal/ports"
)

type notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// requestHost answers prompts from the request's query parameters and
// collects notifications for the response body.
type requestHost struct {
	confirm  bool
	title    string
	hasTitle bool

	mu    sync.Mutex
	notes []notification
}

var _ ports.Host = (*requestHost)(nil)

func (h *requestHost) Info(msg string)  { h.add("info", msg) }
func (h *requestHost) Warn(msg string)  { h.add("warn", msg) }
func (h *requestHost) Error(msg string) { h.add("error", msg) }

func (h *requestHost) add(level, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notes = append(h.notes, notification{Level: level, Message: msg})
}

func (h *requestHost) Confirm(context.Context, string, string, string) (bool, error) {
	return h.confirm, nil
}

// Input uses the title parameter, or the suggested value when it is absent.
// A value the validator rejects counts as a cancelled prompt.
func (h *requestHost) Input(_ context.Context, req ports.InputRequest) (string, bool, error) {
	value := req.Value
	if h.hasTitle {
		value = h.title
	}
	if req.Validate != nil {
		if msg := req.Validate(value); msg != "" {
			h.Warn(msg)
			return "", false, nil
		}
	}
	return value, true, nil
}

// OpenFile cannot open anything on the caller's machine; it tells them which
// file on the server needs editing.
func (h *requestHost) OpenFile(_ context.Context, path string) error {
	h.Warn("Put a valid API token into " + path + " on the server")
	return nil
}

func (h *requestHost) notifications() []notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]notification(nil), h.notes...)
}
