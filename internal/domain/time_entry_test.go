package domain

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return &v
}

func TestLatestClosed_PicksLatestEnd(t *testing.T) {
	entries := []TimeEntry{
		{ID: "running", Description: "R", Start: *mustTime(t, "2024-01-03T10:00:00Z")},
		{ID: "a", Description: "A", Start: *mustTime(t, "2024-01-01T23:00:00Z"), End: mustTime(t, "2024-01-02T00:00:00Z")},
		{ID: "b", Description: "B", Start: *mustTime(t, "2024-01-02T23:00:00Z"), End: mustTime(t, "2024-01-03T00:00:00Z")},
	}
	got, ok := LatestClosed(entries)
	if !ok {
		t.Fatalf("expected a closed entry")
	}
	if got.Description != "B" {
		t.Fatalf("expected B, got %q", got.Description)
	}
}

func TestLatestClosed_TieBreaksOnStart(t *testing.T) {
	end := mustTime(t, "2024-01-03T00:00:00Z")
	entries := []TimeEntry{
		{Description: "early", Start: *mustTime(t, "2024-01-02T20:00:00Z"), End: end},
		{Description: "late", Start: *mustTime(t, "2024-01-02T22:00:00Z"), End: end},
	}
	got, _ := LatestClosed(entries)
	if got.Description != "late" {
		t.Fatalf("expected late, got %q", got.Description)
	}
}

func TestLatestClosed_NoneClosed(t *testing.T) {
	if _, ok := LatestClosed([]TimeEntry{{ID: "x"}}); ok {
		t.Fatalf("expected no closed entry")
	}
	if _, ok := LatestClosed(nil); ok {
		t.Fatalf("expected no closed entry for nil input")
	}
}
