package domain

import (
	"sort"
	"time"
)

// TimeEntry represents a Clockify time entry in the domain.
type TimeEntry struct {
	ID          string
	Description string
	ProjectID   string
	WorkspaceID string
	Start       time.Time
	End         *time.Time // nil while the entry is running
}

// Running reports whether the entry has no end timestamp yet.
func (e TimeEntry) Running() bool { return e.End == nil }

// LatestClosed returns the entry with the latest end timestamp, breaking ties
// by the latest start. Running entries are ignored.
func LatestClosed(entries []TimeEntry) (TimeEntry, bool) {
	closed := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Running() {
			closed = append(closed, e)
		}
	}
	if len(closed) == 0 {
		return TimeEntry{}, false
	}
	sort.SliceStable(closed, func(i, j int) bool {
		if !closed[i].End.Equal(*closed[j].End) {
			return closed[i].End.After(*closed[j].End)
		}
		return closed[i].Start.After(closed[j].Start)
	})
	return closed[0], true
}
