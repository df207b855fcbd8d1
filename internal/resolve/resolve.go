// Package resolve matches user-configured name-or-id strings against
// entities fetched from Clockify.
package resolve

import (
	"fmt"
	"strings"

	"clockify-button/internal/domain"
)

// Keyed is implemented by entities that have an identifier and a display name.
type Keyed interface {
	Key() (id, name string)
}

// Normalize lowercases and trims s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// One returns the single item whose name or id equals query after
// normalization. Duplicate matches are reported as domain.ErrAmbiguous rather
// than picking one.
func One[T Keyed](items []T, query string) (T, error) {
	var (
		zero    T
		found   T
		matches int
	)
	q := Normalize(query)
	if q == "" {
		return zero, fmt.Errorf("empty query: %w", domain.ErrNotFound)
	}
	for _, it := range items {
		id, name := it.Key()
		if Normalize(name) == q || Normalize(id) == q {
			if matches == 0 {
				found = it
			}
			matches++
		}
	}
	switch matches {
	case 0:
		return zero, fmt.Errorf("%q: %w", query, domain.ErrNotFound)
	case 1:
		return found, nil
	default:
		return zero, fmt.Errorf("%q matches %d entries: %w", query, matches, domain.ErrAmbiguous)
	}
}
