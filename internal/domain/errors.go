package domain

import "errors"

var (
	// ErrMissingConfig is returned when a required workspace/project setting is blank.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrNotFound is returned when no entity matches a name-or-id query.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when more than one entity matches a query.
	ErrAmbiguous = errors.New("ambiguous match")
	// ErrInvalidCredential is returned when the stored API token is unusable.
	ErrInvalidCredential = errors.New("invalid api token")
	// ErrBusy is returned when another run holds the button.
	ErrBusy = errors.New("run already in progress")
)
