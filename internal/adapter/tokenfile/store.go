package tokenfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"clockify-button/internal/domain"
)

// Placeholder is written to a freshly created token file.
const Placeholder = "<PUT YOUR TOKEN HERE>"

// FileName is the token file's name inside the home directory.
const FileName = "clockify-token.txt"

// Store reads the API token from a plaintext file.
type Store struct {
	path string
}

// New returns a Store for path, or for ~/clockify-token.txt when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("tokenfile: home dir: %w", err)
		}
		path = filepath.Join(home, FileName)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: abs}, nil
}

func (s *Store) Path() string { return s.path }

// Load returns the trimmed token. A missing file is created holding the
// placeholder; a placeholder or empty token yields domain.ErrInvalidCredential.
func (s *Store) Load(_ context.Context) (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(s.path, []byte(Placeholder), 0o600); err != nil {
			return "", fmt.Errorf("tokenfile: create %s: %w", s.path, err)
		}
		return "", fmt.Errorf("token file %s was created, put your token in it: %w", s.path, domain.ErrInvalidCredential)
	}
	if err != nil {
		return "", fmt.Errorf("tokenfile: read %s: %w", s.path, err)
	}
	token := strings.TrimSpace(string(b))
	if token == "" || token == Placeholder {
		return "", fmt.Errorf("no token in %s: %w", s.path, domain.ErrInvalidCredential)
	}
	return token, nil
}
