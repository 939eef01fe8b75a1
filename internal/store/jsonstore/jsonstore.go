// Package jsonstore keeps local UI preferences in a small JSON file.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Makepad-fr/tada/internal/auth"
)

const stateFileName = "state.json"

// Prefs survive between sessions. Todos themselves live on the backend.
type Prefs struct {
	Theme string `json:"theme,omitempty"`
}

type Store struct {
	path string
}

// New returns a store backed by path. An empty path yields a store whose
// Load returns zero Prefs and whose Save is a no-op.
func New(path string) *Store {
	return &Store{path: strings.TrimSpace(path)}
}

// Default stores under ~/.tada/state.json.
func Default() (*Store, error) {
	dir, err := auth.Dir()
	if err != nil {
		return nil, err
	}
	return New(filepath.Join(dir, stateFileName)), nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Load() (Prefs, error) {
	if s.path == "" {
		return Prefs{}, nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Prefs{}, nil
		}
		return Prefs{}, fmt.Errorf("read file: %w", err)
	}
	if strings.TrimSpace(string(b)) == "" {
		return Prefs{}, nil
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		return Prefs{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return p, nil
}

// Save writes through a uniquely named temp file and rename, so concurrent
// saves never share a temp file and the file on disk is always complete.
func (s *Store) Save(p Prefs) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(append(b, '\n')); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
