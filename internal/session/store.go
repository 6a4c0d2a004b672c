package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const stateFile = "state.json"

// Store keeps the session in a JSON file inside the library's state
// directory.
type Store struct {
	dir string
}

func NewStore(stateDir string) *Store {
	return &Store{dir: stateDir}
}

// Path is the state file location.
func (s *Store) Path() string {
	return filepath.Join(s.dir, stateFile)
}

// Load returns the saved session. A missing file yields Default with no
// error; an unreadable or newer-format file yields Default and the error.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.Path())
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Default(), err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", s.Path(), err)
	}
	if state.Version > Version {
		return Default(), fmt.Errorf("%s: unsupported version %d", s.Path(), state.Version)
	}
	return state, nil
}

// Save replaces the state file. The new contents are written to a temporary
// file in the same directory and renamed over the old one, so a crash leaves
// either the previous state or the new one.
func (s *Store) Save(state State) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	state.Version = Version

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, stateFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.Path())
}
