// Package prefs holds the user's persisted view preferences as an
// explicit value with a pluggable persistence port.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// Preferences are the view settings the collection UI persists between
// sessions.
type Preferences struct {
	ViewMode       string `json:"view_mode"`
	RecordsPerPage int    `json:"records_per_page"`
}

func Default() Preferences {
	return Preferences{
		ViewMode:       "table",
		RecordsPerPage: 20,
	}
}

// Normalize fills missing fields with defaults.
func (p Preferences) Normalize() Preferences {
	def := Default()
	if p.ViewMode == "" {
		p.ViewMode = def.ViewMode
	}
	if p.RecordsPerPage <= 0 {
		p.RecordsPerPage = def.RecordsPerPage
	}
	return p
}

// Store persists Preferences somewhere durable.
type Store interface {
	Load() (Preferences, error)
	Save(Preferences) error
}

// FileStore keeps Preferences as a JSON file, created on first save.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return Preferences{}, err
	}

	var p Preferences
	err = json.Unmarshal(raw, &p)
	if err != nil {
		return Preferences{}, err
	}
	return p.Normalize(), nil
}

func (s *FileStore) Save(p Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.MkdirAll(filepath.Dir(s.path), 0755)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(p.Normalize())
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0644)
}
