// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/prefs.go
// Summary: File-backed typed preference store.
// Usage: Lightweight keyed values (theme, terminal history, policy overlays)
// live in one prefs.json under the state directory.

package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// PrefsStore persists small typed values by key.
type PrefsStore interface {
	LoadPref(key string) (json.RawMessage, error)
	SavePref(key string, value json.RawMessage) error
	DeletePref(key string) error
}

// FilePrefsStore keeps all preferences in a single JSON file.
type FilePrefsStore struct {
	path string
	mu   sync.Mutex
}

// NewFilePrefsStore creates a store writing to path. The file is created on
// first save.
func NewFilePrefsStore(path string) *FilePrefsStore {
	return &FilePrefsStore{path: path}
}

// LoadPref returns the raw value for key, or nil when absent.
func (s *FilePrefsStore) LoadPref(key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	return prefs[key], nil
}

// SavePref writes the raw value for key.
func (s *FilePrefsStore) SavePref(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.readLocked()
	if err != nil {
		return err
	}
	prefs[key] = value
	return s.writeLocked(prefs)
}

// DeletePref removes key. Deleting an absent key is not an error.
func (s *FilePrefsStore) DeletePref(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, err := s.readLocked()
	if err != nil {
		return err
	}
	if _, ok := prefs[key]; !ok {
		return nil
	}
	delete(prefs, key)
	return s.writeLocked(prefs)
}

func (s *FilePrefsStore) readLocked() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read prefs: %w", err)
	}

	prefs := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("parse prefs: %w", err)
	}
	return prefs, nil
}

func (s *FilePrefsStore) writeLocked(prefs map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create prefs directory: %w", err)
	}
	return os.WriteFile(s.path, data, 0o644)
}

// LoadTypedPref decodes the value under key into a typed destination.
// Returns false when the key is absent.
func LoadTypedPref[T any](store PrefsStore, key string) (T, bool, error) {
	var out T
	raw, err := store.LoadPref(key)
	if err != nil {
		return out, false, err
	}
	if raw == nil {
		return out, false, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode pref %s: %w", key, err)
	}
	return out, true, nil
}

// SaveTypedPref serializes and stores a typed value under key.
func SaveTypedPref[T any](store PrefsStore, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode pref %s: %w", key, err)
	}
	return store.SavePref(key, raw)
}
