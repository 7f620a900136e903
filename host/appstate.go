// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/appstate.go
// Summary: Durable app-state envelope store, one JSON file per namespace.
// Usage: Apps persist versioned payloads (desktop layout, notepad notes,
// terminal session) keyed by namespace; an integrity hash guards each file.

package host

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// EnvelopeVersion is the on-disk envelope format version.
const EnvelopeVersion = 1

// Well-known app-state namespaces.
const (
	DesktopStateNamespace    = "system.desktop"
	NotepadStateNamespace    = "app.notepad"
	ExplorerStateNamespace   = "app.explorer"
	TerminalStateNamespace   = "app.terminal"
	CalculatorStateNamespace = "app.calculator"
)

// ErrEnvelopeCorrupt reports an integrity hash mismatch on load.
var ErrEnvelopeCorrupt = errors.New("app state envelope corrupt")

// StateEnvelope wraps a persisted app payload with versioning metadata and a
// content hash for integrity checks.
type StateEnvelope struct {
	EnvelopeVersion int             `json:"envelope_version"`
	Namespace       string          `json:"namespace"`
	SchemaVersion   int             `json:"schema_version"`
	UpdatedAtUnixMS int64           `json:"updated_at_unix_ms"`
	Hash            string          `json:"hash"`
	Payload         json.RawMessage `json:"payload"`
}

// BuildEnvelope serializes payload into a stamped envelope.
func BuildEnvelope(namespace string, schemaVersion int, payload any) (StateEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return StateEnvelope{}, fmt.Errorf("encode %s payload: %w", namespace, err)
	}
	return StateEnvelope{
		EnvelopeVersion: EnvelopeVersion,
		Namespace:       namespace,
		SchemaVersion:   schemaVersion,
		UpdatedAtUnixMS: time.Now().UnixMilli(),
		Hash:            payloadHash(namespace, raw),
		Payload:         raw,
	}, nil
}

// DecodePayload deserializes the envelope payload into dst.
func (e StateEnvelope) DecodePayload(dst any) error {
	if err := json.Unmarshal(e.Payload, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Namespace, err)
	}
	return nil
}

// payloadHash digests the compact form of the payload so the hash is
// stable regardless of how the envelope file was indented on disk.
func payloadHash(namespace string, payload []byte) string {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err == nil {
		payload = compact.Bytes()
	}
	hasher := sha1.New()
	hasher.Write([]byte(namespace))
	hasher.Write(payload)
	return hex.EncodeToString(hasher.Sum(nil))
}

// AppStateStore persists app-state envelopes by namespace.
type AppStateStore interface {
	LoadEnvelope(namespace string) (*StateEnvelope, error)
	SaveEnvelope(envelope StateEnvelope) error
	DeleteNamespace(namespace string) error
	ListNamespaces() ([]string, error)
}

// FileAppStateStore keeps one envelope file per namespace under a directory.
type FileAppStateStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileAppStateStore creates a store rooted at dir.
func NewFileAppStateStore(dir string) *FileAppStateStore {
	return &FileAppStateStore{dir: dir}
}

func (s *FileAppStateStore) namespacePath(namespace string) string {
	return filepath.Join(s.dir, namespace+".json")
}

// LoadEnvelope reads the envelope for namespace, or nil when absent. A hash
// mismatch returns ErrEnvelopeCorrupt so callers can fall back to defaults.
func (s *FileAppStateStore) LoadEnvelope(namespace string) (*StateEnvelope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.namespacePath(namespace))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s state: %w", namespace, err)
	}

	var envelope StateEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s state: %w", namespace, err)
	}
	if envelope.Hash != "" && envelope.Hash != payloadHash(envelope.Namespace, envelope.Payload) {
		return nil, fmt.Errorf("%w: namespace %s", ErrEnvelopeCorrupt, namespace)
	}
	return &envelope, nil
}

// SaveEnvelope writes the envelope to its namespace file.
func (s *FileAppStateStore) SaveEnvelope(envelope StateEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s state: %w", envelope.Namespace, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	return os.WriteFile(s.namespacePath(envelope.Namespace), data, 0o644)
}

// DeleteNamespace removes persisted state for a namespace.
func (s *FileAppStateStore) DeleteNamespace(namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.namespacePath(namespace))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ListNamespaces returns all namespaces with persisted state, sorted.
func (s *FileAppStateStore) ListNamespaces() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state directory: %w", err)
	}

	var namespaces []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		namespaces = append(namespaces, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(namespaces)
	return namespaces, nil
}

// SaveAppState serializes payload and stores it under namespace.
func SaveAppState(store AppStateStore, namespace string, schemaVersion int, payload any) error {
	envelope, err := BuildEnvelope(namespace, schemaVersion, payload)
	if err != nil {
		return err
	}
	return store.SaveEnvelope(envelope)
}

// LoadAppStateWithMigration loads the envelope for namespace and hands it to
// migrate together with its recorded schema version. The migrate callback
// returns nil (without error) when the schema is unknown and the state should
// be discarded.
func LoadAppStateWithMigration[T any](
	store AppStateStore,
	namespace string,
	migrate func(schemaVersion int, envelope *StateEnvelope) (*T, error),
) (*T, error) {
	envelope, err := store.LoadEnvelope(namespace)
	if err != nil {
		return nil, err
	}
	if envelope == nil {
		return nil, nil
	}
	return migrate(envelope.SchemaVersion, envelope)
}
