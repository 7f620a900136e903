// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/snapshot.go
// Summary: Desktop layout snapshot persistence with schema migration.
// Usage: SnapshotStore wraps the app-state and prefs stores; boot hydration
// goes through LoadBootSnapshot, effects through SaveLayout/SaveTheme.

package host

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/retrodesk/retrodesk/desktop"
)

// Preference keys carried over from earlier releases.
const (
	legacyThemeKey     = "retrodesk.theme.v1"
	themeKey           = "system.desktop_theme.v2"
	terminalHistoryKey = "retrodesk.terminal_history.v1"
)

// legacyThemePayload is the pre-v2 combined theme record. The skin and flag
// fields survive; the wallpaper id is dropped on migration.
type legacyThemePayload struct {
	Skin          desktop.DesktopSkin `json:"skin"`
	WallpaperID   string              `json:"wallpaper_id"`
	HighContrast  bool                `json:"high_contrast"`
	ReducedMotion bool                `json:"reduced_motion"`
	AudioEnabled  bool                `json:"audio_enabled"`
}

// legacySnapshotV1 is the schema-1 layout snapshot which still embedded the
// theme in the layout payload.
type legacySnapshotV1 struct {
	SchemaVersion    int                        `json:"schema_version"`
	Theme            legacyThemePayload         `json:"theme"`
	Preferences      desktop.DesktopPreferences `json:"preferences"`
	Windows          []desktop.WindowRecord     `json:"windows"`
	LastExplorerPath string                     `json:"last_explorer_path,omitempty"`
	LastNotepadSlug  string                     `json:"last_notepad_slug,omitempty"`
	TerminalHistory  []string                   `json:"terminal_history"`
	AppSharedState   map[string]json.RawMessage `json:"app_shared_state,omitempty"`
}

// SnapshotStore persists and restores the desktop layout and theme.
type SnapshotStore struct {
	states AppStateStore
	prefs  PrefsStore
}

// NewSnapshotStore wires the snapshot layer over the given stores.
func NewSnapshotStore(states AppStateStore, prefs PrefsStore) *SnapshotStore {
	return &SnapshotStore{states: states, prefs: prefs}
}

// SaveLayout persists the full desktop snapshot.
func (s *SnapshotStore) SaveLayout(snapshot desktop.DesktopSnapshot) error {
	return SaveAppState(s.states, DesktopStateNamespace, desktop.LayoutSchemaVersion, snapshot)
}

// SaveTheme persists the desktop theme under its typed preference key.
func (s *SnapshotStore) SaveTheme(theme desktop.DesktopTheme) error {
	return SaveTypedPref(s.prefs, themeKey, theme)
}

// LoadTheme loads the desktop theme, falling back to the legacy combined
// payload when only that exists. Returns false when no theme was persisted.
func (s *SnapshotStore) LoadTheme() (desktop.DesktopTheme, bool, error) {
	theme, ok, err := LoadTypedPref[desktop.DesktopTheme](s.prefs, themeKey)
	if err != nil {
		return desktop.DesktopTheme{}, false, err
	}
	if ok {
		return theme, true, nil
	}

	legacy, ok, err := LoadTypedPref[legacyThemePayload](s.prefs, legacyThemeKey)
	if err != nil || !ok {
		return desktop.DesktopTheme{}, false, err
	}
	return desktop.DesktopTheme{
		Skin:          legacy.Skin,
		HighContrast:  legacy.HighContrast,
		ReducedMotion: legacy.ReducedMotion,
		AudioEnabled:  legacy.AudioEnabled,
	}, true, nil
}

// SaveTerminalHistory persists the terminal command history.
func (s *SnapshotStore) SaveTerminalHistory(history []string) error {
	return SaveTypedPref(s.prefs, terminalHistoryKey, history)
}

// LoadBootSnapshot loads the durable desktop snapshot, migrating older
// schemas. When no durable snapshot exists but a standalone terminal history
// preference does, a minimal snapshot carrying the history is synthesized so
// the boot sequence still restores it. Returns nil when nothing is persisted.
func (s *SnapshotStore) LoadBootSnapshot() (*desktop.DesktopSnapshot, error) {
	snapshot, err := LoadAppStateWithMigration(s.states, DesktopStateNamespace, migrateDesktopSnapshot)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		return snapshot, nil
	}

	history, ok, err := LoadTypedPref[[]string](s.prefs, terminalHistoryKey)
	if err != nil {
		log.Printf("SnapshotStore: terminal history compatibility load failed: %v", err)
		return nil, nil
	}
	if !ok || len(history) == 0 {
		return nil, nil
	}
	return &desktop.DesktopSnapshot{
		SchemaVersion:   desktop.LayoutSchemaVersion,
		Preferences:     desktop.DefaultPreferences(),
		TerminalHistory: history,
	}, nil
}

func migrateDesktopSnapshot(schemaVersion int, envelope *StateEnvelope) (*desktop.DesktopSnapshot, error) {
	switch schemaVersion {
	case desktop.LayoutSchemaVersion:
		var snapshot desktop.DesktopSnapshot
		if err := envelope.DecodePayload(&snapshot); err != nil {
			return nil, err
		}
		return &snapshot, nil
	case 1:
		var legacy legacySnapshotV1
		if err := envelope.DecodePayload(&legacy); err != nil {
			return nil, fmt.Errorf("migrate v1 snapshot: %w", err)
		}
		return &desktop.DesktopSnapshot{
			SchemaVersion:    desktop.LayoutSchemaVersion,
			Preferences:      legacy.Preferences,
			Windows:          legacy.Windows,
			LastExplorerPath: legacy.LastExplorerPath,
			LastNotepadSlug:  legacy.LastNotepadSlug,
			TerminalHistory:  legacy.TerminalHistory,
			AppSharedState:   legacy.AppSharedState,
		}, nil
	default:
		log.Printf("SnapshotStore: unknown layout schema %d, starting fresh", schemaVersion)
		return nil, nil
	}
}
