// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/explorer/app.go
// Summary: Headless explorer app state: navigation, editor, persistence.
// Usage: The shell and the desktop runtime drive an App over a shared FS;
// cwd, selection and unsaved editor text survive restarts via the app-state
// store under the app.explorer namespace.

package explorer

import (
	"fmt"
	"log"

	"github.com/retrodesk/retrodesk/host"
)

const stateSchemaVersion = 1

// persistedState is the app.explorer envelope payload, schema 1.
type persistedState struct {
	Cwd          string `json:"cwd"`
	SelectedPath string `json:"selected_path,omitempty"`
	EditorPath   string `json:"editor_path,omitempty"`
	EditorText   string `json:"editor_text,omitempty"`
	EditorDirty  bool   `json:"editor_dirty,omitempty"`
}

func defaultState() persistedState {
	return persistedState{Cwd: "/"}
}

// App is the headless explorer: a cursor over a virtual filesystem plus a
// single-file text editor. It is not safe for concurrent use; the runtime
// serializes app operations.
type App struct {
	fs     *FS
	states host.AppStateStore
	state  persistedState
}

// NewApp wires an explorer over fs. A nil states store disables persistence.
func NewApp(fs *FS, states host.AppStateStore) *App {
	app := &App{fs: fs, states: states, state: defaultState()}
	app.hydrate()
	return app
}

func (a *App) hydrate() {
	if a.states == nil {
		return
	}
	restored, err := host.LoadAppStateWithMigration(a.states, host.ExplorerStateNamespace,
		func(schemaVersion int, envelope *host.StateEnvelope) (*persistedState, error) {
			if schemaVersion != stateSchemaVersion {
				log.Printf("Explorer: discarding state with unknown schema %d", schemaVersion)
				return nil, nil
			}
			var state persistedState
			if err := envelope.DecodePayload(&state); err != nil {
				return nil, err
			}
			return &state, nil
		})
	if err != nil {
		log.Printf("Explorer: hydrate failed: %v", err)
		return
	}
	if restored == nil {
		return
	}
	restored.Cwd = NormalizeVirtualPath(restored.Cwd)
	if _, err := a.fs.Stat(restored.Cwd); err != nil {
		restored.Cwd = "/"
	}
	a.state = *restored
}

func (a *App) persist() {
	if a.states == nil {
		return
	}
	if err := host.SaveAppState(a.states, host.ExplorerStateNamespace, stateSchemaVersion, a.state); err != nil {
		log.Printf("Explorer: persist failed: %v", err)
	}
}

// Cwd returns the current directory.
func (a *App) Cwd() string { return a.state.Cwd }

// FS exposes the backing filesystem for read-side consumers.
func (a *App) FS() *FS { return a.fs }

// ChangeDir moves the cwd to target, resolved against the current directory.
func (a *App) ChangeDir(target string) (string, error) {
	resolved := ResolveAgainst(a.state.Cwd, target)
	meta, err := a.fs.Stat(resolved)
	if err != nil {
		return "", err
	}
	if meta.Kind != KindDirectory {
		return "", fmt.Errorf("%w: %s", ErrNotDirectory, resolved)
	}
	a.state.Cwd = resolved
	a.persist()
	return resolved, nil
}

// List lists target resolved against the cwd, or the cwd itself when target
// is empty.
func (a *App) List(target string) (ListResult, error) {
	return a.fs.List(ResolveAgainst(a.state.Cwd, target))
}

// Select marks a path as the current selection without opening it.
func (a *App) Select(path string) (Metadata, error) {
	resolved := ResolveAgainst(a.state.Cwd, path)
	meta, err := a.fs.Stat(resolved)
	if err != nil {
		return Metadata{}, err
	}
	a.state.SelectedPath = resolved
	a.persist()
	return meta, nil
}

// OpenFile loads a file into the editor.
func (a *App) OpenFile(path string) (string, Metadata, error) {
	resolved := ResolveAgainst(a.state.Cwd, path)
	text, meta, err := a.fs.ReadFile(resolved)
	if err != nil {
		return "", Metadata{}, err
	}
	a.state.EditorPath = resolved
	a.state.EditorText = text
	a.state.EditorDirty = false
	a.state.SelectedPath = resolved
	a.persist()
	return text, meta, nil
}

// SetEditorText replaces the unsaved editor buffer.
func (a *App) SetEditorText(text string) {
	a.state.EditorText = text
	a.state.EditorDirty = true
	a.persist()
}

// SaveEditor writes the editor buffer back to its file.
func (a *App) SaveEditor() (Metadata, error) {
	if a.state.EditorPath == "" {
		return Metadata{}, fmt.Errorf("%w: no file open in the editor", ErrNotFile)
	}
	meta, err := a.fs.WriteFile(a.state.EditorPath, a.state.EditorText)
	if err != nil {
		return Metadata{}, err
	}
	a.state.EditorDirty = false
	a.persist()
	return meta, nil
}

// CreateFolder creates a directory under the cwd.
func (a *App) CreateFolder(name string) (Metadata, error) {
	meta, err := a.fs.Mkdir(JoinPath(a.state.Cwd, name))
	if err != nil {
		return Metadata{}, err
	}
	a.persist()
	return meta, nil
}

// CreateFile creates an empty file under the cwd and opens it.
func (a *App) CreateFile(name string) (Metadata, error) {
	path := JoinPath(a.state.Cwd, name)
	meta, err := a.fs.WriteFile(path, "")
	if err != nil {
		return Metadata{}, err
	}
	if _, _, err := a.OpenFile(path); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

// DeleteSelected removes the current selection.
func (a *App) DeleteSelected(recursive bool) error {
	if a.state.SelectedPath == "" {
		return fmt.Errorf("%w: nothing selected", ErrNotFound)
	}
	if err := a.fs.Remove(a.state.SelectedPath, recursive); err != nil {
		return err
	}
	if a.state.EditorPath == a.state.SelectedPath {
		a.state.EditorPath = ""
		a.state.EditorText = ""
		a.state.EditorDirty = false
	}
	a.state.SelectedPath = ""
	a.persist()
	return nil
}

// EditorState reports the open editor file, its buffer and dirty flag.
func (a *App) EditorState() (path, text string, dirty bool) {
	return a.state.EditorPath, a.state.EditorText, a.state.EditorDirty
}
