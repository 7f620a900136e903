// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/model.go
// Summary: Core runtime data model, window geometry, and persistence snapshots.
// Usage: Shared by the reducer, window manager helpers, and host persistence.

package desktop

import "encoding/json"

// LayoutSchemaVersion is the schema version for serialized DesktopSnapshot payloads.
const LayoutSchemaVersion = 2

// Default window geometry used when no explicit rect is provided.
const (
	DefaultWindowWidth  = 720
	DefaultWindowHeight = 500
)

// WindowID is the stable runtime identifier for an open desktop window.
type WindowID uint64

// AppID is the canonical namespaced identifier for a desktop application,
// for example "system.notepad".
type AppID string

// Built-in application ids supported by the desktop shell.
const (
	AppCalculator AppID = "system.calculator"
	AppExplorer   AppID = "system.explorer"
	AppNotepad    AppID = "system.notepad"
	AppPaint      AppID = "system.paint"
	AppTerminal   AppID = "system.terminal"
	AppSettings   AppID = "system.settings"
	AppDialup     AppID = "system.dialup"
)

// WindowRect is a window rectangle in desktop viewport coordinates.
type WindowRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Offset returns a copy of the rectangle shifted by dx/dy.
func (r WindowRect) Offset(dx, dy int) WindowRect {
	r.X += dx
	r.Y += dy
	return r
}

// ClampedMin returns a copy of the rectangle with minimum width/height enforced.
func (r WindowRect) ClampedMin(minW, minH int) WindowRect {
	if r.W < minW {
		r.W = minW
	}
	if r.H < minH {
		r.H = minH
	}
	return r
}

// DefaultWindowRect returns the geometry used when an open request carries none.
func DefaultWindowRect() WindowRect {
	return WindowRect{X: 48, Y: 48, W: DefaultWindowWidth, H: DefaultWindowHeight}
}

// WindowFlags are window behavior flags for shell interactions and layout logic.
type WindowFlags struct {
	Resizable   bool `json:"resizable"`
	Minimizable bool `json:"minimizable"`
	Maximizable bool `json:"maximizable"`
	// ModalParent holds the parent window id for modal child windows, zero when unset.
	ModalParent WindowID `json:"modal_parent,omitempty"`
}

// DefaultWindowFlags returns the flag set applied to ordinary app windows.
func DefaultWindowFlags() WindowFlags {
	return WindowFlags{Resizable: true, Minimizable: true, Maximizable: true}
}

// WindowRecord is the runtime record for an open desktop window instance.
type WindowRecord struct {
	ID     WindowID   `json:"id"`
	AppID  AppID      `json:"app_id"`
	Title  string     `json:"title"`
	IconID string     `json:"icon_id"`
	Rect   WindowRect `json:"rect"`
	// RestoreRect holds the geometry to restore when leaving a maximized or
	// snapped state. Nil when the window has never been maximized/snapped.
	RestoreRect *WindowRect `json:"restore_rect,omitempty"`
	ZIndex      int         `json:"z_index"`
	IsFocused   bool        `json:"is_focused"`
	Minimized   bool        `json:"minimized"`
	Maximized   bool        `json:"maximized"`
	Suspended   bool        `json:"suspended,omitempty"`
	Flags       WindowFlags `json:"flags"`
	PersistKey  string      `json:"persist_key,omitempty"`
	// AppState carries the app-specific serialized state payload.
	AppState json.RawMessage `json:"app_state,omitempty"`
	// LaunchParams carries launch parameters provided to the app module.
	LaunchParams json.RawMessage `json:"launch_params,omitempty"`
	// LastLifecycleEvent is the last lifecycle token observed for this window.
	LastLifecycleEvent string `json:"last_lifecycle_event,omitempty"`
}

// DesktopSkin is a typed desktop skin preset.
type DesktopSkin string

const (
	SkinModernAdaptive DesktopSkin = "modern-adaptive"
	SkinClassicXP      DesktopSkin = "classic-xp"
	SkinClassic95      DesktopSkin = "classic-95"
)

// Label returns the human-readable skin label used by settings pickers.
func (s DesktopSkin) Label() string {
	switch s {
	case SkinClassicXP:
		return "Classic XP"
	case SkinClassic95:
		return "Classic 95"
	default:
		return "Modern Adaptive"
	}
}

// SkinFromID resolves a raw skin id, reporting whether it is known.
func SkinFromID(raw string) (DesktopSkin, bool) {
	switch DesktopSkin(raw) {
	case SkinModernAdaptive, SkinClassicXP, SkinClassic95:
		return DesktopSkin(raw), true
	}
	return "", false
}

// DesktopTheme holds user-configurable desktop theme preferences.
type DesktopTheme struct {
	Skin          DesktopSkin `json:"skin"`
	HighContrast  bool        `json:"high_contrast"`
	ReducedMotion bool        `json:"reduced_motion"`
	AudioEnabled  bool        `json:"audio_enabled"`
}

// DefaultTheme returns the boot theme.
func DefaultTheme() DesktopTheme {
	return DesktopTheme{Skin: SkinModernAdaptive}
}

// DesktopPreferences are runtime preferences that affect restore behavior.
type DesktopPreferences struct {
	RestoreOnBoot          bool `json:"restore_on_boot"`
	MaxRestoreWindows      int  `json:"max_restore_windows"`
	TerminalHistoryEnabled bool `json:"terminal_history_enabled"`
}

// DefaultPreferences returns the boot preference set.
func DefaultPreferences() DesktopPreferences {
	return DesktopPreferences{
		RestoreOnBoot:          true,
		MaxRestoreWindows:      5,
		TerminalHistoryEnabled: true,
	}
}

// MaxTerminalHistory bounds the retained terminal command history.
const MaxTerminalHistory = 100

// DesktopState is the root desktop runtime state mutated by the reducer.
//
// Windows are ordered by stacking position, bottom to top; the sequence is the
// single owner of every WindowRecord.
type DesktopState struct {
	NextWindowID     WindowID           `json:"next_window_id"`
	Windows          []WindowRecord     `json:"windows"`
	StartMenuOpen    bool               `json:"start_menu_open"`
	ActiveModal      WindowID           `json:"active_modal,omitempty"`
	Theme            DesktopTheme       `json:"theme"`
	Preferences      DesktopPreferences `json:"preferences"`
	LastExplorerPath string             `json:"last_explorer_path,omitempty"`
	LastNotepadSlug  string             `json:"last_notepad_slug,omitempty"`
	TerminalHistory  []string           `json:"terminal_history"`
	// AppSharedState holds app-shared payloads keyed by "<app_id>:<key>".
	AppSharedState map[string]json.RawMessage `json:"app_shared_state,omitempty"`
}

// NewDesktopState returns an empty state with defaults applied.
func NewDesktopState() *DesktopState {
	return &DesktopState{
		NextWindowID:    1,
		Theme:           DefaultTheme(),
		Preferences:     DefaultPreferences(),
		AppSharedState:  make(map[string]json.RawMessage),
		TerminalHistory: nil,
	}
}

// FindWindow returns the window record with the given id, or nil.
func (s *DesktopState) FindWindow(id WindowID) *WindowRecord {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return &s.Windows[i]
		}
	}
	return nil
}

// FocusedWindowID returns the focused window id, or zero when none is focused.
func (s *DesktopState) FocusedWindowID() WindowID {
	for i := range s.Windows {
		if s.Windows[i].IsFocused {
			return s.Windows[i].ID
		}
	}
	return 0
}

// Snapshot creates a serializable snapshot of the current desktop state.
func (s *DesktopState) Snapshot() DesktopSnapshot {
	snap := DesktopSnapshot{
		SchemaVersion:    LayoutSchemaVersion,
		Preferences:      s.Preferences,
		Windows:          append([]WindowRecord(nil), s.Windows...),
		LastExplorerPath: s.LastExplorerPath,
		LastNotepadSlug:  s.LastNotepadSlug,
		TerminalHistory:  append([]string(nil), s.TerminalHistory...),
	}
	if len(s.AppSharedState) > 0 {
		snap.AppSharedState = make(map[string]json.RawMessage, len(s.AppSharedState))
		for k, v := range s.AppSharedState {
			snap.AppSharedState[k] = v
		}
	}
	return snap
}

// StateFromSnapshot rebuilds runtime state from a persisted snapshot.
//
// The next window id is recomputed from the restored window list.
func StateFromSnapshot(snap DesktopSnapshot) *DesktopState {
	state := NewDesktopState()
	state.Preferences = snap.Preferences
	state.Windows = append([]WindowRecord(nil), snap.Windows...)
	state.LastExplorerPath = snap.LastExplorerPath
	state.LastNotepadSlug = snap.LastNotepadSlug
	state.TerminalHistory = append([]string(nil), snap.TerminalHistory...)
	for k, v := range snap.AppSharedState {
		state.AppSharedState[k] = v
	}
	var maxID WindowID
	for i := range state.Windows {
		if state.Windows[i].ID > maxID {
			maxID = state.Windows[i].ID
		}
	}
	state.NextWindowID = maxID + 1
	return state
}

// DesktopSnapshot is the serializable envelope persisted for layout restore.
type DesktopSnapshot struct {
	SchemaVersion    int                        `json:"schema_version"`
	Preferences      DesktopPreferences         `json:"preferences"`
	Windows          []WindowRecord             `json:"windows"`
	LastExplorerPath string                     `json:"last_explorer_path,omitempty"`
	LastNotepadSlug  string                     `json:"last_notepad_slug,omitempty"`
	TerminalHistory  []string                   `json:"terminal_history"`
	AppSharedState   map[string]json.RawMessage `json:"app_shared_state,omitempty"`
}

// OpenWindowRequest is the payload used by the reducer to open a new window.
type OpenWindowRequest struct {
	AppID AppID
	// Title overrides the app's default window title when non-empty.
	Title  string
	IconID string
	// Rect is the initial geometry; nil requests cascade defaults.
	Rect *WindowRect
	// Viewport hints adaptive sizing and clamping when opening.
	Viewport     *WindowRect
	PersistKey   string
	LaunchParams json.RawMessage
	AppState     json.RawMessage
	Flags        WindowFlags
}

// NewOpenWindowRequest creates a request with defaults for the given app.
func NewOpenWindowRequest(appID AppID) OpenWindowRequest {
	return OpenWindowRequest{AppID: appID, Flags: DefaultWindowFlags()}
}

// PointerPosition is a pointer coordinate in desktop viewport space.
type PointerPosition struct {
	X int
	Y int
}

// ResizeEdge identifies the edge or corner driving a resize interaction.
type ResizeEdge int

const (
	EdgeNorth ResizeEdge = iota
	EdgeSouth
	EdgeEast
	EdgeWest
	EdgeNorthEast
	EdgeNorthWest
	EdgeSouthEast
	EdgeSouthWest
)

// DragSession tracks an active window move interaction.
type DragSession struct {
	WindowID     WindowID
	PointerStart PointerPosition
	RectStart    WindowRect
}

// ResizeSession tracks an active window resize interaction.
type ResizeSession struct {
	WindowID     WindowID
	Edge         ResizeEdge
	PointerStart PointerPosition
	RectStart    WindowRect
	Viewport     WindowRect
}

// InteractionState is the non-persisted pointer interaction state tracked
// alongside DesktopState. Reset on drag/resize completion or cancellation.
type InteractionState struct {
	Dragging *DragSession
	Resizing *ResizeSession
	// DesktopSelectionOrigin marks an in-progress desktop rubber-band gesture.
	DesktopSelectionOrigin *PointerPosition
}

// DeepLinkTarget is one deep-link instruction translated into an open request.
type DeepLinkTarget struct {
	// App opens an application by canonical id when non-empty.
	App AppID `json:"app,omitempty"`
	// NoteSlug opens a notepad window for the slug when non-empty.
	NoteSlug string `json:"note_slug,omitempty"`
	// ProjectSlug opens an explorer window scoped to the slug when non-empty.
	ProjectSlug string `json:"project_slug,omitempty"`
}

// DeepLink is a parsed deep-link payload extracted from URL components.
type DeepLink struct {
	Open []DeepLinkTarget `json:"open"`
}
