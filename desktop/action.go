// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/action.go
// Summary: The closed set of desktop actions consumed by Reduce.
// Usage: Construct a variant and pass it to Reduce (or runtime.Dispatch).

package desktop

import "encoding/json"

// Action is one desktop state transition input. The variant set is closed:
// Reduce type-switches over exactly the types below and anything else is an
// error, so third-party packages cannot add variants.
type Action interface {
	isAction()
}

// ActivateApp activates an application from a launcher surface.
//
// For single-instance apps this focuses/restores the existing window when one
// is open; otherwise it opens a new window.
type ActivateApp struct {
	AppID AppID
	// Viewport hints adaptive sizing when a new window must be opened.
	Viewport *WindowRect
}

// OpenWindow opens a new window using the supplied request.
type OpenWindow struct {
	Request OpenWindowRequest
}

// CloseWindow closes a window by id.
type CloseWindow struct {
	WindowID WindowID
}

// FocusWindow focuses and raises a window by id.
type FocusWindowAction struct {
	WindowID WindowID
}

// MinimizeWindow minimizes a window.
type MinimizeWindow struct {
	WindowID WindowID
}

// MaximizeWindow maximizes a window into the provided viewport.
type MaximizeWindow struct {
	WindowID WindowID
	Viewport WindowRect
}

// RestoreWindow restores a minimized or maximized window.
type RestoreWindow struct {
	WindowID WindowID
}

// ToggleTaskbarWindow toggles taskbar behavior for a window: restore when
// minimized, minimize when focused, focus otherwise.
type ToggleTaskbarWindow struct {
	WindowID WindowID
}

// ToggleStartMenu toggles the start menu open/closed.
type ToggleStartMenu struct{}

// CloseStartMenu closes the start menu if open.
type CloseStartMenu struct{}

// BeginMove begins dragging a window.
type BeginMove struct {
	WindowID WindowID
	Pointer  PointerPosition
}

// UpdateMove updates an in-progress window drag.
type UpdateMove struct {
	Pointer PointerPosition
}

// EndMove ends the active window drag.
type EndMove struct{}

// EndMoveWithViewport ends the active window drag and applies viewport-edge
// snapping.
type EndMoveWithViewport struct {
	Viewport WindowRect
}

// CancelMove discards the active drag and restores the starting geometry.
type CancelMove struct{}

// BeginResize begins resizing a window.
type BeginResize struct {
	WindowID WindowID
	Edge     ResizeEdge
	Pointer  PointerPosition
	// Viewport bounds the resize.
	Viewport WindowRect
}

// UpdateResize updates an in-progress window resize.
type UpdateResize struct {
	Pointer PointerPosition
}

// EndResize ends the active window resize.
type EndResize struct{}

// CancelResize discards the active resize and restores the starting geometry.
type CancelResize struct{}

// SuspendWindow suspends a window instance.
type SuspendWindow struct {
	WindowID WindowID
}

// ResumeWindow resumes a suspended window instance.
type ResumeWindow struct {
	WindowID WindowID
}

// HandleAppCommand handles an app-originated command for a managed window.
type HandleAppCommand struct {
	WindowID WindowID
	Command  AppCommand
}

// SetSkin sets the active desktop skin preset.
type SetSkin struct {
	Skin DesktopSkin
}

// SetHighContrast toggles high-contrast rendering.
type SetHighContrast struct {
	Enabled bool
}

// SetReducedMotion toggles reduced-motion rendering.
type SetReducedMotion struct {
	Enabled bool
}

// HydrateTheme hydrates theme state independently from layout restore.
type HydrateTheme struct {
	Theme DesktopTheme
}

// PushTerminalHistory appends a command to terminal history, subject to
// preferences and the retained-history cap.
type PushTerminalHistory struct {
	Command string
}

// SetAppState replaces the app-specific state payload for a window.
type SetAppState struct {
	WindowID WindowID
	AppState json.RawMessage
}

// SetSharedAppState replaces the shared payload stored under "<app_id>:<key>".
type SetSharedAppState struct {
	AppID AppID
	Key   string
	State json.RawMessage
}

// HydrateSnapshot hydrates runtime state from a persisted snapshot.
type HydrateSnapshot struct {
	Snapshot DesktopSnapshot
}

// ApplyDeepLink applies URL-derived deep-link instructions.
type ApplyDeepLink struct {
	DeepLink DeepLink
}

func (ActivateApp) isAction()         {}
func (OpenWindow) isAction()          {}
func (CloseWindow) isAction()         {}
func (FocusWindowAction) isAction()   {}
func (MinimizeWindow) isAction()      {}
func (MaximizeWindow) isAction()      {}
func (RestoreWindow) isAction()       {}
func (ToggleTaskbarWindow) isAction() {}
func (ToggleStartMenu) isAction()     {}
func (CloseStartMenu) isAction()      {}
func (BeginMove) isAction()           {}
func (UpdateMove) isAction()          {}
func (EndMove) isAction()             {}
func (EndMoveWithViewport) isAction() {}
func (CancelMove) isAction()          {}
func (BeginResize) isAction()         {}
func (UpdateResize) isAction()        {}
func (EndResize) isAction()           {}
func (CancelResize) isAction()        {}
func (SuspendWindow) isAction()       {}
func (ResumeWindow) isAction()        {}
func (HandleAppCommand) isAction()    {}
func (SetSkin) isAction()             {}
func (SetHighContrast) isAction()     {}
func (SetReducedMotion) isAction()    {}
func (HydrateTheme) isAction()        {}
func (PushTerminalHistory) isAction() {}
func (SetAppState) isAction()         {}
func (SetSharedAppState) isAction()   {}
func (HydrateSnapshot) isAction()     {}
func (ApplyDeepLink) isAction()       {}
