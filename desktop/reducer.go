// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/reducer.go
// Summary: Pure desktop state transition function: (state, action) -> effects.
// Usage: Construct a Reducer with an app catalog; call Reduce per action.

package desktop

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrWindowNotFound is returned when an action references a window id that is
// not in the stack. State is never partially applied on error.
var ErrWindowNotFound = errors.New("desktop: window not found")

// Reducer applies actions to desktop state and emits runtime effects.
//
// Reduce never performs I/O; all side effects are returned as Effect values
// in emission order for the runtime executor.
type Reducer struct {
	apps AppCatalog
}

// NewReducer returns a reducer resolving app policy through the catalog.
// A nil catalog falls back to generic descriptors for every app.
func NewReducer(apps AppCatalog) *Reducer {
	return &Reducer{apps: apps}
}

func (r *Reducer) descriptor(id AppID) AppDescriptor {
	if r.apps != nil {
		if desc, ok := r.apps.Descriptor(id); ok {
			return desc
		}
	}
	return fallbackDescriptor(id)
}

func (r *Reducer) defaultOpenRequest(id AppID, viewport *WindowRect) OpenWindowRequest {
	if r.apps != nil {
		return r.apps.DefaultOpenRequest(id, viewport)
	}
	req := NewOpenWindowRequest(id)
	req.Viewport = viewport
	return req
}

// Reduce applies one action, mutating state and interaction in place, and
// returns the effects to execute. On error no state change is observable.
// Every successful reduction leaves the window stack normalized.
func (r *Reducer) Reduce(state *DesktopState, interaction *InteractionState, action Action) ([]Effect, error) {
	var effects []Effect

	switch a := action.(type) {
	case ActivateApp:
		desc := r.descriptor(a.AppID)
		if desc.SingleInstance {
			if id := preferredWindowForApp(state, a.AppID); id != 0 {
				existing := state.FindWindow(id)
				switch {
				case existing != nil && existing.Minimized:
					return r.Reduce(state, interaction, RestoreWindow{WindowID: id})
				case state.FocusedWindowID() != id:
					return r.Reduce(state, interaction, FocusWindowAction{WindowID: id})
				}
				return effects, nil
			}
		}
		return r.Reduce(state, interaction, OpenWindow{Request: r.defaultOpenRequest(a.AppID, a.Viewport)})

	case OpenWindow:
		req := a.Request
		previouslyFocused := state.FocusedWindowID()
		windowID := nextWindowID(state)
		defaultOffset := (int(windowID) - 1) % 8 * 20
		viewport := WindowRect{X: 0, Y: 0, W: 1280, H: 760}
		if req.Viewport != nil {
			viewport = *req.Viewport
		}
		rect := WindowRect{
			X: 40 + defaultOffset,
			Y: 48 + defaultOffset,
			W: DefaultWindowWidth,
			H: DefaultWindowHeight,
		}
		if req.Rect != nil {
			rect = *req.Rect
		}
		rect = rect.Offset(defaultOffset/2, defaultOffset/2).ClampedMin(MinWindowWidth, MinWindowHeight)
		rect = ClampRectToViewport(rect, viewport)

		desc := r.descriptor(req.AppID)
		title := req.Title
		if title == "" {
			title = desc.Title
		}
		iconID := req.IconID
		if iconID == "" {
			iconID = desc.IconID
		}
		state.Windows = append(state.Windows, WindowRecord{
			ID:           windowID,
			AppID:        req.AppID,
			Title:        title,
			IconID:       iconID,
			Rect:         rect,
			Flags:        req.Flags,
			PersistKey:   req.PersistKey,
			AppState:     req.AppState,
			LaunchParams: req.LaunchParams,
		})
		if !FocusWindow(state, windowID) {
			return nil, ErrWindowNotFound
		}
		state.StartMenuOpen = false
		recordWindowLifecycle(state, windowID, LifecycleMounted)
		effects = append(effects, DispatchLifecycle{WindowID: windowID, Event: LifecycleMounted})
		effects = emitFocusTransition(state, previouslyFocused, windowID, effects)
		effects = append(effects, PersistLayout{}, FocusWindowInput{WindowID: windowID})
		if req.AppID == AppDialup && state.Theme.AudioEnabled {
			effects = append(effects, PlaySound{Name: "dialup-open"})
		}

	case CloseWindow:
		wasFocused := state.FocusedWindowID() == a.WindowID
		if state.FindWindow(a.WindowID) == nil {
			return nil, ErrWindowNotFound
		}
		effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleClosing})
		kept := state.Windows[:0]
		for _, w := range state.Windows {
			if w.ID != a.WindowID {
				kept = append(kept, w)
			}
		}
		state.Windows = kept
		if state.ActiveModal == a.WindowID {
			state.ActiveModal = 0
		}
		NormalizeStack(state)
		effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleClosed})
		if wasFocused {
			effects = emitFocusTransition(state, a.WindowID, state.FocusedWindowID(), effects)
		}
		effects = append(effects, PersistLayout{})

	case FocusWindowAction:
		previousFocus := state.FocusedWindowID()
		if !FocusWindow(state, a.WindowID) {
			return nil, ErrWindowNotFound
		}
		state.StartMenuOpen = false
		effects = emitFocusTransition(state, previousFocus, a.WindowID, effects)
		effects = append(effects, FocusWindowInput{WindowID: a.WindowID})

	case MinimizeWindow:
		previousFocus := state.FocusedWindowID()
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		window.Minimized = true
		window.IsFocused = false
		shouldSuspend := r.descriptor(window.AppID).SuspendPolicy == SuspendOnMinimize && !window.Suspended
		if shouldSuspend {
			window.Suspended = true
		}
		recordWindowLifecycle(state, a.WindowID, LifecycleMinimized)
		effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleMinimized})
		if shouldSuspend {
			recordWindowLifecycle(state, a.WindowID, LifecycleSuspended)
			effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleSuspended})
		}
		NormalizeStack(state)
		if previousFocus == a.WindowID {
			effects = emitFocusTransition(state, a.WindowID, state.FocusedWindowID(), effects)
		}
		effects = append(effects, PersistLayout{})

	case MaximizeWindow:
		previousFocus := state.FocusedWindowID()
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		if !window.Maximized {
			rect := window.Rect
			window.RestoreRect = &rect
		}
		window.Rect = a.Viewport.ClampedMin(MinWindowWidth, MinWindowHeight)
		window.Maximized = true
		window.Minimized = false
		wasSuspended := window.Suspended
		window.Suspended = false
		if !FocusWindow(state, a.WindowID) {
			return nil, ErrWindowNotFound
		}
		if wasSuspended {
			recordWindowLifecycle(state, a.WindowID, LifecycleResumed)
			effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleResumed})
		}
		effects = emitFocusTransition(state, previousFocus, a.WindowID, effects)
		effects = append(effects, PersistLayout{})

	case RestoreWindow:
		previousFocus := state.FocusedWindowID()
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		if window.Maximized {
			if window.RestoreRect != nil {
				window.Rect = *window.RestoreRect
			}
			window.Maximized = false
		}
		window.Minimized = false
		wasSuspended := window.Suspended
		window.Suspended = false
		if !FocusWindow(state, a.WindowID) {
			return nil, ErrWindowNotFound
		}
		recordWindowLifecycle(state, a.WindowID, LifecycleRestored)
		effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleRestored})
		if wasSuspended {
			recordWindowLifecycle(state, a.WindowID, LifecycleResumed)
			effects = append(effects, DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleResumed})
		}
		effects = emitFocusTransition(state, previousFocus, a.WindowID, effects)
		effects = append(effects, PersistLayout{}, FocusWindowInput{WindowID: a.WindowID})

	case ToggleTaskbarWindow:
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		switch {
		case window.Minimized:
			return r.Reduce(state, interaction, RestoreWindow{WindowID: a.WindowID})
		case state.FocusedWindowID() == a.WindowID:
			return r.Reduce(state, interaction, MinimizeWindow{WindowID: a.WindowID})
		default:
			return r.Reduce(state, interaction, FocusWindowAction{WindowID: a.WindowID})
		}

	case ToggleStartMenu:
		state.StartMenuOpen = !state.StartMenuOpen

	case CloseStartMenu:
		state.StartMenuOpen = false

	case BeginMove:
		previousFocus := state.FocusedWindowID()
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		rectStart := window.Rect
		if !FocusWindow(state, a.WindowID) {
			return nil, ErrWindowNotFound
		}
		effects = emitFocusTransition(state, previousFocus, a.WindowID, effects)
		interaction.Dragging = &DragSession{
			WindowID:     a.WindowID,
			PointerStart: a.Pointer,
			RectStart:    rectStart,
		}

	case UpdateMove:
		if session := interaction.Dragging; session != nil {
			window := state.FindWindow(session.WindowID)
			if window == nil {
				return nil, ErrWindowNotFound
			}
			if !window.Maximized {
				dx := a.Pointer.X - session.PointerStart.X
				dy := a.Pointer.Y - session.PointerStart.Y
				window.Rect = session.RectStart.Offset(dx, dy)
			}
		}

	case EndMove:
		interaction.Dragging = nil
		effects = append(effects, PersistLayout{})

	case EndMoveWithViewport:
		session := interaction.Dragging
		interaction.Dragging = nil
		if session != nil {
			SnapToViewportEdge(state, session.WindowID, a.Viewport)
		}
		effects = append(effects, PersistLayout{})

	case CancelMove:
		if session := interaction.Dragging; session != nil {
			if window := state.FindWindow(session.WindowID); window != nil && !window.Maximized {
				window.Rect = session.RectStart
			}
			interaction.Dragging = nil
		}

	case BeginResize:
		previousFocus := state.FocusedWindowID()
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		rectStart := window.Rect
		if !FocusWindow(state, a.WindowID) {
			return nil, ErrWindowNotFound
		}
		effects = emitFocusTransition(state, previousFocus, a.WindowID, effects)
		interaction.Resizing = &ResizeSession{
			WindowID:     a.WindowID,
			Edge:         a.Edge,
			PointerStart: a.Pointer,
			RectStart:    rectStart,
			Viewport:     a.Viewport,
		}

	case UpdateResize:
		if session := interaction.Resizing; session != nil {
			window := state.FindWindow(session.WindowID)
			if window == nil {
				return nil, ErrWindowNotFound
			}
			if !window.Maximized && window.Flags.Resizable {
				dx := a.Pointer.X - session.PointerStart.X
				dy := a.Pointer.Y - session.PointerStart.Y
				resized := ResizeRect(session.RectStart, session.Edge, dx, dy).
					ClampedMin(MinWindowWidth, MinWindowHeight)
				window.Rect = ClampRectToViewport(resized, session.Viewport)
			}
		}

	case EndResize:
		interaction.Resizing = nil
		effects = append(effects, PersistLayout{})

	case CancelResize:
		if session := interaction.Resizing; session != nil {
			if window := state.FindWindow(session.WindowID); window != nil && !window.Maximized {
				window.Rect = session.RectStart
			}
			interaction.Resizing = nil
		}

	case SuspendWindow:
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		if !window.Suspended {
			window.Suspended = true
			recordWindowLifecycle(state, a.WindowID, LifecycleSuspended)
			effects = append(effects,
				DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleSuspended},
				PersistLayout{})
		}

	case ResumeWindow:
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		if window.Suspended {
			window.Suspended = false
			recordWindowLifecycle(state, a.WindowID, LifecycleResumed)
			effects = append(effects,
				DispatchLifecycle{WindowID: a.WindowID, Event: LifecycleResumed},
				PersistLayout{})
		}

	case HandleAppCommand:
		return r.reduceAppCommand(state, interaction, a)

	case SetSkin:
		state.Theme.Skin = a.Skin
		effects = append(effects, PersistTheme{})

	case SetHighContrast:
		state.Theme.HighContrast = a.Enabled
		effects = append(effects, PersistTheme{})

	case SetReducedMotion:
		state.Theme.ReducedMotion = a.Enabled
		effects = append(effects, PersistTheme{})

	case HydrateTheme:
		state.Theme = a.Theme

	case PushTerminalHistory:
		if state.Preferences.TerminalHistoryEnabled && strings.TrimSpace(a.Command) != "" {
			state.TerminalHistory = append(state.TerminalHistory, a.Command)
			if overflow := len(state.TerminalHistory) - MaxTerminalHistory; overflow > 0 {
				state.TerminalHistory = append(state.TerminalHistory[:0], state.TerminalHistory[overflow:]...)
			}
			effects = append(effects, PersistTerminalHistory{})
		}

	case SetAppState:
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		window.AppState = a.AppState
		effects = append(effects, PersistLayout{})

	case SetSharedAppState:
		if state.AppSharedState == nil {
			state.AppSharedState = make(map[string]json.RawMessage)
		}
		storageKey := fmt.Sprintf("%s:%s", a.AppID, strings.TrimSpace(a.Key))
		state.AppSharedState[storageKey] = a.State
		effects = append(effects, PersistLayout{})

	case HydrateSnapshot:
		maxRestore := state.Preferences.MaxRestoreWindows
		theme := state.Theme
		*state = *StateFromSnapshot(a.Snapshot)
		state.Theme = theme
		if len(state.Windows) > maxRestore {
			state.Windows = state.Windows[:maxRestore]
		}
		NormalizeStack(state)
		for i := range state.Windows {
			if state.Windows[i].LastLifecycleEvent == "" {
				state.Windows[i].LastLifecycleEvent = string(LifecycleMounted)
			}
			effects = append(effects, DispatchLifecycle{WindowID: state.Windows[i].ID, Event: LifecycleMounted})
		}
		if focused := state.FocusedWindowID(); focused != 0 {
			recordWindowLifecycle(state, focused, LifecycleFocused)
			effects = append(effects, DispatchLifecycle{WindowID: focused, Event: LifecycleFocused})
		}

	case ApplyDeepLink:
		effects = append(effects, ParseAndOpenDeepLink{DeepLink: a.DeepLink})

	default:
		return nil, fmt.Errorf("desktop: unknown action %T", action)
	}

	NormalizeStack(state)
	return effects, nil
}

// reduceAppCommand routes one app-originated command, enforcing the source
// app's capability scopes first. Disallowed commands are dropped silently.
func (r *Reducer) reduceAppCommand(state *DesktopState, interaction *InteractionState, a HandleAppCommand) ([]Effect, error) {
	source := state.FindWindow(a.WindowID)
	if source == nil {
		return nil, ErrWindowNotFound
	}
	sourceApp := source.AppID
	cmd := a.Command
	if required := requiredCapability(cmd); required != "" {
		if !r.descriptor(sourceApp).AllowsCapability(required) {
			return nil, nil
		}
	}

	var effects []Effect
	switch cmd.Kind {
	case CmdSetWindowTitle:
		window := state.FindWindow(a.WindowID)
		if window == nil {
			return nil, ErrWindowNotFound
		}
		if window.Title != cmd.Title {
			window.Title = cmd.Title
			effects = append(effects, PersistLayout{})
		}

	case CmdPersistState:
		return r.Reduce(state, interaction, SetAppState{WindowID: a.WindowID, AppState: cmd.State})

	case CmdPersistSharedState:
		return r.Reduce(state, interaction, SetSharedAppState{AppID: sourceApp, Key: cmd.Key, State: cmd.State})

	case CmdSaveConfig:
		if strings.TrimSpace(cmd.Namespace) != "" && strings.TrimSpace(cmd.Key) != "" {
			effects = append(effects, SaveConfig{Namespace: cmd.Namespace, Key: cmd.Key, Value: cmd.Value})
		}

	case CmdOpenExternalURL:
		effects = append(effects, OpenExternalURL{URL: cmd.URL})

	case CmdSubscribe:
		if strings.TrimSpace(cmd.Topic) != "" {
			effects = append(effects, SubscribeWindowTopic{WindowID: a.WindowID, Topic: cmd.Topic})
		}

	case CmdUnsubscribe:
		if strings.TrimSpace(cmd.Topic) != "" {
			effects = append(effects, UnsubscribeWindowTopic{WindowID: a.WindowID, Topic: cmd.Topic})
		}

	case CmdPublishEvent:
		if strings.TrimSpace(cmd.Topic) != "" {
			effects = append(effects, PublishTopicEvent{
				SourceWindowID: a.WindowID,
				Topic:          cmd.Topic,
				Payload:        cmd.Payload,
				CorrelationID:  cmd.CorrelationID,
				ReplyTo:        cmd.ReplyTo,
			})
		}

	case CmdSetDesktopSkin:
		if skin, ok := SkinFromID(cmd.SkinID); ok {
			return r.Reduce(state, interaction, SetSkin{Skin: skin})
		}

	case CmdSetHighContrast:
		return r.Reduce(state, interaction, SetHighContrast{Enabled: cmd.Enabled})

	case CmdSetReducedMotion:
		return r.Reduce(state, interaction, SetReducedMotion{Enabled: cmd.Enabled})

	case CmdNotify:
		effects = append(effects, Notify{Title: cmd.NotifyTitle, Body: cmd.NotifyBody})
	}

	NormalizeStack(state)
	return effects, nil
}

// BuildOpenRequestFromDeepLink converts one parsed deep-link target into an
// open request. App targets use catalog defaults; note and project targets
// carry stable persist keys so layout restore can re-bind them.
func BuildOpenRequestFromDeepLink(target DeepLinkTarget) OpenWindowRequest {
	switch {
	case target.NoteSlug != "":
		req := NewOpenWindowRequest(AppNotepad)
		req.Title = "Note - " + target.NoteSlug
		req.PersistKey = "notes:" + target.NoteSlug
		req.LaunchParams = json.RawMessage(fmt.Sprintf(`{"slug":%q}`, target.NoteSlug))
		return req
	case target.ProjectSlug != "":
		req := NewOpenWindowRequest(AppExplorer)
		req.Title = "Project - " + target.ProjectSlug
		req.PersistKey = "projects:" + target.ProjectSlug
		req.LaunchParams = json.RawMessage(fmt.Sprintf(`{"project_slug":%q}`, target.ProjectSlug))
		return req
	default:
		return NewOpenWindowRequest(target.App)
	}
}

func nextWindowID(state *DesktopState) WindowID {
	id := state.NextWindowID
	state.NextWindowID++
	return id
}

// preferredWindowForApp picks the window activation should reuse: the topmost
// focused non-minimized instance, then the topmost non-minimized instance,
// then the topmost instance of any kind. Zero when the app has no windows.
func preferredWindowForApp(state *DesktopState, appID AppID) WindowID {
	for i := len(state.Windows) - 1; i >= 0; i-- {
		w := &state.Windows[i]
		if w.AppID == appID && !w.Minimized && w.IsFocused {
			return w.ID
		}
	}
	for i := len(state.Windows) - 1; i >= 0; i-- {
		w := &state.Windows[i]
		if w.AppID == appID && !w.Minimized {
			return w.ID
		}
	}
	for i := len(state.Windows) - 1; i >= 0; i-- {
		if state.Windows[i].AppID == appID {
			return state.Windows[i].ID
		}
	}
	return 0
}

func recordWindowLifecycle(state *DesktopState, id WindowID, event LifecycleEvent) {
	if window := state.FindWindow(id); window != nil {
		window.LastLifecycleEvent = string(event)
	}
}

// emitFocusTransition records and emits blurred/focused lifecycle signals for
// a focus change. Ids no longer present in the stack are skipped; zero ids
// mean "no window".
func emitFocusTransition(state *DesktopState, previous, next WindowID, effects []Effect) []Effect {
	if previous == next {
		return effects
	}
	if previous != 0 && state.FindWindow(previous) != nil {
		recordWindowLifecycle(state, previous, LifecycleBlurred)
		effects = append(effects, DispatchLifecycle{WindowID: previous, Event: LifecycleBlurred})
	}
	if next != 0 && state.FindWindow(next) != nil {
		recordWindowLifecycle(state, next, LifecycleFocused)
		effects = append(effects, DispatchLifecycle{WindowID: next, Event: LifecycleFocused})
	}
	return effects
}
