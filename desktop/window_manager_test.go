// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package desktop

import (
	"reflect"
	"testing"
)

func stackState(records ...WindowRecord) *DesktopState {
	state := NewDesktopState()
	state.Windows = append(state.Windows, records...)
	for _, w := range records {
		if w.ID >= state.NextWindowID {
			state.NextWindowID = w.ID + 1
		}
	}
	return state
}

func window(id WindowID, opts ...func(*WindowRecord)) WindowRecord {
	w := WindowRecord{
		ID:    id,
		AppID: AppExplorer,
		Rect:  DefaultWindowRect(),
		Flags: DefaultWindowFlags(),
	}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

func focused(w *WindowRecord)   { w.IsFocused = true }
func minimized(w *WindowRecord) { w.Minimized = true }

func TestNormalizeStackAssignsDenseZIndices(t *testing.T) {
	state := stackState(window(1), window(2), window(3, focused))

	NormalizeStack(state)

	for i, w := range state.Windows {
		if w.ZIndex != i+1 {
			t.Fatalf("expected z-index %d at position %d, got %d", i+1, i, w.ZIndex)
		}
	}
}

func TestNormalizeStackIsIdempotent(t *testing.T) {
	state := stackState(
		window(1, focused),
		window(2, minimized, focused),
		window(3, focused),
	)

	NormalizeStack(state)
	first := append([]WindowRecord(nil), state.Windows...)
	NormalizeStack(state)

	if !reflect.DeepEqual(state.Windows, first) {
		t.Fatalf("expected second normalization to be a no-op")
	}
}

func TestNormalizeStackEnforcesSingleFocus(t *testing.T) {
	state := stackState(window(1, focused), window(2, focused), window(3, focused))

	NormalizeStack(state)

	count := 0
	for _, w := range state.Windows {
		if w.IsFocused {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one focused window, got %d", count)
	}
	if !state.Windows[0].IsFocused {
		t.Fatalf("expected first focus claim to win")
	}
}

func TestNormalizeStackUnfocusesMinimizedAndElectsTopmost(t *testing.T) {
	state := stackState(window(1), window(2, focused, minimized), window(3))

	NormalizeStack(state)

	if state.Windows[1].IsFocused {
		t.Fatalf("minimized window must not keep focus")
	}
	if got := state.FocusedWindowID(); got != 3 {
		t.Fatalf("expected topmost non-minimized window focused, got %d", got)
	}
}

func TestFocusWindowRaisesAndUnminimizes(t *testing.T) {
	state := stackState(window(1, minimized), window(2, focused))

	if !FocusWindow(state, 1) {
		t.Fatalf("expected focus to succeed")
	}

	top := state.Windows[len(state.Windows)-1]
	if top.ID != 1 || !top.IsFocused || top.Minimized {
		t.Fatalf("expected window 1 raised, focused, unminimized: %+v", top)
	}
	if state.Windows[0].IsFocused {
		t.Fatalf("expected previous focus cleared")
	}
}

func TestFocusWindowUnknownIDFails(t *testing.T) {
	state := stackState(window(1))
	if FocusWindow(state, 42) {
		t.Fatalf("expected focus of unknown window to fail")
	}
}

func TestResizeRectPerEdge(t *testing.T) {
	start := WindowRect{X: 100, Y: 100, W: 400, H: 300}
	cases := []struct {
		name string
		edge ResizeEdge
		want WindowRect
	}{
		{"east", EdgeEast, WindowRect{X: 100, Y: 100, W: 410, H: 300}},
		{"west", EdgeWest, WindowRect{X: 110, Y: 100, W: 390, H: 300}},
		{"south", EdgeSouth, WindowRect{X: 100, Y: 100, W: 400, H: 305}},
		{"north", EdgeNorth, WindowRect{X: 100, Y: 105, W: 400, H: 295}},
		{"north-east", EdgeNorthEast, WindowRect{X: 100, Y: 105, W: 410, H: 295}},
		{"north-west", EdgeNorthWest, WindowRect{X: 110, Y: 105, W: 390, H: 295}},
		{"south-east", EdgeSouthEast, WindowRect{X: 100, Y: 100, W: 410, H: 305}},
		{"south-west", EdgeSouthWest, WindowRect{X: 110, Y: 100, W: 390, H: 305}},
	}

	for _, tc := range cases {
		if got := ResizeRect(start, tc.edge, 10, 5); got != tc.want {
			t.Fatalf("%s: expected %+v, got %+v", tc.name, tc.want, got)
		}
	}
}

func TestSnapToViewportEdgeTopMaximizes(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 1280, H: 760}
	state := stackState(window(1, func(w *WindowRecord) {
		w.Rect = WindowRect{X: 300, Y: 10, W: 500, H: 400}
	}))

	if !SnapToViewportEdge(state, 1, viewport) {
		t.Fatalf("expected snap to apply")
	}

	w := state.FindWindow(1)
	if !w.Maximized || w.Rect != viewport {
		t.Fatalf("expected maximize into viewport, got %+v", w)
	}
	if w.RestoreRect == nil || w.RestoreRect.W != 500 {
		t.Fatalf("expected restore rect capture, got %+v", w.RestoreRect)
	}
}

func TestSnapToViewportEdgeTopWinsOverSide(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 1280, H: 760}
	state := stackState(window(1, func(w *WindowRecord) {
		w.Rect = WindowRect{X: 5, Y: 5, W: 500, H: 400}
	}))

	SnapToViewportEdge(state, 1, viewport)

	if w := state.FindWindow(1); !w.Maximized {
		t.Fatalf("expected top-edge maximize to take priority over left snap")
	}
}

func TestSnapToViewportEdgeRightProximityAnchorsRightHalf(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 1000, H: 700}
	state := stackState(window(1, func(w *WindowRecord) {
		w.Rect = WindowRect{X: 520, Y: 200, W: 470, H: 300}
	}))

	if !SnapToViewportEdge(state, 1, viewport) {
		t.Fatalf("expected snap to apply")
	}

	w := state.FindWindow(1)
	want := WindowRect{X: 500, Y: 0, W: 500, H: 700}
	if w.Rect != want {
		t.Fatalf("expected right-half snap %+v, got %+v", want, w.Rect)
	}
	if w.Maximized {
		t.Fatalf("half snap must not mark the window maximized")
	}
}

func TestSnapToViewportEdgeRequiresResizableForHalfSnap(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 1000, H: 700}
	state := stackState(window(1, func(w *WindowRecord) {
		w.Rect = WindowRect{X: 5, Y: 200, W: 300, H: 250}
		w.Flags = WindowFlags{Maximizable: true}
	}))

	if SnapToViewportEdge(state, 1, viewport) {
		t.Fatalf("expected no snap for non-resizable window away from top edge")
	}
}

func TestSnapToViewportEdgeIgnoresMinimizedWindows(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 1000, H: 700}
	state := stackState(window(1, minimized, func(w *WindowRecord) {
		w.Rect = WindowRect{X: 0, Y: 0, W: 300, H: 250}
	}))

	if SnapToViewportEdge(state, 1, viewport) {
		t.Fatalf("expected minimized window to be skipped")
	}
}

func TestClampRectToViewportKeepsWindowReachable(t *testing.T) {
	viewport := WindowRect{X: 0, Y: 0, W: 800, H: 600}

	got := ClampRectToViewport(WindowRect{X: 3000, Y: -500, W: 2000, H: 50}, viewport)

	if got.W > viewport.W-20 || got.H < MinWindowHeight {
		t.Fatalf("expected size clamped, got %+v", got)
	}
	if got.X < viewport.X+10 || got.X+got.W > viewport.X+viewport.W-10 {
		t.Fatalf("expected x within reachable bounds, got %+v", got)
	}
	if got.Y != viewport.Y+10 {
		t.Fatalf("expected y clamped to top margin, got %+v", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	state := stackState(window(1), window(2, focused))
	state.TerminalHistory = []string{"ls", "open notepad"}
	state.LastExplorerPath = "/Projects"
	NormalizeStack(state)

	restored := StateFromSnapshot(state.Snapshot())

	if !reflect.DeepEqual(restored.Windows, state.Windows) {
		t.Fatalf("expected identical windows after round trip")
	}
	if restored.FocusedWindowID() != state.FocusedWindowID() {
		t.Fatalf("expected focus preserved")
	}
	if restored.NextWindowID != 3 {
		t.Fatalf("expected next window id recomputed, got %d", restored.NextWindowID)
	}
	if !reflect.DeepEqual(restored.TerminalHistory, state.TerminalHistory) {
		t.Fatalf("expected terminal history preserved")
	}
	if restored.LastExplorerPath != state.LastExplorerPath {
		t.Fatalf("expected explorer path preserved")
	}
}
