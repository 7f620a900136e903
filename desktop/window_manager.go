// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/window_manager.go
// Summary: Shared window-manager transition helpers used by the desktop reducer.
// Usage: Pure functions over DesktopState, no I/O and no hidden state.

package desktop

// Minimum usable managed window dimensions.
const (
	MinWindowWidth  = 220
	MinWindowHeight = 140
)

// SnapEdgeThreshold is the pointer proximity (in px) for snap-edge behavior.
const SnapEdgeThreshold = 24

// FocusWindow focuses and raises the window, ensuring it is the top focused
// non-minimized window. Returns false when the window id is not found.
//
// Focusing the already-focused topmost window is a no-op.
func FocusWindow(state *DesktopState, id WindowID) bool {
	index := -1
	for i := range state.Windows {
		if state.Windows[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}

	top := &state.Windows[index]
	if index+1 == len(state.Windows) && top.IsFocused && !top.Minimized {
		return true
	}

	for i := range state.Windows {
		state.Windows[i].IsFocused = false
	}
	window := state.Windows[index]
	window.IsFocused = true
	window.Minimized = false
	window.Suspended = false
	state.Windows = append(state.Windows[:index], state.Windows[index+1:]...)
	state.Windows = append(state.Windows, window)
	NormalizeStack(state)
	return true
}

// NormalizeStack reassigns z-indices as a dense 1-based rank matching stack
// position and enforces the single-focus invariant: minimized windows lose
// focus, duplicate focus claims keep only the first, and when nothing is
// focused the topmost non-minimized window gains focus. Idempotent.
func NormalizeStack(state *DesktopState) {
	hasFocused := false
	for i := range state.Windows {
		w := &state.Windows[i]
		w.ZIndex = i + 1
		if w.Minimized {
			w.IsFocused = false
		}
		if w.IsFocused {
			if hasFocused {
				w.IsFocused = false
			} else {
				hasFocused = true
			}
		}
	}

	if !hasFocused {
		for i := len(state.Windows) - 1; i >= 0; i-- {
			if !state.Windows[i].Minimized {
				state.Windows[i].IsFocused = true
				break
			}
		}
	}
}

// ResizeRect applies resize deltas for a given edge/corner drag. The result is
// not clamped to minimum size; callers clamp before committing to state.
func ResizeRect(start WindowRect, edge ResizeEdge, dx, dy int) WindowRect {
	out := start
	switch edge {
	case EdgeEast:
		out.W += dx
	case EdgeWest:
		out.X += dx
		out.W -= dx
	case EdgeSouth:
		out.H += dy
	case EdgeNorth:
		out.Y += dy
		out.H -= dy
	case EdgeNorthEast:
		out.Y += dy
		out.H -= dy
		out.W += dx
	case EdgeNorthWest:
		out.X += dx
		out.Y += dy
		out.W -= dx
		out.H -= dy
	case EdgeSouthEast:
		out.W += dx
		out.H += dy
	case EdgeSouthWest:
		out.X += dx
		out.W -= dx
		out.H += dy
	}
	return out
}

// SnapToViewportEdge applies edge snap/maximize behavior after a drag ends and
// reports whether a snap was applied.
//
// The top-edge maximize check runs first; left/right half-snap requires a
// resizable window. Right-edge proximity anchors the right half of the
// viewport, any other near-edge case anchors the left half.
func SnapToViewportEdge(state *DesktopState, id WindowID, viewport WindowRect) bool {
	window := state.FindWindow(id)
	if window == nil {
		return false
	}
	if window.Minimized {
		return false
	}

	nearLeft := window.Rect.X <= viewport.X+SnapEdgeThreshold
	nearRight := window.Rect.X+window.Rect.W >= viewport.X+viewport.W-SnapEdgeThreshold
	nearTop := window.Rect.Y <= viewport.Y+SnapEdgeThreshold

	if nearTop && window.Flags.Maximizable {
		if !window.Maximized {
			rect := window.Rect
			window.RestoreRect = &rect
		}
		window.Rect = viewport.ClampedMin(MinWindowWidth, MinWindowHeight)
		window.Maximized = true
		window.Minimized = false
		window.Suspended = false
		return true
	}

	if (!nearLeft && !nearRight) || !window.Flags.Resizable {
		return false
	}

	halfWidth := viewport.W / 2
	if halfWidth < MinWindowWidth {
		halfWidth = MinWindowWidth
	}
	snapped := WindowRect{
		X: viewport.X,
		Y: viewport.Y,
		W: halfWidth,
		H: viewport.H,
	}
	if nearRight {
		snapped.X = viewport.X + viewport.W - halfWidth
	}
	if snapped.H < MinWindowHeight {
		snapped.H = MinWindowHeight
	}

	rect := window.Rect
	window.RestoreRect = &rect
	window.Rect = snapped
	window.Maximized = false
	window.Minimized = false
	window.Suspended = false
	return true
}

// ClampRectToViewport keeps a window rectangle usable within a viewport:
// width/height bounded by the viewport minus a margin, position bounded so the
// window stays reachable.
func ClampRectToViewport(rect, viewport WindowRect) WindowRect {
	minW := MinWindowWidth
	minH := MinWindowHeight

	maxW := viewport.W - 20
	if maxW < minW {
		maxW = minW
	}
	maxH := viewport.H - 20
	if maxH < minH {
		maxH = minH
	}

	w := clampInt(rect.W, minW, maxW)
	h := clampInt(rect.H, minH, maxH)

	maxX := viewport.X + viewport.W - w - 10
	if maxX < viewport.X+10 {
		maxX = viewport.X + 10
	}
	maxY := viewport.Y + viewport.H - h - 10
	if maxY < viewport.Y+10 {
		maxY = viewport.Y + 10
	}
	x := clampInt(rect.X, viewport.X+10, maxX)
	y := clampInt(rect.Y, viewport.Y+10, maxY)

	return WindowRect{X: x, Y: y, W: w, H: h}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
