// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/settings/settings.go
// Summary: Settings app: skin catalog and theme mutation surface.
// Usage: Selecting a value dispatches a reducer action; the app never writes
// theme state directly, persistence happens through the PersistTheme effect.

package settings

import (
	"fmt"

	"github.com/retrodesk/retrodesk/desktop"
)

// Dispatcher is the slice of the runtime the settings app needs.
type Dispatcher interface {
	Dispatch(action desktop.Action)
}

// SkinPreset describes one entry of the skin catalog.
type SkinPreset struct {
	ID    desktop.DesktopSkin
	Label string
	Note  string
}

// SkinCatalog lists the selectable skins in display order.
func SkinCatalog() []SkinPreset {
	return []SkinPreset{
		{
			ID:    desktop.SkinModernAdaptive,
			Label: "Modern Adaptive",
			Note:  "Dark-first modern skin with adaptive mapping",
		},
		{
			ID:    desktop.SkinClassicXP,
			Label: "Classic XP",
			Note:  "Nostalgic XP-inspired shell palette and controls",
		},
		{
			ID:    desktop.SkinClassic95,
			Label: "Classic 95",
			Note:  "Nostalgic Windows 95-inspired shell palette and controls",
		},
	}
}

// App dispatches theme and accessibility changes for the settings window.
type App struct {
	dispatcher Dispatcher
}

// NewApp wires a settings app over a dispatcher.
func NewApp(dispatcher Dispatcher) *App {
	return &App{dispatcher: dispatcher}
}

// SelectSkin validates a raw skin id and dispatches the change.
func (a *App) SelectSkin(rawID string) error {
	skin, ok := desktop.SkinFromID(rawID)
	if !ok {
		return fmt.Errorf("unknown skin %q", rawID)
	}
	a.dispatcher.Dispatch(desktop.SetSkin{Skin: skin})
	return nil
}

// SetHighContrast toggles the high-contrast accessibility mode.
func (a *App) SetHighContrast(enabled bool) {
	a.dispatcher.Dispatch(desktop.SetHighContrast{Enabled: enabled})
}

// SetReducedMotion toggles the reduced-motion accessibility mode.
func (a *App) SetReducedMotion(enabled bool) {
	a.dispatcher.Dispatch(desktop.SetReducedMotion{Enabled: enabled})
}
