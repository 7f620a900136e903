// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/catalog.go
// Summary: App descriptor contract consumed by the reducer.
// Usage: The registry package provides the builtin implementation.

package desktop

// AppDescriptor is the shell-policy record for one installed application.
type AppDescriptor struct {
	ID             AppID
	Title          string
	IconID         string
	SingleInstance bool
	SuspendPolicy  SuspendPolicy
	// Privileged apps bypass capability checks on app commands.
	Privileged   bool
	Capabilities []Capability
	// MinWidth/MinHeight are the app's preferred minimum window dimensions,
	// used when computing viewport-adaptive default geometry.
	MinWidth  int
	MinHeight int
}

// AllowsCapability reports whether the app may use the given capability scope.
func (d AppDescriptor) AllowsCapability(cap Capability) bool {
	if d.Privileged {
		return true
	}
	for _, c := range d.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// AppCatalog resolves app descriptors and default open requests for the
// reducer. Implementations must be safe for concurrent reads.
type AppCatalog interface {
	// Descriptor returns the descriptor for an app id, reporting whether the
	// app is registered.
	Descriptor(id AppID) (AppDescriptor, bool)
	// DefaultOpenRequest builds the open request used by app activation,
	// sized against the optional viewport hint.
	DefaultOpenRequest(id AppID, viewport *WindowRect) OpenWindowRequest
}

// fallbackDescriptor covers app ids missing from the catalog so stray
// snapshot entries still reduce without policy surprises.
func fallbackDescriptor(id AppID) AppDescriptor {
	return AppDescriptor{
		ID:            id,
		Title:         string(id),
		IconID:        "window",
		SuspendPolicy: SuspendOnMinimize,
		Capabilities:  []Capability{CapWindow, CapState},
		MinWidth:      DefaultWindowWidth,
		MinHeight:     DefaultWindowHeight,
	}
}
