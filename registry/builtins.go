// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/builtins.go
// Summary: Builtin app descriptors, sizing profiles, and legacy id mapping.

package registry

import "github.com/retrodesk/retrodesk/desktop"

// sizeProfile drives viewport-adaptive default window geometry.
type sizeProfile struct {
	minW, minH           int
	maxWRatio, maxHRatio float64
	defWRatio, defHRatio float64
}

var defaultSizeProfile = sizeProfile{
	minW: desktop.DefaultWindowWidth, minH: desktop.DefaultWindowHeight,
	maxWRatio: 0.80, maxHRatio: 0.80,
	defWRatio: 0.70, defHRatio: 0.70,
}

var builtinSizeProfiles = map[desktop.AppID]sizeProfile{
	desktop.AppExplorer:   {minW: 620, minH: 420, maxWRatio: 0.92, maxHRatio: 0.92, defWRatio: 0.80, defHRatio: 0.78},
	desktop.AppNotepad:    {minW: 560, minH: 420, maxWRatio: 0.88, maxHRatio: 0.88, defWRatio: 0.74, defHRatio: 0.74},
	desktop.AppTerminal:   {minW: 600, minH: 400, maxWRatio: 0.88, maxHRatio: 0.86, defWRatio: 0.74, defHRatio: 0.70},
	desktop.AppSettings:   {minW: 640, minH: 480, maxWRatio: 0.92, maxHRatio: 0.92, defWRatio: 0.82, defHRatio: 0.82},
	desktop.AppCalculator: {minW: 340, minH: 440, maxWRatio: 0.78, maxHRatio: 0.86, defWRatio: 0.56, defHRatio: 0.74},
	desktop.AppPaint:      {minW: 620, minH: 420, maxWRatio: 0.92, maxHRatio: 0.92, defWRatio: 0.78, defHRatio: 0.78},
	desktop.AppDialup:     {minW: 420, minH: 300, maxWRatio: 0.66, maxHRatio: 0.68, defWRatio: 0.48, defHRatio: 0.50},
}

// legacyAppIDs maps historical serialized app ids onto canonical ids so old
// snapshots keep restoring.
var legacyAppIDs = map[string]desktop.AppID{
	"Calculator": desktop.AppCalculator,
	"Explorer":   desktop.AppExplorer,
	"Notepad":    desktop.AppNotepad,
	"Paint":      desktop.AppPaint,
	"Terminal":   desktop.AppTerminal,
	"Settings":   desktop.AppSettings,
	"Dialup":     desktop.AppDialup,
}

func builtinDescriptors() []desktop.AppDescriptor {
	return []desktop.AppDescriptor{
		{
			ID:            desktop.AppCalculator,
			Title:         "Calculator",
			IconID:        "calculator",
			SuspendPolicy: desktop.SuspendOnMinimize,
			Capabilities:  []desktop.Capability{desktop.CapWindow, desktop.CapState},
			MinWidth:      340, MinHeight: 440,
		},
		{
			ID:            desktop.AppExplorer,
			Title:         "Explorer",
			IconID:        "folder",
			SuspendPolicy: desktop.SuspendOnMinimize,
			Capabilities:  []desktop.Capability{desktop.CapWindow, desktop.CapState, desktop.CapIPC},
			MinWidth:      620, MinHeight: 420,
		},
		{
			ID:            desktop.AppNotepad,
			Title:         "Notepad",
			IconID:        "notepad",
			SuspendPolicy: desktop.SuspendOnMinimize,
			Capabilities:  []desktop.Capability{desktop.CapWindow, desktop.CapState, desktop.CapExternalURL},
			MinWidth:      560, MinHeight: 420,
		},
		{
			ID:            desktop.AppPaint,
			Title:         "Paint",
			IconID:        "paint",
			SuspendPolicy: desktop.SuspendOnMinimize,
			Capabilities:  []desktop.Capability{desktop.CapWindow, desktop.CapState},
			MinWidth:      620, MinHeight: 420,
		},
		{
			ID:             desktop.AppTerminal,
			Title:          "Terminal",
			IconID:         "terminal",
			SingleInstance: true,
			SuspendPolicy:  desktop.SuspendNever,
			Capabilities: []desktop.Capability{
				desktop.CapWindow, desktop.CapState, desktop.CapIPC,
				desktop.CapConfig, desktop.CapTheme, desktop.CapNotifications,
			},
			MinWidth: 600, MinHeight: 400,
		},
		{
			ID:             desktop.AppSettings,
			Title:          "Settings",
			IconID:         "settings",
			SingleInstance: true,
			SuspendPolicy:  desktop.SuspendOnMinimize,
			Privileged:     true,
			MinWidth:       640, MinHeight: 480,
		},
		{
			ID:            desktop.AppDialup,
			Title:         "Dialup",
			IconID:        "modem",
			SuspendPolicy: desktop.SuspendOnMinimize,
			Capabilities:  []desktop.Capability{desktop.CapWindow},
			MinWidth:      420, MinHeight: 300,
		},
	}
}
