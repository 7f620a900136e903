// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

import "github.com/retrodesk/retrodesk/desktop"

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultApp": string(desktop.AppTerminal),
		"activeSkin": string(desktop.SkinModernAdaptive),
	})
	cfg.RegisterDefaults("boot", Section{
		"restore_on_boot":     true,
		"max_restore_windows": 5,
	})
	cfg.RegisterDefaults("viewport", Section{
		"width":          1280,
		"height":         760,
		"taskbar_height": 38,
	})
	cfg.RegisterDefaults("sound", Section{
		"enabled": false,
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case string(desktop.AppTerminal):
		cfg.RegisterDefaults("terminal", Section{
			"history_enabled":  true,
			"output_cap_lines": 200,
			"prompt":           "C:\\>",
		})
		cfg.RegisterDefaults("terminal.history", Section{
			"db_path":      "",
			"search_limit": 20,
		})
	case string(desktop.AppExplorer):
		cfg.RegisterDefaults("explorer", Section{
			"root":        "/",
			"show_hidden": false,
		})
	case string(desktop.AppNotepad):
		cfg.RegisterDefaults("notepad", Section{
			"preview_enabled": true,
			"default_slug":    "welcome",
		})
	}
}
