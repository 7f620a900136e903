// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/migrate.go
// Summary: Legacy single-file config migration helpers.

package config

import "github.com/retrodesk/retrodesk/desktop"

// Earlier releases kept everything in one config.json; the skin lived under
// "skin" and the terminal sections sat beside the system keys.
func migrateSystemFromLegacy(cfg Config) (bool, error) {
	if cfg == nil {
		return false, nil
	}

	legacyPath, err := legacyConfigPath()
	if err != nil {
		return false, err
	}
	legacyCfg, exists, err := readConfig(legacyPath)
	if err != nil || !exists {
		return false, err
	}

	migrated := false
	if _, ok := cfg["defaultApp"]; !ok {
		if val, ok := legacyCfg["defaultApp"]; ok {
			cfg["defaultApp"] = val
			migrated = true
		}
	}
	if _, ok := cfg["activeSkin"]; !ok {
		if val, ok := legacyCfg["skin"]; ok {
			cfg["activeSkin"] = val
			migrated = true
		}
	}
	if copySection(cfg, legacyCfg, "boot") {
		migrated = true
	}
	if copySection(cfg, legacyCfg, "sound") {
		migrated = true
	}
	return migrated, nil
}

func migrateAppFromLegacy(app string, cfg Config) (bool, error) {
	if cfg == nil {
		return false, nil
	}
	if app != string(desktop.AppTerminal) {
		return false, nil
	}

	legacyPath, err := legacyConfigPath()
	if err != nil {
		return false, err
	}
	legacyCfg, exists, err := readConfig(legacyPath)
	if err != nil || !exists {
		return false, err
	}

	migrated := false
	if copySection(cfg, legacyCfg, "terminal") {
		migrated = true
	}
	if copySection(cfg, legacyCfg, "terminal.history") {
		migrated = true
	}
	return migrated, nil
}

func copySection(dst Config, src Config, name string) bool {
	if dst == nil || src == nil || name == "" {
		return false
	}
	if _, ok := dst[name]; ok {
		return false
	}
	if section, ok := src[name]; ok {
		dst[name] = section
		return true
	}
	return false
}
