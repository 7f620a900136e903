// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	apps = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if cfg.GetString("", "defaultApp", "") == "" {
		t.Fatalf("expected defaultApp to be set")
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if disk.Section("boot") == nil {
		t.Fatalf("expected boot section to be present")
	}
	if disk.Section("viewport") == nil {
		t.Fatalf("expected viewport section to be present")
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		"defaultApp": "system.explorer",
	}
	SetSystem(cfg)
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}

	path, err := systemConfigPath()
	if err != nil {
		t.Fatalf("systemConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read system config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal system config: %v", err)
	}
	if got := disk.GetString("", "defaultApp", ""); got != "system.explorer" {
		t.Fatalf("expected defaultApp to be system.explorer, got %q", got)
	}
}

func TestAppDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := App("system.terminal")
	if cfg.Section("terminal") == nil {
		t.Fatalf("expected terminal section to be present")
	}

	path, err := appConfigPath("system.terminal")
	if err != nil {
		t.Fatalf("appConfigPath: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected app config to be written: %v", err)
	}
}

func TestSaveAppWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := Config{
		"terminal": map[string]interface{}{
			"history_enabled": false,
		},
	}
	SetApp("system.terminal", cfg)
	if err := SaveApp("system.terminal"); err != nil {
		t.Fatalf("SaveApp: %v", err)
	}

	path, err := appConfigPath("system.terminal")
	if err != nil {
		t.Fatalf("appConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read app config: %v", err)
	}

	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal app config: %v", err)
	}
	section := disk.Section("terminal")
	if section == nil {
		t.Fatalf("expected terminal section")
	}
	if got, _ := section["history_enabled"].(bool); got {
		t.Fatalf("expected history_enabled false")
	}
}

func TestSystemMigrationFromLegacy(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	cfgRoot := filepath.Join(root, "retrodesk")
	if err := os.MkdirAll(cfgRoot, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := writeConfig(filepath.Join(cfgRoot, "config.json"), Config{
		"defaultApp": "system.explorer",
		"skin":       "classic-xp",
		"sound": map[string]interface{}{
			"enabled": true,
		},
	}); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	cfg := System()
	if got := cfg.GetString("", "defaultApp", ""); got != "system.explorer" {
		t.Fatalf("expected defaultApp migration, got %q", got)
	}
	if got := cfg.GetString("", "activeSkin", ""); got != "classic-xp" {
		t.Fatalf("expected activeSkin migration, got %q", got)
	}
	if !cfg.GetBool("sound", "enabled", false) {
		t.Fatalf("expected sound section migration")
	}
}

func TestAppMigrationFromLegacy(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	resetStore()

	cfgRoot := filepath.Join(root, "retrodesk")
	if err := os.MkdirAll(cfgRoot, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := writeConfig(filepath.Join(cfgRoot, "config.json"), Config{
		"terminal": map[string]interface{}{
			"history_enabled": false,
		},
	}); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	cfg := App("system.terminal")
	section := cfg.Section("terminal")
	if section == nil {
		t.Fatalf("expected terminal section after migration")
	}
	if got, _ := section["history_enabled"].(bool); got {
		t.Fatalf("expected history_enabled false after migration")
	}
}

func TestSaveAppValuePersistsRawJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	if err := SaveAppValue("system.terminal", "font_size", json.RawMessage(`14`)); err != nil {
		t.Fatalf("SaveAppValue: %v", err)
	}

	cfg := App("system.terminal")
	if got := cfg.GetInt("", "font_size", 0); got != 14 {
		t.Fatalf("expected font_size 14, got %d", got)
	}

	path, err := appConfigPath("system.terminal")
	if err != nil {
		t.Fatalf("appConfigPath: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read app config: %v", err)
	}
	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal app config: %v", err)
	}
	if got := disk.GetInt("", "font_size", 0); got != 14 {
		t.Fatalf("expected persisted font_size 14, got %d", got)
	}
}
