// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/manifest.go
// Summary: YAML app manifest structure for the registry.
// Usage: External apps provide an app.manifest.yaml describing their policy.

package registry

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/retrodesk/retrodesk/desktop"
)

// ManifestSchemaVersion is the supported app manifest schema.
const ManifestSchemaVersion = 1

// WindowDefaults is the app's preferred minimum window geometry.
type WindowDefaults struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Manifest describes one application's shell policy and metadata.
type Manifest struct {
	SchemaVersion int    `yaml:"schema_version"`
	AppID         string `yaml:"app_id"`
	DisplayName   string `yaml:"display_name"`
	Version       string `yaml:"version"`
	IconID        string `yaml:"icon_id"`

	SingleInstance bool     `yaml:"single_instance"`
	SuspendPolicy  string   `yaml:"suspend_policy"` // "on-minimize" or "never"
	Capabilities   []string `yaml:"capabilities"`

	ShowInLauncher bool           `yaml:"show_in_launcher"`
	ShowOnDesktop  bool           `yaml:"show_on_desktop"`
	WindowDefaults WindowDefaults `yaml:"window_defaults"`
}

// LoadManifest reads and parses an app.manifest.yaml from the given directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "app.manifest.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that the manifest is well-formed.
func (m *Manifest) Validate() error {
	if m.SchemaVersion != ManifestSchemaVersion {
		return fmt.Errorf("manifest schema mismatch: expected %d, found %d", ManifestSchemaVersion, m.SchemaVersion)
	}
	if m.AppID == "" {
		return fmt.Errorf("manifest missing required field: app_id")
	}
	if m.DisplayName == "" {
		return fmt.Errorf("manifest missing required field: display_name")
	}
	switch m.SuspendPolicy {
	case "", "on-minimize", "never":
	default:
		return fmt.Errorf("unknown suspend policy: %s", m.SuspendPolicy)
	}
	for _, capability := range m.Capabilities {
		switch desktop.Capability(capability) {
		case desktop.CapWindow, desktop.CapState, desktop.CapConfig,
			desktop.CapExternalURL, desktop.CapIPC, desktop.CapTheme,
			desktop.CapNotifications:
		default:
			return fmt.Errorf("unknown capability: %s", capability)
		}
	}
	return nil
}

// Descriptor converts the manifest into a reducer-facing app descriptor.
func (m *Manifest) Descriptor() desktop.AppDescriptor {
	policy := desktop.SuspendOnMinimize
	if m.SuspendPolicy == "never" {
		policy = desktop.SuspendNever
	}
	caps := make([]desktop.Capability, 0, len(m.Capabilities))
	for _, capability := range m.Capabilities {
		caps = append(caps, desktop.Capability(capability))
	}
	iconID := m.IconID
	if iconID == "" {
		iconID = "window"
	}
	desc := desktop.AppDescriptor{
		ID:             desktop.AppID(m.AppID),
		Title:          m.DisplayName,
		IconID:         iconID,
		SingleInstance: m.SingleInstance,
		SuspendPolicy:  policy,
		Capabilities:   caps,
		MinWidth:       m.WindowDefaults.Width,
		MinHeight:      m.WindowDefaults.Height,
	}
	if desc.MinWidth <= 0 {
		desc.MinWidth = desktop.MinWindowWidth
	}
	if desc.MinHeight <= 0 {
		desc.MinHeight = desktop.MinWindowHeight
	}
	return desc
}
