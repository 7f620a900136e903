// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retrodesk/retrodesk/desktop"
)

func TestBuiltinDescriptorsRegistered(t *testing.T) {
	reg := New()

	terminal, ok := reg.Descriptor(desktop.AppTerminal)
	if !ok {
		t.Fatalf("expected terminal descriptor")
	}
	if !terminal.SingleInstance || terminal.SuspendPolicy != desktop.SuspendNever {
		t.Fatalf("unexpected terminal policy: %+v", terminal)
	}

	settings, ok := reg.Descriptor(desktop.AppSettings)
	if !ok || !settings.Privileged {
		t.Fatalf("expected privileged settings descriptor, got %+v", settings)
	}

	explorer, _ := reg.Descriptor(desktop.AppExplorer)
	if explorer.SingleInstance {
		t.Fatalf("explorer must be multi-instance")
	}
	if !explorer.AllowsCapability(desktop.CapIPC) {
		t.Fatalf("expected explorer ipc capability")
	}
}

func TestDefaultOpenRequestScalesToViewport(t *testing.T) {
	reg := New()
	viewport := desktop.WindowRect{X: 0, Y: 0, W: 900, H: 620}

	req := reg.DefaultOpenRequest(desktop.AppExplorer, &viewport)
	if req.Rect == nil {
		t.Fatalf("expected default rect")
	}
	rect := *req.Rect

	if rect.W > int(float64(viewport.W)*0.92) {
		t.Fatalf("expected width bounded by viewport ratio, got %d", rect.W)
	}
	if rect.H > int(float64(viewport.H)*0.92) {
		t.Fatalf("expected height bounded by viewport ratio, got %d", rect.H)
	}
	if rect.W < 620 || rect.H < 420 {
		t.Fatalf("expected explorer minimums respected, got %+v", rect)
	}
}

func TestDefaultOpenRequestWithoutViewportUsesFallback(t *testing.T) {
	reg := New()

	req := reg.DefaultOpenRequest(desktop.AppCalculator, nil)
	if req.Rect == nil {
		t.Fatalf("expected default rect")
	}
	if req.Rect.W < 340 || req.Rect.H < 440 {
		t.Fatalf("expected calculator minimums, got %+v", *req.Rect)
	}
}

func TestParseAppIDAcceptsLegacyNames(t *testing.T) {
	reg := New()

	id, ok := reg.ParseAppID("Explorer")
	if !ok || id != desktop.AppExplorer {
		t.Fatalf("expected legacy Explorer mapping, got %s ok=%v", id, ok)
	}
	if _, ok := reg.ParseAppID("system.terminal"); !ok {
		t.Fatalf("expected canonical id accepted")
	}
	if _, ok := reg.ParseAppID("no.such.app"); ok {
		t.Fatalf("expected unknown id rejected")
	}
}

func TestScanLoadsExternalManifests(t *testing.T) {
	dir := t.TempDir()
	appDir := filepath.Join(dir, "weather")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := `schema_version: 1
app_id: vendor.weather
display_name: Weather
icon_id: cloud
single_instance: true
suspend_policy: never
capabilities:
  - window
  - state
window_defaults:
  width: 400
  height: 320
`
	if err := os.WriteFile(filepath.Join(appDir, "app.manifest.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	reg := New()
	if err := reg.Scan(dir); err != nil {
		t.Fatalf("scan: %v", err)
	}

	desc, ok := reg.Descriptor(desktop.AppID("vendor.weather"))
	if !ok {
		t.Fatalf("expected external app registered")
	}
	if !desc.SingleInstance || desc.SuspendPolicy != desktop.SuspendNever {
		t.Fatalf("unexpected external policy: %+v", desc)
	}
	if desc.MinWidth != 400 || desc.MinHeight != 320 {
		t.Fatalf("unexpected window defaults: %+v", desc)
	}
}

func TestScanRejectsBadManifest(t *testing.T) {
	dir := t.TempDir()
	appDir := filepath.Join(dir, "broken")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(appDir, "app.manifest.yaml"), []byte("schema_version: 9\napp_id: x\ndisplay_name: X\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	reg := New()
	if err := reg.Scan(dir); err != nil {
		t.Fatalf("scan should skip bad manifests, got %v", err)
	}
	if _, ok := reg.Descriptor(desktop.AppID("x")); ok {
		t.Fatalf("expected invalid manifest skipped")
	}
}

func TestScanMissingDirectoryIsNotAnError(t *testing.T) {
	reg := New()
	if err := reg.Scan(filepath.Join(t.TempDir(), "absent")); err != nil {
		t.Fatalf("expected missing directory tolerated, got %v", err)
	}
}
