// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: registry/registry.go
// Summary: App registry resolving descriptors and default open requests.
// Usage: The builtin catalog is always present; Scan merges external
// app.manifest.yaml definitions from a directory.

package registry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/retrodesk/retrodesk/desktop"
)

// Registry is the app catalog backing the reducer's activation policy.
// Builtins have priority over external manifest entries with the same id.
type Registry struct {
	mu       sync.RWMutex
	builtin  map[desktop.AppID]desktop.AppDescriptor
	external map[desktop.AppID]desktop.AppDescriptor
	profiles map[desktop.AppID]sizeProfile
}

var _ desktop.AppCatalog = (*Registry)(nil)

// New creates a registry seeded with the builtin apps.
func New() *Registry {
	r := &Registry{
		builtin:  make(map[desktop.AppID]desktop.AppDescriptor),
		external: make(map[desktop.AppID]desktop.AppDescriptor),
		profiles: make(map[desktop.AppID]sizeProfile),
	}
	for _, desc := range builtinDescriptors() {
		r.builtin[desc.ID] = desc
	}
	for id, profile := range builtinSizeProfiles {
		r.profiles[id] = profile
	}
	return r
}

// Scan loads external app manifests from subdirectories of baseDir. Each
// subdirectory holds one app.manifest.yaml. Individual load failures are
// logged and skipped; a missing directory is not an error.
func (r *Registry) Scan(baseDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.external = make(map[desktop.AppID]desktop.AppDescriptor)

	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		log.Printf("Registry: app directory does not exist: %s", baseDir)
		return nil
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return fmt.Errorf("read app directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		manifest, err := LoadManifest(dir)
		if err != nil {
			log.Printf("Registry: failed to load app from %s: %v", dir, err)
			continue
		}
		desc := manifest.Descriptor()
		if _, exists := r.builtin[desc.ID]; exists {
			log.Printf("Registry: manifest %s shadows builtin app %s, skipped", dir, desc.ID)
			continue
		}
		r.external[desc.ID] = desc
		r.profiles[desc.ID] = sizeProfile{
			minW: desc.MinWidth, minH: desc.MinHeight,
			maxWRatio: defaultSizeProfile.maxWRatio, maxHRatio: defaultSizeProfile.maxHRatio,
			defWRatio: defaultSizeProfile.defWRatio, defHRatio: defaultSizeProfile.defHRatio,
		}
		loaded++
	}

	log.Printf("Registry: loaded %d external apps, %d builtin apps", loaded, len(r.builtin))
	return nil
}

// Descriptor implements desktop.AppCatalog.
func (r *Registry) Descriptor(id desktop.AppID) (desktop.AppDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if desc, ok := r.builtin[id]; ok {
		return desc, true
	}
	desc, ok := r.external[id]
	return desc, ok
}

// DefaultOpenRequest implements desktop.AppCatalog: the default geometry is
// centered in the viewport and scaled by the app's sizing profile, bounded
// below by the app minimums.
func (r *Registry) DefaultOpenRequest(id desktop.AppID, viewport *desktop.WindowRect) desktop.OpenWindowRequest {
	req := desktop.NewOpenWindowRequest(id)
	rect := r.defaultWindowRect(id, viewport)
	req.Rect = &rect
	req.Viewport = viewport
	return req
}

func (r *Registry) defaultWindowRect(id desktop.AppID, viewport *desktop.WindowRect) desktop.WindowRect {
	vp := desktop.WindowRect{X: 0, Y: 0, W: 1280, H: 760}
	if viewport != nil {
		vp = *viewport
	}

	r.mu.RLock()
	profile, ok := r.profiles[id]
	r.mu.RUnlock()
	if !ok {
		profile = defaultSizeProfile
	}

	maxW := int(float64(vp.W) * profile.maxWRatio)
	if maxW < profile.minW {
		maxW = profile.minW
	}
	maxH := int(float64(vp.H) * profile.maxHRatio)
	if maxH < profile.minH {
		maxH = profile.minH
	}
	w := clamp(int(float64(vp.W)*profile.defWRatio), profile.minW, maxW)
	h := clamp(int(float64(vp.H)*profile.defHRatio), profile.minH, maxH)
	x := vp.X + max((vp.W-w)/2, 10)
	y := vp.Y + max((vp.H-h)/2, 10)
	return desktop.WindowRect{X: x, Y: y, W: w, H: h}
}

// ParseAppID resolves a canonical or legacy serialized app id, reporting
// whether the app is registered.
func (r *Registry) ParseAppID(raw string) (desktop.AppID, bool) {
	trimmed := strings.TrimSpace(raw)
	if legacy, ok := legacyAppIDs[trimmed]; ok {
		return legacy, true
	}
	id := desktop.AppID(trimmed)
	if _, ok := r.Descriptor(id); ok {
		return id, true
	}
	return "", false
}

// List returns all registered descriptors sorted by title.
func (r *Registry) List() []desktop.AppDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]desktop.AppDescriptor, 0, len(r.builtin)+len(r.external))
	for _, desc := range r.builtin {
		out = append(out, desc)
	}
	for _, desc := range r.external {
		out = append(out, desc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
