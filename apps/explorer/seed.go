// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/explorer/seed.go
// Summary: Default site content for a freshly booted virtual filesystem.
// Usage: NewSiteFS seeds the tree the explorer shows on first run; user edits
// persist through the app-state store, not back into the seed.

package explorer

// NewSiteFS builds a filesystem pre-populated with the site's default
// documents and project pages.
func NewSiteFS() *FS {
	fs := NewFS()
	seed := []struct {
		path string
		text string
	}{
		{"/readme.txt", "RetroDesk\n=========\n\nA retro desktop shell for a personal site. Double-click icons to open\napps, or launch the Terminal and type `help`.\n"},
		{"/Documents/about.txt", "About this workstation\n----------------------\n\nThis desktop is the primary interface for the site. Windows, theme and\nterminal history persist between visits.\n"},
		{"/Documents/terminal-cheatsheet.txt", "Terminal commands\n-----------------\nhelp\nopen <app|notes:slug|projects:slug>\nwindows.list\ntheme.set.skin <name>\nls / cd / pwd\nview <file>\n"},
		{"/Projects/retrodesk.md", "# RetroDesk\n\nWindow manager, reducer and effect runtime behind this desktop.\nPure state transitions, durable snapshots, deep links.\n"},
		{"/Projects/notes/roadmap.md", "# Roadmap\n\n- richer explorer metadata\n- terminal command completion\n- theme gallery\n"},
		{"/System/skins.txt", "modern-adaptive\nclassic-xp\nclassic-95\n"},
	}
	for _, doc := range seed {
		if _, err := fs.Mkdir(ParentPath(doc.path)); err != nil {
			continue
		}
		fs.WriteFile(doc.path, doc.text)
	}
	return fs
}
