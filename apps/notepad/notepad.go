// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/notepad/notepad.go
// Summary: Slug-addressed tabbed note workspace with markdown preview.
// Usage: Deep links like notes:welcome land here; the workspace persists
// documents, tab order and wrap setting under the app.notepad namespace.

package notepad

import (
	"bytes"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/retrodesk/retrodesk/host"
)

const stateSchemaVersion = 1

// markdownOnce guards the shared goldmark instance. The configuration never
// changes and a goldmark.Markdown is safe to share across calls.
var (
	markdownOnce     sync.Once
	markdownInstance goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownInstance
}

// Workspace is the persisted notepad state, schema 1: every open note keyed
// by slug, the tab order, and the active tab.
type Workspace struct {
	WrapLines  bool              `json:"wrap_lines"`
	ActiveSlug string            `json:"active_slug"`
	OpenOrder  []string          `json:"open_order"`
	Documents  map[string]string `json:"documents"`
}

// NewWorkspace builds a workspace with a single document for slug.
func NewWorkspace(slug string) *Workspace {
	slug = normalizeSlug(slug)
	w := &Workspace{
		WrapLines:  true,
		ActiveSlug: slug,
		OpenOrder:  []string{slug},
		Documents:  map[string]string{slug: sampleNote(slug)},
	}
	return w
}

func normalizeSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "welcome"
	}
	return slug
}

// EnsureDocument opens (creating if needed) the document for slug and makes
// it the active tab.
func (w *Workspace) EnsureDocument(slug string) {
	slug = normalizeSlug(slug)
	if _, ok := w.Documents[slug]; !ok {
		w.Documents[slug] = sampleNote(slug)
	}
	if !w.isOpen(slug) {
		w.OpenOrder = append(w.OpenOrder, slug)
	}
	w.ActiveSlug = slug
	w.normalize()
}

func (w *Workspace) isOpen(slug string) bool {
	for _, open := range w.OpenOrder {
		if open == slug {
			return true
		}
	}
	return false
}

// ActiveText returns the buffer of the active document.
func (w *Workspace) ActiveText() string {
	return w.Documents[w.ActiveSlug]
}

// SetActiveText replaces the buffer of the active document.
func (w *Workspace) SetActiveText(text string) {
	w.Documents[w.ActiveSlug] = text
	w.normalize()
}

// SelectIndex activates the tab at idx, ignoring out-of-range indexes.
func (w *Workspace) SelectIndex(idx int) {
	if idx >= 0 && idx < len(w.OpenOrder) {
		w.ActiveSlug = w.OpenOrder[idx]
	}
	w.normalize()
}

// MoveActiveBy cycles the active tab by delta, wrapping at both ends.
func (w *Workspace) MoveActiveBy(delta int) {
	w.normalize()
	if len(w.OpenOrder) == 0 {
		return
	}
	current := 0
	for i, slug := range w.OpenOrder {
		if slug == w.ActiveSlug {
			current = i
			break
		}
	}
	n := len(w.OpenOrder)
	next := ((current+delta)%n + n) % n
	w.SelectIndex(next)
}

// AddScratch opens a fresh empty document named scratch, scratch-2, ...
func (w *Workspace) AddScratch() string {
	for index := 1; ; index++ {
		slug := "scratch"
		if index > 1 {
			slug = fmt.Sprintf("scratch-%d", index)
		}
		if _, ok := w.Documents[slug]; ok {
			continue
		}
		w.Documents[slug] = ""
		w.OpenOrder = append(w.OpenOrder, slug)
		w.ActiveSlug = slug
		w.normalize()
		return slug
	}
}

// CloseDocument removes a document and its tab.
func (w *Workspace) CloseDocument(slug string) {
	delete(w.Documents, normalizeSlug(slug))
	w.normalize()
}

// normalize repairs the invariants after any mutation: the tab order only
// references existing documents, every document has a tab, at least one
// document is open, and the active slug points at an open tab.
func (w *Workspace) normalize() {
	open := w.OpenOrder[:0]
	for _, slug := range w.OpenOrder {
		if _, ok := w.Documents[slug]; ok {
			open = append(open, slug)
		}
	}
	w.OpenOrder = open
	if len(w.OpenOrder) == 0 {
		if _, ok := w.Documents["welcome"]; !ok {
			w.Documents["welcome"] = sampleNote("welcome")
		}
		w.OpenOrder = append(w.OpenOrder, "welcome")
	}
	if _, ok := w.Documents[w.ActiveSlug]; !ok {
		w.ActiveSlug = w.OpenOrder[0]
	}
	var missing []string
	for slug := range w.Documents {
		if !w.isOpen(slug) {
			missing = append(missing, slug)
		}
	}
	sort.Strings(missing)
	w.OpenOrder = append(w.OpenOrder, missing...)
}

// PreviewHTML renders the active document's markdown to HTML.
func (w *Workspace) PreviewHTML() (string, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(w.ActiveText()), &buf); err != nil {
		return "", fmt.Errorf("render markdown preview: %w", err)
	}
	return buf.String(), nil
}

// App couples a workspace with the durable app-state store.
type App struct {
	states    host.AppStateStore
	workspace *Workspace
}

// NewApp restores (or creates) a workspace and opens the requested slug.
func NewApp(states host.AppStateStore, requestedSlug string) *App {
	app := &App{states: states, workspace: NewWorkspace(requestedSlug)}
	if restored := app.hydrate(); restored != nil {
		restored.EnsureDocument(requestedSlug)
		app.workspace = restored
	}
	return app
}

func (a *App) hydrate() *Workspace {
	if a.states == nil {
		return nil
	}
	restored, err := host.LoadAppStateWithMigration(a.states, host.NotepadStateNamespace,
		func(schemaVersion int, envelope *host.StateEnvelope) (*Workspace, error) {
			if schemaVersion != stateSchemaVersion {
				log.Printf("Notepad: discarding state with unknown schema %d", schemaVersion)
				return nil, nil
			}
			var w Workspace
			if err := envelope.DecodePayload(&w); err != nil {
				return nil, err
			}
			if w.Documents == nil {
				w.Documents = map[string]string{}
			}
			w.normalize()
			return &w, nil
		})
	if err != nil {
		log.Printf("Notepad: hydrate failed: %v", err)
		return nil
	}
	return restored
}

// Persist writes the workspace to the app-state store.
func (a *App) Persist() error {
	if a.states == nil {
		return nil
	}
	return host.SaveAppState(a.states, host.NotepadStateNamespace, stateSchemaVersion, a.workspace)
}

// Workspace exposes the live workspace for mutation; call Persist after.
func (a *App) Workspace() *Workspace { return a.workspace }

// ActiveSlug returns the slug of the active tab, for last-slug tracking.
func (a *App) ActiveSlug() string { return a.workspace.ActiveSlug }

func sampleNote(slug string) string {
	switch slug {
	case "about":
		return "About this workstation\n======================\n\n" +
			"This retro desktop is the primary interface for the site. It is\n" +
			"organized around a reusable window manager runtime.\n\n" +
			"Goals:\n\n- playful interaction\n- durable architecture\n- low-friction publishing\n"
	case "terminal-cheatsheet":
		return "Terminal Commands\n-----------------\n\n" +
			"    help\n    open projects\n    open notes:<slug>\n    search <query>\n    theme.set.skin <name>\n"
	default:
		return fmt.Sprintf("Welcome (%s)\n------------\n\n"+
			"This Notepad workspace persists documents, wrap settings and open\n"+
			"tabs into a versioned app-state namespace (`app.notepad`).\n\n"+
			"You can edit this text and it will hydrate on the next boot.\n", slug)
	}
}
