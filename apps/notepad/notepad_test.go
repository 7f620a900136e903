// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package notepad

import (
	"strings"
	"testing"

	"github.com/retrodesk/retrodesk/host"
)

func TestNewWorkspaceDefaultsToWelcome(t *testing.T) {
	w := NewWorkspace("   ")
	if w.ActiveSlug != "welcome" {
		t.Fatalf("active slug = %q", w.ActiveSlug)
	}
	if !w.WrapLines {
		t.Fatal("wrap should default on")
	}
	if !strings.Contains(w.ActiveText(), "Welcome (welcome)") {
		t.Fatalf("unexpected sample text: %q", w.ActiveText())
	}
}

func TestEnsureDocumentOpensAndActivates(t *testing.T) {
	w := NewWorkspace("welcome")
	w.EnsureDocument("about")
	if w.ActiveSlug != "about" {
		t.Fatalf("active slug = %q", w.ActiveSlug)
	}
	if len(w.OpenOrder) != 2 {
		t.Fatalf("open order = %v", w.OpenOrder)
	}
	// Re-opening an existing tab must not duplicate it.
	w.EnsureDocument("about")
	if len(w.OpenOrder) != 2 {
		t.Fatalf("open order after reopen = %v", w.OpenOrder)
	}
}

func TestMoveActiveByWrapsAround(t *testing.T) {
	w := NewWorkspace("welcome")
	w.EnsureDocument("about")
	w.EnsureDocument("terminal-cheatsheet")

	w.MoveActiveBy(1)
	if w.ActiveSlug != "welcome" {
		t.Fatalf("after wrap forward = %q", w.ActiveSlug)
	}
	w.MoveActiveBy(-1)
	if w.ActiveSlug != "terminal-cheatsheet" {
		t.Fatalf("after wrap back = %q", w.ActiveSlug)
	}
}

func TestAddScratchPicksFreshSlugs(t *testing.T) {
	w := NewWorkspace("welcome")
	if slug := w.AddScratch(); slug != "scratch" {
		t.Fatalf("first scratch = %q", slug)
	}
	if slug := w.AddScratch(); slug != "scratch-2" {
		t.Fatalf("second scratch = %q", slug)
	}
	if w.ActiveText() != "" {
		t.Fatal("scratch should start empty")
	}
}

func TestCloseLastDocumentReopensWelcome(t *testing.T) {
	w := NewWorkspace("about")
	w.CloseDocument("about")
	if w.ActiveSlug != "welcome" {
		t.Fatalf("active slug = %q", w.ActiveSlug)
	}
	if len(w.OpenOrder) != 1 || w.OpenOrder[0] != "welcome" {
		t.Fatalf("open order = %v", w.OpenOrder)
	}
}

func TestPreviewHTMLRendersMarkdown(t *testing.T) {
	w := NewWorkspace("welcome")
	w.SetActiveText("# Heading\n\nSome *emphasis* here.\n")
	html, err := w.PreviewHTML()
	if err != nil {
		t.Fatalf("PreviewHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Fatalf("unexpected preview: %q", html)
	}
}

func TestAppPersistsAcrossRestart(t *testing.T) {
	states := host.NewFileAppStateStore(t.TempDir())

	app := NewApp(states, "welcome")
	app.Workspace().EnsureDocument("about")
	app.Workspace().SetActiveText("my edited about page")
	if err := app.Persist(); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	restarted := NewApp(states, "terminal-cheatsheet")
	w := restarted.Workspace()
	if w.Documents["about"] != "my edited about page" {
		t.Fatalf("restored about = %q", w.Documents["about"])
	}
	// The requested deep-link slug becomes the active tab on top of the
	// restored workspace.
	if restarted.ActiveSlug() != "terminal-cheatsheet" {
		t.Fatalf("active slug = %q", restarted.ActiveSlug())
	}
	if len(w.OpenOrder) != 3 {
		t.Fatalf("open order = %v", w.OpenOrder)
	}
}

func TestUnknownSchemaStartsFresh(t *testing.T) {
	states := host.NewFileAppStateStore(t.TempDir())
	if err := host.SaveAppState(states, host.NotepadStateNamespace, 7, NewWorkspace("old")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	app := NewApp(states, "welcome")
	if _, ok := app.Workspace().Documents["old"]; ok {
		t.Fatal("unknown schema should be discarded")
	}
}
