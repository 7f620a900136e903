// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordedCommandsAreImmediatelySearchable(t *testing.T) {
	store := newTestStore(t)

	for _, cmd := range []string{"help", "open notepad", "ls /Projects"} {
		if err := store.Record(cmd); err != nil {
			t.Fatalf("record %q: %v", cmd, err)
		}
	}

	results, err := store.Search("notepad", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Command != "open notepad" {
		t.Fatalf("expected one notepad match, got %v", results)
	}
}

func TestSearchMatchesSubstringsWithSpaces(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("open explorer /Projects/retro"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record("theme classic-95"); err != nil {
		t.Fatalf("record: %v", err)
	}

	results, err := store.Search("explorer /Proj", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one match, got %v", results)
	}
}

func TestShortQueriesFallBackToLike(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("cd /Documents"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record("help"); err != nil {
		t.Fatalf("record: %v", err)
	}

	results, err := store.Search("cd", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Command != "cd /Documents" {
		t.Fatalf("expected LIKE fallback match, got %v", results)
	}
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	store := newTestStore(t)

	commands := []string{"first", "second", "third"}
	for _, cmd := range commands {
		if err := store.Record(cmd); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected two entries, got %d", len(recent))
	}
	if recent[0].Command != "third" || recent[1].Command != "second" {
		t.Fatalf("expected newest first, got %v", recent)
	}
}

func TestImportBackfillsRestoredHistory(t *testing.T) {
	store := newTestStore(t)

	store.Import([]string{"restored-one", "restored-two", "  "}, time.Now())
	if err := store.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	results, err := store.Search("restored", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two backfilled entries, got %v", results)
	}
}

func TestImportedEntriesSortBeforeLiveCommands(t *testing.T) {
	store := newTestStore(t)

	store.Import([]string{"old command"}, time.Now())
	if err := store.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := store.Record("new command"); err != nil {
		t.Fatalf("record: %v", err)
	}

	recent, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected two entries, got %d", len(recent))
	}
	if recent[0].Command != "new command" {
		t.Fatalf("expected live command newest, got %v", recent)
	}
}

func TestSearchInRangeFiltersByTime(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("window focus 1"); err != nil {
		t.Fatalf("record: %v", err)
	}

	now := time.Now()
	results, err := store.SearchInRange("window", now.Add(-time.Minute), now.Add(time.Minute), 10)
	if err != nil {
		t.Fatalf("search in range: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one match in range, got %v", results)
	}

	past, err := store.SearchInRange("window", now.Add(-2*time.Hour), now.Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("search in past range: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("expected no matches outside range, got %v", past)
	}
}

func TestBlankCommandsAreIgnored(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record("   "); err != nil {
		t.Fatalf("record blank: %v", err)
	}
	recent, err := store.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected blank command skipped, got %v", recent)
	}
}

func TestStoreReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Record("persisted"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	results, err := reopened.Search("persisted", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected persisted entry after reopen, got %v", results)
	}
}
