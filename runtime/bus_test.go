// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package runtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/retrodesk/retrodesk/desktop"
)

func TestPublishDeliversToSubscribersWithMetadata(t *testing.T) {
	bus := NewBus()
	bus.now = func() time.Time { return time.UnixMilli(1700000000000) }
	bus.EnsureSession(1)
	bus.EnsureSession(2)
	bus.Subscribe(2, "explorer.refresh")

	bus.Publish(1, "explorer.refresh", desktop.AppEvent{
		Payload:       json.RawMessage(`{"path":"/Projects"}`),
		CorrelationID: "req-7",
		ReplyTo:       "explorer.refresh.done",
	})

	events := bus.DrainInbox(2)
	if len(events) != 1 {
		t.Fatalf("expected one delivered event, got %d", len(events))
	}
	got := events[0]
	if got.Topic != "explorer.refresh" || got.SourceWindowID != 1 {
		t.Fatalf("unexpected event metadata: %+v", got)
	}
	if got.CorrelationID != "req-7" || got.ReplyTo != "explorer.refresh.done" {
		t.Fatalf("expected correlation metadata preserved: %+v", got)
	}
	if got.TimestampMS != 1700000000000 {
		t.Fatalf("expected publish timestamp, got %d", got.TimestampMS)
	}
	if events = bus.DrainInbox(1); len(events) != 0 {
		t.Fatalf("publisher must not receive its own event without subscribing")
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewBus()
	bus.EnsureSession(1)

	bus.Publish(1, "nobody.listens", desktop.AppEvent{})

	if events := bus.DrainInbox(1); len(events) != 0 {
		t.Fatalf("expected no delivery, got %d events", len(events))
	}
}

func TestPublishPrunesStaleSubscribers(t *testing.T) {
	bus := NewBus()
	bus.EnsureSession(1)
	bus.Subscribe(2, "updates")
	delete(bus.sessions, 2) // session lost without unsubscribe

	bus.Publish(1, "updates", desktop.AppEvent{})

	if _, ok := bus.topics["updates"]; ok {
		t.Fatalf("expected stale-only topic removed")
	}
}

func TestInboxIsBounded(t *testing.T) {
	bus := NewBus()
	bus.EnsureSession(1)

	for i := 0; i < maxInboxEvents+10; i++ {
		bus.Deliver(1, desktop.AppEvent{Topic: "tick"})
	}

	if events := bus.DrainInbox(1); len(events) != maxInboxEvents {
		t.Fatalf("expected inbox capped at %d, got %d", maxInboxEvents, len(events))
	}
}

func TestSyncWindowsRemovesClosedSessions(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(1, "a")
	bus.Subscribe(2, "a")

	bus.SyncWindows([]desktop.WindowRecord{{ID: 2}, {ID: 3}})

	if _, ok := bus.sessions[1]; ok {
		t.Fatalf("expected session 1 removed")
	}
	if _, ok := bus.sessions[3]; !ok {
		t.Fatalf("expected session 3 created")
	}
	if subscribers := bus.topics["a"]; len(subscribers) != 1 {
		t.Fatalf("expected only live subscriber retained, got %d", len(subscribers))
	}
}

func TestSetLifecycleTracksLatestSignal(t *testing.T) {
	bus := NewBus()

	bus.SetLifecycle(4, desktop.LifecycleFocused)
	bus.SetLifecycle(4, desktop.LifecycleMinimized)

	if got := bus.Lifecycle(4); got != desktop.LifecycleMinimized {
		t.Fatalf("expected latest lifecycle, got %s", got)
	}
	if got := bus.Lifecycle(99); got != desktop.LifecycleMounted {
		t.Fatalf("expected mounted default for unknown session, got %s", got)
	}
}
