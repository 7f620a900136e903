// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: runtime/bus.go
// Summary: Per-window app sessions and the topic pub/sub bus.
// Usage: Owned by Runtime; app packages poll inboxes and lifecycle state.

package runtime

import (
	"sort"
	"sync"
	"time"

	"github.com/retrodesk/retrodesk/desktop"
)

// maxInboxEvents bounds each window inbox; oldest events are dropped first.
const maxInboxEvents = 256

type windowSession struct {
	lifecycle desktop.LifecycleEvent
	inbox     []desktop.AppEvent
}

// Bus holds runtime app-session and topic-subscription state. All methods
// are safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	sessions map[desktop.WindowID]*windowSession
	topics   map[string]map[desktop.WindowID]struct{}
	now      func() time.Time
}

// NewBus returns an empty app bus.
func NewBus() *Bus {
	return &Bus{
		sessions: make(map[desktop.WindowID]*windowSession),
		topics:   make(map[string]map[desktop.WindowID]struct{}),
		now:      time.Now,
	}
}

func (b *Bus) ensureSessionLocked(id desktop.WindowID) *windowSession {
	if session, ok := b.sessions[id]; ok {
		return session
	}
	session := &windowSession{lifecycle: desktop.LifecycleMounted}
	b.sessions[id] = session
	return session
}

func (b *Bus) removeSessionLocked(id desktop.WindowID) {
	delete(b.sessions, id)
	for topic, subscribers := range b.topics {
		delete(subscribers, id)
		if len(subscribers) == 0 {
			delete(b.topics, topic)
		}
	}
}

// EnsureSession creates the session for a window if missing.
func (b *Bus) EnsureSession(id desktop.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureSessionLocked(id)
}

// SetLifecycle records the latest lifecycle signal for a window session.
func (b *Bus) SetLifecycle(id desktop.WindowID, event desktop.LifecycleEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureSessionLocked(id).lifecycle = event
}

// Lifecycle returns the latest lifecycle signal for a window, or
// LifecycleMounted when the session does not exist yet.
func (b *Bus) Lifecycle(id desktop.WindowID) desktop.LifecycleEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	if session, ok := b.sessions[id]; ok {
		return session.lifecycle
	}
	return desktop.LifecycleMounted
}

// Deliver appends an event to a window inbox, dropping the oldest entries
// beyond the inbox bound.
func (b *Bus) Deliver(id desktop.WindowID, event desktop.AppEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deliverLocked(id, event)
}

func (b *Bus) deliverLocked(id desktop.WindowID, event desktop.AppEvent) {
	session := b.ensureSessionLocked(id)
	session.inbox = append(session.inbox, event)
	if overflow := len(session.inbox) - maxInboxEvents; overflow > 0 {
		session.inbox = append(session.inbox[:0], session.inbox[overflow:]...)
	}
}

// DrainInbox removes and returns all queued events for a window in delivery
// order.
func (b *Bus) DrainInbox(id desktop.WindowID) []desktop.AppEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	session, ok := b.sessions[id]
	if !ok || len(session.inbox) == 0 {
		return nil
	}
	drained := session.inbox
	session.inbox = nil
	return drained
}

// Subscribe adds a topic subscription for a window.
func (b *Bus) Subscribe(id desktop.WindowID, topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ensureSessionLocked(id)
	subscribers, ok := b.topics[topic]
	if !ok {
		subscribers = make(map[desktop.WindowID]struct{})
		b.topics[topic] = subscribers
	}
	subscribers[id] = struct{}{}
}

// Unsubscribe removes a topic subscription for a window.
func (b *Bus) Unsubscribe(id desktop.WindowID, topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subscribers, ok := b.topics[topic]
	if !ok {
		return
	}
	delete(subscribers, id)
	if len(subscribers) == 0 {
		delete(b.topics, topic)
	}
}

// Publish delivers an event to every live subscriber of the topic in window
// id order. Subscribers without a session are pruned instead of delivered.
func (b *Bus) Publish(source desktop.WindowID, topic string, event desktop.AppEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subscribers, ok := b.topics[topic]
	if !ok {
		return
	}

	targets := make([]desktop.WindowID, 0, len(subscribers))
	for id := range subscribers {
		targets = append(targets, id)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	event.Topic = topic
	event.SourceWindowID = source
	event.TimestampMS = b.now().UnixMilli()
	for _, target := range targets {
		if _, live := b.sessions[target]; !live {
			delete(subscribers, target)
			continue
		}
		b.deliverLocked(target, event)
	}
	if len(subscribers) == 0 {
		delete(b.topics, topic)
	}
}

// SyncWindows reconciles sessions against the open window list: every open
// window gets a session, sessions for closed windows are removed along with
// their subscriptions.
func (b *Bus) SyncWindows(windows []desktop.WindowRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	active := make(map[desktop.WindowID]struct{}, len(windows))
	for i := range windows {
		active[windows[i].ID] = struct{}{}
		b.ensureSessionLocked(windows[i].ID)
	}
	for id := range b.sessions {
		if _, ok := active[id]; !ok {
			b.removeSessionLocked(id)
		}
	}
}
