// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/host.go
// Summary: Host service interfaces backing reducer side effects.
// Usage: The effect runner consumes these; implementations live in this
// package (file-backed) or in the embedding host.

package host

import "log"

// Notifier surfaces desktop notifications to the user.
type Notifier interface {
	Notify(title, body string) error
}

// URLOpener opens URLs in the host's external browser.
type URLOpener interface {
	OpenURL(url string) error
}

// SoundPlayer plays named UI sound effects.
type SoundPlayer interface {
	Play(name string) error
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }

// LogNotifier writes notifications to the process log. This is the default
// for headless sessions.
type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) error {
	log.Printf("Notify: %s: %s", title, body)
	return nil
}

// NoopURLOpener accepts and drops URL open requests.
type NoopURLOpener struct{}

func (NoopURLOpener) OpenURL(string) error { return nil }

// NoopSoundPlayer accepts and drops sound requests.
type NoopSoundPlayer struct{}

func (NoopSoundPlayer) Play(string) error { return nil }
