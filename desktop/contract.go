// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/contract.go
// Summary: App-facing contract types: lifecycle events, bus events, commands,
// capability scopes, and suspend policy.

package desktop

import "encoding/json"

// LifecycleEvent is a lifecycle signal delivered to a managed app instance.
// The values double as stable string tokens for persistence and debugging.
type LifecycleEvent string

const (
	LifecycleMounted   LifecycleEvent = "mounted"
	LifecycleFocused   LifecycleEvent = "focused"
	LifecycleBlurred   LifecycleEvent = "blurred"
	LifecycleMinimized LifecycleEvent = "minimized"
	LifecycleRestored  LifecycleEvent = "restored"
	LifecycleSuspended LifecycleEvent = "suspended"
	LifecycleResumed   LifecycleEvent = "resumed"
	LifecycleClosing   LifecycleEvent = "closing"
	LifecycleClosed    LifecycleEvent = "closed"
)

// AppEvent is the payload delivered to apps through the runtime pub/sub bus.
type AppEvent struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
	// SourceWindowID is the publishing window when known, zero otherwise.
	SourceWindowID WindowID `json:"source_window_id,omitempty"`
	CorrelationID  string   `json:"correlation_id,omitempty"`
	ReplyTo        string   `json:"reply_to,omitempty"`
	TimestampMS    int64    `json:"timestamp_unix_ms,omitempty"`
}

// SuspendPolicy controls manager-driven app suspension.
type SuspendPolicy int

const (
	// SuspendOnMinimize suspends minimized windows until restored.
	SuspendOnMinimize SuspendPolicy = iota
	// SuspendNever leaves windows running while minimized.
	SuspendNever
)

// Capability is a capability scope an app may request from the shell.
type Capability string

const (
	CapWindow        Capability = "window"
	CapState         Capability = "state"
	CapConfig        Capability = "config"
	CapExternalURL   Capability = "external-url"
	CapIPC           Capability = "ipc"
	CapTheme         Capability = "theme"
	CapNotifications Capability = "notifications"
)

// AppCommand is a command an app sends to the desktop runtime. Exactly one
// field group is meaningful per Kind.
type AppCommandKind int

const (
	CmdSetWindowTitle AppCommandKind = iota
	CmdPersistState
	CmdPersistSharedState
	CmdSaveConfig
	CmdOpenExternalURL
	CmdSubscribe
	CmdUnsubscribe
	CmdPublishEvent
	CmdSetDesktopSkin
	CmdSetHighContrast
	CmdSetReducedMotion
	CmdNotify
)

// AppCommand carries one app-originated request routed through HandleAppCommand.
type AppCommand struct {
	Kind AppCommandKind

	Title string // CmdSetWindowTitle

	State json.RawMessage // CmdPersistState, CmdPersistSharedState
	Key   string          // CmdPersistSharedState, CmdSaveConfig

	Namespace string          // CmdSaveConfig
	Value     json.RawMessage // CmdSaveConfig

	URL string // CmdOpenExternalURL

	Topic         string          // CmdSubscribe, CmdUnsubscribe, CmdPublishEvent
	Payload       json.RawMessage // CmdPublishEvent
	CorrelationID string          // CmdPublishEvent
	ReplyTo       string          // CmdPublishEvent

	SkinID  string // CmdSetDesktopSkin
	Enabled bool   // CmdSetHighContrast, CmdSetReducedMotion

	NotifyTitle string // CmdNotify
	NotifyBody  string // CmdNotify
}

// requiredCapability maps a command to the capability scope it needs.
func requiredCapability(cmd AppCommand) Capability {
	switch cmd.Kind {
	case CmdSetWindowTitle:
		return CapWindow
	case CmdPersistState, CmdPersistSharedState:
		return CapState
	case CmdSaveConfig:
		return CapConfig
	case CmdOpenExternalURL:
		return CapExternalURL
	case CmdSubscribe, CmdUnsubscribe, CmdPublishEvent:
		return CapIPC
	case CmdSetDesktopSkin, CmdSetHighContrast, CmdSetReducedMotion:
		return CapTheme
	case CmdNotify:
		return CapNotifications
	}
	return ""
}
