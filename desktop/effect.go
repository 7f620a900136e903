// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: desktop/effect.go
// Summary: Side-effect intents emitted by Reduce for the runtime to execute.
// Usage: Effects hold copied data only; execution order follows emission order.

package desktop

import "encoding/json"

// Effect is one side-effect intent emitted by Reduce. Like Action, the
// variant set is closed and the runtime executor type-switches over it.
type Effect interface {
	isEffect()
}

// PersistLayout persists the current desktop layout snapshot.
type PersistLayout struct{}

// PersistTheme persists theme changes.
type PersistTheme struct{}

// PersistTerminalHistory persists terminal history changes.
type PersistTerminalHistory struct{}

// FocusWindowInput moves input focus into the newly focused window's primary
// input surface.
type FocusWindowInput struct {
	WindowID WindowID
}

// ParseAndOpenDeepLink asks the runtime to resolve deep-link targets into
// follow-up open actions.
type ParseAndOpenDeepLink struct {
	DeepLink DeepLink
}

// OpenExternalURL opens an external URL through the host.
type OpenExternalURL struct {
	URL string
}

// PlaySound plays a named UI sound effect.
type PlaySound struct {
	Name string
}

// DispatchLifecycle dispatches a lifecycle signal to a managed app instance.
type DispatchLifecycle struct {
	WindowID WindowID
	Event    LifecycleEvent
}

// DeliverAppEvent delivers a direct app event to a managed window inbox.
type DeliverAppEvent struct {
	WindowID WindowID
	Event    AppEvent
}

// SubscribeWindowTopic subscribes a window to an app-bus topic.
type SubscribeWindowTopic struct {
	WindowID WindowID
	Topic    string
}

// UnsubscribeWindowTopic unsubscribes a window from an app-bus topic.
type UnsubscribeWindowTopic struct {
	WindowID WindowID
	Topic    string
}

// PublishTopicEvent publishes an app-bus event from the source window.
type PublishTopicEvent struct {
	SourceWindowID WindowID
	Topic          string
	Payload        json.RawMessage
	CorrelationID  string
	ReplyTo        string
}

// SaveConfig persists a namespaced config key/value through host prefs.
type SaveConfig struct {
	Namespace string
	Key       string
	Value     json.RawMessage
}

// Notify shows a desktop notification through the host.
type Notify struct {
	Title string
	Body  string
}

func (PersistLayout) isEffect()          {}
func (PersistTheme) isEffect()           {}
func (PersistTerminalHistory) isEffect() {}
func (FocusWindowInput) isEffect()       {}
func (ParseAndOpenDeepLink) isEffect()   {}
func (OpenExternalURL) isEffect()        {}
func (PlaySound) isEffect()              {}
func (DispatchLifecycle) isEffect()      {}
func (DeliverAppEvent) isEffect()        {}
func (SubscribeWindowTopic) isEffect()   {}
func (UnsubscribeWindowTopic) isEffect() {}
func (PublishTopicEvent) isEffect()      {}
func (SaveConfig) isEffect()             {}
func (Notify) isEffect()                 {}
