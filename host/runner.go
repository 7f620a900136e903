// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/runner.go
// Summary: Executes reducer effects against the host services and app bus.
// Usage: Install on the runtime via SetEffectRunner after construction.

package host

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/runtime"
)

// HistoryRecorder indexes executed terminal commands for later search.
type HistoryRecorder interface {
	Record(command string) error
}

// ConfigWriter persists namespaced app configuration values.
type ConfigWriter interface {
	SaveAppValue(namespace, key string, value json.RawMessage) error
}

// Runner maps reducer effects onto host services. Failures are returned to
// the executor, which logs them and continues; effects are never retried.
type Runner struct {
	rt        *runtime.Runtime
	snapshots *SnapshotStore

	// Optional collaborators, wired by the embedding host. Nil values make
	// the corresponding effects no-ops.
	Notifier Notifier
	URLs     URLOpener
	Sounds   SoundPlayer
	History  HistoryRecorder
	Configs  ConfigWriter

	// Viewport supplies the current desktop viewport for deep-link opens.
	Viewport func() *desktop.WindowRect
}

// NewRunner creates a runner over the runtime and snapshot store with
// headless defaults for the optional services.
func NewRunner(rt *runtime.Runtime, snapshots *SnapshotStore) *Runner {
	return &Runner{
		rt:        rt,
		snapshots: snapshots,
		Notifier:  LogNotifier{},
		URLs:      NoopURLOpener{},
		Sounds:    NoopSoundPlayer{},
	}
}

var _ runtime.EffectRunner = (*Runner)(nil)

// RunEffect executes a single reducer effect.
func (r *Runner) RunEffect(effect desktop.Effect) error {
	switch e := effect.(type) {
	case desktop.PersistLayout:
		return r.snapshots.SaveLayout(r.rt.Snapshot())

	case desktop.PersistTheme:
		// The durable snapshot embeds preference flags, keep both in step.
		return errors.Join(
			r.snapshots.SaveTheme(r.rt.Theme()),
			r.snapshots.SaveLayout(r.rt.Snapshot()),
		)

	case desktop.PersistTerminalHistory:
		history := r.rt.TerminalHistory()
		if err := r.snapshots.SaveTerminalHistory(history); err != nil {
			return err
		}
		if r.History != nil && len(history) > 0 {
			return r.History.Record(history[len(history)-1])
		}
		return nil

	case desktop.FocusWindowInput:
		// Input focus belongs to the rendering surface; nothing to do in a
		// headless host.
		return nil

	case desktop.ParseAndOpenDeepLink:
		return r.openDeepLink(e.DeepLink)

	case desktop.OpenExternalURL:
		if r.URLs == nil {
			return nil
		}
		return r.URLs.OpenURL(e.URL)

	case desktop.PlaySound:
		if r.Sounds == nil {
			return nil
		}
		return r.Sounds.Play(e.Name)

	case desktop.DispatchLifecycle:
		r.rt.Bus().SetLifecycle(e.WindowID, e.Event)
		return nil

	case desktop.DeliverAppEvent:
		r.rt.Bus().Deliver(e.WindowID, e.Event)
		return nil

	case desktop.SubscribeWindowTopic:
		r.rt.Bus().Subscribe(e.WindowID, e.Topic)
		return nil

	case desktop.UnsubscribeWindowTopic:
		r.rt.Bus().Unsubscribe(e.WindowID, e.Topic)
		return nil

	case desktop.PublishTopicEvent:
		r.rt.Bus().Publish(e.SourceWindowID, e.Topic, desktop.AppEvent{
			Payload:       e.Payload,
			CorrelationID: e.CorrelationID,
			ReplyTo:       e.ReplyTo,
		})
		return nil

	case desktop.SaveConfig:
		if r.Configs == nil {
			return nil
		}
		return r.Configs.SaveAppValue(e.Namespace, e.Key, e.Value)

	case desktop.Notify:
		if r.Notifier == nil {
			return nil
		}
		return r.Notifier.Notify(e.Title, e.Body)

	default:
		return fmt.Errorf("unhandled effect %T", effect)
	}
}

func (r *Runner) openDeepLink(link desktop.DeepLink) error {
	viewport := r.viewport()
	for _, target := range link.Open {
		if target.App != "" {
			r.rt.Dispatch(desktop.ActivateApp{AppID: target.App, Viewport: viewport})
			continue
		}
		req := desktop.BuildOpenRequestFromDeepLink(target)
		req.Viewport = viewport
		r.rt.Dispatch(desktop.OpenWindow{Request: req})
	}
	return nil
}

func (r *Runner) viewport() *desktop.WindowRect {
	if r.Viewport == nil {
		return nil
	}
	return r.Viewport()
}
