// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package runtime

import (
	"errors"
	"testing"

	"github.com/retrodesk/retrodesk/desktop"
)

func TestDrainExecutesBatchInOrderExactlyOnce(t *testing.T) {
	executor := NewExecutor()
	executor.Enqueue(
		desktop.PersistLayout{},
		desktop.PersistTheme{},
		desktop.PersistTerminalHistory{},
	)

	var seen []desktop.Effect
	runner := EffectRunnerFunc(func(effect desktop.Effect) error {
		seen = append(seen, effect)
		return nil
	})

	if got := executor.Drain(runner); got != 3 {
		t.Fatalf("expected 3 effects executed, got %d", got)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 effects seen, got %d", len(seen))
	}
	if _, ok := seen[0].(desktop.PersistLayout); !ok {
		t.Fatalf("expected emission order preserved, got %T first", seen[0])
	}
	if got := executor.Drain(runner); got != 0 {
		t.Fatalf("expected empty queue on second drain, got %d", got)
	}
}

func TestEffectsEnqueuedDuringDrainLandInNextBatch(t *testing.T) {
	executor := NewExecutor()
	executor.Enqueue(desktop.PersistLayout{})

	first := 0
	runner := EffectRunnerFunc(func(effect desktop.Effect) error {
		first++
		executor.Enqueue(desktop.PersistTheme{})
		return nil
	})

	if got := executor.Drain(runner); got != 1 {
		t.Fatalf("expected single-effect first batch, got %d", got)
	}
	if first != 1 {
		t.Fatalf("expected nested enqueue to stay out of the running batch")
	}
	if got := executor.Pending(); got != 1 {
		t.Fatalf("expected nested effect queued for next batch, got %d pending", got)
	}
}

func TestEffectFailureDoesNotAbortBatch(t *testing.T) {
	executor := NewExecutor()
	executor.Enqueue(
		desktop.PersistLayout{},
		desktop.PersistTheme{},
		desktop.PersistTerminalHistory{},
	)

	executed := 0
	runner := EffectRunnerFunc(func(effect desktop.Effect) error {
		executed++
		if _, ok := effect.(desktop.PersistTheme); ok {
			return errors.New("disk full")
		}
		return nil
	})

	if got := executor.Drain(runner); got != 3 {
		t.Fatalf("expected full batch despite failure, got %d", got)
	}
	if executed != 3 {
		t.Fatalf("expected all effects attempted, got %d", executed)
	}
}

func TestDispatchEnqueuesReducerEffects(t *testing.T) {
	rt := New(nil, nil)

	rt.Dispatch(desktop.OpenWindow{Request: desktop.NewOpenWindowRequest(desktop.AppNotepad)})

	if rt.executor.Pending() == 0 {
		t.Fatalf("expected open-window effects queued")
	}

	var windows int
	rt.View(func(state *desktop.DesktopState) { windows = len(state.Windows) })
	if windows != 1 {
		t.Fatalf("expected one open window, got %d", windows)
	}
}

func TestDispatchDropsActionOnReducerError(t *testing.T) {
	rt := New(nil, nil)

	rt.Dispatch(desktop.CloseWindow{WindowID: 99})

	if got := rt.executor.Pending(); got != 0 {
		t.Fatalf("expected no effects for rejected action, got %d", got)
	}
	var windows int
	rt.View(func(state *desktop.DesktopState) { windows = len(state.Windows) })
	if windows != 0 {
		t.Fatalf("expected state untouched, got %d windows", windows)
	}
}

func TestDispatchSyncsBusSessions(t *testing.T) {
	rt := New(nil, nil)

	rt.Dispatch(desktop.OpenWindow{Request: desktop.NewOpenWindowRequest(desktop.AppTerminal)})
	var id desktop.WindowID
	rt.View(func(state *desktop.DesktopState) { id = state.Windows[0].ID })

	rt.Bus().Subscribe(id, "terminal.output")
	rt.Dispatch(desktop.CloseWindow{WindowID: id})

	rt.Bus().Publish(0, "terminal.output", desktop.AppEvent{})
	if events := rt.Bus().DrainInbox(id); len(events) != 0 {
		t.Fatalf("expected closed window session removed, got %d events", len(events))
	}
}
