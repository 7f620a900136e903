// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: runtime/runtime.go
// Summary: Long-lived runtime container: state, reducer dispatch, effect
// queue, and the app bus.
// Usage: Build with New, wire an EffectRunner, call Dispatch then Tick.

package runtime

import (
	"log"
	"sync"

	"github.com/retrodesk/retrodesk/desktop"
)

// Runtime owns the desktop state and wires the reducer, the effect queue,
// and the app bus together. It is the single dispatch entry point for shell
// surfaces, apps, and the CLI.
type Runtime struct {
	mu          sync.Mutex
	reducer     *desktop.Reducer
	state       *desktop.DesktopState
	interaction *desktop.InteractionState

	executor *Executor
	bus      *Bus
	runner   EffectRunner
}

// New creates a runtime with fresh state. The runner may be nil until
// SetEffectRunner is called; effects queue up in the meantime.
func New(apps desktop.AppCatalog, runner EffectRunner) *Runtime {
	return &Runtime{
		reducer:     desktop.NewReducer(apps),
		state:       desktop.NewDesktopState(),
		interaction: &desktop.InteractionState{},
		executor:    NewExecutor(),
		bus:         NewBus(),
		runner:      runner,
	}
}

// SetEffectRunner installs the host effect runner. Used to break the
// construction cycle between the runtime and host wiring.
func (r *Runtime) SetEffectRunner(runner EffectRunner) {
	r.mu.Lock()
	r.runner = runner
	r.mu.Unlock()
}

// Bus returns the app bus.
func (r *Runtime) Bus() *Bus { return r.bus }

// Dispatch runs the reducer synchronously and enqueues the emitted effects.
// Reducer errors are logged and the action is dropped; state is unchanged.
func (r *Runtime) Dispatch(action desktop.Action) {
	r.mu.Lock()
	windowsBefore := len(r.state.Windows)
	effects, err := r.reducer.Reduce(r.state, r.interaction, action)
	if err != nil {
		r.mu.Unlock()
		log.Printf("Runtime: reducer rejected %T: %v", action, err)
		return
	}
	windowsChanged := len(r.state.Windows) != windowsBefore
	windows := append([]desktop.WindowRecord(nil), r.state.Windows...)
	r.mu.Unlock()

	if windowsChanged {
		r.bus.SyncWindows(windows)
	}
	r.executor.Enqueue(effects...)
}

// Tick drains one effect batch through the installed runner. Returns the
// number of effects executed; zero when the queue was empty or no runner is
// installed yet.
func (r *Runtime) Tick() int {
	r.mu.Lock()
	runner := r.runner
	r.mu.Unlock()
	if runner == nil {
		return 0
	}
	return r.executor.Drain(runner)
}

// DrainAll ticks until the effect queue stays empty, bounding the number of
// batches to avoid effect loops. Returns the total effects executed.
func (r *Runtime) DrainAll() int {
	const maxBatches = 32
	total := 0
	for i := 0; i < maxBatches; i++ {
		n := r.Tick()
		if n == 0 {
			return total
		}
		total += n
	}
	log.Printf("Runtime: effect queue still busy after %d batches", maxBatches)
	return total
}

// View runs fn with read access to the state under the runtime lock. The
// callback must not call Dispatch and must not retain the pointer.
func (r *Runtime) View(fn func(state *desktop.DesktopState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.state)
}

// Snapshot returns a serializable snapshot of the current state.
func (r *Runtime) Snapshot() desktop.DesktopSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Snapshot()
}

// Theme returns the current desktop theme.
func (r *Runtime) Theme() desktop.DesktopTheme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Theme
}

// TerminalHistory returns a copy of the in-memory terminal history.
func (r *Runtime) TerminalHistory() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.state.TerminalHistory...)
}
