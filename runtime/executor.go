// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: runtime/executor.go
// Summary: Ordered effect queue drained in atomic batches.
// Usage: Runtime enqueues reducer effects; Tick executes one batch.

package runtime

import (
	"log"
	"sync"

	"github.com/retrodesk/retrodesk/desktop"
)

// EffectRunner executes one runtime effect against the host environment.
// A returned error marks that one effect as failed; it is logged and the
// rest of the batch still runs.
type EffectRunner interface {
	RunEffect(effect desktop.Effect) error
}

// EffectRunnerFunc adapts a function to the EffectRunner interface.
type EffectRunnerFunc func(effect desktop.Effect) error

// RunEffect calls f.
func (f EffectRunnerFunc) RunEffect(effect desktop.Effect) error { return f(effect) }

// Executor is the ordered runtime effect queue. The queue is swapped out
// atomically at the start of each drain, so effects enqueued while a batch
// runs (including from nested dispatches) land in the next batch.
type Executor struct {
	mu    sync.Mutex
	queue []desktop.Effect
}

// NewExecutor returns an empty effect queue.
func NewExecutor() *Executor {
	return &Executor{}
}

// Enqueue appends effects in emission order.
func (e *Executor) Enqueue(effects ...desktop.Effect) {
	if len(effects) == 0 {
		return
	}
	e.mu.Lock()
	e.queue = append(e.queue, effects...)
	e.mu.Unlock()
}

// Pending returns the number of queued effects.
func (e *Executor) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Drain takes the current batch and runs every effect through the runner
// exactly once, in order. Effect failures are logged as warnings and never
// abort the batch. Returns the number of effects executed.
func (e *Executor) Drain(runner EffectRunner) int {
	e.mu.Lock()
	batch := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, effect := range batch {
		if err := runner.RunEffect(effect); err != nil {
			log.Printf("Executor: effect %T failed: %v", effect, err)
		}
	}
	return len(batch)
}
