// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/terminal/terminal.go
// Summary: Sandboxed terminal app: transcript, prompt, shell interpreter.
// Usage: Each window owns an App wired to the shared shell registry; the
// transcript and pending input persist under the app.terminal namespace.

package terminal

import (
	"fmt"
	"log"
	"strings"

	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/host"
	"github.com/retrodesk/retrodesk/shell"
)

const (
	stateSchemaVersion = 1
	defaultMaxLines    = 200
	defaultPrompt      = "C:\\>"
)

func bannerLines() []string {
	return []string{"RetroShell 0.1", "Type `help` for commands."}
}

// persistedState is the app.terminal envelope payload, schema 1.
type persistedState struct {
	Cwd   string   `json:"cwd"`
	Input string   `json:"input"`
	Lines []string `json:"lines"`
}

// Options tune a terminal instance. Zero values fall back to the defaults
// from the terminal config section.
type Options struct {
	Prompt   string
	MaxLines int
}

// App is one headless terminal window: a capped transcript plus a shell
// session driven through the command registry.
type App struct {
	env      *shell.Env
	registry *shell.Registry
	session  *shell.Session
	states   host.AppStateStore

	prompt   string
	maxLines int
	lines    []string
	input    string
}

// NewApp builds a terminal over the shared registry and hydrates any
// persisted transcript. A nil states store disables persistence.
func NewApp(registry *shell.Registry, env *shell.Env, states host.AppStateStore, opts Options) *App {
	if opts.Prompt == "" {
		opts.Prompt = defaultPrompt
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = defaultMaxLines
	}
	app := &App{
		env:      env,
		registry: registry,
		session:  shell.NewSession(),
		states:   states,
		prompt:   opts.Prompt,
		maxLines: opts.MaxLines,
		lines:    bannerLines(),
	}
	app.hydrate()
	return app
}

func (a *App) hydrate() {
	if a.states == nil {
		return
	}
	restored, err := host.LoadAppStateWithMigration(a.states, host.TerminalStateNamespace,
		func(schemaVersion int, envelope *host.StateEnvelope) (*persistedState, error) {
			// Older payloads share the schema-1 layout; anything newer
			// than this build understands is discarded.
			if schemaVersion > stateSchemaVersion {
				log.Printf("Terminal: discarding state with newer schema %d", schemaVersion)
				return nil, nil
			}
			var state persistedState
			if err := envelope.DecodePayload(&state); err != nil {
				return nil, err
			}
			return &state, nil
		})
	if err != nil {
		log.Printf("Terminal: hydrate failed: %v", err)
		return
	}
	if restored == nil {
		return
	}
	if strings.TrimSpace(restored.Cwd) != "" {
		a.session.Cwd = restored.Cwd
	}
	a.input = restored.Input
	a.lines = normalizeLines(restored.Lines, a.maxLines)
}

func (a *App) persist() {
	if a.states == nil {
		return
	}
	state := persistedState{Cwd: a.session.Cwd, Input: a.input, Lines: a.lines}
	if err := host.SaveAppState(a.states, host.TerminalStateNamespace, stateSchemaVersion, state); err != nil {
		log.Printf("Terminal: persist failed: %v", err)
	}
}

func normalizeLines(lines []string, maxLines int) []string {
	if len(lines) == 0 {
		return bannerLines()
	}
	if overflow := len(lines) - maxLines; overflow > 0 {
		lines = append(lines[:0], lines[overflow:]...)
	}
	return lines
}

// Prompt returns the prompt string shown before the input field.
func (a *App) Prompt() string { return a.prompt }

// Lines returns the current transcript.
func (a *App) Lines() []string {
	out := make([]string, len(a.lines))
	copy(out, a.lines)
	return out
}

// Input returns the pending (unsubmitted) input buffer.
func (a *App) Input() string { return a.input }

// SetInput replaces the pending input buffer.
func (a *App) SetInput(input string) {
	a.input = input
	a.persist()
}

// Session exposes the shell session, mainly for tests and inspection.
func (a *App) Session() *shell.Session { return a.session }

// Execute submits one command line: it is recorded to terminal history
// first, echoed with the prompt, then run through the shell registry. The
// transcript stays capped to the configured line budget.
func (a *App) Execute(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	// History is recorded before execution so failed commands are still
	// recallable.
	a.env.Runtime.Dispatch(desktop.PushTerminalHistory{Command: command})
	a.env.Runtime.DrainAll()

	a.append(fmt.Sprintf("%s %s", a.prompt, command))
	result := a.registry.Execute(a.session, a.env, command)
	if result.Clear {
		a.lines = append(bannerLines()[:1], "Screen cleared.")
	}
	for _, line := range result.Lines {
		a.append(line)
	}
	if result.Err != nil {
		a.append(fmt.Sprintf("error (%s): %v", shell.CodeOf(result.Err), result.Err))
	}
	a.input = ""
	a.persist()
}

// Complete proposes completions for the pending input buffer.
func (a *App) Complete() []string {
	return a.registry.Complete(a.session, a.env, a.input)
}

func (a *App) append(line string) {
	a.lines = append(a.lines, line)
	if overflow := len(a.lines) - a.maxLines; overflow > 0 {
		a.lines = append(a.lines[:0], a.lines[overflow:]...)
	}
}
