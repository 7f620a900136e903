// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/shell.go
// Summary: Terminal command registry, session state and execution loop.
// Usage: The terminal app feeds lines into Registry.Execute; commands write
// output through the Context and never mutate desktop state directly.

package shell

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a shell failure for transcript rendering.
type ErrorCode string

const (
	CodeUsage       ErrorCode = "usage"
	CodeNotFound    ErrorCode = "not-found"
	CodeUnavailable ErrorCode = "unavailable"
)

// Error is a shell-level failure with a stable code.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

// UsageError reports incorrect invocation of a known command.
func UsageError(format string, args ...any) error {
	return &Error{Code: CodeUsage, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown command or target.
func NotFoundError(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// UnavailableError reports a backing service failure.
func UnavailableError(format string, args ...any) error {
	return &Error{Code: CodeUnavailable, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the ErrorCode from err, defaulting to unavailable.
func CodeOf(err error) ErrorCode {
	var shellErr *Error
	if errors.As(err, &shellErr) {
		return shellErr.Code
	}
	return CodeUnavailable
}

// Command is one registered terminal command.
type Command struct {
	Path    string
	Aliases []string
	Summary string
	Usage   string
	Run     func(ctx *Context, args []string) error
	// Complete proposes values for the first argument; nil means no
	// completion.
	Complete func(ctx *Context, prefix string) []string
}

// Session holds per-terminal shell state that survives across commands.
type Session struct {
	Cwd string
}

// NewSession starts a session at the filesystem root.
func NewSession() *Session {
	return &Session{Cwd: "/"}
}

// Context is handed to a command for one execution.
type Context struct {
	Session *Session
	Env     *Env

	lines []string
	clear bool
}

// Print appends one output block to the transcript.
func (c *Context) Print(text string) {
	c.lines = append(c.lines, strings.Split(text, "\n")...)
}

// Printf appends formatted output to the transcript.
func (c *Context) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

// Statusf appends a one-line status message.
func (c *Context) Statusf(format string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// RequestClear asks the terminal to wipe its transcript.
func (c *Context) RequestClear() { c.clear = true }

// Result is the outcome of executing one line.
type Result struct {
	Lines []string
	Clear bool
	Err   error
}

// Registry stores commands addressable by path or alias.
type Registry struct {
	commands []*Command
	byName   map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Command{}}
}

// Register adds a command. Later registrations win on name collisions, which
// lets apps shadow builtins they are allowed to replace.
func (r *Registry) Register(cmd *Command) {
	r.commands = append(r.commands, cmd)
	r.byName[cmd.Path] = cmd
	for _, alias := range cmd.Aliases {
		r.byName[alias] = cmd
	}
}

// Lookup resolves a command by path or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.byName[name]
	return cmd, ok
}

// Commands returns all registered commands sorted by path.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Execute tokenizes and runs one input line against the session.
func (r *Registry) Execute(session *Session, env *Env, line string) Result {
	argv := Tokenize(line)
	if len(argv) == 0 {
		return Result{}
	}
	cmd, ok := r.Lookup(argv[0])
	if !ok {
		return Result{Err: NotFoundError("command not found: %s", argv[0])}
	}
	ctx := &Context{Session: session, Env: env}
	err := cmd.Run(ctx, argv[1:])
	return Result{Lines: ctx.lines, Clear: ctx.clear, Err: err}
}

// Complete proposes completions for a partial input line. A line without a
// space completes command paths and aliases; otherwise the matched command's
// own completer runs on the last token.
func (r *Registry) Complete(session *Session, env *Env, line string) []string {
	argv := Tokenize(line)
	endsOpen := line == "" || strings.HasSuffix(line, " ")
	if len(argv) == 0 || (len(argv) == 1 && !endsOpen) {
		prefix := ""
		if len(argv) == 1 {
			prefix = argv[0]
		}
		var matches []string
		for name := range r.byName {
			if strings.HasPrefix(name, prefix) {
				matches = append(matches, name)
			}
		}
		sort.Strings(matches)
		return matches
	}
	cmd, ok := r.Lookup(argv[0])
	if !ok || cmd.Complete == nil {
		return nil
	}
	prefix := ""
	if !endsOpen {
		prefix = argv[len(argv)-1]
	}
	ctx := &Context{Session: session, Env: env}
	return cmd.Complete(ctx, prefix)
}

// Tokenize splits a command line on whitespace, honoring double quotes so
// JSON payloads and paths with spaces survive as single arguments.
func Tokenize(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		started bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			quoted = !quoted
			started = true
		case !quoted && (ch == ' ' || ch == '\t'):
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(ch)
			started = true
		}
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens
}
