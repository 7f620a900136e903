// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/builtins.go
// Summary: Builtin terminal commands: windows, theme, config, fs, search.
// Usage: RegisterBuiltins wires the full command set over an Env; apps get
// the same registry and may add their own commands on top.

package shell

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/retrodesk/retrodesk/apps/explorer"
	"github.com/retrodesk/retrodesk/config"
	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/history"
	"github.com/retrodesk/retrodesk/host"
	"github.com/retrodesk/retrodesk/registry"
	"github.com/retrodesk/retrodesk/runtime"
)

// TaskbarHeightPX is the desktop taskbar height reserved from the viewport.
const TaskbarHeightPX = 38

const searchResultLimit = 20

// Env bundles the runtime views and host services commands may use.
// Optional fields degrade the commands that need them into unavailable
// errors rather than panics.
type Env struct {
	Runtime  *runtime.Runtime
	Apps     *registry.Registry
	Explorer *explorer.App
	History  *history.Store
	States   host.AppStateStore
	Notifier host.Notifier
	Viewport func() *desktop.WindowRect
}

func (e *Env) viewport() *desktop.WindowRect {
	if e.Viewport == nil {
		return nil
	}
	return e.Viewport()
}

// RegisterBuiltins installs the full builtin command set.
func RegisterBuiltins(reg *Registry, env *Env) {
	reg.Register(helpCommand(reg))
	reg.Register(&Command{
		Path:    "clear",
		Summary: "Clear the terminal transcript.",
		Usage:   "clear",
		Run: func(ctx *Context, args []string) error {
			ctx.RequestClear()
			return nil
		},
	})
	reg.Register(&Command{
		Path:    "history",
		Summary: "Show recent terminal command history.",
		Usage:   "history",
		Run:     runHistory,
	})
	reg.Register(&Command{
		Path:    "search",
		Summary: "Search the durable command history index.",
		Usage:   "search <query>",
		Run:     runSearch,
	})
	openCmd := &Command{
		Path:     "open",
		Summary:  "Open a system app or deep-link target.",
		Usage:    "open <target>",
		Run:      runOpen,
		Complete: completeAppIDs,
	}
	reg.Register(openCmd)
	reg.Register(&Command{
		Path:     "apps.open",
		Summary:  openCmd.Summary,
		Usage:    "apps.open <app-id>",
		Run:      openCmd.Run,
		Complete: openCmd.Complete,
	})
	reg.Register(&Command{
		Path:    "apps.list",
		Summary: "List registered apps.",
		Usage:   "apps.list",
		Run:     runAppsList,
	})
	listCmd := &Command{
		Path:    "windows.list",
		Summary: "List open windows.",
		Usage:   "windows.list",
		Run:     runWindowsList,
	}
	reg.Register(listCmd)
	reg.Register(&Command{
		Path:    "inspect.windows",
		Summary: "Inspect open window state.",
		Usage:   "inspect.windows",
		Run:     listCmd.Run,
	})
	reg.Register(windowCommand("windows.focus", "Focus a window.", func(id desktop.WindowID) desktop.Action {
		return desktop.FocusWindowAction{WindowID: id}
	}))
	reg.Register(windowCommand("windows.close", "Close a window.", func(id desktop.WindowID) desktop.Action {
		return desktop.CloseWindow{WindowID: id}
	}))
	reg.Register(windowCommand("windows.minimize", "Minimize a window.", func(id desktop.WindowID) desktop.Action {
		return desktop.MinimizeWindow{WindowID: id}
	}))
	reg.Register(windowCommand("windows.restore", "Restore a window.", func(id desktop.WindowID) desktop.Action {
		return desktop.RestoreWindow{WindowID: id}
	}))
	reg.Register(&Command{
		Path:    "theme.show",
		Summary: "Show current theme state.",
		Usage:   "theme.show",
		Run:     runThemeShow,
	})
	reg.Register(&Command{
		Path:    "theme.set.skin",
		Summary: "Set the desktop skin.",
		Usage:   "theme.set.skin <modern-adaptive|classic-xp|classic-95>",
		Run:     runThemeSetSkin,
	})
	reg.Register(themeFlagCommand("theme.set.high-contrast", "Set high-contrast mode.", func(enabled bool) desktop.Action {
		return desktop.SetHighContrast{Enabled: enabled}
	}))
	reg.Register(themeFlagCommand("theme.set.reduced-motion", "Set reduced-motion mode.", func(enabled bool) desktop.Action {
		return desktop.SetReducedMotion{Enabled: enabled}
	}))
	reg.Register(&Command{
		Path:    "config.get",
		Summary: "Load one config value.",
		Usage:   "config.get <namespace> <key>",
		Run:     runConfigGet,
	})
	reg.Register(&Command{
		Path:    "config.set",
		Summary: "Store one config value.",
		Usage:   "config.set <namespace> <key> <json>",
		Run:     runConfigSet,
	})
	reg.Register(&Command{
		Path:    "inspect.runtime",
		Summary: "Inspect desktop runtime state.",
		Usage:   "inspect.runtime",
		Run:     runInspectRuntime,
	})
	reg.Register(&Command{
		Path:    "inspect.storage",
		Summary: "Inspect storage namespaces.",
		Usage:   "inspect.storage",
		Run:     runInspectStorage,
	})
	reg.Register(&Command{
		Path:    "fs.pwd",
		Aliases: []string{"pwd"},
		Summary: "Print the logical filesystem cwd.",
		Usage:   "fs.pwd",
		Run: func(ctx *Context, args []string) error {
			ctx.Print(ctx.Session.Cwd)
			return nil
		},
	})
	reg.Register(&Command{
		Path:     "fs.cd",
		Aliases:  []string{"cd"},
		Summary:  "Change the logical filesystem cwd.",
		Usage:    "fs.cd <path>",
		Run:      runCd,
		Complete: completeDirectories,
	})
	reg.Register(&Command{
		Path:     "fs.ls",
		Aliases:  []string{"ls"},
		Summary:  "List a directory.",
		Usage:    "fs.ls [path]",
		Run:      runLs,
		Complete: completePaths,
	})
	reg.Register(&Command{
		Path:     "view",
		Summary:  "Show a file with syntax highlighting.",
		Usage:    "view <file>",
		Run:      runView,
		Complete: completePaths,
	})
	reg.Register(&Command{
		Path:    "notify",
		Summary: "Post a desktop notification.",
		Usage:   "notify <title> <body>",
		Run:     runNotify,
	})
}

func helpCommand(reg *Registry) *Command {
	return &Command{
		Path:    "help",
		Summary: "List commands or show help for one command.",
		Usage:   "help [command]",
		Run: func(ctx *Context, args []string) error {
			if len(args) > 1 {
				return UsageError("usage: help [command]")
			}
			if len(args) == 1 {
				cmd, ok := reg.Lookup(args[0])
				if !ok {
					return NotFoundError("command not found: %s", args[0])
				}
				ctx.Printf("%s\n%s\nUsage: %s", cmd.Path, cmd.Summary, cmd.Usage)
				return nil
			}
			lines := []string{"Available commands:"}
			for _, cmd := range reg.Commands() {
				lines = append(lines, "  "+runewidth.FillRight(cmd.Path, 26)+" "+cmd.Summary)
			}
			ctx.Print(strings.Join(lines, "\n"))
			return nil
		},
	}
}

func parseBoolFlag(raw string) (bool, error) {
	switch raw {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, UsageError("expected on/off, got `%s`", raw)
	}
}

func parseWindowID(raw string) (desktop.WindowID, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, UsageError("invalid window id `%s`", raw)
	}
	return desktop.WindowID(id), nil
}

// resolveOpenTarget maps an open target onto a desktop action: a canonical
// app id activates the app, notes:<slug> and projects:<slug> open deep-link
// windows.
func resolveOpenTarget(env *Env, target string) (desktop.Action, bool) {
	if appID, ok := env.Apps.ParseAppID(target); ok {
		return desktop.ActivateApp{AppID: appID, Viewport: env.viewport()}, true
	}
	if slug, ok := strings.CutPrefix(target, "notes:"); ok {
		req := desktop.BuildOpenRequestFromDeepLink(desktop.DeepLinkTarget{NoteSlug: slug})
		req.Viewport = env.viewport()
		return desktop.OpenWindow{Request: req}, true
	}
	if slug, ok := strings.CutPrefix(target, "projects:"); ok {
		req := desktop.BuildOpenRequestFromDeepLink(desktop.DeepLinkTarget{ProjectSlug: slug})
		req.Viewport = env.viewport()
		return desktop.OpenWindow{Request: req}, true
	}
	return nil, false
}

func runOpen(ctx *Context, args []string) error {
	if len(args) != 1 {
		return UsageError("usage: open <target>")
	}
	action, ok := resolveOpenTarget(ctx.Env, args[0])
	if !ok {
		return NotFoundError("unknown open target `%s`", args[0])
	}
	ctx.Env.Runtime.Dispatch(action)
	ctx.Env.Runtime.DrainAll()
	ctx.Statusf("opened `%s`", args[0])
	return nil
}

func completeAppIDs(ctx *Context, prefix string) []string {
	var matches []string
	for _, descriptor := range ctx.Env.Apps.List() {
		id := string(descriptor.ID)
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	return matches
}

func runAppsList(ctx *Context, args []string) error {
	var lines []string
	for _, descriptor := range ctx.Env.Apps.List() {
		lines = append(lines, fmt.Sprintf("%s  %s", descriptor.ID, descriptor.Title))
	}
	ctx.Print(strings.Join(lines, "\n"))
	return nil
}

func runHistory(ctx *Context, args []string) error {
	historyLines := ctx.Env.Runtime.TerminalHistory()
	if len(historyLines) == 0 {
		ctx.Statusf("no terminal history")
		return nil
	}
	ctx.Print(strings.Join(historyLines, "\n"))
	return nil
}

func runSearch(ctx *Context, args []string) error {
	if len(args) == 0 {
		return UsageError("usage: search <query>")
	}
	if ctx.Env.History == nil {
		return UnavailableError("history index is not available")
	}
	query := strings.Join(args, " ")
	entries, err := ctx.Env.History.Search(query, searchResultLimit)
	if err != nil {
		return UnavailableError("history search failed: %v", err)
	}
	if len(entries) == 0 {
		ctx.Statusf("no matches for `%s`", query)
		return nil
	}
	for _, entry := range entries {
		ctx.Printf("%s  %s", entry.ExecutedAt.Format(time.RFC3339), entry.Command)
	}
	return nil
}

func runWindowsList(ctx *Context, args []string) error {
	var lines []string
	ctx.Env.Runtime.View(func(state *desktop.DesktopState) {
		for _, window := range state.Windows {
			lines = append(lines, fmt.Sprintf("%d  %s  %s", window.ID, window.AppID, window.Title))
		}
	})
	if len(lines) == 0 {
		ctx.Statusf("no open windows")
		return nil
	}
	ctx.Print(strings.Join(lines, "\n"))
	return nil
}

func windowCommand(path, summary string, builder func(desktop.WindowID) desktop.Action) *Command {
	return &Command{
		Path:    path,
		Summary: summary,
		Usage:   path + " <window-id>",
		Run: func(ctx *Context, args []string) error {
			if len(args) != 1 {
				return UsageError("usage: %s <window-id>", path)
			}
			id, err := parseWindowID(args[0])
			if err != nil {
				return err
			}
			ctx.Env.Runtime.Dispatch(builder(id))
			ctx.Env.Runtime.DrainAll()
			ctx.Statusf("%s %d", path, id)
			return nil
		},
	}
}

func runThemeShow(ctx *Context, args []string) error {
	rendered, err := json.MarshalIndent(ctx.Env.Runtime.Theme(), "", "  ")
	if err != nil {
		return UnavailableError("render theme: %v", err)
	}
	ctx.Print(string(rendered))
	return nil
}

func runThemeSetSkin(ctx *Context, args []string) error {
	if len(args) != 1 {
		return UsageError("usage: theme.set.skin <skin>")
	}
	skin, ok := desktop.SkinFromID(args[0])
	if !ok {
		return UsageError("unknown skin `%s`", args[0])
	}
	ctx.Env.Runtime.Dispatch(desktop.SetSkin{Skin: skin})
	ctx.Env.Runtime.DrainAll()
	ctx.Statusf("skin set to %s", skin)
	return nil
}

func themeFlagCommand(path, summary string, builder func(bool) desktop.Action) *Command {
	return &Command{
		Path:    path,
		Summary: summary,
		Usage:   path + " <on|off>",
		Run: func(ctx *Context, args []string) error {
			if len(args) != 1 {
				return UsageError("usage: %s <on|off>", path)
			}
			value, err := parseBoolFlag(args[0])
			if err != nil {
				return err
			}
			ctx.Env.Runtime.Dispatch(builder(value))
			ctx.Env.Runtime.DrainAll()
			ctx.Statusf("%s %s", path, args[0])
			return nil
		},
	}
}

func runConfigGet(ctx *Context, args []string) error {
	if len(args) != 2 {
		return UsageError("usage: config.get <namespace> <key>")
	}
	namespace, key := args[0], args[1]
	value, ok := config.App(namespace)[key]
	if !ok {
		ctx.Statusf("no value stored for `%s.%s`", namespace, key)
		return nil
	}
	rendered, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return UnavailableError("render config value: %v", err)
	}
	ctx.Print(string(rendered))
	return nil
}

func runConfigSet(ctx *Context, args []string) error {
	if len(args) < 3 {
		return UsageError("usage: config.set <namespace> <key> <json>")
	}
	namespace, key := args[0], args[1]
	raw := strings.Join(args[2:], " ")
	if !json.Valid([]byte(raw)) {
		return UsageError("invalid json: %s", raw)
	}
	if err := config.SaveAppValue(namespace, key, json.RawMessage(raw)); err != nil {
		return UnavailableError("save config value: %v", err)
	}
	ctx.Statusf("saved `%s.%s`", namespace, key)
	return nil
}

func runInspectRuntime(ctx *Context, args []string) error {
	payload := map[string]any{}
	ctx.Env.Runtime.View(func(state *desktop.DesktopState) {
		payload = map[string]any{
			"windows":              len(state.Windows),
			"start_menu_open":      state.StartMenuOpen,
			"skin":                 string(state.Theme.Skin),
			"high_contrast":        state.Theme.HighContrast,
			"reduced_motion":       state.Theme.ReducedMotion,
			"terminal_history_len": len(state.TerminalHistory),
		}
	})
	rendered, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return UnavailableError("render runtime state: %v", err)
	}
	ctx.Print(string(rendered))
	return nil
}

func runInspectStorage(ctx *Context, args []string) error {
	if ctx.Env.States == nil {
		return UnavailableError("app-state storage is not available")
	}
	namespaces, err := ctx.Env.States.ListNamespaces()
	if err != nil {
		return UnavailableError("list namespaces: %v", err)
	}
	rendered, err := json.MarshalIndent(map[string]any{
		"host_strategy": "file",
		"namespaces":    namespaces,
	}, "", "  ")
	if err != nil {
		return UnavailableError("render storage state: %v", err)
	}
	ctx.Print(string(rendered))
	return nil
}

func runCd(ctx *Context, args []string) error {
	if len(args) != 1 {
		return UsageError("usage: fs.cd <path>")
	}
	if ctx.Env.Explorer == nil {
		return UnavailableError("filesystem is not available")
	}
	resolved := explorer.ResolveAgainst(ctx.Session.Cwd, args[0])
	meta, err := ctx.Env.Explorer.FS().Stat(resolved)
	if err != nil {
		return UnavailableError("%v", err)
	}
	if meta.Kind != explorer.KindDirectory {
		return UsageError("not a directory: `%s`", resolved)
	}
	ctx.Session.Cwd = resolved
	ctx.Statusf("cwd = %s", resolved)
	return nil
}

func runLs(ctx *Context, args []string) error {
	if ctx.Env.Explorer == nil {
		return UnavailableError("filesystem is not available")
	}
	target := ctx.Session.Cwd
	if len(args) == 1 {
		target = explorer.ResolveAgainst(ctx.Session.Cwd, args[0])
	} else if len(args) > 1 {
		return UsageError("usage: fs.ls [path]")
	}
	listing, err := ctx.Env.Explorer.FS().List(target)
	if err != nil {
		return UnavailableError("%v", err)
	}
	if len(listing.Entries) == 0 {
		ctx.Statusf("empty directory %s", listing.Cwd)
		return nil
	}
	width := 0
	for _, entry := range listing.Entries {
		if w := runewidth.StringWidth(entry.Name); w > width {
			width = w
		}
	}
	for _, entry := range listing.Entries {
		if entry.Kind == explorer.KindDirectory {
			ctx.Printf("%s  %s", runewidth.FillRight(entry.Name, width), entry.Kind)
		} else {
			ctx.Printf("%s  %s  %d", runewidth.FillRight(entry.Name, width), entry.Kind, entry.Size)
		}
	}
	return nil
}

func runView(ctx *Context, args []string) error {
	if len(args) != 1 {
		return UsageError("usage: view <file>")
	}
	if ctx.Env.Explorer == nil {
		return UnavailableError("filesystem is not available")
	}
	resolved := explorer.ResolveAgainst(ctx.Session.Cwd, args[0])
	text, _, err := ctx.Env.Explorer.FS().ReadFile(resolved)
	if err != nil {
		return UnavailableError("%v", err)
	}
	ctx.Print(Highlight(resolved, text))
	return nil
}

func runNotify(ctx *Context, args []string) error {
	if len(args) < 2 {
		return UsageError("usage: notify <title> <body>")
	}
	if ctx.Env.Notifier == nil {
		return UnavailableError("notifications are not available")
	}
	title := args[0]
	body := strings.Join(args[1:], " ")
	if err := ctx.Env.Notifier.Notify(title, body); err != nil {
		return UnavailableError("notify: %v", err)
	}
	ctx.Statusf("notified `%s`", title)
	return nil
}

func completeDirectories(ctx *Context, prefix string) []string {
	return completeFSEntries(ctx, prefix, true)
}

func completePaths(ctx *Context, prefix string) []string {
	return completeFSEntries(ctx, prefix, false)
}

func completeFSEntries(ctx *Context, prefix string, dirsOnly bool) []string {
	if ctx.Env.Explorer == nil {
		return nil
	}
	dir := ctx.Session.Cwd
	partial := prefix
	if idx := strings.LastIndex(prefix, "/"); idx >= 0 {
		dir = explorer.ResolveAgainst(ctx.Session.Cwd, prefix[:idx+1])
		partial = prefix[idx+1:]
	}
	listing, err := ctx.Env.Explorer.FS().List(dir)
	if err != nil {
		return nil
	}
	var matches []string
	for _, entry := range listing.Entries {
		if dirsOnly && entry.Kind != explorer.KindDirectory {
			continue
		}
		if strings.HasPrefix(entry.Name, partial) {
			matches = append(matches, entry.Path)
		}
	}
	return matches
}
