// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"testing"

	"github.com/retrodesk/retrodesk/apps/explorer"
	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/registry"
	"github.com/retrodesk/retrodesk/runtime"
)

type recordingNotifier struct {
	titles []string
	bodies []string
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
	return nil
}

func newTestEnv(t *testing.T) (*Registry, *Session, *Env) {
	t.Helper()
	apps := registry.New()
	rt := runtime.New(apps, nil)
	env := &Env{
		Runtime:  rt,
		Apps:     apps,
		Explorer: explorer.NewApp(explorer.NewSiteFS(), nil),
		Notifier: &recordingNotifier{},
		Viewport: func() *desktop.WindowRect {
			return &desktop.WindowRect{X: 0, Y: 0, W: 1280, H: 760 - TaskbarHeightPX}
		},
	}
	reg := NewRegistry()
	RegisterBuiltins(reg, env)
	return reg, NewSession(), env
}

func run(t *testing.T, reg *Registry, session *Session, env *Env, line string) Result {
	t.Helper()
	result := reg.Execute(session, env, line)
	if result.Err != nil {
		t.Fatalf("%q failed: %v", line, result.Err)
	}
	return result
}

func windowCount(rt *runtime.Runtime) int {
	count := 0
	rt.View(func(state *desktop.DesktopState) { count = len(state.Windows) })
	return count
}

func TestHelpListsAllCommands(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "help")
	joined := strings.Join(result.Lines, "\n")
	for _, path := range []string{"open", "windows.list", "theme.set.skin", "fs.ls", "view", "search"} {
		if !strings.Contains(joined, path) {
			t.Errorf("help output missing %q", path)
		}
	}
	if result.Lines[0] != "Available commands:" {
		t.Errorf("header = %q", result.Lines[0])
	}
}

func TestHelpForSingleCommand(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "help windows.list")
	joined := strings.Join(result.Lines, "\n")
	if !strings.Contains(joined, "windows.list") || !strings.Contains(joined, "Usage:") {
		t.Fatalf("output = %q", joined)
	}
	if res := reg.Execute(session, env, "help no.such.command"); CodeOf(res.Err) != CodeNotFound {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestOpenActivatesApp(t *testing.T) {
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, "open system.terminal")
	if windowCount(env.Runtime) != 1 {
		t.Fatalf("window count = %d", windowCount(env.Runtime))
	}
	// Terminal is single-instance: opening again focuses, not duplicates.
	run(t, reg, session, env, "open system.terminal")
	if windowCount(env.Runtime) != 1 {
		t.Fatalf("window count after reopen = %d", windowCount(env.Runtime))
	}
}

func TestOpenDeepLinkTargets(t *testing.T) {
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, "open notes:welcome")
	run(t, reg, session, env, "open projects:retrodesk")
	if windowCount(env.Runtime) != 2 {
		t.Fatalf("window count = %d", windowCount(env.Runtime))
	}
	found := false
	env.Runtime.View(func(state *desktop.DesktopState) {
		for _, window := range state.Windows {
			if window.PersistKey == "notes:welcome" {
				found = true
			}
		}
	})
	if !found {
		t.Fatal("deep-link window missing persist key")
	}
	if res := reg.Execute(session, env, "open bogus"); CodeOf(res.Err) != CodeNotFound {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestAppsListShowsIDAndTitle(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "apps.list")
	joined := strings.Join(result.Lines, "\n")
	for _, want := range []string{"system.terminal  Terminal", "system.explorer  Explorer", "system.notepad  Notepad"} {
		if !strings.Contains(joined, want) {
			t.Errorf("apps.list output missing %q:\n%s", want, joined)
		}
	}
}

func TestWindowsListAndFocus(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "windows.list")
	if result.Lines[0] != "no open windows" {
		t.Fatalf("empty list = %q", result.Lines)
	}

	run(t, reg, session, env, "open system.notepad")
	run(t, reg, session, env, "open system.explorer")
	result = run(t, reg, session, env, "windows.list")
	if len(result.Lines) != 2 {
		t.Fatalf("lines = %q", result.Lines)
	}

	run(t, reg, session, env, "windows.minimize 1")
	minimized := false
	env.Runtime.View(func(state *desktop.DesktopState) {
		for _, window := range state.Windows {
			if window.ID == 1 {
				minimized = window.Minimized
			}
		}
	})
	if !minimized {
		t.Fatal("window 1 should be minimized")
	}

	if res := reg.Execute(session, env, "windows.focus nope"); CodeOf(res.Err) != CodeUsage {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestThemeCommands(t *testing.T) {
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, "theme.set.skin classic-95")
	run(t, reg, session, env, "theme.set.high-contrast on")
	theme := env.Runtime.Theme()
	if theme.Skin != desktop.SkinClassic95 || !theme.HighContrast {
		t.Fatalf("theme = %+v", theme)
	}
	result := run(t, reg, session, env, "theme.show")
	if !strings.Contains(strings.Join(result.Lines, "\n"), "classic-95") {
		t.Fatalf("theme.show = %q", result.Lines)
	}
	if res := reg.Execute(session, env, "theme.set.skin hotdog"); CodeOf(res.Err) != CodeUsage {
		t.Fatalf("err = %v", res.Err)
	}
	if res := reg.Execute(session, env, "theme.set.reduced-motion maybe"); CodeOf(res.Err) != CodeUsage {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestFilesystemCommands(t *testing.T) {
	reg, session, env := newTestEnv(t)

	result := run(t, reg, session, env, "pwd")
	if result.Lines[0] != "/" {
		t.Fatalf("pwd = %q", result.Lines)
	}

	run(t, reg, session, env, "cd Documents")
	if session.Cwd != "/Documents" {
		t.Fatalf("cwd = %q", session.Cwd)
	}

	result = run(t, reg, session, env, "ls")
	joined := strings.Join(result.Lines, "\n")
	if !strings.Contains(joined, "about.txt") {
		t.Fatalf("ls = %q", joined)
	}

	run(t, reg, session, env, "cd ..")
	if session.Cwd != "/" {
		t.Fatalf("cwd after .. = %q", session.Cwd)
	}

	if res := reg.Execute(session, env, "cd readme.txt"); CodeOf(res.Err) != CodeUsage {
		t.Fatalf("cd into file: %v", res.Err)
	}
	if res := reg.Execute(session, env, "cd /missing"); CodeOf(res.Err) != CodeUnavailable {
		t.Fatalf("cd missing: %v", res.Err)
	}
}

func TestViewRendersFileContent(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "view /Projects/retrodesk.md")
	joined := strings.Join(result.Lines, "\n")
	if !strings.Contains(joined, "RetroDesk") {
		t.Fatalf("view output = %q", joined)
	}
	if res := reg.Execute(session, env, "view /Documents"); CodeOf(res.Err) != CodeUnavailable {
		t.Fatalf("view dir: %v", res.Err)
	}
}

func TestClearRequestsTranscriptWipe(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "clear")
	if !result.Clear {
		t.Fatal("clear flag not set")
	}
}

func TestHistoryReflectsRuntimeState(t *testing.T) {
	reg, session, env := newTestEnv(t)
	result := run(t, reg, session, env, "history")
	if result.Lines[0] != "no terminal history" {
		t.Fatalf("empty history = %q", result.Lines)
	}
	env.Runtime.Dispatch(desktop.PushTerminalHistory{Command: "help"})
	env.Runtime.Dispatch(desktop.PushTerminalHistory{Command: "ls"})
	result = run(t, reg, session, env, "history")
	if len(result.Lines) != 2 || result.Lines[1] != "ls" {
		t.Fatalf("history = %q", result.Lines)
	}
}

func TestNotifyRoutesThroughNotifier(t *testing.T) {
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, `notify "Disk Check" all volumes healthy`)
	notifier := env.Notifier.(*recordingNotifier)
	if len(notifier.titles) != 1 || notifier.titles[0] != "Disk Check" {
		t.Fatalf("titles = %q", notifier.titles)
	}
	if notifier.bodies[0] != "all volumes healthy" {
		t.Fatalf("bodies = %q", notifier.bodies)
	}
}

func TestSearchWithoutIndexIsUnavailable(t *testing.T) {
	reg, session, env := newTestEnv(t)
	if res := reg.Execute(session, env, "search anything"); CodeOf(res.Err) != CodeUnavailable {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestConfigSetGetRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, "config.set vendor.pager retries 3")
	result := run(t, reg, session, env, "config.get vendor.pager retries")
	if !strings.Contains(strings.Join(result.Lines, "\n"), "3") {
		t.Fatalf("config.get = %q", result.Lines)
	}
	if res := reg.Execute(session, env, "config.set vendor.pager retries {bad"); CodeOf(res.Err) != CodeUsage {
		t.Fatalf("err = %v", res.Err)
	}
}

func TestInspectRuntimeReportsState(t *testing.T) {
	reg, session, env := newTestEnv(t)
	run(t, reg, session, env, "open system.terminal")
	result := run(t, reg, session, env, "inspect.runtime")
	joined := strings.Join(result.Lines, "\n")
	if !strings.Contains(joined, `"windows": 1`) {
		t.Fatalf("inspect.runtime = %q", joined)
	}
}

func TestCompletionProposesAppIDs(t *testing.T) {
	reg, session, env := newTestEnv(t)
	matches := reg.Complete(session, env, "open system.t")
	found := false
	for _, match := range matches {
		if match == "system.terminal" {
			found = true
		}
	}
	if !found {
		t.Fatalf("matches = %q", matches)
	}
}

func TestCompletionProposesDirectories(t *testing.T) {
	reg, session, env := newTestEnv(t)
	matches := reg.Complete(session, env, "cd Doc")
	if len(matches) != 1 || matches[0] != "/Documents" {
		t.Fatalf("matches = %q", matches)
	}
}
