// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/root.go
// Summary: Root cobra command and shared stack wiring for the RetroDesk CLI.
// Usage: Subcommands call newStack to assemble the runtime over a data directory.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/retrodesk/retrodesk/apps/explorer"
	"github.com/retrodesk/retrodesk/config"
	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/history"
	"github.com/retrodesk/retrodesk/host"
	"github.com/retrodesk/retrodesk/registry"
	"github.com/retrodesk/retrodesk/runtime"
	"github.com/retrodesk/retrodesk/shell"
)

var rootCmd = &cobra.Command{
	Use:   "retrodesk",
	Short: "RetroDesk desktop runtime and shell",
	Long:  "Headless host for the RetroDesk desktop: runs the reducer runtime, the RetroShell command set, and the persisted app-state stores.",
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "State directory (default: user config dir + /retrodesk/state)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress runtime log output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if quiet, _ := rootCmd.PersistentFlags().GetBool("quiet"); quiet {
			log.SetOutput(io.Discard)
		}
	}
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataDir resolves the state directory, creating it on first use.
func dataDir() (string, error) {
	dir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(configDir, "retrodesk", "state")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	return dir, nil
}

// stack bundles the assembled runtime and host services for one invocation.
type stack struct {
	dir      string
	runtime  *runtime.Runtime
	apps     *registry.Registry
	states   *host.FileAppStateStore
	prefs    *host.FilePrefsStore
	snaps    *host.SnapshotStore
	runner   *host.Runner
	history  *history.Store
	explorer *explorer.App
	shellReg *shell.Registry
	shellEnv *shell.Env
}

// newStack wires the full desktop stack over the state directory. History
// opening is best-effort: a broken index degrades search, not the desktop.
func newStack(withHistory bool) (*stack, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}

	states := host.NewFileAppStateStore(filepath.Join(dir, "appstate"))
	prefs := host.NewFilePrefsStore(filepath.Join(dir, "prefs.json"))
	snaps := host.NewSnapshotStore(states, prefs)

	apps := registry.New()
	if err := apps.Scan(filepath.Join(dir, "apps")); err != nil {
		log.Printf("Host: app scan failed: %v", err)
	}

	rt := runtime.New(apps, nil)
	runner := host.NewRunner(rt, snaps)
	runner.Configs = config.Writer{}
	runner.Viewport = configViewport
	rt.SetEffectRunner(runner)

	var hist *history.Store
	if withHistory {
		hist, err = history.Open(filepath.Join(dir, "history.db"))
		if err != nil {
			log.Printf("Host: history index unavailable: %v", err)
		} else {
			runner.History = hist
		}
	}

	fileExplorer := explorer.NewApp(explorer.NewSiteFS(), states)

	env := &shell.Env{
		Runtime:  rt,
		Apps:     apps,
		Explorer: fileExplorer,
		History:  hist,
		States:   states,
		Notifier: runner.Notifier,
		Viewport: configViewport,
	}
	shellReg := shell.NewRegistry()
	shell.RegisterBuiltins(shellReg, env)

	return &stack{
		dir:      dir,
		runtime:  rt,
		apps:     apps,
		states:   states,
		prefs:    prefs,
		snaps:    snaps,
		runner:   runner,
		history:  hist,
		explorer: fileExplorer,
		shellReg: shellReg,
		shellEnv: env,
	}, nil
}

// close releases stack resources that hold open handles.
func (s *stack) close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			log.Printf("Host: history close failed: %v", err)
		}
	}
}

// configViewport reads the desktop viewport from the system config.
func configViewport() *desktop.WindowRect {
	cfg := config.System()
	return &desktop.WindowRect{
		X: 0,
		Y: 0,
		W: cfg.GetInt("viewport", "width", 1280),
		H: cfg.GetInt("viewport", "height", 760) - cfg.GetInt("viewport", "taskbar_height", shell.TaskbarHeightPX),
	}
}

// restoreBootSnapshot hydrates the runtime from the persisted theme and
// layout. Theme comes first: layout hydration keeps the current theme.
func (s *stack) restoreBootSnapshot() {
	theme, ok, err := s.snaps.LoadTheme()
	if err != nil {
		log.Printf("Host: theme load failed: %v", err)
	} else if ok {
		s.runtime.Dispatch(desktop.HydrateTheme{Theme: theme})
	}

	if !config.System().GetBool("boot", "restore_on_boot", true) {
		s.runtime.DrainAll()
		return
	}
	snapshot, err := s.snaps.LoadBootSnapshot()
	if err != nil {
		log.Printf("Host: boot snapshot load failed: %v", err)
	} else if snapshot != nil {
		s.runtime.Dispatch(desktop.HydrateSnapshot{Snapshot: *snapshot})
	}
	s.runtime.DrainAll()
}
