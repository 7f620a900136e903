// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/doctor.go
// Summary: Diagnose the on-disk state directory and configuration.
// Usage: `retrodesk doctor` checks envelopes, prefs, history, and config health.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/retrodesk/retrodesk/config"
	"github.com/retrodesk/retrodesk/history"
	"github.com/retrodesk/retrodesk/host"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the state directory for problems",
	Long:  "Verifies every persisted app-state envelope, the preference store, the history index, and the configuration files.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	dir, err := dataDir()
	if err != nil {
		return err
	}
	fmt.Printf("state dir: %s\n", dir)

	problems := 0
	report := func(ok bool, format string, args ...any) {
		status := "ok "
		if !ok {
			status = "FAIL"
			problems++
		}
		fmt.Printf("  [%s] %s\n", status, fmt.Sprintf(format, args...))
	}

	states := host.NewFileAppStateStore(filepath.Join(dir, "appstate"))
	namespaces, err := states.ListNamespaces()
	report(err == nil, "app state store readable")
	for _, namespace := range namespaces {
		_, err := states.LoadEnvelope(namespace)
		switch {
		case errors.Is(err, host.ErrEnvelopeCorrupt):
			report(false, "envelope %s: integrity hash mismatch", namespace)
		case err != nil:
			report(false, "envelope %s: %v", namespace, err)
		default:
			report(true, "envelope %s", namespace)
		}
	}

	prefsPath := filepath.Join(dir, "prefs.json")
	if _, err := os.Stat(prefsPath); err == nil {
		prefs := host.NewFilePrefsStore(prefsPath)
		_, err := prefs.LoadPref("theme")
		report(err == nil, "preference store %s", prefsPath)
	} else {
		report(true, "preference store not created yet")
	}

	dbPath := filepath.Join(dir, "history.db")
	if _, err := os.Stat(dbPath); err == nil {
		store, err := history.Open(dbPath)
		if err != nil {
			report(false, "history index: %v", err)
		} else {
			entries, err := store.Recent(1)
			report(err == nil, "history index (%d recent sampled)", len(entries))
			_ = store.Close()
		}
	} else {
		report(true, "history index not created yet")
	}

	report(config.Err() == nil, "configuration load")

	if problems > 0 {
		return fmt.Errorf("%d problem(s) found", problems)
	}
	fmt.Println("no problems found")
	return nil
}
