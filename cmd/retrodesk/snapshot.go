// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/snapshot.go
// Summary: Inspect the persisted desktop layout snapshot.
// Usage: `retrodesk snapshot` summarizes the stored layout; --raw dumps the payload.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/retrodesk/retrodesk/desktop"
	"github.com/retrodesk/retrodesk/host"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect the persisted desktop layout",
	Long:  "Loads the system.desktop envelope, verifies its integrity hash, and summarizes the stored windows and preferences.",
	RunE:  runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().Bool("raw", false, "Dump the raw snapshot payload as JSON")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	stack, err := newStack(false)
	if err != nil {
		return err
	}
	defer stack.close()

	envelope, err := stack.states.LoadEnvelope(host.DesktopStateNamespace)
	if err != nil {
		if errors.Is(err, host.ErrEnvelopeCorrupt) {
			return fmt.Errorf("snapshot failed its integrity check: %w", err)
		}
		return err
	}
	if envelope == nil {
		fmt.Println("no desktop snapshot persisted yet")
		return nil
	}

	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		var pretty json.RawMessage = envelope.Payload
		out, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	var snapshot desktop.DesktopSnapshot
	if err := envelope.DecodePayload(&snapshot); err != nil {
		return fmt.Errorf("decode snapshot payload: %w", err)
	}

	fmt.Printf("namespace      %s\n", envelope.Namespace)
	fmt.Printf("schema         %d\n", envelope.SchemaVersion)
	fmt.Printf("updated        %s\n", time.UnixMilli(envelope.UpdatedAtUnixMS).Format(time.RFC3339))
	fmt.Printf("restore_on_boot %v (max %d windows)\n",
		snapshot.Preferences.RestoreOnBoot, snapshot.Preferences.MaxRestoreWindows)
	fmt.Printf("terminal_history %d entries\n", len(snapshot.TerminalHistory))
	fmt.Printf("windows        %d\n", len(snapshot.Windows))
	for _, window := range snapshot.Windows {
		state := "normal"
		switch {
		case window.Minimized:
			state = "minimized"
		case window.Maximized:
			state = "maximized"
		}
		fmt.Printf("  %d  %s  %q  %dx%d@%d,%d  %s\n",
			window.ID, window.AppID, window.Title,
			window.Rect.W, window.Rect.H, window.Rect.X, window.Rect.Y, state)
	}
	return nil
}
