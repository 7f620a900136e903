// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/run.go
// Summary: Interactive RetroShell session over the assembled desktop stack.
// Usage: `retrodesk run` starts a shell; pipe commands on stdin for scripting.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/retrodesk/retrodesk/apps/terminal"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start an interactive RetroShell session",
	Long:  "Boots the desktop runtime, restores the persisted layout, and drives a RetroShell terminal over stdin/stdout.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("prompt", "", "Override the shell prompt")
	runCmd.Flags().Bool("no-restore", false, "Skip boot layout restore")
}

func runRun(cmd *cobra.Command, args []string) error {
	stack, err := newStack(true)
	if err != nil {
		return err
	}
	defer stack.close()

	if noRestore, _ := cmd.Flags().GetBool("no-restore"); !noRestore {
		stack.restoreBootSnapshot()
	}

	prompt, _ := cmd.Flags().GetString("prompt")
	shellApp := terminal.NewApp(stack.shellReg, stack.shellEnv, stack.states, terminal.Options{
		Prompt: prompt,
	})

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	// Replay the hydrated transcript so resumed sessions pick up where
	// they left off.
	rendered := renderTranscript(shellApp, 0)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Printf("%s ", shellApp.Prompt())
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "exit" {
			break
		}
		shellApp.Execute(line)
		stack.runtime.DrainAll()
		if interactive && len(shellApp.Lines()) > rendered {
			// The transcript echoes the prompt line the user already saw.
			rendered++
		}
		rendered = renderTranscript(shellApp, rendered)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if interactive {
		fmt.Println()
	}
	return nil
}

// renderTranscript prints transcript lines added since the last call. A
// shrink means the screen was cleared, so the whole transcript reprints.
func renderTranscript(app *terminal.App, rendered int) int {
	lines := app.Lines()
	if len(lines) < rendered {
		rendered = 0
	}
	for _, line := range lines[rendered:] {
		fmt.Println(line)
	}
	return len(lines)
}
