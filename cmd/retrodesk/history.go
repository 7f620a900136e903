// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/history.go
// Summary: Query the durable terminal command history index.
// Usage: `retrodesk history [query]` lists recent or matching commands.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/retrodesk/retrodesk/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Search the terminal command history index",
	Long:  "Lists recent terminal commands from the SQLite history index, or full-text matches when a query is given.",
	RunE:  runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "Maximum entries to return")
	historyCmd.Flags().String("since", "", "Only entries after this time (RFC3339)")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	stack, err := newStack(true)
	if err != nil {
		return err
	}
	defer stack.close()

	if stack.history == nil {
		return fmt.Errorf("history index unavailable")
	}

	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetString("since")
	query := strings.Join(args, " ")

	var entries []history.Entry
	switch {
	case since != "" && query == "":
		return fmt.Errorf("--since requires a search query")
	case since != "":
		start, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		entries, err = stack.history.SearchInRange(query, start, time.Now(), limit)
		if err != nil {
			return err
		}
	case query != "":
		entries, err = stack.history.Search(query, limit)
		if err != nil {
			return err
		}
	default:
		entries, err = stack.history.Recent(limit)
		if err != nil {
			return err
		}
	}

	if len(entries) == 0 {
		fmt.Println("no matching commands")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("%s  %s\n", entry.ExecutedAt.Format(time.RFC3339), entry.Command)
	}
	return nil
}
