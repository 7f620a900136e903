// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/retrodesk/main.go
// Summary: Entry point for the RetroDesk host CLI.
// Usage: Run `retrodesk --help` for the available subcommands.

package main

func main() {
	execute()
}
