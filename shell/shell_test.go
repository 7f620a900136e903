// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"testing"
)

func TestTokenizeHonorsQuotes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"help", []string{"help"}},
		{"open system.terminal", []string{"open", "system.terminal"}},
		{`config.set app key "some value"`, []string{"config.set", "app", "key", "some value"}},
		{`notify "Disk full" check the store`, []string{"notify", "Disk full", "check", "the", "store"}},
	}
	for _, tc := range cases {
		got := Tokenize(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestRegistryLookupResolvesAliases(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Command{
		Path:    "fs.pwd",
		Aliases: []string{"pwd"},
		Summary: "Print cwd.",
		Usage:   "fs.pwd",
		Run:     func(ctx *Context, args []string) error { return nil },
	})
	if _, ok := reg.Lookup("fs.pwd"); !ok {
		t.Fatal("path lookup failed")
	}
	if _, ok := reg.Lookup("pwd"); !ok {
		t.Fatal("alias lookup failed")
	}
	if _, ok := reg.Lookup("nope"); ok {
		t.Fatal("unexpected match")
	}
}

func TestExecuteUnknownCommandIsNotFound(t *testing.T) {
	reg := NewRegistry()
	result := reg.Execute(NewSession(), &Env{}, "frobnicate")
	if result.Err == nil || CodeOf(result.Err) != CodeNotFound {
		t.Fatalf("err = %v", result.Err)
	}
}

func TestExecuteEmptyLineIsNoop(t *testing.T) {
	reg := NewRegistry()
	result := reg.Execute(NewSession(), &Env{}, "   ")
	if result.Err != nil || len(result.Lines) != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestCompleteMatchesCommandNames(t *testing.T) {
	reg := NewRegistry()
	env := &Env{}
	RegisterBuiltins(reg, env)
	matches := reg.Complete(NewSession(), env, "theme.")
	if len(matches) == 0 {
		t.Fatal("expected theme command completions")
	}
	for _, match := range matches {
		if !strings.HasPrefix(match, "theme.") {
			t.Errorf("unexpected completion %q", match)
		}
	}
}

func TestErrorCodes(t *testing.T) {
	if CodeOf(UsageError("x")) != CodeUsage {
		t.Fatal("usage code")
	}
	if CodeOf(NotFoundError("x")) != CodeNotFound {
		t.Fatal("not-found code")
	}
	if CodeOf(UnavailableError("x")) != CodeUnavailable {
		t.Fatal("unavailable code")
	}
}
