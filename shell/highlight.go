// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/highlight.go
// Summary: Syntax highlighting for the view command.
// Usage: Language comes from enry's content classifier with chroma's
// analyser as fallback; output is ANSI text for the terminal transcript.

package shell

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

const defaultStyleName = "catppuccin-mocha"

// highlightStyle resolves a style name, falling back to the default.
func highlightStyle(name string) *chroma.Style {
	if name == "" {
		name = defaultStyleName
	}
	return styles.Get(name)
}

// highlightLexer picks a lexer for a file: enry's classifier first (it
// detects languages from content where chroma needs a filename match), then
// chroma's own analyser, then the plaintext fallback.
func highlightLexer(filename, text string) chroma.Lexer {
	if language := enry.GetLanguage(filename, []byte(text)); language != enry.OtherLanguage {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if l := lexers.Match(filename); l != nil {
		return l
	}
	if l := lexers.Analyse(text); l != nil {
		return l
	}
	return lexers.Fallback
}

// Highlight renders text as ANSI-highlighted output for the transcript. On
// any tokenization or formatting failure the raw text comes back unchanged.
func Highlight(path, text string) string {
	lexer := chroma.Coalesce(highlightLexer(BaseNameOf(path), text))
	tokens, err := chroma.Tokenise(lexer, nil, text)
	if err != nil {
		return text
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	var out strings.Builder
	if err := formatter.Format(&out, highlightStyle(""), chroma.Literator(tokens...)); err != nil {
		return text
	}
	return strings.TrimRight(out.String(), "\n")
}

// BaseNameOf returns the final segment of a virtual path.
func BaseNameOf(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
