// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/explorer/paths.go
// Summary: Virtual path normalization and manipulation helpers.
// Usage: All explorer and shell filesystem operations funnel paths through
// NormalizeVirtualPath so ".." can never escape the scoped root.

package explorer

import "strings"

// NormalizeVirtualPath collapses a raw path into a canonical absolute virtual
// path. Backslashes are treated as separators, empty and "." segments are
// dropped, and ".." pops the previous segment without ever climbing above the
// root. The empty path normalizes to "/".
func NormalizeVirtualPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	var out strings.Builder
	for _, segment := range strings.Split(strings.ReplaceAll(trimmed, "\\", "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		if segment == ".." {
			current := out.String()
			if idx := strings.LastIndex(current, "/"); idx >= 0 {
				out.Reset()
				out.WriteString(current[:idx])
			}
			continue
		}
		out.WriteByte('/')
		out.WriteString(segment)
	}
	if out.Len() == 0 {
		return "/"
	}
	return out.String()
}

// JoinPath appends name to a normalized base directory.
func JoinPath(base, name string) string {
	base = NormalizeVirtualPath(base)
	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" {
		return base
	}
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

// ParentPath returns the containing directory of a normalized path. The root
// is its own parent.
func ParentPath(path string) string {
	path = NormalizeVirtualPath(path)
	if path == "/" {
		return path
	}
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

// BaseName returns the final segment of a normalized path, or "/" for the
// root itself.
func BaseName(path string) string {
	path = NormalizeVirtualPath(path)
	if path == "/" {
		return "/"
	}
	return path[strings.LastIndex(path, "/")+1:]
}

// ResolveAgainst resolves target relative to cwd: absolute targets (or
// targets starting with a separator) replace cwd, anything else is joined
// onto it. The result is always normalized.
func ResolveAgainst(cwd, target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return NormalizeVirtualPath(cwd)
	}
	if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "\\") {
		return NormalizeVirtualPath(target)
	}
	return NormalizeVirtualPath(NormalizeVirtualPath(cwd) + "/" + target)
}
