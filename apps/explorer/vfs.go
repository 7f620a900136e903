// Copyright © 2025 RetroDesk contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/explorer/vfs.go
// Summary: In-memory virtual filesystem scoped to a single root.
// Usage: Backs the explorer app and the shell's ls/cd/view commands; every
// path is normalized before lookup so traversal cannot leave the tree.

package explorer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// EntryKind distinguishes files from directories in listings and metadata.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

var (
	ErrNotFound      = errors.New("path not found")
	ErrNotDirectory  = errors.New("not a directory")
	ErrNotFile       = errors.New("not a file")
	ErrRootImmutable = errors.New("explorer root cannot be modified")
	ErrDirNotEmpty   = errors.New("directory not empty")
)

// Entry describes a single child within a directory listing.
type Entry struct {
	Name             string    `json:"name"`
	Path             string    `json:"path"`
	Kind             EntryKind `json:"kind"`
	Size             int64     `json:"size,omitempty"`
	ModifiedAtUnixMS int64     `json:"modified_at_unix_ms,omitempty"`
}

// Metadata describes a single path.
type Metadata struct {
	Name             string    `json:"name"`
	Path             string    `json:"path"`
	Kind             EntryKind `json:"kind"`
	Size             int64     `json:"size,omitempty"`
	ModifiedAtUnixMS int64     `json:"modified_at_unix_ms,omitempty"`
}

// ListResult is the payload produced by listing a directory.
type ListResult struct {
	Cwd     string  `json:"cwd"`
	Entries []Entry `json:"entries"`
}

type node struct {
	name       string
	kind       EntryKind
	text       string
	modifiedMS int64
	children   map[string]*node
}

// FS is an in-memory virtual filesystem. All operations take virtual paths
// and normalize them before resolution; the zero value is not usable, use
// NewFS or NewSiteFS.
type FS struct {
	mu   sync.RWMutex
	root *node
	now  func() time.Time
}

// NewFS returns an empty filesystem containing only the root directory.
func NewFS() *FS {
	fs := &FS{now: time.Now}
	fs.root = &node{name: "/", kind: KindDirectory, children: map[string]*node{}}
	return fs
}

func (fs *FS) stamp() int64 {
	return fs.now().UnixMilli()
}

// resolve walks a normalized path down from the root. Callers hold fs.mu.
func (fs *FS) resolve(normalized string) (*node, error) {
	if normalized == "/" {
		return fs.root, nil
	}
	current := fs.root
	for _, segment := range strings.Split(strings.TrimPrefix(normalized, "/"), "/") {
		if current.kind != KindDirectory {
			return nil, fmt.Errorf("%w: %s", ErrNotDirectory, normalized)
		}
		child, ok := current.children[segment]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, normalized)
		}
		current = child
	}
	return current, nil
}

// resolveParent returns the directory that would contain a normalized path.
func (fs *FS) resolveParent(normalized string) (*node, string, error) {
	if normalized == "/" {
		return nil, "", ErrRootImmutable
	}
	parent, err := fs.resolve(ParentPath(normalized))
	if err != nil {
		return nil, "", err
	}
	if parent.kind != KindDirectory {
		return nil, "", fmt.Errorf("%w: %s", ErrNotDirectory, ParentPath(normalized))
	}
	return parent, BaseName(normalized), nil
}

func (n *node) metadata(path string) Metadata {
	meta := Metadata{
		Name:             n.name,
		Path:             path,
		Kind:             n.kind,
		ModifiedAtUnixMS: n.modifiedMS,
	}
	if n.kind == KindFile {
		meta.Size = int64(len(n.text))
	}
	return meta
}

// Stat returns metadata for a path.
func (fs *FS) Stat(path string) (Metadata, error) {
	normalized := NormalizeVirtualPath(path)
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	target, err := fs.resolve(normalized)
	if err != nil {
		return Metadata{}, err
	}
	return target.metadata(normalized), nil
}

// List returns the children of a directory, directories first, both groups
// sorted by name.
func (fs *FS) List(path string) (ListResult, error) {
	normalized := NormalizeVirtualPath(path)
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	dir, err := fs.resolve(normalized)
	if err != nil {
		return ListResult{}, err
	}
	if dir.kind != KindDirectory {
		return ListResult{}, fmt.Errorf("%w: %s", ErrNotDirectory, normalized)
	}
	entries := make([]Entry, 0, len(dir.children))
	for name, child := range dir.children {
		childPath := JoinPath(normalized, name)
		entry := Entry{
			Name:             name,
			Path:             childPath,
			Kind:             child.kind,
			ModifiedAtUnixMS: child.modifiedMS,
		}
		if child.kind == KindFile {
			entry.Size = int64(len(child.text))
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind == KindDirectory
		}
		return entries[i].Name < entries[j].Name
	})
	return ListResult{Cwd: normalized, Entries: entries}, nil
}

// ReadFile returns the text content of a file.
func (fs *FS) ReadFile(path string) (string, Metadata, error) {
	normalized := NormalizeVirtualPath(path)
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	target, err := fs.resolve(normalized)
	if err != nil {
		return "", Metadata{}, err
	}
	if target.kind != KindFile {
		return "", Metadata{}, fmt.Errorf("%w: %s", ErrNotFile, normalized)
	}
	return target.text, target.metadata(normalized), nil
}

// WriteFile creates or overwrites a file with text. The parent directory
// must already exist.
func (fs *FS) WriteFile(path, text string) (Metadata, error) {
	normalized := NormalizeVirtualPath(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	parent, name, err := fs.resolveParent(normalized)
	if err != nil {
		return Metadata{}, err
	}
	child, ok := parent.children[name]
	if ok {
		if child.kind != KindFile {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotFile, normalized)
		}
	} else {
		child = &node{name: name, kind: KindFile}
		parent.children[name] = child
	}
	child.text = text
	child.modifiedMS = fs.stamp()
	return child.metadata(normalized), nil
}

// Mkdir creates a directory and any missing ancestors.
func (fs *FS) Mkdir(path string) (Metadata, error) {
	normalized := NormalizeVirtualPath(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if normalized == "/" {
		return fs.root.metadata("/"), nil
	}
	current := fs.root
	for _, segment := range strings.Split(strings.TrimPrefix(normalized, "/"), "/") {
		child, ok := current.children[segment]
		if !ok {
			child = &node{
				name:       segment,
				kind:       KindDirectory,
				modifiedMS: fs.stamp(),
				children:   map[string]*node{},
			}
			current.children[segment] = child
		} else if child.kind != KindDirectory {
			return Metadata{}, fmt.Errorf("%w: %s", ErrNotDirectory, normalized)
		}
		current = child
	}
	return current.metadata(normalized), nil
}

// Remove deletes a file or directory. Non-empty directories require
// recursive.
func (fs *FS) Remove(path string, recursive bool) error {
	normalized := NormalizeVirtualPath(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	parent, name, err := fs.resolveParent(normalized)
	if err != nil {
		return err
	}
	child, ok := parent.children[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}
	if child.kind == KindDirectory && len(child.children) > 0 && !recursive {
		return fmt.Errorf("%w: %s", ErrDirNotEmpty, normalized)
	}
	delete(parent.children, name)
	return nil
}
