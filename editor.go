// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"context"
	"strings"
)

// Editor stages entry writes and removals and applies them in one rewrite.
type Editor struct {
	// staged maps normalized entry keys to positions in puts.
	staged  map[string]int
	deletes map[string]struct{}
	path    string
	puts    []pendingEntry
	opts    RewriteOptions
}

// OpenEditor creates a staged editor for one archive file.
func OpenEditor(path string, opts RewriteOptions) (*Editor, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, &RewriteError{Op: "open editor", Err: ErrInvalidEntryPath}
	}

	opts.applyDefaults()

	return &Editor{
		path:    trimmedPath,
		opts:    opts,
		staged:  make(map[string]int),
		deletes: make(map[string]struct{}),
	}, nil
}

// Put stages content under entryPath. A later Put for the same path replaces
// the staged content; a staged Delete for the path is cancelled.
func (e *Editor) Put(entryPath string, content []byte) error {
	name, err := normalizeArchiveEntryPath(entryPath)
	if err != nil {
		return &RewriteError{Archive: e.path, Entry: entryPath, Op: "validate entry path", Err: err}
	}

	key := entryPathKey(name)
	delete(e.deletes, key)

	data := append([]byte(nil), content...)
	if pos, ok := e.staged[key]; ok {
		e.puts[pos].content = data
		return nil
	}

	e.staged[key] = len(e.puts)
	e.puts = append(e.puts, pendingEntry{name: name, content: data})
	return nil
}

// Delete stages removal of entries by exact path. Staged writes for the
// same paths are dropped.
func (e *Editor) Delete(paths ...string) error {
	for _, raw := range paths {
		name, err := normalizeArchiveEntryPath(raw)
		if err != nil {
			return &RewriteError{Archive: e.path, Entry: raw, Op: "validate entry path", Err: err}
		}

		key := entryPathKey(name)
		e.deletes[key] = struct{}{}
		if pos, ok := e.staged[key]; ok {
			e.puts = append(e.puts[:pos], e.puts[pos+1:]...)
			e.reindex()
		}
	}

	return nil
}

// reindex rebuilds staged positions after a removal.
func (e *Editor) reindex() {
	clear(e.staged)
	for i, p := range e.puts {
		e.staged[entryPathKey(p.name)] = i
	}
}

// Pending returns the number of staged writes and removals.
func (e *Editor) Pending() int {
	return len(e.puts) + len(e.deletes)
}

// Commit applies all staged operations in one rewrite transaction.
// A nil context means context.Background.
func (e *Editor) Commit(ctx context.Context) error {
	if e == nil {
		return &RewriteError{Op: "commit", Err: ErrNilReader}
	}

	if ctx == nil {
		ctx = context.Background()
	}

	plan := rewritePlan{
		drop: make(map[string]struct{}, len(e.staged)+len(e.deletes)),
		puts: e.puts,
	}
	for key := range e.staged {
		plan.drop[key] = struct{}{}
	}
	for key := range e.deletes {
		plan.drop[key] = struct{}{}
	}

	return rewriteArchive(ctx, e.path, plan, e.opts)
}
