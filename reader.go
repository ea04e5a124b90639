// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"io"
	"iter"
	"os"
	"sync"

	"github.com/klauspost/compress/zip"
)

// Reader provides read-only access to one ZIP/JAR archive.
type Reader struct {
	// zr is the parsed central directory.
	zr *zip.Reader
	// file is set when Reader owns an *os.File opened via Open.
	file *os.File
	// skip hides entries from walks; nil means no filtering.
	skip *skipMatcher
	// byName maps normalized entry names to the first visible entry position.
	byName map[string]int
	// path is the archive file path, empty for reader-at sources.
	path string
	// entries stores visible entry metadata in physical order.
	entries []EntryInfo
	// opts are effective reader options.
	opts ReaderOptions
	// mu guards closed state and close operation.
	mu sync.Mutex
	// closed reports whether Close was already called.
	closed bool
}

// Open opens an archive by path and parses its central directory.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens an archive by path using explicit reader options.
// Entry payloads are not read until requested.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, &ArchiveOpenError{Path: path, Err: fmt.Errorf("stat: %w", err)}
	}

	if fi.IsDir() {
		_ = f.Close()
		return nil, &ArchiveOpenError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	r, err := newReader(f, fi.Size(), path, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f
	return r, nil
}

// NewReaderFromReaderAt parses an archive from an existing ReaderAt and known size.
func NewReaderFromReaderAt(ra io.ReaderAt, size int64, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	return newReader(ra, size, "", opts)
}

// newReader parses the central directory and builds the visible entry table.
func newReader(ra io.ReaderAt, size int64, path string, opts ReaderOptions) (*Reader, error) {
	opts.applyDefaults()

	skip, err := newSkipMatcher(opts.Skip, opts.SkipMatcherOptions)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil && (zr == nil || err != zip.ErrInsecurePath) {
		return nil, &ArchiveOpenError{Path: path, Err: err}
	}

	r := &Reader{
		zr:   zr,
		skip: skip,
		path: path,
		opts: opts,
	}
	r.entries = filterVisibleEntries(collectEntries(zr.File), skip)
	r.byName = make(map[string]int, len(r.entries))
	for i := range r.entries {
		key := entryPathKey(r.entries[i].Name)
		if _, exists := r.byName[key]; !exists {
			r.byName[key] = i
		}
	}

	return r, nil
}

// collectEntries converts central directory records into entry metadata.
func collectEntries(files []*zip.File) []EntryInfo {
	entries := make([]EntryInfo, 0, len(files))
	for i, f := range files {
		entries = append(entries, EntryInfo{
			file:             f,
			Name:             NormalizePath(f.Name),
			RawName:          f.Name,
			Index:            i,
			Method:           f.Method,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Modified:         f.Modified,
		})
	}

	return entries
}

// Path returns the archive file path ("" for reader-at sources).
func (r *Reader) Path() string {
	if r == nil {
		return ""
	}

	return r.path
}

// Len returns the number of visible entries.
func (r *Reader) Len() int {
	if r == nil {
		return 0
	}

	return len(r.entries)
}

// Entries returns a copy of visible entries in physical order.
func (r *Reader) Entries() []EntryInfo {
	if r == nil {
		return nil
	}

	entries := make([]EntryInfo, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Names returns a restartable sequence of visible entry names in physical order.
func (r *Reader) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		if r == nil {
			return
		}

		for i := range r.entries {
			if !yield(r.entries[i].Name) {
				return
			}
		}
	}
}

// Has reports whether a visible entry with the given name exists.
func (r *Reader) Has(name string) bool {
	return r.findEntryByName(name) != nil
}

// Close closes the underlying file if reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// report forwards one diagnostic to the configured sink.
func (r *Reader) report(entry string, reason string, err error) {
	r.opts.Diagnostics.Report(Diagnostic{
		Archive: r.path,
		Entry:   entry,
		Reason:  reason,
		Err:     err,
	})
}
