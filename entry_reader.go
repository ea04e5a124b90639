// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"io"
)

// limitedReadCloser bounds a decompressed stream and closes the source.
type limitedReadCloser struct {
	io.Reader
	closer io.Closer
}

// Close closes the wrapped entry stream.
func (l limitedReadCloser) Close() error {
	return l.closer.Close()
}

// findEntryByName resolves the first visible entry with the given normalized path.
func (r *Reader) findEntryByName(name string) *EntryInfo {
	if r == nil {
		return nil
	}

	idx, ok := r.byName[entryPathKey(name)]
	if !ok {
		return nil
	}

	return &r.entries[idx]
}

// checkOpen reports ErrNilReader or ErrClosed for unusable readers.
func (r *Reader) checkOpen() error {
	if r == nil || r.zr == nil {
		return ErrNilReader
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrClosed
	}

	return nil
}

// openEntryByInfo opens a decompressed payload stream for resolved metadata.
func (r *Reader) openEntryByInfo(info *EntryInfo, name string) (io.ReadCloser, error) {
	if info == nil || info.file == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	if info.UncompressedSize > uint64(r.opts.MaxEntrySize) {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrEntryTooLarge, name, info.UncompressedSize)
	}

	rc, err := info.file.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", name, err)
	}

	return limitedReadCloser{
		Reader: io.LimitReader(rc, r.opts.MaxEntrySize+1),
		closer: rc,
	}, nil
}

// OpenEntry opens the named entry for streaming reads.
// Returned stream yields decompressed content.
func (r *Reader) OpenEntry(name string) (io.ReadCloser, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	return r.openEntryByInfo(r.findEntryByName(name), name)
}

// OpenEntryInfo opens an entry stream by already resolved metadata.
func (r *Reader) OpenEntryInfo(info EntryInfo) (io.ReadCloser, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	name := info.Name
	if name == "" {
		name = "<unknown>"
	}

	return r.openEntryByInfo(&info, name)
}

// ReadEntry reads the full decompressed content of the named entry.
// When several entries share a name the first one in physical order wins.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	rc, err := r.OpenEntry(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return r.readBounded(rc, name)
}

// ReadEntryAt reads the full content of the visible entry at position index.
func (r *Reader) ReadEntryAt(index int) ([]byte, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	if index < 0 || index >= len(r.entries) {
		return nil, fmt.Errorf("%w: index %d", ErrEntryNotFound, index)
	}

	return r.ReadEntryInfo(r.entries[index])
}

// ReadEntryInfo reads the full content of an entry resolved by a previous walk.
func (r *Reader) ReadEntryInfo(info EntryInfo) ([]byte, error) {
	rc, err := r.OpenEntryInfo(info)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return r.readBounded(rc, info.Name)
}

// readBounded drains rc and fails when the payload exceeds MaxEntrySize.
func (r *Reader) readBounded(rc io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", name, err)
	}

	if int64(len(data)) > r.opts.MaxEntrySize {
		return nil, fmt.Errorf("%w: %s", ErrEntryTooLarge, name)
	}

	return data, nil
}

// ReadEntryText reads the named entry and returns it sanitized.
func (r *Reader) ReadEntryText(name string) (string, error) {
	data, err := r.ReadEntry(name)
	if err != nil {
		return "", err
	}

	return Sanitize(data), nil
}
