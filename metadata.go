// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"bufio"
	"strings"
)

// ListEntries opens an archive and returns entry metadata without payload reads.
func ListEntries(path string) ([]EntryInfo, error) {
	return ListEntriesWithOptions(path, ReaderOptions{})
}

// ListEntriesWithOptions opens an archive and returns entry metadata using reader options.
func ListEntriesWithOptions(path string, opts ReaderOptions) ([]EntryInfo, error) {
	r, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.Entries(), nil
}

// ReadManifest returns the main section attributes of META-INF/MANIFEST.MF.
// A missing manifest yields an error wrapping ErrEntryNotFound.
func ReadManifest(r *Reader) (map[string]string, error) {
	data, err := r.ReadEntry(manifestPath)
	if err != nil {
		return nil, err
	}

	return parseManifest(Sanitize(data)), nil
}

// parseManifest parses "Name: value" lines up to the first blank line.
// Lines starting with one space continue the previous value.
func parseManifest(text string) map[string]string {
	attrs := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	last := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}

		if strings.HasPrefix(line, " ") {
			if last != "" {
				attrs[last] += line[1:]
			}
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		last = strings.TrimSpace(name)
		attrs[last] = strings.TrimSpace(value)
	}

	return attrs
}
