// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"path"
	"strings"
)

// NormalizePath converts an archive-internal path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	p = strings.TrimPrefix(p, "./")
	return p
}

// normalizeArchiveEntryPath converts input path to canonical archive form; empty results are invalid.
func normalizeArchiveEntryPath(raw string) (string, error) {
	normalized := NormalizePath(raw)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryPath, raw)
	}

	return normalized, nil
}

// entryPathKey returns the lookup key for an archive path.
// ZIP names are case-sensitive, so only separators are folded.
func entryPathKey(p string) string {
	return NormalizePath(p)
}

// splitBaseExt splits the last segment of p into stem and lower-cased extension.
func splitBaseExt(p string) (string, string) {
	base := path.Base(p)
	ext := path.Ext(base)
	return strings.TrimSuffix(base, ext), strings.ToLower(ext)
}
