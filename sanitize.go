// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
	"unicode/utf8"

	textunicode "golang.org/x/text/encoding/unicode"
)

const (
	// maxSanitizedSegmentLen limits one path segment to common filesystem-safe length.
	maxSanitizedSegmentLen = 240
	// utf8BOM is the byte order mark some editors prepend to UTF-8 text.
	utf8BOM = "\xef\xbb\xbf"
)

// reservedDeviceNames contains case-insensitive reserved Windows device names.
var reservedDeviceNames = map[string]struct{}{
	"aux": {}, "con": {}, "nul": {}, "prn": {}, "clock$": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {},
	"com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {},
	"lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// Sanitize converts a raw entry payload declared as text into a valid UTF-8 string.
// It never fails: NUL bytes are dropped, other control bytes except tab, LF and CR
// become one space, a leading BOM is stripped and invalid sequences become U+FFFD.
func Sanitize(data []byte) string {
	if isCleanText(data) {
		return string(data)
	}

	buf := make([]byte, 0, len(data))
	for _, b := range data {
		switch {
		case b == 0x00:
			continue
		case b < 0x20 && b != '\t' && b != '\n' && b != '\r':
			buf = append(buf, ' ')
		default:
			buf = append(buf, b)
		}
	}

	decoded, err := textunicode.UTF8BOM.NewDecoder().Bytes(buf)
	if err != nil {
		buf = bytes.TrimPrefix(buf, []byte(utf8BOM))
		return strings.ToValidUTF8(string(buf), string(utf8.RuneError))
	}

	return string(decoded)
}

// isCleanText reports whether data needs no rewriting at all.
func isCleanText(data []byte) bool {
	if bytes.HasPrefix(data, []byte(utf8BOM)) {
		return false
	}

	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			return false
		}
	}

	return utf8.Valid(data)
}

// SanitizePath rewrites one relative path to filesystem-safe slash-separated form.
// ".." segments are neutralized, so the result never escapes its base directory.
func SanitizePath(pathValue string) (string, error) {
	normalized := NormalizePath(pathValue)
	if normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntryPath, pathValue)
	}

	parts := strings.Split(normalized, "/")
	sanitized := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}

		sanitized = append(sanitized, SanitizePathSegment(part))
	}

	if len(sanitized) == 0 {
		return "_", nil
	}

	return strings.Join(sanitized, "/"), nil
}

// SanitizePathSegment rewrites one path segment for broad filesystem compatibility.
func SanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" || segment == ".." {
		return "_"
	}

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		if isUnsafePathRune(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		return "_"
	}

	if isReservedDeviceName(sanitized) {
		sanitized = "_" + sanitized
	}

	return shortenSegment(sanitized, maxSanitizedSegmentLen)
}

// isUnsafePathRune reports whether a rune must not appear in a file name.
func isUnsafePathRune(r rune) bool {
	if unicode.IsControl(r) || unicode.In(r, unicode.Cf) {
		return true
	}

	return r == utf8.RuneError
}

// isReservedDeviceName reports whether name matches a reserved Windows device identifier.
func isReservedDeviceName(name string) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if dot := strings.IndexByte(candidate, '.'); dot >= 0 {
		candidate = candidate[:dot]
	}

	_, ok := reservedDeviceNames[strings.TrimRight(candidate, " :")]
	return ok
}

// shortenSegment cuts an overlong segment and appends a stable hash of the full value.
func shortenSegment(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	cut := maxLen - len(hashPart)
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}

	return value[:cut] + hashPart
}
