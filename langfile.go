// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ParseLegacyLang parses legacy key=value language text.
// Blank lines, lines starting with '#', and lines without '=' are skipped.
// Keys and values are trimmed; the first '=' separates them.
func ParseLegacyLang(text string) map[string]string {
	content := make(map[string]string)
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		content[key] = strings.TrimSpace(value)
	}

	return content
}

// ParseLanguage parses language file bytes in the given format.
func ParseLanguage(data []byte, format LanguageFormat) (map[string]string, error) {
	text := Sanitize(data)
	if format == FormatLegacyKeyValue {
		return ParseLegacyLang(text), nil
	}

	content, _, _, err := parseLanguageJSON(text)
	return content, err
}

// MarshalLanguage serializes a key to text mapping for write-back.
// JSON output is indented with sorted keys and no HTML escaping; legacy output
// is sorted key=value lines.
func MarshalLanguage(entries map[string]string, format LanguageFormat) ([]byte, error) {
	if format == FormatLegacyKeyValue {
		return marshalLegacyLang(entries), nil
	}

	if entries == nil {
		entries = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode language json: %w", err)
	}

	return buf.Bytes(), nil
}

// marshalLegacyLang writes sorted key=value lines; line breaks in values are escaped.
func marshalLegacyLang(entries map[string]string) []byte {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		value := strings.ReplaceAll(entries[k], "\r\n", `\n`)
		value = strings.ReplaceAll(value, "\n", `\n`)

		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(value)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
