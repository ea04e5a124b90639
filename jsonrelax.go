// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RecoveryStage identifies which step of the relaxed JSON ladder accepted a document.
type RecoveryStage uint8

// Recovery stages in the order they are tried.
const (
	// StageFailed means no step produced valid JSON.
	StageFailed RecoveryStage = iota
	// StageStrict means the text was valid JSON as is.
	StageStrict
	// StageReescaped means string literals needed control character or escape repair.
	StageReescaped
	// StageLineRepair means comment lines, blank lines or trailing commas were removed.
	StageLineRepair
)

// String returns the stage name.
func (s RecoveryStage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageReescaped:
		return "reescaped"
	case StageLineRepair:
		return "line-repair"
	default:
		return "failed"
	}
}

// ParseRelaxed parses sanitized text as JSON, repairing common mod-authored defects.
// Failure wraps ErrMalformedJSON.
func ParseRelaxed(text string) (gjson.Result, error) {
	res, _, err := ParseRelaxedStage(text)
	return res, err
}

// ParseRelaxedStage is ParseRelaxed that also reports the accepting stage.
func ParseRelaxedStage(text string) (gjson.Result, RecoveryStage, error) {
	if gjson.Valid(text) {
		return gjson.Parse(text), StageStrict, nil
	}

	escaped := reescapeStrings(text)
	if gjson.Valid(escaped) {
		return gjson.Parse(escaped), StageReescaped, nil
	}

	// Line repair runs on the re-escaped text first; a raw newline inside a
	// string would otherwise split one logical line in two. A dropped comment
	// line with unbalanced quotes misleads the string scan, so the raw text is
	// also repaired before re-escaping.
	repairedRaw := repairLines(text)
	for _, candidate := range []string{repairLines(escaped), repairedRaw, reescapeStrings(repairedRaw)} {
		if gjson.Valid(candidate) {
			return gjson.Parse(candidate), StageLineRepair, nil
		}
	}

	if strings.TrimSpace(text) == "" {
		return gjson.Result{}, StageFailed, fmt.Errorf("%w: empty document", ErrMalformedJSON)
	}

	return gjson.Result{}, StageFailed, fmt.Errorf("%w: unrecoverable after line repair", ErrMalformedJSON)
}

// reescapeStrings rewrites string literals so a strict parser accepts them.
// Valid escapes pass through, other backslashes are doubled, and raw control
// characters inside strings become a space.
func reescapeStrings(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !inString {
			if c == '"' {
				inString = true
			}

			b.WriteByte(c)
			continue
		}

		switch {
		case c == '"':
			inString = false
			b.WriteByte(c)

		case c == '\\':
			n := escapeLength(text, i)
			switch {
			case n > 0:
				b.WriteString(text[i : i+n])
				i += n - 1
			case i+1 < len(text) && text[i+1] < 0x20:
				b.WriteByte(' ')
				i++
			default:
				b.WriteString(`\\`)
			}

		case c < 0x20:
			b.WriteByte(' ')

		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// escapeLength returns the byte length of a valid JSON escape starting at text[i], or 0.
func escapeLength(text string, i int) int {
	if i+1 >= len(text) {
		return 0
	}

	switch text[i+1] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return 2
	case 'u':
		if i+6 > len(text) {
			return 0
		}

		for _, h := range []byte(text[i+2 : i+6]) {
			if !isHexDigit(h) {
				return 0
			}
		}

		return 6
	default:
		return 0
	}
}

// isHexDigit reports whether byte is one ASCII hexadecimal character.
func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') ||
		(ch >= 'a' && ch <= 'f') ||
		(ch >= 'A' && ch <= 'F')
}

// repairLines drops comment-like and blank lines and strips a trailing comma
// from any line directly followed by a closing brace or bracket.
func repairLines(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if isDroppableLine(line) {
			continue
		}

		kept = append(kept, line)
	}

	for i := 0; i+1 < len(kept); i++ {
		next := strings.TrimSpace(kept[i+1])
		if !strings.HasPrefix(next, "}") && !strings.HasPrefix(next, "]") {
			continue
		}

		line := strings.TrimRight(kept[i], " \t\r")
		kept[i] = strings.TrimSuffix(line, ",")
	}

	return strings.Join(kept, "\n")
}

// isDroppableLine reports whether a line is blank or carries only a comment convention.
func isDroppableLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, `"_comment`) ||
		strings.HasPrefix(trimmed, "//")
}

// isCommentKey reports whether a lang-json key is a "_comment" pseudo entry.
func isCommentKey(key string) bool {
	return strings.HasPrefix(key, "_comment")
}
