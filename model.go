// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/woozymasta/pathrules"
)

// Well-known archive paths and values.
const (
	// ReferenceLanguage is the locale every mod authors its source strings in.
	ReferenceLanguage = "en_us"
	// UnknownValue fills identity fields absent from metadata.
	UnknownValue = "unknown"

	fabricMetadataPath = "fabric.mod.json"
	forgeMetadataPath  = "META-INF/mods.toml"
	manifestPath       = "META-INF/MANIFEST.MF"
)

// Default reader and rewriter tuning values.
const (
	DefaultMaxEntrySize = 64 * 1024 * 1024
)

// ModIdentity is the id/name/version triple resolved from mod metadata.
type ModIdentity struct {
	// ID is the mod id; never empty in a resolved identity.
	ID string `json:"id" yaml:"id"`
	// DisplayName falls back to ID when metadata has no name.
	DisplayName string `json:"name" yaml:"name"`
	// Version falls back to "unknown" when metadata has no version.
	Version string `json:"version" yaml:"version"`
}

// LanguageFormat is the on-disk format of a mod's language files.
type LanguageFormat string

// Language file formats.
const (
	// FormatJSON is the flat JSON object format (1.13+).
	FormatJSON LanguageFormat = "json"
	// FormatLegacyKeyValue is the legacy line-oriented key=value format (.lang).
	FormatLegacyKeyValue LanguageFormat = "lang"
)

// Extension returns the file extension used for the format, including the dot.
func (f LanguageFormat) Extension() string {
	if f == FormatLegacyKeyValue {
		return ".lang"
	}

	return ".json"
}

// ParseLanguageFormat maps "lang"/"legacy" to FormatLegacyKeyValue and anything else to FormatJSON.
func ParseLanguageFormat(raw string) LanguageFormat {
	switch raw {
	case "lang", ".lang", "legacy":
		return FormatLegacyKeyValue
	default:
		return FormatJSON
	}
}

// LanguageResource is one language file's flat key to text mapping.
type LanguageResource struct {
	// Content maps translation keys to text.
	Content map[string]string `json:"content" yaml:"content"`
	// Language is the lower-cased language code, e.g. "ja_jp".
	Language string `json:"language" yaml:"language"`
	// Path is the archive-internal source path.
	Path string `json:"path" yaml:"path"`
}

// GuidebookEntry groups the page resources of one Patchouli book.
type GuidebookEntry struct {
	// ID is the book id (directory name under patchouli_books).
	ID string `json:"id" yaml:"id"`
	// ModID is the asset namespace that owns the book.
	ModID string `json:"modId" yaml:"modId"`
	// Name is the book display name from book.json, or ID.
	Name string `json:"name" yaml:"name"`
	// Path is the archive-internal book directory.
	Path string `json:"path" yaml:"path"`
	// LangFiles holds one resource per page file in discovery order.
	LangFiles []LanguageResource `json:"langFiles" yaml:"langFiles"`
}

// EntryInfo describes a single archive entry without its payload.
type EntryInfo struct {
	// Modified is the entry modification time.
	Modified time.Time `json:"modified,omitzero" yaml:"modified,omitempty"`
	// file is the backing central directory record.
	file *zip.File
	// Name is the normalized slash-separated entry path.
	Name string `json:"name" yaml:"name"`
	// RawName is the entry path exactly as stored.
	RawName string `json:"raw_name,omitempty" yaml:"raw_name,omitempty"`
	// Index is the physical position in the central directory.
	Index int `json:"index" yaml:"index"`
	// CompressedSize is the stored payload size in bytes.
	CompressedSize uint64 `json:"compressed_size" yaml:"compressed_size"`
	// UncompressedSize is the decompressed payload size in bytes.
	UncompressedSize uint64 `json:"uncompressed_size" yaml:"uncompressed_size"`
	// Method is the ZIP compression method id.
	Method uint16 `json:"method" yaml:"method"`
}

// IsDir reports whether entry is a directory record.
func (e *EntryInfo) IsDir() bool {
	return len(e.RawName) > 0 && (e.RawName[len(e.RawName)-1] == '/' || e.RawName[len(e.RawName)-1] == '\\')
}

// ReaderOptions configures archive reader behavior.
type ReaderOptions struct {
	// Diagnostics receives recoverable skip events; nil discards them.
	Diagnostics DiagnosticSink `json:"-" yaml:"-"`
	// Skip defines ordered path rules; matching entries are hidden from every walk.
	Skip []pathrules.Rule `json:"skip,omitempty" yaml:"skip,omitempty"`
	// SkipMatcherOptions control skip rule matching.
	SkipMatcherOptions pathrules.MatcherOptions `json:"skip_matcher_options,omitzero" yaml:"skip_matcher_options,omitempty"`
	// MaxEntrySize bounds one in-memory entry read. Default is 64 MiB.
	MaxEntrySize int64 `json:"max_entry_size,omitempty" yaml:"max_entry_size,omitempty"`
}

// RewriteOptions configures ReplaceEntry.
type RewriteOptions struct {
	// BackupKeep controls how many backup generations are kept after a successful rewrite.
	// 0 keeps no backup, 1 keeps only `<archive>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
	// Verify compares every payload of the new archive with its source before the swap.
	Verify bool `json:"verify,omitempty" yaml:"verify,omitempty"`
}

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.MaxEntrySize <= 0 {
		opts.MaxEntrySize = DefaultMaxEntrySize
	}

	if opts.Diagnostics == nil {
		opts.Diagnostics = discardSink{}
	}

	if opts.SkipMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.SkipMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.SkipMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.SkipMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}

// applyDefaults fills zero-valued rewrite options with defaults.
func (opts *RewriteOptions) applyDefaults() {
	if opts.BackupKeep < 0 {
		opts.BackupKeep = 0
	}
}
