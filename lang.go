// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// LanguageScan is the result of one walk over an archive's language files.
type LanguageScan struct {
	// Resources are parsed files matching the requested language, in physical order.
	Resources []LanguageResource `json:"resources" yaml:"resources"`
	// Format is the reference-locale storage format; FormatJSON when FormatFound is false.
	Format LanguageFormat `json:"format" yaml:"format"`
	// FormatFound reports whether a reference-locale file was seen.
	FormatFound bool `json:"format_found" yaml:"format_found"`
	// Candidates counts language files of any locale.
	Candidates int `json:"candidates" yaml:"candidates"`
	// Matched counts language files of the requested locale.
	Matched int `json:"matched" yaml:"matched"`
	// Skipped counts matched files that could not be read or parsed.
	Skipped int `json:"skipped" yaml:"skipped"`
}

// langEntry is one classified language file.
type langEntry struct {
	code   string
	format LanguageFormat
}

// classifyLanguageEntry reports whether name is a language file and returns its code and format.
func classifyLanguageEntry(name string) (langEntry, bool) {
	if !strings.Contains(name, "/lang/") {
		return langEntry{}, false
	}

	stem, ext := splitBaseExt(name)
	var format LanguageFormat
	switch ext {
	case ".json":
		format = FormatJSON
	case ".lang":
		format = FormatLegacyKeyValue
	default:
		return langEntry{}, false
	}

	if stem == "" {
		return langEntry{}, false
	}

	return langEntry{code: strings.ToLower(stem), format: format}, true
}

// normalizeLanguageCode trims and lower-cases a language code.
func normalizeLanguageCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ScanLanguage walks every entry once, parses files of the requested language and
// records the reference-locale format. Unparseable files are skipped with a diagnostic.
func ScanLanguage(r *Reader, code string) (*LanguageScan, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	target := normalizeLanguageCode(code)
	scan := &LanguageScan{
		Resources: []LanguageResource{},
		Format:    FormatJSON,
	}

	for _, entry := range r.entries {
		if entry.IsDir() {
			continue
		}

		le, ok := classifyLanguageEntry(entry.Name)
		if !ok {
			continue
		}

		scan.Candidates++
		if !scan.FormatFound && le.code == ReferenceLanguage {
			scan.Format = le.format
			scan.FormatFound = true
		}

		if target == "" || le.code != target {
			continue
		}

		scan.Matched++
		content, ok := r.parseLanguageEntry(entry, le.format)
		if !ok {
			scan.Skipped++
			continue
		}

		scan.Resources = append(scan.Resources, LanguageResource{
			Content:  content,
			Language: le.code,
			Path:     entry.Name,
		})
	}

	return scan, nil
}

// ExtractLanguage returns every parsed language file of the requested code.
// The match is case-insensitive; no match yields an empty slice.
func ExtractLanguage(r *Reader, code string) ([]LanguageResource, error) {
	scan, err := ScanLanguage(r, code)
	if err != nil {
		return nil, err
	}

	return scan.Resources, nil
}

// DetectReferenceFormat returns the format of the first en_us language file.
// found is false and the format FormatJSON when the archive has none.
func DetectReferenceFormat(r *Reader) (LanguageFormat, bool) {
	if r == nil {
		return FormatJSON, false
	}

	for _, entry := range r.entries {
		le, ok := classifyLanguageEntry(entry.Name)
		if ok && !entry.IsDir() && le.code == ReferenceLanguage {
			return le.format, true
		}
	}

	return FormatJSON, false
}

// HasLanguage reports whether assets/<modID>/lang/<code>.json or .lang exists.
func HasLanguage(r *Reader, modID, code string) bool {
	if r == nil {
		return false
	}

	prefix := "assets/" + modID + "/lang/"
	target := normalizeLanguageCode(code)
	for _, entry := range r.entries {
		rest, ok := strings.CutPrefix(entry.Name, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}

		le, ok := classifyLanguageEntry(entry.Name)
		if ok && le.code == target {
			return true
		}
	}

	return false
}

// HasTranslation opens an archive and reports whether modID already ships the language.
func HasTranslation(path, modID, code string) (bool, error) {
	r, err := Open(path)
	if err != nil {
		return false, err
	}
	defer func() { _ = r.Close() }()

	return HasLanguage(r, modID, code), nil
}

// parseLanguageEntry reads and parses one language file; ok=false means skipped.
func (r *Reader) parseLanguageEntry(entry EntryInfo, format LanguageFormat) (map[string]string, bool) {
	data, err := r.ReadEntryInfo(entry)
	if err != nil {
		r.report(entry.Name, "skip unreadable language file", err)
		return nil, false
	}

	text := Sanitize(data)
	if format == FormatLegacyKeyValue {
		return ParseLegacyLang(text), true
	}

	content, stage, ignored, err := parseLanguageJSON(text)
	if err != nil {
		r.report(entry.Name, "skip unparseable language file", &ParseError{
			Archive: r.path,
			Entry:   entry.Name,
			Format:  string(FormatJSON),
			Err:     err,
		})
		return nil, false
	}

	if stage > StageStrict {
		r.report(entry.Name, "language file repaired ("+stage.String()+")", nil)
	}
	if ignored > 0 {
		r.report(entry.Name, fmt.Sprintf("ignored %d non-string values", ignored), nil)
	}

	return content, true
}

// parseLanguageJSON parses a flat lang-json object.
// "_comment" keys are dropped and non-string values are counted as ignored.
func parseLanguageJSON(text string) (map[string]string, RecoveryStage, int, error) {
	doc, stage, err := ParseRelaxedStage(text)
	if err != nil {
		return nil, stage, 0, err
	}

	if !doc.IsObject() {
		return nil, stage, 0, fmt.Errorf("%w: top-level value is not an object", ErrMalformedJSON)
	}

	content := make(map[string]string)
	ignored := 0
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if isCommentKey(k) {
			return true
		}

		if value.Type != gjson.String {
			ignored++
			return true
		}

		content[k] = value.String()
		return true
	})

	return content, stage, ignored, nil
}
