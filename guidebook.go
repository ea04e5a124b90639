// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// bookPagePattern matches assets/<mod>/patchouli_books/<book>/en_us/<relative>.json.
	bookPagePattern = regexp.MustCompile(`^assets/([^/]+)/patchouli_books/([^/]+)/en_us/(.+)\.json$`)
	// bookFieldPattern matches a translatable key up to the opening quote of its value.
	bookFieldPattern = regexp.MustCompile(`"(name|description|title|text)"\s*:\s*"`)
)

// BookField is one translatable value located in a page file.
type BookField struct {
	// Key is the field name, suffixed "#N" for its N-th occurrence (N >= 2).
	Key string
	// Value is the raw text between the quotes, escapes left as written.
	Value string
	// Start and End are byte offsets of Value in the page text.
	Start int
	End   int
}

// ScanBookFields locates name, description, title and text string values in
// page text without parsing it as JSON. A closing quote preceded by an odd
// number of backslashes is escaped and does not end the value.
func ScanBookFields(text string) []BookField {
	matches := bookFieldPattern.FindAllStringSubmatchIndex(text, -1)
	fields := make([]BookField, 0, len(matches))
	seen := make(map[string]int, 4)

	next := 0
	for _, m := range matches {
		if m[0] < next {
			// Match started inside the previous value.
			continue
		}

		start := m[1]
		end, ok := findClosingQuote(text, start)
		if !ok {
			break
		}
		next = end + 1

		name := text[m[2]:m[3]]
		seen[name]++
		key := name
		if n := seen[name]; n > 1 {
			key = name + "#" + strconv.Itoa(n)
		}

		fields = append(fields, BookField{
			Key:   key,
			Value: text[start:end],
			Start: start,
			End:   end,
		})
	}

	return fields
}

// findClosingQuote returns the offset of the first unescaped '"' at or after from.
func findClosingQuote(text string, from int) (int, bool) {
	for i := from; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}

		if precedingBackslashes(text, i)%2 == 0 {
			return i, true
		}
	}

	return 0, false
}

// precedingBackslashes counts consecutive backslashes directly before text[i].
func precedingBackslashes(text string, i int) int {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}

	return n
}

// ApplyPageTranslation replaces located field values with translated raw text.
// Keys follow ScanBookFields naming; absent keys keep the source value.
func ApplyPageTranslation(text string, translated map[string]string) string {
	fields := ScanBookFields(text)
	if len(fields) == 0 || len(translated) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, f := range fields {
		value, ok := translated[f.Key]
		if !ok {
			continue
		}

		b.WriteString(text[last:f.Start])
		b.WriteString(value)
		last = f.End
	}
	b.WriteString(text[last:])

	return b.String()
}

// bookKey identifies one book inside an archive.
type bookKey struct {
	modID  string
	bookID string
}

// ExtractBooks groups every en_us Patchouli page file by (mod id, book id).
// Unreadable pages are skipped with a diagnostic.
func ExtractBooks(r *Reader) ([]GuidebookEntry, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	books := []GuidebookEntry{}
	index := make(map[bookKey]int)

	for _, entry := range r.entries {
		if entry.IsDir() {
			continue
		}

		m := bookPagePattern.FindStringSubmatch(entry.Name)
		if m == nil {
			continue
		}

		key := bookKey{modID: m[1], bookID: m[2]}
		data, err := r.ReadEntryInfo(entry)
		if err != nil {
			r.report(entry.Name, "skip unreadable guidebook page", err)
			continue
		}

		content := make(map[string]string)
		for _, f := range ScanBookFields(Sanitize(data)) {
			content[f.Key] = f.Value
		}

		pos, ok := index[key]
		if !ok {
			pos = len(books)
			index[key] = pos
			books = append(books, GuidebookEntry{
				ID:    key.bookID,
				ModID: key.modID,
				Name:  r.bookDisplayName(key),
				Path:  "assets/" + key.modID + "/patchouli_books/" + key.bookID,
			})
		}

		books[pos].LangFiles = append(books[pos].LangFiles, LanguageResource{
			Content:  content,
			Language: ReferenceLanguage,
			Path:     entry.Name,
		})
	}

	return books, nil
}

// bookDisplayName reads the book.json name, falling back to the book id.
func (r *Reader) bookDisplayName(key bookKey) string {
	for _, root := range []string{"data", "assets"} {
		name := root + "/" + key.modID + "/patchouli_books/" + key.bookID + "/book.json"
		data, err := r.ReadEntry(name)
		if err != nil {
			continue
		}

		doc, err := ParseRelaxed(Sanitize(data))
		if err != nil {
			r.report(name, "skip unparseable book descriptor", err)
			continue
		}

		if v := doc.Get("name"); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return strings.TrimSpace(v.String())
		}
	}

	return key.bookID
}

// BookTranslationPath returns assets/<modID>/patchouli_books/<bookID>/<language>.json.
func BookTranslationPath(modID, bookID, language string) string {
	return "assets/" + modID + "/patchouli_books/" + bookID + "/" + normalizeLanguageCode(language) + ".json"
}
