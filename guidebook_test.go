package mcjar

import (
	"maps"
	"strings"
	"testing"
)

const testBookPage = `{
  "name": "Intro",
  "icon": "minecraft:book",
  "pages": [
    {"type": "patchouli:text", "text": "He said \"hi\" to $(item)Steve$()"},
    {"type": "patchouli:spotlight", "title": "Spot", "text": "C:\\"}
  ],
  "description": "First steps"
}`

func TestScanBookFields(t *testing.T) {
	t.Parallel()

	fields := ScanBookFields(testBookPage)

	want := []struct {
		key   string
		value string
	}{
		{key: "name", value: "Intro"},
		{key: "text", value: `He said \"hi\" to $(item)Steve$()`},
		{key: "title", value: "Spot"},
		{key: "text#2", value: `C:\\`},
		{key: "description", value: "First steps"},
	}

	if len(fields) != len(want) {
		t.Fatalf("len(fields)=%d, want %d: %+v", len(fields), len(want), fields)
	}
	for i, w := range want {
		if fields[i].Key != w.key || fields[i].Value != w.value {
			t.Fatalf("fields[%d]=%q:%q, want %q:%q", i, fields[i].Key, fields[i].Value, w.key, w.value)
		}
		if testBookPage[fields[i].Start:fields[i].End] != w.value {
			t.Fatalf("fields[%d] offsets do not cover value", i)
		}
	}
}

func TestScanBookFields_EdgeCases(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "not json at all",
			in:   "garbage \"title\" : \"Still found\" \x01 more",
			want: map[string]string{"title": "Still found"},
		},
		{
			name: "unterminated value stops scan",
			in:   `{"name": "ok", "text": "never closed`,
			want: map[string]string{"name": "ok"},
		},
		{
			name: "other keys ignored",
			in:   `{"type": "x", "anchor": "a", "text": "t"}`,
			want: map[string]string{"text": "t"},
		},
		{
			name: "key inside value is not a field",
			in:   `{"text": "use \"name\": \"x\" here"}`,
			want: map[string]string{"text": `use \"name\": \"x\" here`},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := make(map[string]string)
			for _, f := range ScanBookFields(tc.in) {
				got[f.Key] = f.Value
			}
			if !maps.Equal(got, tc.want) {
				t.Fatalf("ScanBookFields(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestApplyPageTranslation(t *testing.T) {
	t.Parallel()

	got := ApplyPageTranslation(testBookPage, map[string]string{
		"name":   "はじめに",
		"text#2": `D:\\`,
		"other":  "ignored",
	})

	if !strings.Contains(got, `"name": "はじめに"`) {
		t.Fatalf("name not replaced: %s", got)
	}
	if !strings.Contains(got, `"text": "D:\\"`) {
		t.Fatalf("second text not replaced: %s", got)
	}
	if !strings.Contains(got, `"title": "Spot"`) || !strings.Contains(got, `He said \"hi\"`) {
		t.Fatalf("untranslated fields changed: %s", got)
	}

	if ApplyPageTranslation(testBookPage, nil) != testBookPage {
		t.Fatal("nil translation changed the page")
	}
}

func TestExtractBooks(t *testing.T) {
	t.Parallel()

	var sink DiagnosticCollector
	r := openTestJar(t, []jarEntry{
		{name: "fabric.mod.json", data: `{"id":"m"}`},
		{name: "data/m/patchouli_books/guide/book.json", data: `{"name": "Guide Book", "landing_text": "x"}`},
		{name: "assets/m/patchouli_books/guide/en_us/entries/intro.json", data: testBookPage},
		{name: "assets/m/patchouli_books/guide/ja_jp/entries/intro.json", data: `{"name":"はじめに"}`},
		{name: "assets/m/patchouli_books/other/en_us/solo.json", data: `{"title":"Solo"}`},
		{name: "assets/m/patchouli_books/guide/en_us/categories/basics.json", data: "{\"name\":\"Basics\",\x00\"description\":\"Start\"}"},
		{name: "assets/m/patchouli_books/guide/en_us/huge.json", data: strings.Repeat("x", 4096)},
	}, ReaderOptions{Diagnostics: &sink, MaxEntrySize: 1024})

	books, err := ExtractBooks(r)
	if err != nil {
		t.Fatalf("ExtractBooks: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("len(books)=%d, want 2: %+v", len(books), books)
	}

	guide := books[0]
	if guide.ID != "guide" || guide.ModID != "m" || guide.Name != "Guide Book" {
		t.Fatalf("guide=%+v", guide)
	}
	if guide.Path != "assets/m/patchouli_books/guide" {
		t.Fatalf("guide.Path=%q", guide.Path)
	}
	if len(guide.LangFiles) != 2 {
		t.Fatalf("len(guide.LangFiles)=%d, want 2", len(guide.LangFiles))
	}

	page := guide.LangFiles[0]
	if page.Language != ReferenceLanguage || page.Path != "assets/m/patchouli_books/guide/en_us/entries/intro.json" {
		t.Fatalf("page=%+v", page)
	}
	if page.Content["text"] != `He said \"hi\" to $(item)Steve$()` {
		t.Fatalf("page text=%q", page.Content["text"])
	}

	basics := guide.LangFiles[1].Content
	if basics["name"] != "Basics" || basics["description"] != "Start" {
		t.Fatalf("basics=%v", basics)
	}

	other := books[1]
	if other.ID != "other" || other.Name != "other" || other.LangFiles[0].Content["title"] != "Solo" {
		t.Fatalf("other=%+v", other)
	}

	diags := sink.Diagnostics()
	if len(diags) != 1 || diags[0].Entry != "assets/m/patchouli_books/guide/en_us/huge.json" {
		t.Fatalf("diagnostics=%+v, want one oversized page event", diags)
	}
}

func TestExtractBooks_NoBooks(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, testModEntries(), ReaderOptions{})
	books, err := ExtractBooks(r)
	if err != nil {
		t.Fatalf("ExtractBooks: %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Fatalf("books=%v, want empty non-nil slice", books)
	}
}

func TestBookTranslationPath(t *testing.T) {
	t.Parallel()

	got := BookTranslationPath("m", "guide", "JA_JP")
	want := "assets/m/patchouli_books/guide/ja_jp.json"
	if got != want {
		t.Fatalf("BookTranslationPath=%q, want %q", got, want)
	}
}
