package mcjar

import (
	"maps"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractLanguage_TestMod(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, testModEntries(), ReaderOptions{})

	got, err := ExtractLanguage(r, "ja_jp")
	if err != nil {
		t.Fatalf("ExtractLanguage(ja_jp): %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(resources)=%d, want 1", len(got))
	}
	if v := got[0].Content["item.testmod.test"]; v != "テストアイテム" {
		t.Fatalf("content[item.testmod.test]=%q, want テストアイテム", v)
	}
	if got[0].Path != "assets/testmod/lang/ja_jp.json" {
		t.Fatalf("Path=%q", got[0].Path)
	}

	none, err := ExtractLanguage(r, "zh_cn")
	if err != nil {
		t.Fatalf("ExtractLanguage(zh_cn): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("ExtractLanguage(zh_cn)=%v, want empty non-nil slice", none)
	}
}

func TestExtractLanguage_CaseInsensitive(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, []jarEntry{
		{name: "assets/m/lang/en_us.json", data: `{"k":"v"}`},
		{name: "assets/m/lang/ja_JP.json", data: `{"k":"ja"}`},
	}, ReaderOptions{})

	for _, code := range []string{"JA_JP", "ja_jp", "Ja_Jp", " ja_jp "} {
		got, err := ExtractLanguage(r, code)
		if err != nil {
			t.Fatalf("ExtractLanguage(%q): %v", code, err)
		}
		if len(got) != 1 || got[0].Language != "ja_jp" {
			t.Fatalf("ExtractLanguage(%q)=%+v, want one ja_jp resource", code, got)
		}
	}
}

func TestScanLanguage_LegacyFormat(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, []jarEntry{
		{name: "assets/old/lang/en_US.lang", data: "# comment\nitem.old.name=Old Item\n"},
		{name: "assets/old/lang/ja_JP.lang", data: "\xef\xbb\xbf# header\n\nitem.old.name = 古いアイテム\nbroken line\nurl=http://x/?a=b\n"},
		{name: "assets/old/lang/en_us.json", data: `{"k":"v"}`},
	}, ReaderOptions{})

	scan, err := ScanLanguage(r, "ja_jp")
	if err != nil {
		t.Fatalf("ScanLanguage: %v", err)
	}

	if scan.Format != FormatLegacyKeyValue || !scan.FormatFound {
		t.Fatalf("Format=%q found=%v, want lang true", scan.Format, scan.FormatFound)
	}
	if scan.Candidates != 3 || scan.Matched != 1 || scan.Skipped != 0 {
		t.Fatalf("stats=%d/%d/%d, want 3/1/0", scan.Candidates, scan.Matched, scan.Skipped)
	}

	want := map[string]string{
		"item.old.name": "古いアイテム",
		"url":           "http://x/?a=b",
	}
	if !maps.Equal(scan.Resources[0].Content, want) {
		t.Fatalf("content=%v, want %v", scan.Resources[0].Content, want)
	}

	format, found := DetectReferenceFormat(r)
	if format != FormatLegacyKeyValue || !found {
		t.Fatalf("DetectReferenceFormat=%q,%v, want lang,true", format, found)
	}
}

func TestScanLanguage_SkipsBrokenFile(t *testing.T) {
	t.Parallel()

	var sink DiagnosticCollector
	r := openTestJar(t, []jarEntry{
		{name: "assets/a/lang/ja_jp.json", data: `{"k": "v", "x": }`},
		{name: "assets/b/lang/ja_jp.json", data: `{"k":"b"}`},
	}, ReaderOptions{Diagnostics: &sink})

	scan, err := ScanLanguage(r, "ja_jp")
	if err != nil {
		t.Fatalf("ScanLanguage: %v", err)
	}

	if len(scan.Resources) != 1 || scan.Resources[0].Path != "assets/b/lang/ja_jp.json" {
		t.Fatalf("resources=%+v, want only assets/b", scan.Resources)
	}
	if scan.Matched != 2 || scan.Skipped != 1 {
		t.Fatalf("matched=%d skipped=%d, want 2/1", scan.Matched, scan.Skipped)
	}

	diags := sink.Diagnostics()
	if len(diags) != 1 || diags[0].Entry != "assets/a/lang/ja_jp.json" {
		t.Fatalf("diagnostics=%+v, want one event for assets/a", diags)
	}
	if diags[0].Err == nil {
		t.Fatal("diagnostic carries no cause")
	}
}

func TestScanLanguage_CommentAndTrailingComma(t *testing.T) {
	t.Parallel()

	var sink DiagnosticCollector
	r := openTestJar(t, []jarEntry{
		{name: "assets/m/lang/en_us.json", data: "{\n  \"_comment\": \"Blocks\",\n  \"block.m.stone\": \"Stone\",\n}\n"},
	}, ReaderOptions{Diagnostics: &sink})

	got, err := ExtractLanguage(r, "en_us")
	if err != nil {
		t.Fatalf("ExtractLanguage: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(resources)=%d, want 1", len(got))
	}

	want := map[string]string{"block.m.stone": "Stone"}
	if !maps.Equal(got[0].Content, want) {
		t.Fatalf("content=%v, want %v", got[0].Content, want)
	}

	diags := sink.Diagnostics()
	if len(diags) != 1 || !strings.Contains(diags[0].Reason, "line-repair") {
		t.Fatalf("diagnostics=%+v, want one repair event", diags)
	}
}

func TestParseLanguageJSON(t *testing.T) {
	t.Parallel()

	content, stage, ignored, err := parseLanguageJSON(`{"_comment":"x","_comment_2":"y","a":"1","n":5,"o":{"k":"v"}}`)
	if err != nil {
		t.Fatalf("parseLanguageJSON: %v", err)
	}
	if stage != StageStrict {
		t.Fatalf("stage=%s, want strict", stage)
	}
	if ignored != 2 {
		t.Fatalf("ignored=%d, want 2", ignored)
	}
	if !maps.Equal(content, map[string]string{"a": "1"}) {
		t.Fatalf("content=%v", content)
	}

	if _, _, _, err := parseLanguageJSON(`["a"]`); err == nil {
		t.Fatal("expected error for non-object document")
	}
}

func TestLanguageRoundTripIsStrict(t *testing.T) {
	t.Parallel()

	entries := map[string]string{
		"item.m.a":   "Quote \" and backslash \\",
		"item.m.b":   "<b>bold</b> & more",
		"item.m.c":   "line1\nline2",
		"item.m.jpn": "日本語",
	}

	payload, err := MarshalLanguage(entries, FormatJSON)
	if err != nil {
		t.Fatalf("MarshalLanguage: %v", err)
	}
	if strings.Contains(string(payload), `\u003c`) {
		t.Fatalf("payload escapes HTML: %s", payload)
	}

	got, stage, _, err := parseLanguageJSON(Sanitize(payload))
	if err != nil {
		t.Fatalf("parseLanguageJSON: %v", err)
	}
	if stage != StageStrict {
		t.Fatalf("stage=%s, want strict", stage)
	}
	if !maps.Equal(got, entries) {
		t.Fatalf("round trip=%v, want %v", got, entries)
	}
}

func TestMarshalLanguage(t *testing.T) {
	t.Parallel()

	entries := map[string]string{"b": "2", "a": "1\nx"}

	gotJSON, err := MarshalLanguage(entries, FormatJSON)
	if err != nil {
		t.Fatalf("MarshalLanguage json: %v", err)
	}
	wantJSON := "{\n  \"a\": \"1\\nx\",\n  \"b\": \"2\"\n}\n"
	if string(gotJSON) != wantJSON {
		t.Fatalf("json=%q, want %q", gotJSON, wantJSON)
	}

	gotLang, err := MarshalLanguage(entries, FormatLegacyKeyValue)
	if err != nil {
		t.Fatalf("MarshalLanguage lang: %v", err)
	}
	wantLang := "a=1\\nx\nb=2\n"
	if string(gotLang) != wantLang {
		t.Fatalf("lang=%q, want %q", gotLang, wantLang)
	}

	empty, err := MarshalLanguage(nil, FormatJSON)
	if err != nil {
		t.Fatalf("MarshalLanguage nil: %v", err)
	}
	if string(empty) != "{}\n" {
		t.Fatalf("nil json=%q, want {}", empty)
	}
}

func TestClassifyLanguageEntry(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		code   string
		format LanguageFormat
		ok     bool
	}{
		{name: "assets/m/lang/en_us.json", code: "en_us", format: FormatJSON, ok: true},
		{name: "assets/m/lang/EN_US.LANG", code: "en_us", format: FormatLegacyKeyValue, ok: true},
		{name: "data/m/lang/ja_jp.json", code: "ja_jp", format: FormatJSON, ok: true},
		{name: "assets/m/lang/ja_jp.txt"},
		{name: "lang/ja_jp.json"},
		{name: "assets/m/language/ja_jp.json"},
	}

	for _, tc := range testCases {
		got, ok := classifyLanguageEntry(tc.name)
		if ok != tc.ok {
			t.Fatalf("classifyLanguageEntry(%q) ok=%v, want %v", tc.name, ok, tc.ok)
		}
		if ok && (got.code != tc.code || got.format != tc.format) {
			t.Fatalf("classifyLanguageEntry(%q)=%+v, want %s/%s", tc.name, got, tc.code, tc.format)
		}
	}
}

func TestDetectReferenceFormat_None(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, []jarEntry{{name: "assets/m/lang/ja_jp.lang", data: "a=b"}}, ReaderOptions{})

	format, found := DetectReferenceFormat(r)
	if format != FormatJSON || found {
		t.Fatalf("DetectReferenceFormat=%q,%v, want json,false", format, found)
	}
}

func TestHasLanguage(t *testing.T) {
	t.Parallel()

	entries := append(testModEntries(), jarEntry{name: "assets/other/lang/sub/zh_cn.json", data: "{}"})
	path := createTestJar(t, t.TempDir(), "has.jar", entries)

	testCases := []struct {
		modID string
		code  string
		want  bool
	}{
		{modID: "testmod", code: "ja_jp", want: true},
		{modID: "testmod", code: "JA_JP", want: true},
		{modID: "testmod", code: "zh_cn", want: false},
		{modID: "other", code: "ja_jp", want: false},
		{modID: "other", code: "zh_cn", want: false},
	}

	for _, tc := range testCases {
		got, err := HasTranslation(path, tc.modID, tc.code)
		if err != nil {
			t.Fatalf("HasTranslation: %v", err)
		}
		if got != tc.want {
			t.Fatalf("HasTranslation(%q,%q)=%v, want %v", tc.modID, tc.code, got, tc.want)
		}
	}

	if _, err := HasTranslation(filepath.Join(t.TempDir(), "missing.jar"), "m", "ja_jp"); err == nil {
		t.Fatal("expected error for missing archive")
	}
}

func TestParseLegacyLang(t *testing.T) {
	t.Parallel()

	got := ParseLegacyLang("# c\n\n a = b \r\nnokey\n=empty\nk=v=w\n")
	want := map[string]string{"a": "b", "k": "v=w"}
	if !maps.Equal(got, want) {
		t.Fatalf("ParseLegacyLang=%v, want %v", got, want)
	}
}
