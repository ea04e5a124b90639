package mcjar

import (
	"errors"
	"testing"
)

func TestParseRelaxedStage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		in    string
		key   string
		want  string
		stage RecoveryStage
	}{
		{
			name:  "strict",
			in:    `{"a":"b"}`,
			key:   "a",
			want:  "b",
			stage: StageStrict,
		},
		{
			name:  "raw newline in string",
			in:    "{\"a\":\"line1\nline2\"}",
			key:   "a",
			want:  "line1 line2",
			stage: StageReescaped,
		},
		{
			name:  "raw tab in string",
			in:    "{\"a\":\"x\ty\"}",
			key:   "a",
			want:  "x y",
			stage: StageReescaped,
		},
		{
			name:  "invalid escape",
			in:    `{"a":"C:\path"}`,
			key:   "a",
			want:  `C:\path`,
			stage: StageReescaped,
		},
		{
			name:  "unicode escape kept",
			in:    "{\"a\":\"\\u00e9\tb\"}",
			key:   "a",
			want:  "é b",
			stage: StageReescaped,
		},
		{
			name:  "comment and trailing comma",
			in:    "{\n  \"_comment\": \"note\",\n  \"a\": \"b\",\n}\n",
			key:   "a",
			want:  "b",
			stage: StageLineRepair,
		},
		{
			name:  "slash comment",
			in:    "// generated\n{\"a\":\"b\"}",
			key:   "a",
			want:  "b",
			stage: StageLineRepair,
		},
		{
			name:  "comment with stray quote before bad escape",
			in:    "{\n // don't \"x\n \"a\": \"b\\q\tc\",\n}",
			key:   "a",
			want:  `b\q c`,
			stage: StageLineRepair,
		},
		{
			name:  "trailing comma in array",
			in:    "{\n\"a\": [\n\"x\",\n],\n\"b\": \"c\"\n}",
			key:   "b",
			want:  "c",
			stage: StageLineRepair,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc, stage, err := ParseRelaxedStage(tc.in)
			if err != nil {
				t.Fatalf("ParseRelaxedStage(%q): %v", tc.in, err)
			}
			if stage != tc.stage {
				t.Fatalf("ParseRelaxedStage(%q) stage=%s, want %s", tc.in, stage, tc.stage)
			}
			if got := doc.Get(tc.key).String(); got != tc.want {
				t.Fatalf("ParseRelaxedStage(%q)[%s]=%q, want %q", tc.in, tc.key, got, tc.want)
			}
		})
	}
}

func TestParseRelaxed_Failures(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   \n", `{"a": }`, `{"a": "b"`, "not json"} {
		_, stage, err := ParseRelaxedStage(in)
		if !errors.Is(err, ErrMalformedJSON) {
			t.Fatalf("ParseRelaxedStage(%q): expected ErrMalformedJSON, got %v", in, err)
		}
		if stage != StageFailed {
			t.Fatalf("ParseRelaxedStage(%q) stage=%s, want failed", in, stage)
		}
	}
}

func TestRecoveryStageString(t *testing.T) {
	t.Parallel()

	want := map[RecoveryStage]string{
		StageFailed:     "failed",
		StageStrict:     "strict",
		StageReescaped:  "reescaped",
		StageLineRepair: "line-repair",
	}
	for stage, name := range want {
		if got := stage.String(); got != name {
			t.Fatalf("RecoveryStage(%d).String()=%q, want %q", stage, got, name)
		}
	}
}

func TestRepairLines(t *testing.T) {
	t.Parallel()

	in := "{\n\n  \"_comment_1\": \"x\",\n  // note\n  \"k\": \"v\",  \n}"
	want := "{\n  \"k\": \"v\"\n}"
	if got := repairLines(in); got != want {
		t.Fatalf("repairLines(%q)=%q, want %q", in, got, want)
	}
}
