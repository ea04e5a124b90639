// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"errors"
	"slices"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestSkipMatcherMatch(t *testing.T) {
	t.Parallel()

	matcher, err := newSkipMatcher(SkipRules(
		"*.png",
		"textures/",
		"/META-INF/**/*.SF",
	), pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	cases := []struct {
		name string
		path string
		want bool
	}{
		{name: "extension rule", path: `assets\m\icon.PNG`, want: true},
		{name: "dir-only rule", path: "assets/m/textures/block/a.mcmeta", want: true},
		{name: "anchored root match", path: "META-INF/sig/CERT.SF", want: true},
		{name: "anchored root miss", path: "x/META-INF/sig/CERT.SF", want: false},
		{name: "no match", path: "assets/m/lang/en_us.json", want: false},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := matcher.Match(tc.path, false)
			if got != tc.want {
				t.Fatalf("Match(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestSkipMatcher_Nil(t *testing.T) {
	t.Parallel()

	matcher, err := newSkipMatcher(SkipRules("", "  "), pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}
	if matcher != nil {
		t.Fatal("empty rules should produce a nil matcher")
	}
	if matcher.Match("a.png", false) {
		t.Fatal("nil matcher matched")
	}
}

func TestSkipRules(t *testing.T) {
	t.Parallel()

	rules := SkipRules(" *.png ", "", "!keep.png")
	want := []pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "*.png"},
		{Action: pathrules.ActionExclude, Pattern: "keep.png"},
	}
	if len(rules) != len(want) {
		t.Fatalf("len(SkipRules)=%d, want %d", len(rules), len(want))
	}
	for i := range want {
		if rules[i].Action != want[i].Action || rules[i].Pattern != want[i].Pattern {
			t.Fatalf("SkipRules[%d]=%+v, want %+v", i, rules[i], want[i])
		}
	}
}

func TestOpenWithOptions_SkipNegation(t *testing.T) {
	t.Parallel()

	r := openTestJar(t, []jarEntry{
		{name: "a.png", data: "a"},
		{name: "keep.png", data: "k"},
		{name: "b.json", data: "{}"},
	}, ReaderOptions{Skip: SkipRules("*.png", "!keep.png")})

	got := slices.Collect(r.Names())
	want := []string{"keep.png", "b.json"}
	if !slices.Equal(got, want) {
		t.Fatalf("Names=%v, want %v", got, want)
	}

	if _, err := r.ReadEntry("a.png"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("skipped entry readable: %v", err)
	}
}
