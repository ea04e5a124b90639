// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"fmt"
	"strings"

	"github.com/woozymasta/pathrules"
)

// skipMatcher holds compiled rules for entries hidden from archive walks.
type skipMatcher struct {
	matcher *pathrules.Matcher
}

// newSkipMatcher compiles skip path rules; no rules yields a nil matcher.
func newSkipMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*skipMatcher, error) {
	rules = normalizeSkipRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidSkipRule, err)
	}

	return &skipMatcher{matcher: matcher}, nil
}

// normalizeSkipRules normalizes rule patterns and drops empty patterns.
func normalizeSkipRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether path is selected for skipping.
func (m *skipMatcher) Match(p string, isDir bool) bool {
	if m == nil || m.matcher == nil {
		return false
	}

	candidate := NormalizePath(p)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, isDir)
}

// SkipRules builds include rules from raw patterns; included paths are skipped by readers.
func SkipRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		action := pathrules.ActionInclude
		if strings.HasPrefix(pattern, "!") {
			action = pathrules.ActionExclude
			pattern = strings.TrimPrefix(pattern, "!")
		}

		rules = append(rules, pathrules.Rule{
			Action:  action,
			Pattern: pattern,
		})
	}

	return rules
}

// filterVisibleEntries drops skipped and empty-name entries.
func filterVisibleEntries(entries []EntryInfo, skip *skipMatcher) []EntryInfo {
	if skip == nil {
		return entries
	}

	out := make([]EntryInfo, 0, len(entries))
	for _, entry := range entries {
		if skip.Match(entry.Name, entry.IsDir()) {
			continue
		}

		out = append(out, entry)
	}

	return out
}

