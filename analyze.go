// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ModInfo is everything extracted from one mod archive in a single pass.
type ModInfo struct {
	// ID, Name and Version come from the resolved identity.
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	// JarPath is the archive file path.
	JarPath string `json:"jarPath" yaml:"jarPath"`
	// Format is the reference-locale storage format.
	Format LanguageFormat `json:"langFormat" yaml:"langFormat"`
	// LangFiles are the parsed files of the requested language.
	LangFiles []LanguageResource `json:"langFiles" yaml:"langFiles"`
	// PatchouliBooks are the guidebooks found in the archive.
	PatchouliBooks []GuidebookEntry `json:"patchouliBooks" yaml:"patchouliBooks"`
	// LangStats summarizes the language walk.
	LangStats LanguageStats `json:"langStats" yaml:"langStats"`
}

// LanguageStats reports partial success of one language walk.
type LanguageStats struct {
	Candidates int `json:"candidates" yaml:"candidates"`
	Matched    int `json:"matched" yaml:"matched"`
	Skipped    int `json:"skipped" yaml:"skipped"`
}

// AnalyzeOptions configures AnalyzeMod and AnalyzeMods.
type AnalyzeOptions struct {
	// Progress is called after each archive finishes with done and total counts.
	// It is called from worker goroutines.
	Progress func(done, total int) `json:"-" yaml:"-"`
	// Language selects which language files are parsed. Default is en_us.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	// Reader configures each archive reader.
	Reader ReaderOptions `json:"reader,omitzero" yaml:"reader,omitempty"`
	// MaxWorkers bounds concurrent archives. Default is GOMAXPROCS.
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// AllowUnknownIdentity substitutes an all-"unknown" identity when no metadata is usable.
	AllowUnknownIdentity bool `json:"allow_unknown_identity,omitempty" yaml:"allow_unknown_identity,omitempty"`
	// SkipBooks disables guidebook extraction.
	SkipBooks bool `json:"skip_books,omitempty" yaml:"skip_books,omitempty"`
}

// applyDefaults fills zero-valued analyze options with defaults.
func (opts *AnalyzeOptions) applyDefaults() {
	if opts.Language == "" {
		opts.Language = ReferenceLanguage
	}

	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}
}

// AnalyzeResult pairs one input path with its outcome.
type AnalyzeResult struct {
	// Err is the failure cause; Info is nil when set.
	Err   error    `json:"-" yaml:"-"`
	Info  *ModInfo `json:"info,omitempty" yaml:"info,omitempty"`
	Path  string   `json:"path" yaml:"path"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeMod opens one archive and extracts identity, language files and books.
func AnalyzeMod(path string, opts AnalyzeOptions) (*ModInfo, error) {
	opts.applyDefaults()

	r, err := OpenWithOptions(path, opts.Reader)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	identity, err := ResolveIdentity(r)
	if err != nil {
		if !opts.AllowUnknownIdentity || !errors.Is(err, ErrIdentityNotFound) {
			return nil, err
		}

		identity = newModIdentity(UnknownValue, "", "")
	}

	scan, err := ScanLanguage(r, opts.Language)
	if err != nil {
		return nil, err
	}

	info := &ModInfo{
		ID:        identity.ID,
		Name:      identity.DisplayName,
		Version:   identity.Version,
		JarPath:   path,
		Format:    scan.Format,
		LangFiles: scan.Resources,
		LangStats: LanguageStats{
			Candidates: scan.Candidates,
			Matched:    scan.Matched,
			Skipped:    scan.Skipped,
		},
		PatchouliBooks: []GuidebookEntry{},
	}

	if !opts.SkipBooks {
		books, err := ExtractBooks(r)
		if err != nil {
			return nil, err
		}

		info.PatchouliBooks = books
	}

	return info, nil
}

// AnalyzeMods analyzes independent archives on a bounded worker pool.
// Results keep input order and carry per-archive errors; the returned error
// is non-nil only when ctx is cancelled before every archive was scheduled.
func AnalyzeMods(ctx context.Context, paths []string, opts AnalyzeOptions) ([]AnalyzeResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts.applyDefaults()

	results := make([]AnalyzeResult, len(paths))
	for i, path := range paths {
		results[i].Path = path
	}

	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				results[i].Error = err.Error()
				return nil
			}

			info, err := AnalyzeMod(path, opts)
			if err != nil {
				results[i].Err = err
				results[i].Error = err.Error()
			} else {
				results[i].Info = info
			}

			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), len(paths))
			}

			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Info == nil && results[i].Err == nil {
				results[i].Err = err
				results[i].Error = err.Error()
			}
		}

		return results, err
	}

	return results, nil
}
