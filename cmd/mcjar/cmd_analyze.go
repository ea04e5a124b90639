// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/woozymasta/mcjar"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		progress     bool
		allowUnknown bool
		skipBooks    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <dir|jar>...",
		Short: "Analyze mod archives in parallel",
		Long: `Analyze resolves identity, extracts language files and guidebooks of every
given archive. Directories are walked recursively for *.jar files.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := collectJars(args)
			if err != nil {
				return err
			}

			if len(paths) == 0 {
				a.logger.Warn("no archives found", "inputs", args)
				return a.emit([]mcjar.AnalyzeResult{})
			}

			opts := mcjar.AnalyzeOptions{
				Language:             a.cfg.Language,
				Reader:               a.readerOptions(),
				MaxWorkers:           a.cfg.Workers,
				AllowUnknownIdentity: allowUnknown,
				SkipBooks:            skipBooks,
			}

			if progress {
				bar := progressbar.NewOptions(len(paths),
					progressbar.OptionSetWriter(a.errOut),
					progressbar.OptionSetDescription("Analyzing"),
					progressbar.OptionSetPredictTime(true),
					progressbar.OptionShowCount(),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "=",
						SaucerHead:    ">",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
				)
				opts.Progress = func(_, _ int) { _ = bar.Add(1) }
				defer func() { _ = bar.Finish() }()
			}

			results, err := mcjar.AnalyzeMods(cmd.Context(), paths, opts)
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					a.logger.Warn("analyze failed", "archive", res.Path, "err", res.Err)
				}
			}

			a.logger.Info("analysis complete", "archives", len(paths), "failed", failed)
			if emitErr := a.emit(results); emitErr != nil {
				return emitErr
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")
	cmd.Flags().BoolVar(&allowUnknown, "allow-unknown", false, "analyze archives without mod metadata as \"unknown\"")
	cmd.Flags().BoolVar(&skipBooks, "skip-books", false, "do not extract guidebooks")

	return cmd
}

// collectJars expands directories into the sorted *.jar files below them.
// Plain file arguments are kept as given.
func collectJars(inputs []string) ([]string, error) {
	var paths []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}

		seen[p] = struct{}{}
		paths = append(paths, p)
	}

	for _, input := range inputs {
		fi, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !fi.IsDir() {
			add(input)
			continue
		}

		var found []string
		err = filepath.WalkDir(input, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".jar") {
				found = append(found, p)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", input, err)
		}

		slices.Sort(found)
		for _, p := range found {
			add(p)
		}
	}

	return paths, nil
}
