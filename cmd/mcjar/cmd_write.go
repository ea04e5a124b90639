// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package main

import (
	"github.com/spf13/cobra"

	"github.com/woozymasta/mcjar"
)

// existsResult is the has-translation command output.
type existsResult struct {
	Path     string `json:"path" yaml:"path"`
	ModID    string `json:"modId" yaml:"modId"`
	Language string `json:"language" yaml:"language"`
	Exists   bool   `json:"exists" yaml:"exists"`
}

// writtenResult reports a file written by a write command.
type writtenResult struct {
	Path string `json:"path" yaml:"path"`
}

func newHasTranslationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has-translation <jar> <modID>",
		Short: "Report whether the archive already ships the configured language",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := a.openArchive(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			return a.emit(existsResult{
				Path:     args[0],
				ModID:    args[1],
				Language: a.cfg.Language,
				Exists:   mcjar.HasLanguage(r, args[1], a.cfg.Language),
			})
		},
	}
}

func newWriteBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write-book <jar> <modID> <bookID> <file|->",
		Short: "Store a translated guidebook document inside the archive",
		Long: `write-book reads a JSON object of translated guidebook text and stores it at
assets/<modID>/patchouli_books/<bookID>/<language>.json inside the archive.
Any previous entry at that path is replaced; other entries are copied unchanged.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[3])
			if err != nil {
				return err
			}

			jar, modID, bookID := args[0], args[1], args[2]
			if err := mcjar.WriteGuidebookTranslation(jar, modID, bookID, a.cfg.Language, data, a.rewriteOptions()); err != nil {
				return err
			}

			entry := mcjar.BookTranslationPath(modID, bookID, a.cfg.Language)
			a.logger.Info("guidebook translation written", "archive", jar, "entry", entry)

			return a.emit(writtenResult{Path: jar + "!/" + entry})
		},
	}
}

func newPackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pack <dir> <name>",
		Short: "Create a resource pack skeleton for the configured language",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			packDir, err := mcjar.CreateResourcePack(args[0], args[1], a.cfg.Language)
			if err != nil {
				return err
			}

			a.logger.Info("resource pack created", "path", packDir)
			return a.emit(writtenResult{Path: packDir})
		},
	}
}

func newWriteLangCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "write-lang <packDir> <modID> <file|->",
		Short: "Write a translated language file into a resource pack",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[2])
			if err != nil {
				return err
			}

			// Input is always a JSON object; --format only selects the output layout.
			entries, err := mcjar.ParseLanguage(data, mcjar.FormatJSON)
			if err != nil {
				return err
			}

			target, err := mcjar.WriteLanguageFile(args[0], args[1], a.cfg.Language, entries, mcjar.ParseLanguageFormat(format))
			if err != nil {
				return err
			}

			a.logger.Info("language file written", "path", target, "keys", len(entries))
			return a.emit(writtenResult{Path: target})
		},
	}

	cmd.Flags().StringVar(&format, "format", string(mcjar.FormatJSON), "output format: json or lang")

	return cmd
}
