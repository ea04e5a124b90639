// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package main

import (
	"github.com/spf13/cobra"

	"github.com/woozymasta/mcjar"
)

// identityResult is one row of the identity command output.
type identityResult struct {
	Identity *mcjar.ModIdentity `json:"identity,omitempty" yaml:"identity,omitempty"`
	Path     string             `json:"path" yaml:"path"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// langsResult is the langs command output.
type langsResult struct {
	Path               string `json:"path" yaml:"path"`
	mcjar.LanguageScan `yaml:",inline"`
}

func newIdentityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identity <jar>...",
		Short: "Resolve mod id, name and version",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			results := make([]identityResult, 0, len(args))
			for _, path := range args {
				row := identityResult{Path: path}
				id, err := a.resolveIdentity(path)
				if err != nil {
					a.logger.Error("resolve identity", "archive", path, "err", err)
					row.Error = err.Error()
				} else {
					row.Identity = &id
				}

				results = append(results, row)
			}

			return a.emit(results)
		},
	}
}

// resolveIdentity opens one archive and resolves its identity.
func (a *app) resolveIdentity(path string) (mcjar.ModIdentity, error) {
	r, err := a.openArchive(path)
	if err != nil {
		return mcjar.ModIdentity{}, err
	}
	defer func() { _ = r.Close() }()

	return mcjar.ResolveIdentity(r)
}

func newLangsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "langs <jar>",
		Short: "Extract language files of the configured language",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := a.openArchive(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			scan, err := mcjar.ScanLanguage(r, a.cfg.Language)
			if err != nil {
				return err
			}

			a.logger.Info("language files read",
				"archive", args[0],
				"language", a.cfg.Language,
				"read", scan.Matched-scan.Skipped,
				"matched", scan.Matched,
				"format", scan.Format,
			)

			return a.emit(langsResult{LanguageScan: *scan, Path: args[0]})
		},
	}
}

func newBooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "books <jar>",
		Short: "Extract Patchouli guidebook text",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := a.openArchive(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			books, err := mcjar.ExtractBooks(r)
			if err != nil {
				return err
			}

			a.logger.Debug("guidebooks found", "archive", args[0], "count", len(books))
			return a.emit(books)
		},
	}
}
