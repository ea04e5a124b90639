// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/woozymasta/mcjar"
	"github.com/woozymasta/mcjar/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// app carries state shared by every subcommand of one invocation.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	out     io.Writer
	errOut  io.Writer
	cfgFile string
}

// newRootCmd builds the command tree writing results to out and logs to errOut.
func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "mcjar",
		Short: "Extract and write back localizable text in Minecraft mod archives",
		Long: `mcjar reads mod JAR files, resolves their identity, extracts language
files and Patchouli guidebook text, and injects translated files back into
the archive without touching other entries.`,
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is <user config dir>/mcjar/mcjar.yaml)")
	flags.StringP("language", "l", "", "target language code, e.g. ja_jp")
	flags.StringP("output", "o", "", "result encoding: json or yaml")
	flags.Int("workers", 0, "concurrent archives for batch commands (0 = GOMAXPROCS)")
	flags.Int64("max-entry-size", 0, "maximum bytes read from one entry")
	flags.StringSlice("skip", nil, "gitignore-style patterns of entries to ignore")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text, json, logfmt")
	flags.Int("backup-keep", 0, "backup generations kept when rewriting archives")
	flags.Bool("verify", false, "verify rewritten archives before replacing the original")

	root.AddCommand(
		newIdentityCmd(a),
		newLangsCmd(a),
		newBooksCmd(a),
		newAnalyzeCmd(a),
		newHasTranslationCmd(a),
		newWriteBookCmd(a),
		newPackCmd(a),
		newWriteLangCmd(a),
	)

	root.SetOut(out)
	root.SetErr(errOut)

	return root
}

// init loads configuration and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg, path, err := config.Load(config.LoadOptions{
		ConfigFilePath: a.cfgFile,
		Flags:          cmd.Flags(),
	})
	if err != nil {
		return err
	}

	logger, err := newLogger(a.errOut, cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	if path != "" {
		a.logger.Debug("loaded config", "path", path)
	}

	return nil
}

// newLogger builds a structured logger from log settings.
func newLogger(w io.Writer, cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Prefix:    "mcjar",
		Formatter: formatter,
	}), nil
}

// readerOptions maps configuration to archive reader options.
func (a *app) readerOptions() mcjar.ReaderOptions {
	return mcjar.ReaderOptions{
		Diagnostics:  mcjar.NewLogSink(a.logger),
		Skip:         mcjar.SkipRules(a.cfg.Skip...),
		MaxEntrySize: a.cfg.MaxEntrySize,
	}
}

// rewriteOptions maps configuration to rewrite options.
func (a *app) rewriteOptions() mcjar.RewriteOptions {
	return mcjar.RewriteOptions{
		BackupKeep: a.cfg.Rewrite.BackupKeep,
		Verify:     a.cfg.Rewrite.Verify,
	}
}

// openArchive opens one archive with configured reader options.
func (a *app) openArchive(path string) (*mcjar.Reader, error) {
	return mcjar.OpenWithOptions(path, a.readerOptions())
}
