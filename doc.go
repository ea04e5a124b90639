// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

/*
Package mcjar extracts localizable text from Minecraft mod archives (JAR/ZIP)
and writes translated content back without touching unrelated entries.

Mod archives are authored by thousands of independent people and routinely
carry stray control bytes, invalid UTF-8, comments and trailing commas in JSON,
and guidebook pages that no strict parser accepts. Every text payload passes
through Sanitize before parsing, JSON goes through the ParseRelaxed recovery
ladder, and per-entry failures are reported to a DiagnosticSink instead of
aborting the whole archive.

Recovery ladder (summary):
  - strict parse, returned untouched when valid;
  - string literal repair: control characters become a space, bad escapes are doubled;
  - line repair: "_comment" and "//" lines and blank lines are dropped,
    trailing commas before a closing brace are stripped;
  - otherwise ErrMalformedJSON.

# Reading

Open a mod and resolve its identity:

	r, err := mcjar.Open("mods/example.jar")
	if err != nil {
	    return err
	}
	defer r.Close()
	id, err := mcjar.ResolveIdentity(r)
	if err != nil {
	    return err
	}
	_ = id.ID

Identity probes run in order: fabric.mod.json, META-INF/mods.toml, then
META-INF/MANIFEST.MF presence. Further probes can be appended:

	probes := append(mcjar.DefaultIdentityProbes(), myProbe)
	id, err := mcjar.ResolveIdentityWith(r, probes...)

Extract one language and the reference-locale format:

	scan, err := mcjar.ScanLanguage(r, "ja_jp")
	if err != nil {
	    return err
	}
	fmt.Printf("%d of %d language files read\n", scan.Matched-scan.Skipped, scan.Matched)
	_ = scan.Format

Collect skipped entries through a sink (charmbracelet/log adapter shown):

	r, err := mcjar.OpenWithOptions("mods/example.jar", mcjar.ReaderOptions{
	    Diagnostics: mcjar.NewLogSink(logger),
	    Skip:        mcjar.SkipRules("*.class", "*.png"),
	})

# Guidebooks

ExtractBooks groups Patchouli pages under
assets/<mod>/patchouli_books/<book>/en_us/ by book. Field values are located
with a pattern scan rather than a JSON parse and kept as written:

	books, err := mcjar.ExtractBooks(r)
	if err != nil {
	    return err
	}
	for _, b := range books {
	    _ = b.LangFiles
	}

# Writing

Inject a translated guidebook file (the original is replaced only after the
new archive is fully written):

	err := mcjar.WriteGuidebookTranslation("mods/example.jar", "example", "guide", "ja_jp",
	    []byte(`{"title":"ガイド"}`), mcjar.RewriteOptions{BackupKeep: 1, Verify: true})

Stage several entries in one rewrite:

	editor, err := mcjar.OpenEditor("mods/example.jar", mcjar.RewriteOptions{})
	if err != nil {
	    return err
	}
	_ = editor.Put("assets/example/lang/ja_jp.json", payload)
	if err := editor.Commit(ctx); err != nil {
	    return err
	}

# Batch

AnalyzeMods processes independent archives on a bounded worker pool and keeps
per-archive errors in the results:

	results, err := mcjar.AnalyzeMods(ctx, paths, mcjar.AnalyzeOptions{MaxWorkers: 4})
*/
package mcjar
