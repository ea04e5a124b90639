// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"
)

// pendingEntry is one staged entry written after every kept source entry.
type pendingEntry struct {
	name    string
	content []byte
}

// rewritePlan lists staged writes and removals keyed by normalized entry path.
type rewritePlan struct {
	drop map[string]struct{}
	puts []pendingEntry
}

// label returns the entry path used in error context.
func (p rewritePlan) label() string {
	switch len(p.puts) {
	case 0:
		return ""
	case 1:
		return p.puts[0].name
	default:
		return fmt.Sprintf("%s (+%d more)", p.puts[0].name, len(p.puts)-1)
	}
}

// ReplaceEntry rewrites archivePath so that entryPath holds content.
// Every other entry is copied with its original compressed bytes; existing
// entries named entryPath are dropped so the result never carries duplicates.
// On failure the original archive is left untouched.
func ReplaceEntry(archivePath, entryPath string, content []byte, opts RewriteOptions) error {
	e, err := OpenEditor(archivePath, opts)
	if err != nil {
		return err
	}

	if err := e.Put(entryPath, content); err != nil {
		return err
	}

	return e.Commit(context.Background())
}

// WriteGuidebookTranslation stores a translated page mapping as
// assets/<modID>/patchouli_books/<bookID>/<language>.json.
// contentJSON must hold a flat JSON object of strings.
func WriteGuidebookTranslation(archivePath, modID, bookID, language string, contentJSON []byte, opts RewriteOptions) error {
	entryPath := BookTranslationPath(modID, bookID, language)
	for _, segment := range []string{modID, bookID, language} {
		if strings.TrimSpace(segment) == "" || strings.ContainsAny(segment, `/\`) || segment == ".." {
			return &RewriteError{
				Archive: archivePath,
				Entry:   entryPath,
				Op:      "validate entry path",
				Err:     fmt.Errorf("%w: segment %q", ErrInvalidEntryPath, segment),
			}
		}
	}

	entries, err := ParseLanguage(contentJSON, FormatJSON)
	if err != nil {
		return &RewriteError{Archive: archivePath, Entry: entryPath, Op: "parse translation", Err: err}
	}

	payload, err := MarshalLanguage(entries, FormatJSON)
	if err != nil {
		return &RewriteError{Archive: archivePath, Entry: entryPath, Op: "encode translation", Err: err}
	}

	return ReplaceEntry(archivePath, entryPath, payload, opts)
}

// rewriteArchive builds the rewritten archive in a temporary file next to
// archivePath and swaps it in only after every step succeeded.
func rewriteArchive(ctx context.Context, archivePath string, plan rewritePlan, opts RewriteOptions) error {
	label := plan.label()
	fail := func(op string, cause error) error {
		return &RewriteError{Archive: archivePath, Entry: label, Op: op, Err: cause}
	}

	src, err := os.Open(archivePath)
	if err != nil {
		return fail("open source", err)
	}
	defer func() { _ = src.Close() }()

	srcInfo, err := src.Stat()
	if err != nil {
		return fail("stat source", err)
	}

	zr, err := zip.NewReader(src, srcInfo.Size())
	if err != nil && (zr == nil || !errors.Is(err, zip.ErrInsecurePath)) {
		return fail("parse source", err)
	}

	tmpPath := filepath.Join(filepath.Dir(archivePath), filepath.Base(archivePath)+"."+uuid.NewString()+".tmp")
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, srcInfo.Mode().Perm()|0o200)
	if err != nil {
		return fail("create temp", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	kept, err := writeRewritten(ctx, tmp, zr, plan)
	if err != nil {
		return fail("write archive", err)
	}

	if err := tmp.Sync(); err != nil {
		return fail("sync temp", err)
	}

	if err := tmp.Close(); err != nil {
		return fail("close temp", err)
	}

	if opts.Verify {
		if err := verifyRewrite(tmpPath, kept, plan); err != nil {
			return fail("verify", err)
		}
	}

	// Release the source handle before the swap; some platforms refuse to
	// rename over an open file.
	_ = src.Close()

	if err := swapArchive(archivePath, tmpPath, opts.BackupKeep); err != nil {
		// The temp file is the only remaining copy once the original is gone.
		committed = errors.Is(err, errArchiveRemoved)
		return fail("replace original", err)
	}

	committed = true
	return nil
}

// writeRewritten copies kept source entries raw and appends staged entries.
// It returns the kept source entries in write order.
func writeRewritten(ctx context.Context, dst io.Writer, zr *zip.Reader, plan rewritePlan) ([]*zip.File, error) {
	zw := zip.NewWriter(dst)
	if zr.Comment != "" {
		if err := zw.SetComment(zr.Comment); err != nil {
			return nil, fmt.Errorf("set comment: %w", err)
		}
	}

	kept := make([]*zip.File, 0, len(zr.File))
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, drop := plan.drop[entryPathKey(f.Name)]; drop {
			continue
		}

		if err := zw.Copy(f); err != nil {
			return nil, fmt.Errorf("copy entry %s: %w", f.Name, err)
		}

		kept = append(kept, f)
	}

	modified := time.Now()
	for _, p := range plan.puts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", p.name, err)
		}

		if _, err := w.Write(p.content); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", p.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return kept, nil
}

// verifyRewrite reopens the rewritten archive and compares payload digests
// of every kept entry and every staged entry with their sources.
func verifyRewrite(tmpPath string, kept []*zip.File, plan rewritePlan) error {
	out, err := zip.OpenReader(tmpPath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("reopen rewritten archive: %w", err)
	}
	defer func() { _ = out.Close() }()

	if want := len(kept) + len(plan.puts); len(out.File) != want {
		return fmt.Errorf("%w: %d entries, want %d", ErrVerifyMismatch, len(out.File), want)
	}

	for i, f := range kept {
		got := out.File[i]
		if got.Name != f.Name {
			return fmt.Errorf("%w: entry %d is %s, want %s", ErrVerifyMismatch, i, got.Name, f.Name)
		}

		wantSum, err := digestZipFile(f)
		if err != nil {
			return fmt.Errorf("digest source %s: %w", f.Name, err)
		}

		gotSum, err := digestZipFile(got)
		if err != nil {
			return fmt.Errorf("digest rewritten %s: %w", got.Name, err)
		}

		if gotSum != wantSum {
			return fmt.Errorf("%w: %s", ErrVerifyMismatch, f.Name)
		}
	}

	for i, p := range plan.puts {
		got := out.File[len(kept)+i]
		gotSum, err := digestZipFile(got)
		if err != nil {
			return fmt.Errorf("digest rewritten %s: %w", got.Name, err)
		}

		if got.Name != p.name || gotSum != blake3.Sum256(p.content) {
			return fmt.Errorf("%w: %s", ErrVerifyMismatch, p.name)
		}
	}

	return nil
}

// digestZipFile returns the BLAKE3 digest of one decompressed entry payload.
func digestZipFile(f *zip.File) ([32]byte, error) {
	var sum [32]byte

	rc, err := f.Open()
	if err != nil {
		return sum, err
	}
	defer func() { _ = rc.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, rc); err != nil {
		return sum, err
	}

	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// errArchiveRemoved marks a swap that removed the original but could not move
// the rewritten archive into place.
var errArchiveRemoved = errors.New("original archive removed")

// swapArchive moves tmpPath over path, keeping backup generations when requested.
func swapArchive(path, tmpPath string, keep int) error {
	if keep <= 0 {
		return replaceFile(tmpPath, path)
	}

	backupPath := path + ".bak"
	if err := prepareBackupSlot(backupPath, keep); err != nil {
		return err
	}

	if err := os.Rename(path, backupPath); err != nil {
		return fmt.Errorf("move archive to backup: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if rollbackErr := rollbackFromBackup(path, backupPath); rollbackErr != nil {
			return fmt.Errorf("rename temp: %w (rollback failed: %v)", err, rollbackErr)
		}

		return fmt.Errorf("rename temp: %w", err)
	}

	return nil
}

// replaceFile renames from over to, removing to first when the platform
// refuses to rename over an existing file.
func replaceFile(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}

	if rmErr := removeIfExists(to); rmErr != nil {
		return fmt.Errorf("rename temp: %w", err)
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename temp: %w: rewritten archive kept at %s: %w", errArchiveRemoved, from, err)
	}

	return nil
}

// prepareBackupSlot rotates existing backup generations before a new swap.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep <= 1 {
		return removeIfExists(backupPath)
	}

	if err := removeIfExists(fmt.Sprintf("%s.%d", backupPath, keep-1)); err != nil {
		return err
	}

	for i := keep - 2; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", backupPath, i)
		to := fmt.Sprintf("%s.%d", backupPath, i+1)
		if err := renameIfExists(from, to); err != nil {
			return err
		}
	}

	return renameIfExists(backupPath, backupPath+".1")
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// rollbackFromBackup restores the backup after a failed swap.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
