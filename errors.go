// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"errors"
	"fmt"
)

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrArchiveOpen means the archive is missing, unreadable, or not a ZIP container.
	ErrArchiveOpen = errors.New("cannot open archive")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryTooLarge means the entry payload exceeds the configured in-memory read limit.
	ErrEntryTooLarge = errors.New("entry exceeds read size limit")
	// ErrIdentityNotFound means no usable mod metadata format is present.
	ErrIdentityNotFound = errors.New("no usable mod metadata")
	// ErrMalformedJSON means JSON text could not be recovered by any repair step.
	ErrMalformedJSON = errors.New("malformed JSON")
	// ErrMalformedTOML means TOML text could not be parsed.
	ErrMalformedTOML = errors.New("malformed TOML")
	// ErrRewrite means archive rewrite failed and the original archive was left untouched.
	ErrRewrite = errors.New("archive rewrite failed")
	// ErrVerifyMismatch means the rewritten archive does not match the source payloads.
	ErrVerifyMismatch = errors.New("rewritten archive verification mismatch")
	// ErrInvalidEntryPath means an entry path is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrInvalidSkipRule means one or more entry skip rules are invalid.
	ErrInvalidSkipRule = errors.New("invalid skip rules")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrClosed means the reader is already closed.
	ErrClosed = errors.New("reader already closed")
)

// ArchiveOpenError reports a failure to open or enumerate one archive.
type ArchiveOpenError struct {
	// Path is the archive file path.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *ArchiveOpenError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("open archive %s", e.Path)
	}

	return fmt.Sprintf("open archive %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrArchiveOpen and the cause to errors.Is.
func (e *ArchiveOpenError) Unwrap() []error {
	return []error{ErrArchiveOpen, e.Err}
}

// IdentityError reports that no metadata probe produced a mod identity.
type IdentityError struct {
	// Archive is the archive file path.
	Archive string
	// Tried lists probe names in the order they ran.
	Tried []string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("resolve identity of %s: %v (tried %v)", e.Archive, ErrIdentityNotFound, e.Tried)
}

func (e *IdentityError) Unwrap() error {
	return ErrIdentityNotFound
}

// ParseError reports one entry whose structured content could not be parsed.
type ParseError struct {
	// Archive is the archive file path.
	Archive string
	// Entry is the archive-internal entry path.
	Entry string
	// Format is a short format name ("json", "toml").
	Format string
	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s entry %s in %s: %v", e.Format, e.Entry, e.Archive, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RewriteError reports a failed archive rewrite step.
type RewriteError struct {
	// Archive is the archive file path.
	Archive string
	// Entry is the target entry path.
	Entry string
	// Op names the failed step ("open source", "copy entry", "rename", ...).
	Op string
	// Err is the underlying cause.
	Err error
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("rewrite %s (entry %s): %s: %v", e.Archive, e.Entry, e.Op, e.Err)
}

// Unwrap exposes both ErrRewrite and the cause to errors.Is.
func (e *RewriteError) Unwrap() []error {
	return []error{ErrRewrite, e.Err}
}
