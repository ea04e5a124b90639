// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResourcePackFormat is the pack_format written to pack.mcmeta.
const ResourcePackFormat = 9

// packMeta is the pack.mcmeta document.
type packMeta struct {
	Pack packInfo `json:"pack"`
}

// packInfo is the "pack" section of pack.mcmeta.
type packInfo struct {
	Description string `json:"description"`
	PackFormat  int    `json:"pack_format"`
}

// CreateResourcePack creates <dir>/<name> with pack.mcmeta and an empty assets
// directory and returns the pack directory path.
func CreateResourcePack(dir, name, language string) (string, error) {
	packDir := filepath.Join(dir, SanitizePathSegment(name))
	if err := os.MkdirAll(filepath.Join(packDir, "assets"), 0o755); err != nil {
		return "", fmt.Errorf("create resource pack directory: %w", err)
	}

	meta, err := json.MarshalIndent(packMeta{Pack: packInfo{
		Description: "Translated resources for " + language,
		PackFormat:  ResourcePackFormat,
	}}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode pack.mcmeta: %w", err)
	}

	if err := os.WriteFile(filepath.Join(packDir, "pack.mcmeta"), append(meta, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("write pack.mcmeta: %w", err)
	}

	return packDir, nil
}

// WriteLanguageFile writes assets/<modID>/lang/<language>.<ext> under packDir
// and returns the written file path. packDir must already exist.
func WriteLanguageFile(packDir, modID, language string, entries map[string]string, format LanguageFormat) (string, error) {
	fi, err := os.Stat(packDir)
	if err != nil {
		return "", fmt.Errorf("resource pack directory: %w", err)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("resource pack directory: %s is not a directory", packDir)
	}

	rel, err := SanitizePath("assets/" + SanitizePathSegment(modID) + "/lang/" +
		SanitizePathSegment(normalizeLanguageCode(language)) + format.Extension())
	if err != nil {
		return "", err
	}

	target := filepath.Join(packDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create language directory: %w", err)
	}

	payload, err := MarshalLanguage(entries, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(target, payload, 0o644); err != nil {
		return "", fmt.Errorf("write language file: %w", err)
	}

	return target, nil
}
