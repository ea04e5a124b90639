// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mcjar

package mcjar

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// IdentityProbe extracts a mod identity from one metadata format.
// Probe returns ok=false when the format is absent or unusable; an error is
// returned only when present metadata cannot be read or parsed.
type IdentityProbe interface {
	Name() string
	Probe(r *Reader) (ModIdentity, bool, error)
}

// FabricProbe reads fabric.mod.json.
type FabricProbe struct{}

// ForgeProbe reads META-INF/mods.toml.
type ForgeProbe struct{}

// ManifestProbe yields an all-"unknown" identity when META-INF/MANIFEST.MF exists.
type ManifestProbe struct{}

// DefaultIdentityProbes returns the probe chain used by ResolveIdentity, in priority order.
func DefaultIdentityProbes() []IdentityProbe {
	return []IdentityProbe{FabricProbe{}, ForgeProbe{}, ManifestProbe{}}
}

// ResolveIdentity determines the mod id, display name and version of an archive.
func ResolveIdentity(r *Reader) (ModIdentity, error) {
	return ResolveIdentityWith(r, DefaultIdentityProbes()...)
}

// ResolveIdentityFile opens path and resolves its identity.
func ResolveIdentityFile(path string) (ModIdentity, error) {
	r, err := Open(path)
	if err != nil {
		return ModIdentity{}, err
	}
	defer func() { _ = r.Close() }()

	return ResolveIdentity(r)
}

// ResolveIdentityWith runs probes in order and stops at the first usable result.
func ResolveIdentityWith(r *Reader, probes ...IdentityProbe) (ModIdentity, error) {
	if err := r.checkOpen(); err != nil {
		return ModIdentity{}, err
	}

	tried := make([]string, 0, len(probes))
	for _, probe := range probes {
		tried = append(tried, probe.Name())

		identity, ok, err := probe.Probe(r)
		if err != nil {
			return ModIdentity{}, err
		}
		if ok {
			return identity, nil
		}
	}

	return ModIdentity{}, &IdentityError{Archive: r.path, Tried: tried}
}

// Name returns the metadata entry path.
func (FabricProbe) Name() string { return fabricMetadataPath }

// Probe reads string fields id, name and version. The file is usable only
// when all three are strings.
func (FabricProbe) Probe(r *Reader) (ModIdentity, bool, error) {
	text, ok, err := readMetadataText(r, fabricMetadataPath)
	if !ok || err != nil {
		return ModIdentity{}, false, err
	}

	doc, err := ParseRelaxed(text)
	if err != nil {
		return ModIdentity{}, false, &ParseError{Archive: r.path, Entry: fabricMetadataPath, Format: "json", Err: err}
	}

	id, _ := jsonField(doc, "id")
	if id == "" {
		r.report(fabricMetadataPath, "fabric metadata has no string id", nil)
		return ModIdentity{}, false, nil
	}

	name, hasName := jsonField(doc, "name")
	version, hasVersion := jsonField(doc, "version")
	if !hasName || !hasVersion {
		r.report(fabricMetadataPath, "fabric metadata has no string name or version", nil)
		return ModIdentity{}, false, nil
	}

	return newModIdentity(id, name, version), true, nil
}

// jsonField returns a trimmed top-level string field and whether it is a string.
func jsonField(doc gjson.Result, key string) (string, bool) {
	field := doc.Get(gjson.Escape(key))
	if field.Type != gjson.String {
		return "", false
	}

	return strings.TrimSpace(field.String()), true
}

// Name returns the metadata entry path.
func (ForgeProbe) Name() string { return forgeMetadataPath }

// Probe reads modId, displayName and version from the first [[mods]] table.
func (ForgeProbe) Probe(r *Reader) (ModIdentity, bool, error) {
	text, ok, err := readMetadataText(r, forgeMetadataPath)
	if !ok || err != nil {
		return ModIdentity{}, false, err
	}

	var doc map[string]any
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return ModIdentity{}, false, &ParseError{
			Archive: r.path,
			Entry:   forgeMetadataPath,
			Format:  "toml",
			Err:     fmt.Errorf("%w: %w", ErrMalformedTOML, err),
		}
	}

	mod, ok := firstModTable(doc)
	if !ok {
		r.report(forgeMetadataPath, "mods.toml has no [[mods]] table", nil)
		return ModIdentity{}, false, nil
	}

	id := tomlString(mod, "modId")
	if id == "" {
		r.report(forgeMetadataPath, "mods.toml first mod has no modId", nil)
		return ModIdentity{}, false, nil
	}

	version := tomlString(mod, "version")
	if strings.HasPrefix(version, "${") {
		version = manifestVersion(r)
	}

	return newModIdentity(id, tomlString(mod, "displayName"), version), true, nil
}

// firstModTable returns the first element of the "mods" array of tables.
func firstModTable(doc map[string]any) (map[string]any, bool) {
	switch mods := doc["mods"].(type) {
	case []any:
		if len(mods) == 0 {
			return nil, false
		}

		mod, ok := mods[0].(map[string]any)
		return mod, ok
	case []map[string]any:
		if len(mods) == 0 {
			return nil, false
		}

		return mods[0], true
	default:
		return nil, false
	}
}

// tomlString returns a trimmed string value or "".
func tomlString(table map[string]any, key string) string {
	value, _ := table[key].(string)
	return strings.TrimSpace(value)
}

// manifestVersion resolves a "${file.jarVersion}" placeholder from the manifest
// Implementation-Version, or returns UnknownValue.
func manifestVersion(r *Reader) string {
	attrs, err := ReadManifest(r)
	if err != nil {
		return UnknownValue
	}

	if v := attrs["Implementation-Version"]; v != "" {
		return v
	}

	return UnknownValue
}

// Name returns the metadata entry path.
func (ManifestProbe) Name() string { return manifestPath }

// Probe succeeds on presence alone; manifest fields are not consulted.
func (ManifestProbe) Probe(r *Reader) (ModIdentity, bool, error) {
	if !r.Has(manifestPath) {
		return ModIdentity{}, false, nil
	}

	return ModIdentity{ID: UnknownValue, DisplayName: UnknownValue, Version: UnknownValue}, true, nil
}

// newModIdentity applies display name and version fallbacks.
func newModIdentity(id, name, version string) ModIdentity {
	if name == "" {
		name = id
	}
	if version == "" {
		version = UnknownValue
	}

	return ModIdentity{ID: id, DisplayName: name, Version: version}
}

// readMetadataText reads and sanitizes one metadata entry; ok=false when absent.
func readMetadataText(r *Reader, name string) (string, bool, error) {
	data, err := r.ReadEntry(name)
	if errors.Is(err, ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", name, err)
	}

	return Sanitize(data), true, nil
}
