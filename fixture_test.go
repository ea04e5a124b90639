package mcjar

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

// jarEntry is one fixture entry; entries are written in slice order so
// duplicates and physical ordering can be expressed.
type jarEntry struct {
	name   string
	data   string
	stored bool
}

// fixtureTime is the modification time stamped on every fixture entry.
var fixtureTime = time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC)

// createTestJar writes entries into a new archive at dir/name and returns its path.
func createTestJar(t testing.TB, dir, name string, entries []jarEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		method := zip.Deflate
		if e.stored {
			method = zip.Store
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   method,
			Modified: fixtureTime,
		})
		if err != nil {
			t.Fatalf("create entry %s: %v", e.name, err)
		}

		if _, err := w.Write([]byte(e.data)); err != nil {
			t.Fatalf("write entry %s: %v", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	return path
}

// openTestJar creates a fixture archive and opens it with opts.
func openTestJar(t testing.TB, entries []jarEntry, opts ReaderOptions) *Reader {
	t.Helper()

	path := createTestJar(t, t.TempDir(), "fixture.jar", entries)
	r, err := OpenWithOptions(path, opts)
	if err != nil {
		t.Fatalf("OpenWithOptions: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	return r
}

// testModMetadata is the fabric.mod.json payload of the test mod.
const testModMetadata = `{"id":"testmod","name":"Test Mod","version":"1.0.0"}`

// testModEntries is the fabric test mod with en_us and ja_jp language files.
func testModEntries() []jarEntry {
	return []jarEntry{
		{name: "META-INF/MANIFEST.MF", data: "Manifest-Version: 1.0\r\n\r\n"},
		{name: "fabric.mod.json", data: testModMetadata},
		{name: "assets/"},
		{name: "assets/testmod/lang/en_us.json", data: `{"item.testmod.test":"Test Item"}`},
		{name: "assets/testmod/lang/ja_jp.json", data: `{"item.testmod.test":"テストアイテム"}`},
		{name: "assets/testmod/textures/item/test.png", data: "\x89PNG\r\n\x1a\n\x00\x00", stored: true},
	}
}

// readZipEntries returns raw names and decompressed payloads of an archive in physical order.
func readZipEntries(t testing.TB, path string) ([]string, map[string][]byte) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("zip.OpenReader(%s): %v", path, err)
	}
	defer func() { _ = zr.Close() }()

	names := make([]string, 0, len(zr.File))
	payloads := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}

		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}

		if _, dup := payloads[f.Name]; !dup {
			payloads[f.Name] = data
		}
	}

	return names, payloads
}
