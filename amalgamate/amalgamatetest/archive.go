// Package amalgamatetest loads txtar header trees for tests.
package amalgamatetest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"golang.org/x/tools/txtar"
)

// HeaderParentDir is where the add-on headers live inside the fixture.
const HeaderParentDir = "external/ImGuizmo"

// MapFS parses the txtar archive at path into an in-memory file system.
func MapFS(t *testing.T, path string) fstest.MapFS {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{}
	for _, f := range ar.Files {
		fsys[f.Name] = &fstest.MapFile{Data: f.Data, Mode: 0666}
	}
	return fsys
}

// HeadersFS returns the add-on header tree of the archive at path.
func HeadersFS(t *testing.T, path string) fs.FS {
	t.Helper()

	sub, err := fs.Sub(MapFS(t, path), HeaderParentDir)
	if err != nil {
		t.Fatal(err)
	}
	return sub
}

// ReadHeader returns one file of the archive's header tree.
func ReadHeader(t *testing.T, path, name string) string {
	t.Helper()

	b, err := fs.ReadFile(HeadersFS(t, path), name)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

// Extract writes the archive at path below dir and returns dir.
func Extract(t *testing.T, path, dir string) string {
	t.Helper()

	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range ar.Files {
		dst := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0777); err != nil {
			t.Fatal(err)
		}
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if err := os.WriteFile(dst, f.Data, 0666); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}
