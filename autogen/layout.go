package autogen

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/imguibundle/gizmogen/amalgamate"
)

const (
	DefaultStlSubdir      = "ImGuizmoStl"
	DefaultOfficialSubdir = "ImGuizmo"
)

// Layout locates the add-on headers and the generated artifacts inside
// an imgui bundle checkout.
type Layout struct {
	BundleDir string
	// Root of the add-on headers.
	HeaderParentDir string
	// Subdirectory of HeaderParentDir holding the processed headers.
	StlSubdir string
	// Subdirectory of HeaderParentDir holding the upstream headers they
	// include.
	OfficialSubdir string

	PydefFile string
	StubFile  string
}

// NewLayout returns the standard layout of the bundle at bundleDir.
func NewLayout(bundleDir string) *Layout {
	return &Layout{
		BundleDir:       bundleDir,
		HeaderParentDir: filepath.Join(bundleDir, "external", "ImGuizmo"),
		StlSubdir:       DefaultStlSubdir,
		OfficialSubdir:  DefaultOfficialSubdir,
		PydefFile:       filepath.Join(bundleDir, "bindings", "pybind_imguizmo.cpp"),
		StubFile:        filepath.Join(bundleDir, "bindings", "imgui_bundle", "imguizmo.pyi"),
	}
}

// FindLayout walks up from start to the first directory containing
// external/ImGuizmo and returns its layout.
func FindLayout(start string) (*Layout, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		fi, err := os.Stat(filepath.Join(dir, "external", "ImGuizmo"))
		if err == nil && fi.IsDir() {
			return NewLayout(dir), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no directory containing external/ImGuizmo above %v", start)
		}
		dir = parent
	}
}

// Check returns an error naming the first expected directory that does
// not exist.
func (l *Layout) Check() error {
	for _, dir := range []string{
		filepath.Join(l.HeaderParentDir, l.StlSubdir),
		filepath.Join(l.HeaderParentDir, l.OfficialSubdir),
		filepath.Dir(l.PydefFile),
		filepath.Dir(l.StubFile),
	} {
		fi, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("bundle layout: %w", err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("bundle layout: %v: %w", dir, errors.New("not a directory"))
		}
	}
	return nil
}

// AmalgamationOptions returns the options amalgamating header, a file
// in the STL subdirectory.
func (l *Layout) AmalgamationOptions(header string) amalgamate.Options {
	return amalgamate.Options{
		BaseDir:                l.HeaderParentDir,
		IncludeSubdirs:         []string{l.OfficialSubdir},
		LocalIncludesStartWith: l.OfficialSubdir,
		MainHeaderFile:         path.Join(l.StlSubdir, header),
	}
}
