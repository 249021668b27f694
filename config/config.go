package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultTOML []byte

// Options controls how C++ declarations are translated into Python
// bindings.
//
// Options are plain values: derive per-header variants with [Options.Clone]
// and never mutate a shared baseline.
type Options struct {
	// Classes whose names match get a Python-overridable trampoline
	// for their virtual methods.
	ClassOverrideVirtualMethodsRegex string `toml:"class-override-virtual-methods-regex"`
	// Structs whose names match get a synthesized keyword-argument
	// constructor. An empty regex matches nothing.
	StructCreateDefaultNamedCtorRegex string `toml:"struct-create-default-named-ctor-regex"`
	// Functions and methods whose bare C++ name matches are not bound.
	FnExcludeByNameRegex string `toml:"fn-exclude-by-name-regex"`

	// Applied in order to Python names of enum members, fields and
	// parameters, after snake-casing.
	VarNamesReplacements Replacements `toml:"var-names-replacements"`
	// Applied in order to Python-facing type names.
	TypeReplacements Replacements `toml:"type-replacements"`

	// Pipe the generated stub through StubFormatterCommand.
	RunStubFormatter     bool     `toml:"run-stub-formatter"`
	StubFormatterCommand []string `toml:"stub-formatter-command"`

	// A warning is dropped if it contains any of these.
	IgnoredWarningParts []string `toml:"ignored-warning-parts"`

	// Export macros such as IMGUI_API, removed from declarations.
	APIPrefixes []string `toml:"api-prefixes"`

	// Name of the generated `void f(py::module& m)` function.
	ModuleInitFunction string `toml:"module-init-function"`
	// Verbatim text placed after the stub's banner.
	StubPreamble string `toml:"stub-preamble"`
	// Lines placed after the pydef file's banner, before the
	// per-header includes.
	PydefPreamble string `toml:"pydef-preamble"`
	// Directory of the processed headers, relative to the include
	// root, used in the pydef file's per-header includes.
	PydefIncludeDir string `toml:"pydef-include-dir"`
}

// Clone returns a deep copy of o.
func (o *Options) Clone() *Options {
	c := *o
	c.VarNamesReplacements = o.VarNamesReplacements.Clone()
	c.TypeReplacements = o.TypeReplacements.Clone()
	c.StubFormatterCommand = slices.Clone(o.StubFormatterCommand)
	c.IgnoredWarningParts = slices.Clone(o.IgnoredWarningParts)
	c.APIPrefixes = slices.Clone(o.APIPrefixes)
	return &c
}

// IsWarningIgnored reports whether msg contains one of
// o.IgnoredWarningParts.
func (o *Options) IsWarningIgnored(msg string) bool {
	for _, part := range o.IgnoredWarningParts {
		if part != "" && strings.Contains(msg, part) {
			return true
		}
	}
	return false
}

type Error struct {
	filePath string
	err      error  // short, single-line error
	str      string // full, multi-line error string, or err string, if none
}

// Error returns a short error message.
func (e *Error) Error() string {
	return e.filePath + ": " + e.err.Error()
}

// String returns the full multi-line error string.
func (e *Error) String() string {
	if e.str != "" {
		return "Error in file " + strconv.Quote(e.filePath) + ":\n" + e.str
	} else {
		return e.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// decode overwrites the fields of o that src sets.
func decode(o *Options, src []byte) error {
	return toml.NewDecoder(bytes.NewReader(src)).
		DisallowUnknownFields().
		Decode(o)
}

// Default returns the baseline options. Every call returns a new value.
func Default() *Options {
	o := &Options{}
	if err := decode(o, defaultTOML); err != nil {
		panic(fmt.Sprintf("programmer error: embedded default.toml: %v", err))
	}
	return o
}

// Load decodes the TOML file at path over [Default]. Keys the file
// leaves out keep their default, and keys it sets win even when set to
// an empty value.
func Load(path string) (_ *Options, err error) {
	defer func() {
		if err != nil {
			if tErr := (&toml.DecodeError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else if tErr := (&toml.StrictMissingError{}); errors.As(err, &tErr) {
				err = &Error{filePath: path, err: err, str: tErr.String()}
			} else {
				err = &Error{filePath: path, err: err}
			}
		}
	}()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	o := Default()
	if err := decode(o, file); err != nil {
		return nil, err
	}
	if _, err := o.Compile(); err != nil {
		return nil, err
	}
	return o, nil
}
