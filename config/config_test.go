package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	require := require.New(t)

	o := Default()
	require.Equal(".*", o.ClassOverrideVirtualMethodsRegex)
	require.Empty(o.StructCreateDefaultNamedCtorRegex)
	require.Empty(o.FnExcludeByNameRegex)
	require.False(o.RunStubFormatter)
	require.Equal("py_init_module_imguizmo", o.ModuleInitFunction)
	require.Equal("ImGuizmoStl", o.PydefIncludeDir)
	require.Contains(o.PydefPreamble, "#include <pybind11/pybind11.h>")
	require.Contains(o.StubPreamble, "import enum")

	c, err := o.Compile()
	require.NoError(err)
	require.True(Matches(c.ClassOverrideVirtualMethods, "Delegate"))
	require.False(Matches(c.StructCreateDefaultNamedCtor, "Range"))
	require.False(Matches(c.FnExcludeByName, "Edit"))

	// Every call is independent.
	o.APIPrefixes[0] = "CHANGED"
	require.Equal("IMGUI_API", Default().APIPrefixes[0])
}

func TestCloneIsDeep(t *testing.T) {
	require := require.New(t)

	base := Default()
	base.IgnoredWarningParts = make([]string, 1, 8)
	base.IgnoredWarningParts[0] = "Ignoring operator"
	base.VarNamesReplacements.AddLast("^m_", "")
	want := base.Clone()

	c := base.Clone()
	c.FnExcludeByNameRegex = "^Edit$"
	c.IgnoredWarningParts = append(c.IgnoredWarningParts, "Ignoring template function")
	c.IgnoredWarningParts[0] = "changed"
	c.VarNamesReplacements.AddLast("im_gui_zoom_slider_flags_", "")
	c.VarNamesReplacements[0].Replacement = "changed"
	c.TypeReplacements.AddFirst("ImGuiPopupFlags_", "ImGuiZoomSliderFlags_")
	c.APIPrefixes[0] = "changed"
	c.StubFormatterCommand[0] = "changed"

	require.Empty(cmp.Diff(want, base))
}

func TestReplacementsApplyInOrder(t *testing.T) {
	require := require.New(t)

	var r Replacements
	r.AddLast("im_gui_zoom_slider_flags_", "")
	r.AddLast("^no_", "without_")
	s, err := r.Apply("im_gui_zoom_slider_flags_no_wheel")
	require.NoError(err)
	require.Equal("without_wheel", s)

	r.AddFirst("wheel$", "scroll")
	s, err = r.Apply("im_gui_zoom_slider_flags_no_wheel")
	require.NoError(err)
	require.Equal("without_scroll", s)
}

func TestReplacementsBackrefs(t *testing.T) {
	require := require.New(t)

	r := Replacements{{Pattern: `^(\w+)_flags_(\w+)$`, Replacement: `\2_of_\1 costs $5`}}
	s, err := r.Apply("zoom_slider_flags_vertical")
	require.NoError(err)
	require.Equal("vertical_of_zoom_slider costs $5", s)
}

func TestCompileErrors(t *testing.T) {
	require := require.New(t)

	o := Default()
	o.FnExcludeByNameRegex = "^Edit($"
	_, err := o.Compile()
	require.ErrorContains(err, "fn-exclude-by-name-regex")

	o = Default()
	o.TypeReplacements.AddLast("[", "")
	_, err = o.Compile()
	require.ErrorContains(err, "type-replacements")
}

func TestIsWarningIgnored(t *testing.T) {
	require := require.New(t)

	o := Default()
	require.False(o.IsWarningIgnored("Ignoring template function ImZoomSlider"))
	o.IgnoredWarningParts = []string{"Ignoring template function"}
	require.True(o.IsWarningIgnored("Ignoring template function ImZoomSlider"))
	require.False(o.IsWarningIgnored("Ignoring operator <"))
}

func TestExcludedLiterals(t *testing.T) {
	require := require.New(t)

	o := &Options{FnExcludeByNameRegex: `^Edit$|^GetPointCount$|^GetPoints$|^Get.*$|(?i)^set$|Raw`}
	require.Equal([]string{"Edit", "GetPointCount", "GetPoints", "Raw"}, o.ExcludedLiterals())

	o.FnExcludeByNameRegex = `^(Edit|Show)$`
	require.Empty(o.ExcludedLiterals())
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "gizmogen.toml")
	require.NoError(os.WriteFile(path, []byte(`
fn-exclude-by-name-regex = '^Show$'
ignored-warning-parts = ['Ignoring operator']

[[type-replacements]]
pattern = 'ImGuiPopupFlags_'
replacement = 'ImGuiZoomSliderFlags_'
`), 0666))

	o, err := Load(path)
	require.NoError(err)
	require.Equal("^Show$", o.FnExcludeByNameRegex)
	require.Equal([]string{"Ignoring operator"}, o.IgnoredWarningParts)
	require.Equal(Replacements{{Pattern: "ImGuiPopupFlags_", Replacement: "ImGuiZoomSliderFlags_"}}, o.TypeReplacements)
	// Unset fields come from the defaults.
	require.Equal(".*", o.ClassOverrideVirtualMethodsRegex)
	require.Equal("py_init_module_imguizmo", o.ModuleInitFunction)
}

func TestLoadEmptyValues(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "gizmogen.toml")
	require.NoError(os.WriteFile(path, []byte(`
class-override-virtual-methods-regex = ''
api-prefixes = []
stub-preamble = ''
`), 0666))

	o, err := Load(path)
	require.NoError(err)
	require.Empty(o.ClassOverrideVirtualMethodsRegex)
	require.Empty(o.APIPrefixes)
	require.Empty(o.StubPreamble)
	require.Equal(Default().PydefPreamble, o.PydefPreamble)

	c, err := o.Compile()
	require.NoError(err)
	require.False(Matches(c.ClassOverrideVirtualMethods, "Delegate"))
}

func TestLoadErrors(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(os.WriteFile(path, []byte("no-such-option = true\n"), 0666))
	_, err := Load(path)
	var cErr *Error
	require.ErrorAs(err, &cErr)
	require.Contains(cErr.Error(), path)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	require.ErrorAs(err, &cErr)
	require.ErrorIs(err, os.ErrNotExist)
}
