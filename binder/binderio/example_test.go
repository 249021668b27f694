package binderio_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/imguibundle/gizmogen/binder/binderio"
	"github.com/stretchr/testify/require"
)

func ExampleCodeBuilder() {
	var cb binderio.CodeBuilder
	cb.Linef(`void py_init_module_example(py::module& m)`)
	cb.Linef(`{`)
	cb.Indent++
	cb.Linef(`auto pyClassPoint =`)
	cb.Indent++
	cb.Linef(`py::class_<Point>(m, "Point")`)
	for _, f := range []string{"x", "y"} {
		cb.Linef(`.def_readwrite("%v", &Point::%v)`, f, f)
	}
	cb.Linef(`;`)
	cb.Indent--
	cb.Linef(``)
	cb.Append("m.def(\"answer\",\n    []() { return 42; });")
	cb.Indent--
	cb.Linef(`}`)

	fmt.Print(cb.String())
	// Output:
	// void py_init_module_example(py::module& m)
	// {
	//     auto pyClassPoint =
	//         py::class_<Point>(m, "Point")
	//         .def_readwrite("x", &Point::x)
	//         .def_readwrite("y", &Point::y)
	//         ;
	//
	//     m.def("answer",
	//         []() { return 42; });
	// }
}

func TestRender(t *testing.T) {
	require := require.New(t)

	cb := binderio.CodeBuilder{IndentText: "\t"}
	cb.Linef("class A:")
	cb.Indent++
	cb.Linef("pass")

	code, fmtErr := cb.Render(context.Background(), nil)
	require.NoError(fmtErr)
	require.Equal("class A:\n\tpass\n", code)

	// A failing formatter still yields the raw code.
	code, fmtErr = cb.Render(context.Background(), []string{filepath.Join(t.TempDir(), "no-such-formatter")})
	require.Error(fmtErr)
	require.Equal("class A:\n\tpass\n", code)
}

func TestWriteFiles(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.cpp")
	b := filepath.Join(dir, "b.pyi")
	require.NoError(os.WriteFile(a, []byte("stale a"), 0640))
	before, err := os.Stat(a)
	require.NoError(err)

	require.NoError(binderio.WriteFiles(
		binderio.File{Path: a, Code: "new a"},
		binderio.File{Path: b, Code: "new b"},
	))
	for path, want := range map[string]string{a: "new a", b: "new b"} {
		got, err := os.ReadFile(path)
		require.NoError(err)
		require.Equal(want, string(got))
	}
	after, err := os.Stat(a)
	require.NoError(err)
	require.Equal(before.Mode().Perm(), after.Mode().Perm())

	// When one file cannot be staged, none is replaced.
	err = binderio.WriteFiles(
		binderio.File{Path: a, Code: "newer a"},
		binderio.File{Path: filepath.Join(dir, "missing", "b.pyi"), Code: "newer b"},
	)
	require.ErrorContains(err, filepath.Join(dir, "missing", "b.pyi"))
	got, err := os.ReadFile(a)
	require.NoError(err)
	require.Equal("new a", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(err)
	require.Len(entries, 2)
}
