package cppdecl

import (
	"testing"

	"github.com/imguibundle/gizmogen/amalgamate/amalgamatetest"
	"github.com/stretchr/testify/require"
)

const fixture = "../testdata/imguizmo.txtar"

var testOpts = Options{APIPrefixes: []string{"IMGUI_API"}}

func names[T any](xs []T, name func(T) string) []string {
	var res []string
	for _, x := range xs {
		res = append(res, name(x))
	}
	return res
}

func TestLexSkipsPreprocessorAndComments(t *testing.T) {
	require := require.New(t)

	toks, comments := lex("#define FOO 1 \\\n    + 2\n/* a\nb */ int x; // trailing\n")
	var texts []string
	for _, tk := range toks {
		if tk.kind != tokEOF {
			texts = append(texts, tk.text)
		}
	}
	require.Equal([]string{"int", "x", ";"}, texts)
	require.Equal(4, toks[0].line)
	require.Equal([]comment{{line: 4, text: " trailing"}}, comments)
}

func TestParseCurveEdit(t *testing.T) {
	require := require.New(t)

	f := Parse(amalgamatetest.ReadHeader(t, fixture, "ImGuizmo/ImCurveEdit.h"), testOpts)
	require.Equal([]Warning{{Line: 22, Message: "Ignoring operator <"}}, f.Warnings)
	require.Len(f.Decls, 1)

	ns := f.Decls[0].(*Namespace)
	require.Equal("ImCurveEdit", ns.Name)
	require.Len(ns.Decls, 4)

	e := ns.Decls[0].(*Enum)
	require.Equal("CurveType", e.Name)
	require.False(e.Scoped)
	require.Equal([]string{"CurveNone", "CurveDiscrete", "CurveLinear", "CurveSmooth", "CurveBezier"},
		names(e.Members, func(m EnumMember) string { return m.Name }))

	pt := ns.Decls[1].(*Struct)
	require.Equal("EditPoint", pt.Name)
	require.Equal([]string{"curveIndex", "pointIndex"}, names(pt.Fields, func(f Field) string { return f.Name }))
	require.Empty(pt.Methods)

	d := ns.Decls[2].(*Struct)
	require.Equal("Delegate", d.Name)
	require.True(d.IsAbstract())
	require.True(d.HasVirtual())
	require.Empty(d.Ctors)
	require.Equal([]Field{{Name: "focused", Type: Type{Name: "bool"}, Default: "false", Line: 34}}, d.Fields)
	require.Equal([]string{
		"GetCurveCount", "IsVisible", "GetCurveType", "GetMin", "GetMax", "GetPointCount", "GetCurveColor",
		"GetPoints", "EditPoint", "AddPoint", "GetBackgroundColor", "BeginEdit", "EndEdit",
	}, names(d.Methods, func(f Function) string { return f.Name }))

	byName := map[string]Function{}
	for _, m := range d.Methods {
		byName[m.Name] = m
	}
	require.True(byName["GetCurveCount"].Pure)
	require.False(byName["IsVisible"].Pure)
	require.True(byName["IsVisible"].Virtual)
	require.Equal([]Param{{Type: Type{Name: "size_t"}}}, byName["IsVisible"].Params)
	require.True(byName["GetCurveType"].Const)
	require.Equal(Type{Name: "ImVec2", Ref: true}, byName["GetMin"].Return)
	require.Equal(Type{Name: "ImVec2", Pointers: 1}, byName["GetPoints"].Return)
	require.Equal(Type{Name: "unsigned int"}, byName["GetBackgroundColor"].Return)
	require.Equal("handle undo/redo thru this functions", byName["BeginEdit"].Doc)

	edit := ns.Decls[3].(*Function)
	require.Equal("Edit", edit.Name)
	require.Equal(54, edit.Line)
	require.Equal([]Param{
		{Name: "delegate", Type: Type{Name: "Delegate", Ref: true}},
		{Name: "size", Type: Type{Name: "ImVec2", Const: true, Ref: true}},
		{Name: "id", Type: Type{Name: "unsigned int"}},
		{Name: "clippingRect", Type: Type{Name: "ImRect", Const: true, Pointers: 1}, Default: "NULL"},
		{Name: "selectedPoints", Type: Type{Name: "ImVector", Args: []Type{{Name: "EditPoint"}}, Pointers: 1}, Default: "NULL"},
	}, edit.Params)
	require.Equal("ImVector<EditPoint>*", edit.Params[4].Type.String())
}

func TestParseZoomSlider(t *testing.T) {
	require := require.New(t)

	f := Parse(amalgamatetest.ReadHeader(t, fixture, "ImGuizmo/ImZoomSlider.h"), testOpts)
	require.Equal([]Warning{{Line: 15, Message: "Ignoring template function ImZoomSlider"}}, f.Warnings)

	ns := f.Decls[0].(*Namespace)
	require.Len(ns.Decls, 2)
	require.Equal(&Typedef{Name: "ImGuiZoomSliderFlags", Type: Type{Name: "int"}, Line: 5}, ns.Decls[0])

	e := ns.Decls[1].(*Enum)
	require.Equal("ImGuiPopupFlags_", e.Name)
	require.Equal([]string{"0", "1", "2", "4", "8"}, names(e.Members, func(m EnumMember) string { return m.Value }))
	require.Equal("ImGuiZoomSliderFlags_NoWheel", e.Members[4].Name)
}

func TestParseDeclarations(t *testing.T) {
	require := require.New(t)

	src := `#define FOO 1 \
    + 2
namespace A::B {
    enum class Mode : int { Off = 0, On = 1 << 2 };
    class Widget : public Base, private Other
    {
        int hidden;
    public:
        // Makes a widget
        Widget(int n = 3);
        IMGUI_API static Widget* Create(const char* name, float v[4]);
        float m[16];
        int a, *b;
        ImVec2 pos{1.f, 2.f};
        struct Inner { int x; };
        void Set(std::function<void(int)> cb, Mode mode = Mode::On) const;
        bool operator==(const Widget&) const;
    };
    using Callback = void (*)(int);
}
`
	f := Parse(src, testOpts)
	require.Equal([]Warning{{Line: 17, Message: "Ignoring operator =="}}, f.Warnings)

	a := f.Decls[0].(*Namespace)
	require.Equal("A", a.Name)
	b := a.Decls[0].(*Namespace)
	require.Equal("B", b.Name)
	require.Len(b.Decls, 3)

	mode := b.Decls[0].(*Enum)
	require.True(mode.Scoped)
	require.Equal("int", mode.Underlying)
	require.Equal([]EnumMember{{Name: "Off", Value: "0", Line: 4}, {Name: "On", Value: "1 << 2", Line: 4}}, mode.Members)

	w := b.Decls[1].(*Struct)
	require.True(w.Class)
	require.Equal([]string{"Base", "Other"}, w.Bases)
	require.Len(w.Ctors, 1)
	require.Equal("Makes a widget", w.Ctors[0].Doc)
	require.Equal([]Param{{Name: "n", Type: Type{Name: "int"}, Default: "3"}}, w.Ctors[0].Params)

	require.Equal([]Field{
		{Name: "m", Type: Type{Name: "float"}, ArraySize: "16", Line: 12},
		{Name: "a", Type: Type{Name: "int"}, Line: 13},
		{Name: "b", Type: Type{Name: "int", Pointers: 1}, Line: 13},
		{Name: "pos", Type: Type{Name: "ImVec2"}, Default: "{1.f, 2.f}", Line: 14},
	}, w.Fields)

	require.Len(w.Methods, 2)
	create := w.Methods[0]
	require.True(create.Static)
	require.Equal("Widget*", create.Return.String())
	require.Equal([]Param{
		{Name: "name", Type: Type{Name: "char", Const: true, Pointers: 1}},
		{Name: "v", Type: Type{Name: "float"}, ArraySize: "4"},
	}, create.Params)

	set := w.Methods[1]
	require.True(set.Const)
	require.Equal("cb", set.Params[0].Name)
	require.Equal("std::function", set.Params[0].Type.Name)
	require.Equal(Param{Name: "mode", Type: Type{Name: "Mode"}, Default: "Mode::On"}, set.Params[1])

	require.Len(w.Nested, 1)
	require.Equal("Inner", w.Nested[0].(*Struct).Name)

	cb := b.Decls[2].(*Typedef)
	require.Equal("Callback", cb.Name)
	require.Equal("void (*)(int)", cb.Type.FuncPtr)
}

func TestParseSkips(t *testing.T) {
	require := require.New(t)

	src := `struct Fwd;
union U { int i; float f; };
template<typename T> struct Box { T v; };
void Show(bool* open) = delete;
IM_ASSERT(x);
`
	f := Parse(src, testOpts)
	require.Empty(f.Decls)
	require.Equal([]string{
		"Ignoring union U",
		"Ignoring template class Box",
		"Ignoring macro invocation IM_ASSERT(x)",
	}, names(f.Warnings, func(w Warning) string { return w.Message }))
}

func TestTypeString(t *testing.T) {
	require := require.New(t)

	typ := Type{Name: "std::vector", Args: []Type{{Name: "std::vector", Args: []Type{{Name: "ImVec2"}}}}, Const: true, Ref: true}
	require.Equal("const std::vector<std::vector<ImVec2>>&", typ.String())
	require.True(typ.IsTemplate())

	mapped := typ.Map(func(name string) string {
		if name == "ImVec2" {
			return "Vec2"
		}
		return name
	})
	require.Equal("const std::vector<std::vector<Vec2>>&", mapped.String())
	// Map copies.
	require.Equal("ImVec2", typ.Args[0].Args[0].Name)
	require.True(Type{Name: "void"}.IsVoid())
	require.False(Type{Name: "void", Pointers: 1}.IsVoid())
}
