package binder

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/imguibundle/gizmogen/binder/binderio"
	"github.com/imguibundle/gizmogen/config"
	"github.com/imguibundle/gizmogen/cppdecl"
	"github.com/imguibundle/gizmogen/textutils"
)

// Stats counts what was generated for one header.
type Stats struct {
	File       string
	Functions  int
	Methods    int
	Classes    int
	Enums      int
	Excluded   int
	Warnings   int
	Suppressed int
}

// translator turns the declarations of one header into pybind11 code
// and stub code.
type translator struct {
	filename string
	opts     *config.Options
	c        *config.Compiled
	ix       *index
	stats    Stats
	warn     func(line int, msg string)

	// Names of all functions and methods seen, excluded or not.
	fnNames []string

	tramp binderio.CodeBuilder
	pydef binderio.CodeBuilder
	stub  binderio.CodeBuilder
}

func quote(s string) string {
	return textutils.QuotePythonString(s)
}

func lastComponent(qual string) string {
	if i := strings.LastIndex(qual, "::"); i >= 0 {
		return qual[i+2:]
	}
	return qual
}

func cloneAppend(scope []string, name string) []string {
	return append(slices.Clip(scope), name)
}

func (t *translator) errorf(line int, decl string, format string, args ...any) error {
	return &TranslateError{File: t.filename, Line: line, Decl: decl, Reason: fmt.Sprintf(format, args...)}
}

func (t *translator) isExcluded(name string) bool {
	return config.Matches(t.c.FnExcludeByName, name)
}

// mergeNamespaces folds reopened namespaces into their first occurrence.
func mergeNamespaces(decls []cppdecl.Decl) []cppdecl.Decl {
	var res []cppdecl.Decl
	seen := map[string]*cppdecl.Namespace{}
	for _, d := range decls {
		ns, ok := d.(*cppdecl.Namespace)
		if !ok || ns.Name == "" {
			res = append(res, d)
			continue
		}
		if prev, ok := seen[ns.Name]; ok {
			prev.Decls = append(prev.Decls, ns.Decls...)
			continue
		}
		cp := *ns
		cp.Decls = slices.Clone(ns.Decls)
		seen[ns.Name] = &cp
		res = append(res, &cp)
	}
	for _, d := range res {
		if ns, ok := d.(*cppdecl.Namespace); ok {
			ns.Decls = mergeNamespaces(ns.Decls)
		}
	}
	return res
}

func (t *translator) translate(f *cppdecl.File) error {
	decls := mergeNamespaces(f.Decls)
	t.ix = buildIndex(decls)

	t.pydef.Indent = 1
	t.pydef.Linef("{ // <generated_from:%v>", t.filename)
	t.pydef.Indent++
	t.stub.Linef("####################    <generated_from:%v>    ####################", t.filename)
	t.stub.Linef("")

	if err := t.decls(decls, nil, "m"); err != nil {
		return err
	}

	t.pydef.Indent--
	t.pydef.Linef("} // </generated_from:%v>", t.filename)
	t.stub.Linef("####################    </generated_from:%v>    ####################", t.filename)
	t.stub.Linef("")
	return nil
}

func (t *translator) decls(decls []cppdecl.Decl, scope []string, mod string) error {
	overloads := map[string]int{}
	for _, d := range decls {
		if f, ok := d.(*cppdecl.Function); ok && !t.isExcluded(f.Name) {
			overloads[f.Name]++
		}
	}
	for _, d := range decls {
		var err error
		switch d := d.(type) {
		case *cppdecl.Namespace:
			err = t.namespace(d, scope, mod)
		case *cppdecl.Enum:
			err = t.enum(d, scope, mod)
		case *cppdecl.Struct:
			err = t.class(d, scope, mod)
		case *cppdecl.Function:
			err = t.function(d, scope, mod, overloads[d.Name] > 1)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *translator) docstring(doc string) {
	if doc == "" {
		return
	}
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		t.stub.Linef(`"""%v"""`, lines[0])
		return
	}
	t.stub.Linef(`"""%v`, lines[0])
	for _, l := range lines[1:] {
		t.stub.Linef("%v", l)
	}
	t.stub.Linef(`"""`)
}

func (t *translator) namespace(ns *cppdecl.Namespace, scope []string, mod string) error {
	if ns.Name == "" {
		// Internal linkage.
		return nil
	}
	inner := cloneAppend(scope, ns.Name)
	pyName := t.fnPyName(ns.Name)
	modVar := "pyNs" + strings.Join(inner, "_")

	t.pydef.Linef("{ // <namespace %v>", ns.Name)
	t.pydef.Indent++
	t.pydef.Linef("py::module_ %v = %v.def_submodule(%v);", modVar, mod, quote(pyName))
	t.pydef.Linef("")

	t.stub.Linef("# <submodule %v>", pyName)
	t.stub.Linef("class %v:  # Proxy class that introduces typings for the *submodule* %v", pyName, pyName)
	t.stub.Indent++
	t.stub.Linef("pass  # (This corresponds to a C++ namespace. All methods are static!)")
	t.stub.Linef("")

	if err := t.decls(ns.Decls, inner, modVar); err != nil {
		return err
	}

	t.stub.Indent--
	t.stub.Linef("# </submodule %v>", pyName)
	t.stub.Linef("")
	t.pydef.Indent--
	t.pydef.Linef("} // </namespace %v>", ns.Name)
	return nil
}

func (t *translator) enum(e *cppdecl.Enum, scope []string, parent string) error {
	if e.Name == "" {
		t.warn(e.Line, "Ignoring anonymous enum")
		return nil
	}
	t.stats.Enums++
	pyName := t.typePyName(e.Name)
	valueScope := scope
	if e.Scoped {
		valueScope = cloneAppend(scope, e.Name)
	}

	t.pydef.Linef("py::enum_<%v>(%v, %v, py::arithmetic(), %v)", qualify(scope, e.Name), parent, quote(pyName), quote(e.Doc))
	t.pydef.Indent++
	for _, m := range e.Members {
		t.pydef.Linef(".value(%v, %v, %v)", quote(t.memberPyName(e, m.Name)), qualify(valueScope, m.Name), quote(m.Doc))
	}
	t.pydef.Linef(";")
	t.pydef.Indent--
	t.pydef.Linef("")

	t.stub.Linef("class %v(enum.Enum):", pyName)
	t.stub.Indent++
	t.docstring(e.Doc)
	if len(e.Members) == 0 {
		t.stub.Linef("pass")
	}
	next, known := int64(0), true
	for _, m := range e.Members {
		val := ""
		switch {
		case m.Value != "":
			val = m.Value
			n, err := strconv.ParseInt(strings.TrimRight(m.Value, "uUlL"), 0, 64)
			known = err == nil
			next = n + 1
		case known:
			val = strconv.FormatInt(next, 10)
			next++
		}
		if val != "" {
			t.stub.Linef("%v = enum.auto()  # (= %v)", t.memberPyName(e, m.Name), val)
		} else {
			t.stub.Linef("%v = enum.auto()", t.memberPyName(e, m.Name))
		}
	}
	t.stub.Indent--
	t.stub.Linef("")
	return nil
}

func paramName(p cppdecl.Param, i int) string {
	if p.Name == "" {
		return fmt.Sprintf("arg_%d", i)
	}
	return p.Name
}

func (t *translator) checkFunction(f *cppdecl.Function, scope []string, decl string) error {
	for i, p := range f.Params {
		if reason := t.checkType(p.Type, p.ArraySize, scope); reason != "" {
			return t.errorf(f.Line, decl, "parameter %v: %v", paramName(p, i), reason)
		}
	}
	if !f.IsCtor {
		if reason := t.checkType(f.Return, "", scope); reason != "" {
			return t.errorf(f.Line, decl, "return type: %v", reason)
		}
	}
	return nil
}

// cppParamTypes returns the qualified C++ parameter types of f.
func (t *translator) cppParamTypes(f *cppdecl.Function, scope []string) []string {
	var res []string
	for _, p := range f.Params {
		res = append(res, t.ix.qualifiedType(p.Type, scope).String())
	}
	return res
}

// pyArgs returns the py::arg list for params, with a leading ", ".
func (t *translator) pyArgs(params []cppdecl.Param, scope []string) string {
	var b strings.Builder
	for i, p := range params {
		fmt.Fprintf(&b, ", py::arg(%v)", quote(t.varPyName(paramName(p, i))))
		if p.Default != "" {
			fmt.Fprintf(&b, " = %v", t.cppDefault(p.Default, p.Type, scope))
		}
	}
	return b.String()
}

// pyParams returns the stub parameter list for params.
func (t *translator) pyParams(params []cppdecl.Param, scope []string) []string {
	var res []string
	for i, p := range params {
		name := t.varPyName(paramName(p, i))
		typ := t.pyType(p.Type, scope)
		if p.Default == "" {
			res = append(res, name+": "+typ)
			continue
		}
		def, ok := t.pyDefault(p.Default, scope)
		if !ok {
			def = "..."
		}
		if def == "None" && p.Type.Pointers > 0 && !isCString(p.Type) {
			typ = "Optional[" + typ + "]"
		}
		res = append(res, name+": "+typ+" = "+def)
	}
	return res
}

func returnPolicy(ret cppdecl.Type) string {
	if ret.Ref || (ret.Pointers > 0 && !isCString(ret) && ret.Name != "void") {
		return ", pybind11::return_value_policy::reference"
	}
	return ""
}

// fnRef returns the C++ expression naming f for pybind11.
func (t *translator) fnRef(scope []string, f *cppdecl.Function, overloaded bool) string {
	ref := "&" + qualify(scope, f.Name)
	if !overloaded {
		return ref
	}
	constArg := ""
	if f.Const {
		constArg = ", py::const_"
	}
	return fmt.Sprintf("py::overload_cast<%v>(%v%v)", strings.Join(t.cppParamTypes(f, scope), ", "), ref, constArg)
}

func (t *translator) function(f *cppdecl.Function, scope []string, mod string, overloaded bool) error {
	t.fnNames = append(t.fnNames, f.Name)
	if t.isExcluded(f.Name) {
		t.stats.Excluded++
		return nil
	}
	if f.Variadic {
		t.warn(f.Line, "Ignoring variadic function "+f.Name)
		return nil
	}
	if err := t.checkFunction(f, scope, qualify(scope, f.Name)); err != nil {
		return err
	}
	t.stats.Functions++
	pyName := t.fnPyName(f.Name)

	t.pydef.Linef("%v.def(%v, %v%v%v, %v);", mod, quote(pyName), t.fnRef(scope, f, overloaded),
		t.pyArgs(f.Params, scope), returnPolicy(f.Return), quote(f.Doc))
	t.pydef.Linef("")

	if len(scope) > 0 {
		t.stub.Linef("@staticmethod")
	}
	t.stub.Linef("def %v(%v) -> %v:", pyName, strings.Join(t.pyParams(f.Params, scope), ", "), t.pyType(f.Return, scope))
	t.stub.Indent++
	t.docstring(f.Doc)
	t.stub.Linef("pass")
	t.stub.Indent--
	t.stub.Linef("")
	return nil
}
