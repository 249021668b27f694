package binder

import (
	"fmt"
	"strings"

	"github.com/imguibundle/gizmogen/config"
	"github.com/imguibundle/gizmogen/cppdecl"
)

type virtualMethod struct {
	fn cppdecl.Function
	// Scope of the declaring class body.
	scope []string
}

func (t *translator) signatureKey(f *cppdecl.Function, scope []string) string {
	key := f.Name + "(" + strings.Join(t.cppParamTypes(f, scope), ",") + ")"
	if f.Const {
		key += " const"
	}
	return key
}

// virtuals lists the virtual methods of s and of its known bases, most
// derived declaration first.
func (t *translator) virtuals(s *cppdecl.Struct, scope []string) []virtualMethod {
	var res []virtualMethod
	seen := map[string]bool{}
	var walk func(s *cppdecl.Struct, scope []string)
	walk = func(s *cppdecl.Struct, scope []string) {
		inner := cloneAppend(scope, s.Name)
		for i := range s.Methods {
			m := &s.Methods[i]
			if !m.IsVirtual() || m.Static {
				continue
			}
			key := t.signatureKey(m, inner)
			if seen[key] {
				continue
			}
			seen[key] = true
			res = append(res, virtualMethod{fn: *m, scope: inner})
		}
		for _, b := range s.Bases {
			if sym := t.ix.lookup(scope, b); sym != nil && sym.kind == symClass {
				walk(sym.strct, sym.scope)
			}
		}
	}
	walk(s, scope)
	return res
}

func (t *translator) trampoline(name, qual string, virtuals []virtualMethod) {
	cb := &t.tramp
	cb.Linef("// helper type to enable overriding virtual methods in python")
	cb.Linef("class %v : public %v", name, qual)
	cb.Linef("{")
	cb.Linef("public:")
	cb.Indent++
	cb.Linef("using %v::%v;", qual, lastComponent(qual))
	for _, v := range virtuals {
		ret := t.ix.qualifiedType(v.fn.Return, v.scope).String()
		var params, names []string
		for i, p := range v.fn.Params {
			n := paramName(p, i)
			params = append(params, t.ix.qualifiedType(p.Type, v.scope).String()+" "+n)
			names = append(names, n)
		}
		constSuffix := ""
		if v.fn.Const {
			constSuffix = " const"
		}
		macro := "PYBIND11_OVERRIDE_NAME"
		if v.fn.Pure {
			macro = "PYBIND11_OVERRIDE_PURE_NAME"
		}

		cb.Linef("")
		cb.Linef("%v %v(%v)%v override", ret, v.fn.Name, strings.Join(params, ", "), constSuffix)
		cb.Linef("{")
		cb.Indent++
		cb.Linef("%v(", macro)
		cb.Indent++
		cb.Linef("%v, // return type", ret)
		cb.Linef("%v, // parent class", qual)
		cb.Linef("%v, // function name (python)", quote(t.fnPyName(v.fn.Name)))
		if len(names) == 0 {
			cb.Linef("%v // function name (c++)", v.fn.Name)
		} else {
			cb.Linef("%v, // function name (c++)", v.fn.Name)
			cb.Linef("%v // params", strings.Join(names, ", "))
		}
		cb.Indent--
		cb.Linef(");")
		cb.Indent--
		cb.Linef("}")
	}
	cb.Indent--
	cb.Linef("};")
	cb.Linef("")
}

// namedCtor emits a constructor taking every field as an optional
// keyword argument.
func (t *translator) namedCtor(s *cppdecl.Struct, qual string, inner []string) {
	var params, assigns, args, pyParams []string
	for _, f := range s.Fields {
		if f.Type.Const || f.Type.Ref {
			continue
		}
		typ := t.ix.qualifiedType(f.Type, inner)
		params = append(params, typ.String()+" "+f.Name)
		assigns = append(assigns, fmt.Sprintf("r_ctor_->%v = %v;", f.Name, f.Name))

		pyName := t.varPyName(f.Name)
		def := typ.String() + "()"
		if f.Default != "" {
			def = t.cppDefault(f.Default, f.Type, inner)
		}
		args = append(args, fmt.Sprintf("py::arg(%v) = %v", quote(pyName), def))

		pyDef, ok := t.pyDefault(f.Default, inner)
		if !ok {
			pyDef = "..."
		}
		pyParams = append(pyParams, pyName+": "+t.pyType(f.Type, inner)+" = "+pyDef)
	}

	t.pydef.Linef(".def(py::init([](%v)", strings.Join(params, ", "))
	t.pydef.Linef("{")
	t.pydef.Indent++
	t.pydef.Linef("auto r_ctor_ = std::make_unique<%v>();", qual)
	for _, a := range assigns {
		t.pydef.Linef("%v", a)
	}
	t.pydef.Linef("return r_ctor_;")
	t.pydef.Indent--
	t.pydef.Linef("})")
	if len(args) > 0 {
		t.pydef.Linef(", %v", strings.Join(args, ", "))
	}
	t.pydef.Linef(")")

	t.stub.Linef("def __init__(%v) -> None:", strings.Join(append([]string{"self"}, pyParams...), ", "))
	t.stub.Indent++
	t.stub.Linef(`"""Auto-generated default constructor with named params"""`)
	t.stub.Linef("pass")
	t.stub.Indent--
}

func (t *translator) class(s *cppdecl.Struct, scope []string, parent string) error {
	qual := qualify(scope, s.Name)
	inner := cloneAppend(scope, s.Name)
	pyName := t.typePyName(s.Name)

	for _, f := range s.Fields {
		if reason := t.checkType(f.Type, f.ArraySize, inner); reason != "" {
			return t.errorf(f.Line, qual+"::"+f.Name, "%v", reason)
		}
	}
	for i := range s.Ctors {
		if err := t.checkFunction(&s.Ctors[i], inner, qual+"::"+s.Name); err != nil {
			return err
		}
	}
	var methods []*cppdecl.Function
	overloads := map[string]int{}
	for i := range s.Methods {
		m := &s.Methods[i]
		t.fnNames = append(t.fnNames, m.Name)
		if t.isExcluded(m.Name) {
			t.stats.Excluded++
			continue
		}
		if m.Variadic {
			t.warn(m.Line, "Ignoring variadic method "+qual+"::"+m.Name)
			continue
		}
		if err := t.checkFunction(m, inner, qual+"::"+m.Name); err != nil {
			return err
		}
		methods = append(methods, m)
		overloads[m.Name]++
	}
	t.stats.Classes++
	t.stats.Methods += len(methods)

	var bases []*symbol
	for _, b := range s.Bases {
		if sym := t.ix.lookup(scope, b); sym != nil && sym.kind == symClass {
			bases = append(bases, sym)
		}
	}

	tramp := ""
	if config.Matches(t.c.ClassOverrideVirtualMethods, s.Name) {
		if virtuals := t.virtuals(s, scope); len(virtuals) > 0 {
			tramp = strings.ReplaceAll(qual, "::", "_") + "_trampoline"
			t.trampoline(tramp, qual, virtuals)
		}
	}

	// pydef
	classVar := "pyClass" + strings.ReplaceAll(qual, "::", "_")
	targs := []string{qual}
	for _, b := range bases {
		targs = append(targs, b.qual)
	}
	if tramp != "" {
		targs = append(targs, tramp)
	}
	t.pydef.Linef("auto %v =", classVar)
	t.pydef.Indent++
	t.pydef.Linef("py::class_<%v>", strings.Join(targs, ", "))
	t.pydef.Indent++
	t.pydef.Linef("(%v, %v, %v)", parent, quote(pyName), quote(s.Doc))
	t.pydef.Indent--

	// stub
	if len(bases) > 0 {
		var names []string
		for _, b := range bases {
			names = append(names, t.typePyName(b.qual))
		}
		t.stub.Linef("class %v(%v):", pyName, strings.Join(names, ", "))
	} else {
		t.stub.Linef("class %v:", pyName)
	}
	t.stub.Indent++
	t.docstring(s.Doc)
	empty := true

	for _, f := range s.Fields {
		def := ".def_readwrite"
		if f.Type.Const {
			def = ".def_readonly"
		}
		fieldPyName := t.varPyName(f.Name)
		t.pydef.Linef("%v(%v, &%v::%v, %v)", def, quote(fieldPyName), qual, f.Name, quote(f.Doc))

		typ := t.pyType(f.Type, inner)
		if pyDef, ok := t.pyDefault(f.Default, inner); ok {
			t.stub.Linef("%v: %v = %v", fieldPyName, typ, pyDef)
		} else {
			t.stub.Linef("%v: %v", fieldPyName, typ)
		}
		empty = false
	}

	abstract := s.IsAbstract() && tramp == ""
	switch {
	case len(s.Ctors) > 0:
		for i := range s.Ctors {
			c := &s.Ctors[i]
			t.pydef.Linef(".def(py::init<%v>()%v, %v)", strings.Join(t.cppParamTypes(c, inner), ", "), t.pyArgs(c.Params, inner), quote(c.Doc))
			t.stub.Linef("def __init__(%v) -> None:", strings.Join(append([]string{"self"}, t.pyParams(c.Params, inner)...), ", "))
			t.stub.Indent++
			t.docstring(c.Doc)
			t.stub.Linef("pass")
			t.stub.Indent--
		}
		empty = false
	case abstract:
	case config.Matches(t.c.StructCreateDefaultNamedCtor, s.Name):
		t.namedCtor(s, qual, inner)
		empty = false
	default:
		t.pydef.Linef(".def(py::init<>())")
		t.stub.Linef("def __init__(self) -> None:")
		t.stub.Indent++
		t.stub.Linef("pass")
		t.stub.Indent--
		empty = false
	}

	for _, m := range methods {
		methodPyName := t.fnPyName(m.Name)
		def := ".def"
		if m.Static {
			def = ".def_static"
		}
		t.pydef.Linef("%v(%v, %v%v%v, %v)", def, quote(methodPyName), t.fnRef(inner, m, overloads[m.Name] > 1),
			t.pyArgs(m.Params, inner), returnPolicy(m.Return), quote(m.Doc))

		params := t.pyParams(m.Params, inner)
		if m.Static {
			t.stub.Linef("@staticmethod")
		} else {
			params = append([]string{"self"}, params...)
		}
		t.stub.Linef("def %v(%v) -> %v:", methodPyName, strings.Join(params, ", "), t.pyType(m.Return, inner))
		t.stub.Indent++
		t.docstring(m.Doc)
		t.stub.Linef("pass")
		t.stub.Indent--
		empty = false
	}
	t.pydef.Linef(";")
	t.pydef.Indent--
	t.pydef.Linef("")

	if len(s.Nested) > 0 {
		if err := t.decls(s.Nested, inner, classVar); err != nil {
			return err
		}
		empty = false
	}
	if empty {
		t.stub.Linef("pass")
	}
	t.stub.Indent--
	t.stub.Linef("")
	return nil
}
