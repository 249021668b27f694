package binder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/imguibundle/gizmogen/cppdecl"
	"github.com/imguibundle/gizmogen/textutils"
)

var intTypes = map[string]struct{}{
	"short": {}, "short int": {}, "unsigned short": {}, "unsigned short int": {},
	"int": {}, "signed": {}, "signed int": {}, "unsigned": {}, "unsigned int": {},
	"long": {}, "long int": {}, "unsigned long": {}, "unsigned long int": {},
	"long long": {}, "long long int": {}, "unsigned long long": {}, "unsigned long long int": {},
	"char": {}, "signed char": {}, "unsigned char": {},
	"size_t": {}, "ssize_t": {}, "ptrdiff_t": {}, "intptr_t": {}, "uintptr_t": {},
	"int8_t": {}, "int16_t": {}, "int32_t": {}, "int64_t": {},
	"uint8_t": {}, "uint16_t": {}, "uint32_t": {}, "uint64_t": {},
	"std::size_t": {}, "std::int32_t": {}, "std::uint32_t": {},
	"ImU8": {}, "ImU16": {}, "ImU32": {}, "ImU64": {},
	"ImS8": {}, "ImS16": {}, "ImS32": {}, "ImS64": {},
	"ImGuiID": {}, "ImWchar": {},
}

var floatTypes = map[string]struct{}{
	"float": {}, "double": {}, "long double": {},
}

func isPrimitive(name string) bool {
	if _, ok := intTypes[name]; ok {
		return true
	}
	if _, ok := floatTypes[name]; ok {
		return true
	}
	return name == "bool"
}

func isCString(typ cppdecl.Type) bool {
	return typ.Name == "char" && typ.Pointers == 1 && typ.Const
}

// fnPyName is the Python name of a function, method or namespace.
func (t *translator) fnPyName(name string) string {
	return textutils.PythonIdent(strcase.ToSnake(name))
}

// varPyName is the Python name of a field or parameter.
func (t *translator) varPyName(name string) string {
	return textutils.PythonIdent(t.c.VarNames.Apply(strcase.ToSnake(name)))
}

// typePyName is the Python name of a class or enum.
func (t *translator) typePyName(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return strings.TrimSuffix(t.c.Types.Apply(name), "_")
}

// memberPyName is the Python name of an enum member. A prefix repeating
// the enum name ("ImGuiFoo_" in enum ImGuiFoo_) is dropped first.
func (t *translator) memberPyName(e *cppdecl.Enum, name string) string {
	prefix := strings.TrimSuffix(e.Name, "_") + "_"
	if rest, ok := strings.CutPrefix(name, prefix); ok && rest != "" {
		name = rest
	}
	return t.varPyName(name)
}

// checkType reports why typ cannot be bound, or "" if it can.
func (t *translator) checkType(typ cppdecl.Type, arraySize string, scope []string) string {
	if arraySize != "" {
		return fmt.Sprintf("C array %v[%v] is not supported", typ, arraySize)
	}
	if typ.FuncPtr != "" {
		return ""
	}
	if typ.Pointers >= 2 {
		return fmt.Sprintf("double pointer %v is not supported", typ)
	}
	if typ.Pointers == 0 {
		return ""
	}
	if typ.IsTemplate() {
		return fmt.Sprintf("pointer to template instance %v is not supported", typ)
	}
	if sym := t.ix.lookup(scope, typ.Name); sym != nil && sym.kind == symEnum {
		return fmt.Sprintf("pointer to enum %v is not supported", typ)
	}
	res, _ := t.ix.resolveTypedefs(typ, scope)
	if res.Pointers >= 2 {
		return fmt.Sprintf("double pointer %v is not supported", typ)
	}
	if isCString(res) || res.Name == "void" {
		return ""
	}
	if isPrimitive(res.Name) {
		return fmt.Sprintf("pointer to primitive %v is not supported", typ)
	}
	return ""
}

// enumForFlags returns the enum whose Python name equals the Python name
// of typedef sym, as for "typedef int ImGuiFooFlags" next to
// "enum ImGuiFooFlags_".
func (t *translator) enumForFlags(sym *symbol) *symbol {
	want := t.typePyName(sym.typedef.Name)
	for _, cand := range t.ix.enums {
		if t.typePyName(cand.enum.Name) == want {
			return cand
		}
	}
	return nil
}

// pyType returns the Python annotation for typ.
func (t *translator) pyType(typ cppdecl.Type, scope []string) string {
	return t.pyTypeDepth(typ, scope, 0)
}

// pyTypeDepth is pyType with the number of typedefs followed so far.
func (t *translator) pyTypeDepth(typ cppdecl.Type, scope []string, depth int) string {
	if typ.FuncPtr != "" {
		return "Any"
	}
	if isCString(typ) {
		return "str"
	}
	if typ.Pointers > 0 && typ.Name == "void" {
		return "Any"
	}
	if _, ok := intTypes[typ.Name]; ok {
		return "int"
	}
	if _, ok := floatTypes[typ.Name]; ok {
		return "float"
	}
	switch typ.Name {
	case "void":
		return "None"
	case "bool":
		return "bool"
	case "std::string", "std::string_view":
		return "str"
	case "std::function":
		return "Callable[..., Any]"
	case "std::vector", "std::array", "std::list", "std::deque":
		if len(typ.Args) > 0 {
			return "List[" + t.pyTypeDepth(typ.Args[0], scope, depth) + "]"
		}
	case "std::optional":
		if len(typ.Args) > 0 {
			return "Optional[" + t.pyTypeDepth(typ.Args[0], scope, depth) + "]"
		}
	}
	if typ.IsTemplate() {
		return "Any"
	}
	sym := t.ix.lookup(scope, typ.Name)
	if sym == nil {
		return t.typePyName(typ.Name)
	}
	switch sym.kind {
	case symTypedef:
		if e := t.enumForFlags(sym); e != nil {
			return t.typePyName(e.enum.Name)
		}
		if depth >= maxTypedefDepth {
			return "Any"
		}
		under := sym.typedef.Type
		under.Pointers += typ.Pointers
		return t.pyTypeDepth(under, sym.scope, depth+1)
	default:
		return t.typePyName(sym.qual)
	}
}

var (
	numberRe = regexp.MustCompile(`^[-+]?(0[xX][0-9a-fA-F]+|[0-9]+\.?[0-9]*([eE][-+]?[0-9]+)?|\.[0-9]+([eE][-+]?[0-9]+)?)[fFuUlL]*$`)
	callRe   = regexp.MustCompile(`^([A-Za-z_][\w:]*)\s*\((.*)\)$`)
	identRe  = regexp.MustCompile(`[A-Za-z_]\w*(?:::[A-Za-z_]\w*)*`)
)

func pyNumber(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strings.TrimRight(s, "uUlL")
	}
	s = strings.TrimRight(s, "fFuUlL")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	} else if strings.HasPrefix(s, "-.") {
		s = "-0" + s[1:]
	}
	return s
}

// pyDefault converts a C++ default argument to Python. ok is false if
// it has no Python spelling.
func (t *translator) pyDefault(raw string, scope []string) (string, bool) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return "", false
	case "true":
		return "True", true
	case "false":
		return "False", true
	case "NULL", "nullptr":
		return "None", true
	}
	if numberRe.MatchString(raw) {
		return pyNumber(raw), true
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return raw, true
	}
	if m := t.ix.lookupMember(scope, raw); m != nil {
		return t.typePyName(m.enum.enum.Name) + "." + t.memberPyName(m.enum.enum, m.member.Name), true
	}
	if m := callRe.FindStringSubmatch(raw); m != nil {
		var args []string
		if strings.TrimSpace(m[2]) != "" {
			for _, a := range strings.Split(m[2], ",") {
				pa, ok := t.pyDefault(a, scope)
				if !ok {
					return "", false
				}
				args = append(args, pa)
			}
		}
		return t.typePyName(m[1]) + "(" + strings.Join(args, ", ") + ")", true
	}
	return "", false
}

// cppDefault qualifies the names a C++ default argument refers to, so
// it can be used outside the declaring namespace.
func (t *translator) cppDefault(raw string, typ cppdecl.Type, scope []string) string {
	raw = strings.TrimSpace(raw)
	if typ.Pointers > 0 && (raw == "NULL" || raw == "nullptr") {
		return "py::none()"
	}
	if strings.HasPrefix(raw, "{") {
		base := t.ix.qualifiedType(typ, scope)
		base.Const, base.Ref, base.RValue = false, false, false
		return base.String() + raw
	}
	var b strings.Builder
	last := 0
	for _, loc := range identRe.FindAllStringIndex(raw, -1) {
		if loc[0] > 0 && (raw[loc[0]-1] == '.' || raw[loc[0]-1] == ':' || isDigitByte(raw[loc[0]-1])) {
			continue
		}
		name := raw[loc[0]:loc[1]]
		q := ""
		if m := t.ix.lookupMember(scope, name); m != nil {
			q = m.qual
		} else if sym := t.ix.lookup(scope, name); sym != nil {
			q = sym.qual
		}
		if q == "" {
			continue
		}
		b.WriteString(raw[last:loc[0]])
		b.WriteString(q)
		last = loc[1]
	}
	b.WriteString(raw[last:])
	return b.String()
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}
