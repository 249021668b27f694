// Package cppdecl scans C++ headers for the declarations a binding
// generator needs: namespaces, enums, structs/classes, functions and
// typedefs. It is not a C++ parser; bodies are skipped by brace matching
// and anything it cannot read is skipped with a [Warning].
package cppdecl

import (
	"strings"
)

type Decl interface {
	// DeclLine is the line the declaration starts on.
	DeclLine() int
}

type Namespace struct {
	Name  string
	Line  int
	Decls []Decl
}

type EnumMember struct {
	Name  string
	Value string // raw C++ expression, empty if implicit
	Doc   string
	Line  int
}

type Enum struct {
	Name       string
	Scoped     bool // enum class
	Underlying string
	Doc        string
	Line       int
	Members    []EnumMember
}

type Param struct {
	Name      string // may be empty
	Type      Type
	Default   string // raw C++ expression
	ArraySize string // set for C array parameters
}

type Function struct {
	Name     string
	Return   Type
	Params   []Param
	Doc      string
	Line     int
	Virtual  bool
	Pure     bool
	Const    bool
	Static   bool
	Override bool
	Variadic bool
	IsCtor   bool
}

// IsVirtual reports whether f can be overridden from a subclass.
func (f *Function) IsVirtual() bool {
	return f.Virtual || f.Override || f.Pure
}

type Field struct {
	Name      string
	Type      Type
	Default   string
	ArraySize string // set for C arrays
	Doc       string
	Line      int
}

type Struct struct {
	Name    string
	Class   bool // declared with "class"
	Bases   []string
	Doc     string
	Line    int
	Fields  []Field
	Methods []Function
	Ctors   []Function
	// Enums and structs declared inside the struct body.
	Nested []Decl
}

// IsAbstract reports whether s declares a pure virtual method.
func (s *Struct) IsAbstract() bool {
	for i := range s.Methods {
		if s.Methods[i].Pure {
			return true
		}
	}
	return false
}

// HasVirtual reports whether s declares a virtual or overriding method.
func (s *Struct) HasVirtual() bool {
	for i := range s.Methods {
		if s.Methods[i].IsVirtual() {
			return true
		}
	}
	return false
}

type Typedef struct {
	Name string
	Type Type
	Line int
}

func (d *Namespace) DeclLine() int { return d.Line }
func (d *Enum) DeclLine() int      { return d.Line }
func (d *Function) DeclLine() int  { return d.Line }
func (d *Struct) DeclLine() int    { return d.Line }
func (d *Typedef) DeclLine() int   { return d.Line }
func (d *Field) DeclLine() int     { return d.Line }

// Type is a C++ type as spelled in a declaration.
type Type struct {
	Const bool
	// Base name without qualifiers or template arguments, e.g.
	// "std::vector", "unsigned int", "ImVec2".
	Name string
	// Template arguments, e.g. [ImVec2] for std::vector<ImVec2>.
	Args []Type
	// Raw text of template arguments that are not types (e.g. sizes).
	RawArgs  []string
	Pointers int
	Ref      bool // &
	RValue   bool // &&
	// FuncPtr holds the raw text of a function pointer type.
	FuncPtr string
}

// IsTemplate reports whether t is a template instance.
func (t Type) IsTemplate() bool {
	return len(t.Args) > 0 || len(t.RawArgs) > 0
}

// IsVoid reports whether t is plain void.
func (t Type) IsVoid() bool {
	return t.Name == "void" && t.Pointers == 0 && !t.Ref && t.FuncPtr == ""
}

// BaseString returns the name with template arguments, without
// qualifiers, pointers or references.
func (t Type) BaseString() string {
	if t.FuncPtr != "" {
		return t.FuncPtr
	}
	if !t.IsTemplate() {
		return t.Name
	}
	var b strings.Builder
	b.WriteString(t.Name)
	b.WriteString("<")
	first := true
	for _, a := range t.Args {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(a.String())
	}
	for _, a := range t.RawArgs {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(a)
	}
	b.WriteString(">")
	return b.String()
}

// String returns the C++ spelling of t.
func (t Type) String() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	b.WriteString(t.BaseString())
	b.WriteString(strings.Repeat("*", t.Pointers))
	if t.Ref {
		b.WriteString("&")
	}
	if t.RValue {
		b.WriteString("&&")
	}
	return b.String()
}

// Map returns a copy of t with fn applied to the base name of t and of
// all its template arguments.
func (t Type) Map(fn func(name string) string) Type {
	t.Name = fn(t.Name)
	if len(t.Args) > 0 {
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.Map(fn)
		}
		t.Args = args
	}
	return t
}

// Warning is a non-fatal scanning diagnostic.
type Warning struct {
	Line    int
	Message string
}

type File struct {
	Decls    []Decl
	Warnings []Warning
}
