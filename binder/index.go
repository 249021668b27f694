package binder

import (
	"strings"

	"github.com/imguibundle/gizmogen/cppdecl"
)

type symbolKind int

const (
	symEnum symbolKind = iota
	symClass
	symTypedef
)

type symbol struct {
	kind symbolKind
	// Fully qualified C++ name, e.g. "ImCurveEdit::Delegate".
	qual string
	// Enclosing scope of the declaration.
	scope []string

	enum    *cppdecl.Enum
	strct   *cppdecl.Struct
	typedef *cppdecl.Typedef
}

type enumMember struct {
	qual   string // qualified C++ name
	enum   *symbol
	member *cppdecl.EnumMember
}

// index maps the names declared in one file to their declarations.
type index struct {
	syms    map[string]*symbol
	members map[string]*enumMember
	// In declaration order.
	enums []*symbol
}

func qualify(scope []string, name string) string {
	if len(scope) == 0 {
		return name
	}
	return strings.Join(scope, "::") + "::" + name
}

func buildIndex(decls []cppdecl.Decl) *index {
	ix := &index{
		syms:    map[string]*symbol{},
		members: map[string]*enumMember{},
	}
	ix.add(decls, nil)
	return ix
}

func (ix *index) add(decls []cppdecl.Decl, scope []string) {
	for _, d := range decls {
		switch d := d.(type) {
		case *cppdecl.Namespace:
			if d.Name != "" {
				ix.add(d.Decls, append(scope[:len(scope):len(scope)], d.Name))
			}
		case *cppdecl.Enum:
			if d.Name == "" {
				continue
			}
			sym := &symbol{kind: symEnum, qual: qualify(scope, d.Name), scope: scope, enum: d}
			ix.syms[sym.qual] = sym
			ix.enums = append(ix.enums, sym)
			for i := range d.Members {
				m := &d.Members[i]
				scoped := &enumMember{qual: qualify(scope, d.Name+"::"+m.Name), enum: sym, member: m}
				ix.members[scoped.qual] = scoped
				if !d.Scoped {
					ix.members[qualify(scope, m.Name)] = &enumMember{qual: qualify(scope, m.Name), enum: sym, member: m}
				}
			}
		case *cppdecl.Struct:
			sym := &symbol{kind: symClass, qual: qualify(scope, d.Name), scope: scope, strct: d}
			ix.syms[sym.qual] = sym
			ix.add(d.Nested, append(scope[:len(scope):len(scope)], d.Name))
		case *cppdecl.Typedef:
			qual := qualify(scope, d.Name)
			// "typedef struct Foo Foo;" names the type itself.
			if under := strings.TrimPrefix(d.Type.Name, "::"); d.Type.FuncPtr == "" && (under == d.Name || under == qual) {
				continue
			}
			if prev, ok := ix.syms[qual]; ok && prev.kind != symTypedef {
				continue
			}
			ix.syms[qual] = &symbol{kind: symTypedef, qual: qual, scope: scope, typedef: d}
		}
	}
}

// lookup resolves name as seen from scope, innermost scope first.
func (ix *index) lookup(scope []string, name string) *symbol {
	name = strings.TrimPrefix(name, "::")
	for i := len(scope); i >= 0; i-- {
		if sym, ok := ix.syms[qualify(scope[:i], name)]; ok {
			return sym
		}
	}
	return nil
}

func (ix *index) lookupMember(scope []string, name string) *enumMember {
	name = strings.TrimPrefix(name, "::")
	for i := len(scope); i >= 0; i-- {
		if m, ok := ix.members[qualify(scope[:i], name)]; ok {
			return m
		}
	}
	return nil
}

// Longest typedef chain followed before giving up on a cycle.
const maxTypedefDepth = 16

// resolveTypedefs follows typedef chains and returns the final type with
// the pointers and references of typ carried over.
func (ix *index) resolveTypedefs(typ cppdecl.Type, scope []string) (cppdecl.Type, []string) {
	for range maxTypedefDepth {
		sym := ix.lookup(scope, typ.Name)
		if sym == nil || sym.kind != symTypedef || typ.IsTemplate() {
			return typ, scope
		}
		under := sym.typedef.Type
		under.Pointers += typ.Pointers
		under.Ref = under.Ref || typ.Ref
		under.Const = under.Const || typ.Const
		typ, scope = under, sym.scope
	}
	return typ, scope
}

// qualifiedType returns typ with every name declared in this file
// replaced by its fully qualified C++ name.
func (ix *index) qualifiedType(typ cppdecl.Type, scope []string) cppdecl.Type {
	return typ.Map(func(name string) string {
		if sym := ix.lookup(scope, name); sym != nil {
			return sym.qual
		}
		return name
	})
}
