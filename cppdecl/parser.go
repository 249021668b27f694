package cppdecl

import (
	"fmt"
	"slices"
	"strings"
)

type Options struct {
	// Export macros dropped wherever they appear in a declaration.
	APIPrefixes []string
}

// Parse scans src. It never fails: constructs it does not understand
// are skipped and reported in [File.Warnings].
func Parse(src string, opts Options) *File {
	toks, comments := lex(src)
	p := &parser{
		src:        src,
		toks:       toks,
		comments:   map[int]string{},
		tokenLines: map[int]bool{},
		api:        map[string]struct{}{},
	}
	for _, c := range comments {
		p.comments[c.line] = c.text
	}
	for _, t := range toks {
		p.tokenLines[t.line] = true
	}
	for _, a := range opts.APIPrefixes {
		p.api[a] = struct{}{}
	}

	f := &File{}
	for p.peek().kind != tokEOF {
		f.Decls = append(f.Decls, p.parseDecls()...)
		if p.peek().text == "}" {
			p.warnf(p.peek().line, "Unbalanced '}'")
			p.next()
		}
	}
	f.Warnings = p.warnings
	return f
}

type parser struct {
	src        string
	toks       []token
	pos        int
	comments   map[int]string // line -> comment text
	tokenLines map[int]bool
	api        map[string]struct{}
	warnings   []Warning
}

func (p *parser) peek() token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	t := p.peek()
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(text string) bool {
	if t := p.peek(); t.kind != tokEOF && t.text == text {
		p.pos++
		return true
	}
	return false
}

func (p *parser) warnf(line int, format string, args ...any) {
	p.warnings = append(p.warnings, Warning{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) raw(toks []token) string {
	if len(toks) == 0 {
		return ""
	}
	return strings.TrimSpace(p.src[toks[0].off:toks[len(toks)-1].end])
}

// docFor returns the "//" comment block that ends on the line before
// line. Trailing comments of code lines and "////" banners end the block.
func (p *parser) docFor(line int) string {
	var lines []string
	for l := line - 1; l > 0; l-- {
		c, ok := p.comments[l]
		if !ok || p.tokenLines[l] || strings.HasPrefix(c, "//") {
			break
		}
		lines = append(lines, strings.TrimSpace(c))
	}
	slices.Reverse(lines)
	return strings.Join(lines, "\n")
}

// skipBalanced consumes a bracketed group starting at the current
// token, which must be open.
func (p *parser) skipBalanced(open, close string) []token {
	start := p.pos
	depth := 0
	for {
		t := p.next()
		if t.kind == tokEOF {
			break
		}
		switch t.text {
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 {
			break
		}
	}
	return p.toks[start:p.pos]
}

// skipStatement consumes up to and including the next top-level ';', or
// a top-level brace block and an optional trailing ';'.
func (p *parser) skipStatement() {
	depth := 0
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return
		case t.text == "(" || t.text == "[":
			depth++
		case t.text == ")" || t.text == "]":
			depth--
		case t.text == "}" && depth == 0:
			return
		case t.text == ";" && depth == 0:
			p.next()
			return
		case t.text == "{" && depth == 0:
			p.skipBalanced("{", "}")
			p.accept(";")
			return
		}
		p.next()
	}
}

// parseDecls parses declarations up to EOF or an unmatched '}' (which
// is left unconsumed).
func (p *parser) parseDecls() []Decl {
	var decls []Decl
	for {
		t := p.peek()
		if t.kind == tokEOF || t.text == "}" {
			return decls
		}
		if t.text == ";" {
			p.next()
			continue
		}
		switch t.text {
		case "namespace":
			if ns := p.parseNamespace(); ns != nil {
				decls = append(decls, ns)
			}
		case "inline":
			if p.peekN(1).text == "namespace" {
				p.next()
				if ns := p.parseNamespace(); ns != nil {
					decls = append(decls, ns)
				}
			} else {
				decls = append(decls, p.parseStatement("")...)
			}
		case "extern":
			if p.peekN(1).kind == tokString && p.peekN(2).text == "{" {
				p.next()
				p.next()
				p.next()
				decls = append(decls, p.parseDecls()...)
				p.accept("}")
			} else if p.peekN(1).kind == tokString {
				p.next()
				p.next()
			} else {
				decls = append(decls, p.parseStatement("")...)
			}
		case "template":
			p.parseTemplate()
		case "typedef":
			if td := p.parseTypedef(); td != nil {
				decls = append(decls, td)
			}
		case "using":
			if td := p.parseUsing(); td != nil {
				decls = append(decls, td)
			}
		case "enum":
			if e := p.parseEnum(); e != nil {
				decls = append(decls, e)
			}
		case "struct", "class", "union":
			decls = append(decls, p.parseStructOrStatement("")...)
		case "static_assert":
			p.skipStatement()
		default:
			decls = append(decls, p.parseStatement("")...)
		}
	}
}

func (p *parser) parseNamespace() Decl {
	start := p.next() // "namespace"
	var names []string
	for p.peek().kind == tokIdent {
		names = append(names, p.next().text)
		if !p.accept("::") {
			break
		}
	}
	if p.peek().text != "{" {
		// namespace alias
		p.skipStatement()
		return nil
	}
	p.next()
	decls := p.parseDecls()
	if !p.accept("}") {
		p.warnf(start.line, "Unterminated namespace %v", strings.Join(names, "::"))
	}
	if len(names) == 0 {
		return &Namespace{Line: start.line, Decls: decls}
	}
	// a::b::c { ... } nests right to left.
	var ns *Namespace
	for i := len(names) - 1; i >= 0; i-- {
		inner := &Namespace{Name: names[i], Line: start.line, Decls: decls}
		decls = []Decl{inner}
		ns = inner
	}
	return ns
}

func (p *parser) parseTemplate() {
	start := p.next() // "template"
	if p.peek().text == "<" {
		p.skipBalanced("<", ">")
	}
	// Find what is being templated.
	kind := "function"
	name := "?"
	depth := 0
	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.kind == tokEOF || t.text == ";" || t.text == "{" {
			break
		}
		if t.text == "<" {
			depth++
		} else if t.text == ">" {
			depth--
		}
		if depth > 0 {
			continue
		}
		if (t.text == "struct" || t.text == "class") && i == p.pos {
			kind = "class"
			if i+1 < len(p.toks) && p.toks[i+1].kind == tokIdent {
				name = p.toks[i+1].text
			}
			break
		}
		if t.text == "(" && i > p.pos && p.toks[i-1].kind == tokIdent {
			name = p.toks[i-1].text
			break
		}
	}
	p.warnf(start.line, "Ignoring template %v %v", kind, name)
	p.skipStatement()
}

func (p *parser) parseTypedef() Decl {
	start := p.next() // "typedef"
	var toks []token
	for t := p.peek(); t.kind != tokEOF && t.text != ";"; t = p.peek() {
		if t.text == "{" {
			// typedef struct { ... } Name;
			p.warnf(t.line, "Ignoring typedef of an inline type definition")
			p.skipBalanced("{", "}")
			p.skipStatement()
			return nil
		}
		toks = append(toks, p.next())
	}
	p.accept(";")
	toks = p.stripAPI(toks)
	if len(toks) < 2 {
		p.warnf(start.line, "Ignoring malformed typedef")
		return nil
	}
	typ, name, _ := p.parseDeclarator(toks)
	if name == "" {
		p.warnf(start.line, "Ignoring typedef without a name")
		return nil
	}
	return &Typedef{Name: name, Type: typ, Line: start.line}
}

func (p *parser) parseUsing() Decl {
	start := p.next() // "using"
	if p.peek().text == "namespace" || p.peekN(1).text != "=" {
		p.skipStatement()
		return nil
	}
	name := p.next().text
	p.next() // "="
	var toks []token
	for t := p.peek(); t.kind != tokEOF && t.text != ";"; t = p.peek() {
		toks = append(toks, p.next())
	}
	p.accept(";")
	if len(toks) == 0 {
		return nil
	}
	if firstTopLevelParen(toks) >= 0 {
		return &Typedef{Name: name, Type: Type{FuncPtr: p.raw(toks)}, Line: start.line}
	}
	return &Typedef{Name: name, Type: parseType(toks), Line: start.line}
}

func (p *parser) parseEnum() Decl {
	start := p.next() // "enum"
	e := &Enum{Line: start.line, Doc: p.docFor(start.line)}
	if p.accept("class") || p.accept("struct") {
		e.Scoped = true
	}
	if t := p.peek(); t.kind == tokIdent {
		e.Name = p.next().text
	}
	if p.accept(":") {
		var toks []token
		for t := p.peek(); t.kind != tokEOF && t.text != "{" && t.text != ";"; t = p.peek() {
			toks = append(toks, p.next())
		}
		e.Underlying = p.raw(toks)
	}
	if p.peek().text != "{" {
		// Forward declaration or elaborated variable declaration.
		p.skipStatement()
		return nil
	}
	p.next()
	for {
		t := p.peek()
		if t.kind == tokEOF {
			p.warnf(start.line, "Unterminated enum %v", e.Name)
			return nil
		}
		if p.accept("}") {
			break
		}
		if p.accept(",") {
			continue
		}
		if t.kind != tokIdent {
			p.warnf(t.line, "Unexpected %q in enum %v", t.text, e.Name)
			p.next()
			continue
		}
		p.next()
		m := EnumMember{Name: t.text, Line: t.line, Doc: p.docFor(t.line)}
		if p.accept("=") {
			var toks []token
			depth := 0
			for v := p.peek(); v.kind != tokEOF; v = p.peek() {
				if depth == 0 && (v.text == "," || v.text == "}") {
					break
				}
				switch v.text {
				case "(", "[", "{":
					depth++
				case ")", "]", "}":
					depth--
				}
				toks = append(toks, p.next())
			}
			m.Value = p.raw(toks)
		}
		e.Members = append(e.Members, m)
	}
	// Trailing declarator, e.g. "} Name;".
	p.skipStatement()
	return e
}

// parseStructOrStatement handles a leading struct/class/union keyword,
// which starts either a definition or an elaborated declaration such as
// "struct ImRect* rect;".
func (p *parser) parseStructOrStatement(outer string) []Decl {
	start := p.pos
	kw := p.next()
	for t := p.peek(); t.kind == tokIdent; t = p.peek() {
		if _, ok := p.api[t.text]; ok {
			p.next()
			continue
		}
		break
	}
	name := ""
	if p.peek().kind == tokIdent {
		name = p.next().text
	}
	p.accept("final")
	switch p.peek().text {
	case ";":
		// Forward declaration.
		p.next()
		return nil
	case "{", ":":
	default:
		p.pos = start
		return p.parseStatement(outer)
	}

	s := &Struct{Name: name, Class: kw.text == "class", Line: kw.line, Doc: p.docFor(kw.line)}
	if p.accept(":") {
		var base []token
		flush := func() {
			var parts []token
			for _, t := range base {
				switch t.text {
				case "public", "private", "protected", "virtual":
					continue
				}
				parts = append(parts, t)
			}
			if len(parts) > 0 {
				s.Bases = append(s.Bases, p.raw(parts))
			}
			base = base[:0]
		}
		depth := 0
		for t := p.peek(); t.kind != tokEOF && t.text != "{"; t = p.peek() {
			p.next()
			switch {
			case t.text == "<":
				depth++
			case t.text == ">":
				depth--
			case t.text == "," && depth == 0:
				flush()
				continue
			}
			base = append(base, t)
		}
		flush()
	}
	if p.peek().text != "{" {
		p.skipStatement()
		return nil
	}
	p.next()
	p.parseStructBody(s)
	if !p.accept("}") {
		p.warnf(kw.line, "Unterminated %v %v", kw.text, name)
	}
	// Trailing declarators, e.g. "} g_instance;".
	p.skipStatement()

	if kw.text == "union" {
		p.warnf(kw.line, "Ignoring union %v", name)
		return nil
	}
	if name == "" {
		p.warnf(kw.line, "Ignoring anonymous %v", kw.text)
		return nil
	}
	return []Decl{s}
}

func (p *parser) parseStructBody(s *Struct) {
	public := !s.Class
	for {
		t := p.peek()
		if t.kind == tokEOF || t.text == "}" {
			return
		}
		if (t.text == "public" || t.text == "private" || t.text == "protected") && p.peekN(1).text == ":" {
			public = t.text == "public"
			p.next()
			p.next()
			continue
		}
		switch t.text {
		case ";":
			p.next()
		case "enum":
			if e := p.parseEnum(); e != nil && public {
				s.Nested = append(s.Nested, e)
			}
		case "struct", "class", "union":
			for _, d := range p.parseStructOrStatement(s.Name) {
				if !public {
					continue
				}
				switch d := d.(type) {
				case *Field:
					s.Fields = append(s.Fields, *d)
				default:
					s.Nested = append(s.Nested, d)
				}
			}
		case "template":
			p.parseTemplate()
		case "typedef":
			if td := p.parseTypedef(); td != nil && public {
				s.Nested = append(s.Nested, td)
			}
		case "using":
			if td := p.parseUsing(); td != nil && public {
				s.Nested = append(s.Nested, td)
			}
		case "friend", "static_assert":
			p.skipStatement()
		default:
			for _, d := range p.parseStatement(s.Name) {
				if !public {
					continue
				}
				switch d := d.(type) {
				case *Function:
					if d.IsCtor {
						s.Ctors = append(s.Ctors, *d)
					} else {
						s.Methods = append(s.Methods, *d)
					}
				case *Field:
					s.Fields = append(s.Fields, *d)
				}
			}
		}
	}
}

var specifiers = map[string]struct{}{
	"virtual": {}, "static": {}, "inline": {}, "explicit": {}, "constexpr": {},
	"extern": {}, "mutable": {}, "consteval": {}, "constinit": {},
}

// stripAPI removes export macros and [[attributes]].
func (p *parser) stripAPI(toks []token) []token {
	out := toks[:0:0]
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if _, ok := p.api[t.text]; ok {
			continue
		}
		if t.text == "[" && i+1 < len(toks) && toks[i+1].text == "[" {
			depth := 0
			for ; i < len(toks); i++ {
				if toks[i].text == "[" {
					depth++
				} else if toks[i].text == "]" {
					depth--
					if depth == 0 {
						break
					}
				}
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

// parseStatement parses a function or variable declaration. outer is
// the enclosing struct name, used to recognize constructors.
func (p *parser) parseStatement(outer string) []Decl {
	first := p.peek()
	doc := p.docFor(first.line)

	var toks []token
	depth := 0
	angle := 0
	sawParen := false
	sawAssign := false
	braceInit := ""
loop:
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			break loop
		case t.text == "operator" && depth == 0:
			p.warnf(first.line, "Ignoring operator %v", p.operatorName())
			p.skipStatement()
			return nil
		case t.text == "<" && depth == 0 && !sawAssign && len(toks) > 0 && toks[len(toks)-1].kind == tokIdent:
			angle++
		case t.text == ">" && depth == 0 && angle > 0:
			angle--
		case t.text == "}" && depth == 0:
			break loop
		case t.text == ";" && depth == 0:
			p.next()
			break loop
		case t.text == "{" && depth == 0:
			if sawParen {
				// Function body.
				p.skipBalanced("{", "}")
				p.accept(";")
				break loop
			}
			group := p.skipBalanced("{", "}")
			if sawAssign {
				toks = append(toks, group...)
			} else {
				braceInit = p.raw(group)
			}
			continue
		case t.text == "(" || t.text == "[":
			if t.text == "(" && depth == 0 && angle == 0 && !sawAssign {
				sawParen = true
			}
			depth++
		case t.text == ")" || t.text == "]":
			depth--
		case t.text == "=" && depth == 0:
			if !sawParen {
				sawAssign = true
			}
		}
		toks = append(toks, p.next())
	}
	toks = p.stripAPI(toks)
	if len(toks) == 0 {
		return nil
	}

	if sawParen {
		f := p.parseFunction(toks, outer, first.line, doc)
		if f == nil {
			return nil
		}
		return []Decl{f}
	}
	return p.parseVariables(toks, braceInit, first.line, doc)
}

// operatorName returns the operator spelled after the current
// "operator" token, e.g. "<" or "()".
func (p *parser) operatorName() string {
	if p.peekN(1).text == "(" {
		return "()"
	}
	var toks []token
	for i := 1; ; i++ {
		t := p.peekN(i)
		if t.kind == tokEOF || t.text == "(" || t.text == ";" {
			break
		}
		toks = append(toks, t)
	}
	return p.raw(toks)
}

// firstTopLevelParen returns the index of the first '(' outside of
// template argument lists, or -1.
func firstTopLevelParen(toks []token) int {
	angle := 0
	for i, t := range toks {
		switch {
		case t.text == "<" && i > 0 && toks[i-1].kind == tokIdent:
			angle++
		case t.text == ">" && angle > 0:
			angle--
		case t.text == "(" && angle == 0:
			return i
		}
	}
	return -1
}

func (p *parser) parseFunction(toks []token, outer string, line int, doc string) *Function {
	open := firstTopLevelParen(toks)
	if open <= 0 {
		p.warnf(line, "Ignoring unrecognized declaration %q", p.raw(toks))
		return nil
	}
	for i := 0; i < open; i++ {
		if toks[i].text == "friend" {
			return nil
		}
	}
	nameTok := toks[open-1]
	if nameTok.text == ")" {
		p.warnf(line, "Ignoring function pointer declaration %q", p.raw(toks))
		return nil
	}
	if nameTok.kind != tokIdent {
		p.warnf(line, "Ignoring unrecognized declaration %q", p.raw(toks))
		return nil
	}
	if open >= 2 && toks[open-2].text == "~" {
		// Destructors are never bound.
		return nil
	}

	f := &Function{Name: nameTok.text, Line: line, Doc: doc}
	var retToks []token
	for _, t := range toks[:open-1] {
		switch t.text {
		case "virtual":
			f.Virtual = true
		case "static":
			f.Static = true
		}
		if _, ok := specifiers[t.text]; ok {
			continue
		}
		retToks = append(retToks, t)
	}
	// Qualified out-of-class definitions such as "Foo::Bar(...)".
	if n := len(retToks); n > 0 && retToks[n-1].text == "::" {
		return nil
	}
	if len(retToks) == 0 {
		if f.Name != outer {
			// Function-like macro invocation.
			p.warnf(line, "Ignoring macro invocation %v", p.raw(toks))
			return nil
		}
		f.IsCtor = true
	} else {
		f.Return = parseType(retToks)
	}

	// Parameters.
	end := open
	depth := 0
	for i := open; i < len(toks); i++ {
		switch toks[i].text {
		case "(":
			depth++
		case ")":
			depth--
		}
		if depth == 0 {
			end = i
			break
		}
	}
	if end == open {
		p.warnf(line, "Unterminated parameter list of %v", f.Name)
		return nil
	}
	for _, pt := range splitTopLevel(toks[open+1:end], ",") {
		if len(pt) == 0 {
			continue
		}
		if len(pt) == 1 && pt[0].text == "..." {
			f.Variadic = true
			continue
		}
		if len(pt) == 1 && pt[0].text == "void" {
			continue
		}
		var def string
		if before, after, ok := cutTopLevel(pt, "="); ok {
			pt = before
			def = p.raw(after)
		}
		typ, name, arr := p.parseDeclarator(pt)
		f.Params = append(f.Params, Param{Name: name, Type: typ, Default: def, ArraySize: arr})
	}

	// Trailing qualifiers.
	suffix := toks[end+1:]
	for i := 0; i < len(suffix); i++ {
		switch suffix[i].text {
		case "const":
			f.Const = true
		case "override", "final":
			f.Override = true
		case "=":
			if i+1 < len(suffix) {
				switch suffix[i+1].text {
				case "0":
					f.Pure = true
				case "delete":
					return nil
				}
			}
			i = len(suffix)
		case ":":
			// Constructor initializer list.
			i = len(suffix)
		}
	}
	return f
}

// cutTopLevel splits toks around the first top-level sep.
func cutTopLevel(toks []token, sep string) (before, after []token, found bool) {
	parts := splitTopLevel(toks, sep)
	if len(parts) < 2 {
		return toks, nil, false
	}
	n := len(parts[0])
	return toks[:n], toks[n+1:], true
}

func (p *parser) parseVariables(toks []token, braceInit string, line int, doc string) []Decl {
	for _, t := range toks {
		if t.text == "static" || t.text == "extern" || t.text == "typedef" {
			return nil
		}
	}
	var decls []Decl
	var base Type
	for i, part := range splitTopLevel(toks, ",") {
		def := braceInit
		if before, after, ok := cutTopLevel(part, "="); ok {
			part = before
			def = p.raw(after)
		}
		// Bit fields.
		for j, t := range part {
			if t.text == ":" {
				part = part[:j]
				break
			}
		}
		if len(part) == 0 {
			continue
		}
		var typ Type
		var name, arr string
		if i == 0 {
			typ, name, arr = p.parseDeclarator(part)
			base = typ
			base.Pointers = 0
			base.Ref = false
		} else {
			typ = base
			for len(part) > 1 && (part[0].text == "*" || part[0].text == "&") {
				if part[0].text == "*" {
					typ.Pointers++
				} else {
					typ.Ref = true
				}
				part = part[1:]
			}
			part, arr = p.cutArray(part)
			if n := len(part); n > 0 && part[n-1].kind == tokIdent {
				name = part[n-1].text
			}
		}
		if name == "" {
			p.warnf(line, "Ignoring unrecognized declaration %q", p.raw(toks))
			return nil
		}
		decls = append(decls, &Field{
			Name:      name,
			Type:      typ,
			Default:   def,
			ArraySize: arr,
			Doc:       doc,
			Line:      line,
		})
	}
	return decls
}

// splitTopLevel splits toks on sep outside of (), [], {} and <>.
func splitTopLevel(toks []token, sep string) [][]token {
	var res [][]token
	depth := 0
	angle := 0
	start := 0
	for i, t := range toks {
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case "<":
			if depth == 0 && i > 0 && toks[i-1].kind == tokIdent {
				angle++
			}
		case ">":
			if depth == 0 && angle > 0 {
				angle--
			}
		case sep:
			if depth == 0 && angle == 0 {
				res = append(res, toks[start:i])
				start = i + 1
			}
		}
	}
	return append(res, toks[start:])
}

var builtinWords = map[string]struct{}{
	"void": {}, "bool": {}, "char": {}, "wchar_t": {}, "char8_t": {}, "char16_t": {},
	"char32_t": {}, "short": {}, "int": {}, "long": {}, "float": {}, "double": {},
	"signed": {}, "unsigned": {}, "auto": {},
}

var qualifierWords = map[string]struct{}{
	"const": {}, "volatile": {}, "struct": {}, "class": {}, "enum": {},
	"union": {}, "typename": {},
}

// parseDeclarator splits a declarator into type, name and C array size.
func (p *parser) parseDeclarator(toks []token) (Type, string, string) {
	if firstTopLevelParen(toks) >= 0 {
		name := ""
		for i := 0; i+2 < len(toks); i++ {
			if toks[i].text == "(" && toks[i+1].text == "*" && toks[i+2].kind == tokIdent {
				name = toks[i+2].text
				break
			}
		}
		return Type{FuncPtr: p.raw(toks)}, name, ""
	}

	toks, arr := p.cutArray(toks)

	name := ""
	if n := len(toks); n > 1 && toks[n-1].kind == tokIdent {
		last := toks[n-1].text
		_, builtin := builtinWords[last]
		_, qual := qualifierWords[last]
		hasType := false
		for _, t := range toks[:n-1] {
			if _, q := qualifierWords[t.text]; !q {
				hasType = true
				break
			}
		}
		// "unsigned int" and "const T" have no name.
		if !builtin && !qual && hasType && toks[n-2].text != "::" {
			name = last
			toks = toks[:n-1]
		}
	}
	return parseType(toks), name, arr
}

// cutArray removes a trailing "[N]" and returns N ("?" if empty).
func (p *parser) cutArray(toks []token) ([]token, string) {
	n := len(toks)
	if n == 0 || toks[n-1].text != "]" {
		return toks, ""
	}
	for i := n - 1; i >= 0; i-- {
		if toks[i].text == "[" {
			arr := p.raw(toks[i+1 : n-1])
			if arr == "" {
				arr = "?"
			}
			return toks[:i], arr
		}
	}
	return toks, ""
}

// parseType parses a type without declarator name.
func parseType(toks []token) Type {
	var t Type
	i := 0
	for i < len(toks) {
		if _, ok := qualifierWords[toks[i].text]; ok {
			if toks[i].text == "const" {
				t.Const = true
			}
			i++
			continue
		}
		break
	}

	// Base name.
	var name []string
	if i < len(toks) {
		if _, ok := builtinWords[toks[i].text]; ok {
			for i < len(toks) {
				if _, ok := builtinWords[toks[i].text]; !ok {
					if toks[i].text == "const" {
						t.Const = true
						i++
						continue
					}
					break
				}
				name = append(name, toks[i].text)
				i++
			}
			t.Name = strings.Join(name, " ")
		} else {
			var b strings.Builder
			for i < len(toks) {
				tk := toks[i]
				if tk.text == "::" || (tk.kind == tokIdent && (b.Len() == 0 || strings.HasSuffix(b.String(), "::"))) {
					b.WriteString(tk.text)
					i++
					continue
				}
				break
			}
			t.Name = b.String()
			if i < len(toks) && toks[i].text == "<" {
				depth := 0
				start := i + 1
				end := start
				for j := i; j < len(toks); j++ {
					switch toks[j].text {
					case "<":
						depth++
					case ">":
						depth--
					}
					if depth == 0 {
						end = j
						break
					}
				}
				if end < start {
					end = len(toks)
				}
				for _, arg := range splitTopLevel(toks[start:end], ",") {
					if len(arg) == 0 {
						continue
					}
					if arg[0].kind == tokNumber || arg[0].kind == tokString || arg[0].kind == tokChar {
						var parts []string
						for _, a := range arg {
							parts = append(parts, a.text)
						}
						t.RawArgs = append(t.RawArgs, strings.Join(parts, ""))
						continue
					}
					t.Args = append(t.Args, parseType(arg))
				}
				i = end + 1
			}
		}
	}

	// Trailing const, pointers and references.
	for ; i < len(toks); i++ {
		switch toks[i].text {
		case "const":
			if t.Pointers == 0 {
				t.Const = true
			}
		case "*":
			t.Pointers++
		case "&":
			if t.Ref {
				t.Ref = false
				t.RValue = true
			} else {
				t.Ref = true
			}
		}
	}
	return t
}
