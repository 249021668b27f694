package config

import (
	"fmt"
	"regexp"
	"regexp/syntax"
	"strings"
)

// Compiled holds the ready-to-use form of [Options].
type Compiled struct {
	ClassOverrideVirtualMethods  *regexp.Regexp // nil matches nothing
	StructCreateDefaultNamedCtor *regexp.Regexp // nil matches nothing
	FnExcludeByName              *regexp.Regexp // nil matches nothing
	VarNames                     CompiledReplacements
	Types                        CompiledReplacements
}

func compileOptional(field, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", field, err)
	}
	return re, nil
}

// Compile checks and compiles every regex in o.
func (o *Options) Compile() (*Compiled, error) {
	var c Compiled
	var err error
	if c.ClassOverrideVirtualMethods, err = compileOptional("class-override-virtual-methods-regex", o.ClassOverrideVirtualMethodsRegex); err != nil {
		return nil, err
	}
	if c.StructCreateDefaultNamedCtor, err = compileOptional("struct-create-default-named-ctor-regex", o.StructCreateDefaultNamedCtorRegex); err != nil {
		return nil, err
	}
	if c.FnExcludeByName, err = compileOptional("fn-exclude-by-name-regex", o.FnExcludeByNameRegex); err != nil {
		return nil, err
	}
	if c.VarNames, err = o.VarNamesReplacements.Compile(); err != nil {
		return nil, fmt.Errorf("var-names-replacements: %w", err)
	}
	if c.Types, err = o.TypeReplacements.Compile(); err != nil {
		return nil, fmt.Errorf("type-replacements: %w", err)
	}
	return &c, nil
}

// Matches reports whether re is set and matches s.
func Matches(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

// splitAlternatives splits expr on '|' outside of groups, classes and
// escapes.
func splitAlternatives(expr string) []string {
	var res []string
	depth := 0
	inClass := false
	start := 0
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == '|' && depth == 0:
			res = append(res, expr[start:i])
			start = i + 1
		}
	}
	return append(res, expr[start:])
}

// ExcludedLiterals returns the plain identifiers named by
// FnExcludeByNameRegex, such as "GetPoints" for `^GetPoints$`.
// Alternatives that are not a single (optionally anchored) literal are
// left out.
func (o *Options) ExcludedLiterals() []string {
	if o.FnExcludeByNameRegex == "" {
		return nil
	}
	var res []string
	for _, alt := range splitAlternatives(o.FnExcludeByNameRegex) {
		re, err := syntax.Parse(alt, syntax.Perl)
		if err != nil {
			continue
		}
		subs := []*syntax.Regexp{re}
		if re.Op == syntax.OpConcat {
			subs = re.Sub
		}
		var lit strings.Builder
		ok := true
		for _, sub := range subs {
			switch sub.Op {
			case syntax.OpBeginLine, syntax.OpBeginText, syntax.OpEndLine, syntax.OpEndText:
			case syntax.OpLiteral:
				if sub.Flags&syntax.FoldCase != 0 {
					ok = false
				}
				lit.WriteString(string(sub.Rune))
			default:
				ok = false
			}
		}
		if ok && lit.Len() > 0 {
			res = append(res, lit.String())
		}
	}
	return res
}
