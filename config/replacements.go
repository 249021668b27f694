package config

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Replacement rewrites every match of Pattern with Replacement.
// Replacement may refer to capture groups as \1 to \9.
type Replacement struct {
	Pattern     string `toml:"pattern"`
	Replacement string `toml:"replacement"`
}

// Replacements is an ordered rule table. Every rule is applied, in
// order, to the output of the previous one.
type Replacements []Replacement

// AddLast appends a rule, so it runs after all existing ones.
func (r *Replacements) AddLast(pattern, replacement string) {
	*r = append(*r, Replacement{Pattern: pattern, Replacement: replacement})
}

// AddFirst prepends a rule, so it runs before all existing ones.
func (r *Replacements) AddFirst(pattern, replacement string) {
	*r = slices.Insert(*r, 0, Replacement{Pattern: pattern, Replacement: replacement})
}

func (r Replacements) Clone() Replacements {
	return slices.Clone(r)
}

// Apply compiles the rules and runs them on s. Prefer
// [Replacements.Compile] when applying to many strings.
func (r Replacements) Apply(s string) (string, error) {
	c, err := r.Compile()
	if err != nil {
		return "", err
	}
	return c.Apply(s), nil
}

type compiledReplacement struct {
	re   *regexp.Regexp
	repl string
}

type CompiledReplacements []compiledReplacement

// backrefsToTemplate converts \1 style backrefs into the ${1} form
// understood by [regexp.Regexp.ReplaceAllString]. A literal '$' is
// escaped as "$$".
func backrefsToTemplate(s string) string {
	oldnew := make([]string, 0, 2*10)
	oldnew = append(oldnew, "$", "$$")
	for i := 1; i <= 9; i++ {
		oldnew = append(oldnew, `\`+strconv.Itoa(i), "${"+strconv.Itoa(i)+"}")
	}
	return strings.NewReplacer(oldnew...).Replace(s)
}

func (r Replacements) Compile() (CompiledReplacements, error) {
	res := make(CompiledReplacements, 0, len(r))
	for i, rep := range r {
		re, err := regexp.Compile(rep.Pattern)
		if err != nil {
			return nil, fmt.Errorf("replacement %v (%q): %w", i, rep.Pattern, err)
		}
		res = append(res, compiledReplacement{re: re, repl: backrefsToTemplate(rep.Replacement)})
	}
	return res, nil
}

func (c CompiledReplacements) Apply(s string) string {
	for _, rep := range c {
		s = rep.re.ReplaceAllString(s, rep.repl)
	}
	return s
}
