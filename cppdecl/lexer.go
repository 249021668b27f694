package cppdecl

import (
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokChar
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	line int
	// Byte offsets into the source.
	off, end int
}

type comment struct {
	line int
	text string // without the leading "//"
}

// lex splits src into tokens and line comments. Preprocessor
// directives (including continuation lines) and block comments are
// dropped.
func lex(src string) ([]token, []comment) {
	var toks []token
	var comments []comment

	line := 1
	atLineStart := true
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n':
			line++
			atLineStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
			continue
		case c == '#' && atLineStart:
			for i < len(src) && src[i] != '\n' {
				if src[i] == '\\' && i+1 < len(src) && src[i+1] == '\n' {
					line++
					i++
				}
				i++
			}
			continue
		}
		atLineStart = false

		switch {
		case strings.HasPrefix(src[i:], "//"):
			start := i + 2
			for i < len(src) && src[i] != '\n' {
				i++
			}
			comments = append(comments, comment{line: line, text: strings.TrimRight(src[start:i], " \t\r")})
		case strings.HasPrefix(src[i:], "/*"):
			i += 2
			for i < len(src) && !strings.HasPrefix(src[i:], "*/") {
				if src[i] == '\n' {
					line++
				}
				i++
			}
			i += 2
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], line: line, off: start, end: i})
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) {
				d := src[i]
				if isIdentPart(d) || d == '.' || d == '\'' {
					i++
				} else if (d == '+' || d == '-') && (src[i-1] == 'e' || src[i-1] == 'E' || src[i-1] == 'p' || src[i-1] == 'P') &&
					!strings.HasPrefix(src[start:], "0x") && !strings.HasPrefix(src[start:], "0X") {
					i++
				} else {
					break
				}
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], line: line, off: start, end: i})
		case c == '"' || c == '\'':
			start := i
			i++
			for i < len(src) && src[i] != c && src[i] != '\n' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			i++
			if i > len(src) {
				i = len(src)
			}
			kind := tokString
			if c == '\'' {
				kind = tokChar
			}
			toks = append(toks, token{kind: kind, text: src[start:i], line: line, off: start, end: i})
		default:
			n := 1
			for _, p := range []string{"::", "->", "..."} {
				if strings.HasPrefix(src[i:], p) {
					n = len(p)
					break
				}
			}
			toks = append(toks, token{kind: tokPunct, text: src[i : i+n], line: line, off: i, end: i + n})
			i += n
		}
	}
	toks = append(toks, token{kind: tokEOF, line: line, off: len(src), end: len(src)})
	return toks, comments
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
