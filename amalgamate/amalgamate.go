// Package amalgamate inlines the local includes of a C++ header into a single
// self-contained translation unit.
package amalgamate

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"
)

type Options struct {
	// Directory all other paths are relative to.
	BaseDir string
	// Subdirectories of BaseDir searched for local includes.
	IncludeSubdirs []string
	// Includes whose path starts with this prefix are inlined; all
	// others are left as references.
	LocalIncludesStartWith string
	// Entry point, relative to BaseDir (slash-separated).
	MainHeaderFile string

	// FS overrides os.DirFS(BaseDir). Used by tests.
	FS fs.FS
}

type Result struct {
	Text string
	// Inlined files relative to BaseDir, in inlining order. The
	// first entry is always the main header.
	Files []string
}

var (
	includeRe    = regexp.MustCompile(`^\s*#\s*include\s*([<"])([^>"]+)[>"]`)
	pragmaOnceRe = regexp.MustCompile(`^\s*#\s*pragma\s+once\b`)
)

// Banner returns the comment line that starts the inlined copy of file.
func Banner(file string) string {
	return "//////////////////// " + file + " ////////////////////"
}

// Content returns the amalgamated text for opts.
func Content(opts Options) (string, error) {
	res, err := Amalgamate(opts)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Amalgamate inlines every local include of opts.MainHeaderFile,
// recursively. Every file is inlined at most once and "#pragma once"
// lines are dropped.
func Amalgamate(opts Options) (*Result, error) {
	if opts.MainHeaderFile == "" {
		return nil, errors.New("amalgamate: no main header file")
	}
	fsys := opts.FS
	if fsys == nil {
		if opts.BaseDir == "" {
			return nil, errors.New("amalgamate: no base dir")
		}
		fsys = os.DirFS(opts.BaseDir)
	}

	a := &amalgamator{
		opts: opts,
		fsys: fsys,
		seen: map[string]struct{}{},
	}
	main := path.Clean(opts.MainHeaderFile)
	if err := a.inline(main); err != nil {
		return nil, fmt.Errorf("amalgamate %v: %w", opts.MainHeaderFile, err)
	}
	return &Result{
		Text:  a.b.String(),
		Files: a.files,
	}, nil
}

type amalgamator struct {
	opts  Options
	fsys  fs.FS
	seen  map[string]struct{}
	files []string
	b     strings.Builder
}

func (a *amalgamator) isLocal(include string) bool {
	return a.opts.LocalIncludesStartWith != "" &&
		strings.HasPrefix(include, a.opts.LocalIncludesStartWith)
}

// resolve finds the file for a local include. Candidates are tried in
// order: the base dir, each include subdir, then the including file's
// own directory.
func (a *amalgamator) resolve(from, include string) (string, error) {
	candidates := []string{path.Clean(include)}
	for _, sub := range a.opts.IncludeSubdirs {
		candidates = append(candidates, path.Join(sub, include))
	}
	candidates = append(candidates, path.Join(path.Dir(from), include))
	for _, c := range candidates {
		if !fs.ValidPath(c) {
			continue
		}
		if st, err := fs.Stat(a.fsys, c); err == nil && !st.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%v: local include %q not found (tried %v)", from, include, strings.Join(candidates, ", "))
}

func (a *amalgamator) inline(file string) error {
	if _, ok := a.seen[file]; ok {
		return nil
	}
	a.seen[file] = struct{}{}
	a.files = append(a.files, file)

	src, err := fs.ReadFile(a.fsys, file)
	if err != nil {
		return err
	}
	text := strings.ReplaceAll(string(src), "\r\n", "\n")

	a.b.WriteString(Banner(file))
	a.b.WriteByte('\n')

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if pragmaOnceRe.MatchString(line) {
			continue
		}
		if m := includeRe.FindStringSubmatch(line); m != nil && a.isLocal(m[2]) {
			target, err := a.resolve(file, m[2])
			if err != nil {
				return err
			}
			if err := a.inline(target); err != nil {
				return err
			}
			continue
		}
		a.b.WriteString(line)
		a.b.WriteByte('\n')
	}
	return sc.Err()
}
