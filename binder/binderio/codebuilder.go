package binderio

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// DefaultIndent is used when [CodeBuilder.IndentText] is empty.
const DefaultIndent = "    "

// CodeBuilder is a wrapper around [strings.Builder] that simplifies
// building C++ and Python code.
//
// The zero value is safely ready to use.
type CodeBuilder struct {
	// Indent is the indentation level.
	Indent int
	// IndentText is written Indent times before each line.
	IndentText string

	b strings.Builder
}

// Write appends a raw string to the internal [strings.Builder].
func (w *CodeBuilder) Write(s string) {
	w.b.WriteString(s)
}

// Append writes the given string line by line with correct indentation.
func (w *CodeBuilder) Append(s string) {
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		w.Linef("%v", sc.Text())
	}
}

// Linef writes a single line, prepended by the current indentation.
// Empty lines are written without indentation.
//
// Takes format and args like [fmt.Printf].
func (w *CodeBuilder) Linef(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if line != "" {
		indent := w.IndentText
		if indent == "" {
			indent = DefaultIndent
		}
		for i := 0; i < w.Indent; i++ {
			w.b.WriteString(indent)
		}
		w.b.WriteString(line)
	}
	w.b.WriteString("\n")
}

// Len returns the number of bytes written so far.
func (w *CodeBuilder) Len() int {
	return w.b.Len()
}

// String returns the current code without applying any formatting.
func (w *CodeBuilder) String() string {
	return w.b.String()
}

// FmtString pipes the current code through the formatter command
// (argv form, reading stdin and writing stdout).
func (w *CodeBuilder) FmtString(ctx context.Context, formatter []string) (string, error) {
	if len(formatter) == 0 {
		return "", fmt.Errorf("no formatter command")
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, formatter[0], formatter[1:]...)
	cmd.Stdin = strings.NewReader(w.String())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%v: %w: %v", formatter[0], err, msg)
		}
		return "", fmt.Errorf("%v: %w", formatter[0], err)
	}
	return stdout.String(), nil
}

func (w *CodeBuilder) Reset() {
	w.Indent = 0
	w.b.Reset()
}

// Render returns the current code, formatted first if formatter is set.
//
// If formatting fails, the unformatted code is returned along with the
// formatting error in fmtErr.
func (w *CodeBuilder) Render(ctx context.Context, formatter []string) (code string, fmtErr error) {
	code = w.String()
	if len(formatter) == 0 {
		return code, nil
	}
	formatted, err := w.FmtString(ctx, formatter)
	if err != nil {
		return code, err
	}
	return formatted, nil
}

// File is rendered code and the path it goes to.
type File struct {
	Path string
	Code string
}

// WriteFiles replaces every file atomically. All contents are staged next
// to their targets before the first file is replaced, so a failure to
// stage any of them leaves every target untouched.
func WriteFiles(files ...File) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp) // already gone once replaced
		}
	}()
	for _, f := range files {
		tmp, err := stage(f)
		if err != nil {
			return fmt.Errorf("write %v: %w", f.Path, err)
		}
		staged = append(staged, tmp)
	}
	for i, f := range files {
		if err := atomic.ReplaceFile(staged[i], f.Path); err != nil {
			return fmt.Errorf("write %v: %w", f.Path, err)
		}
	}
	return nil
}

// stage writes f.Code to a temporary file in the directory of f.Path and
// returns its name. It takes the mode of f.Path if that exists.
func stage(f File) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return "", err
	}
	name := tmp.Name()
	_, err = io.WriteString(tmp, f.Code)
	if err == nil {
		err = tmp.Chmod(mode)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cErr := tmp.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
