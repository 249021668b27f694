// Package logger is the levelled line logger used by gizmogen.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/imguibundle/gizmogen/textutils"
)

type Level int

const (
	INFO  Level = 0
	WARN  Level = 1
	ERROR Level = 2
	FATAL Level = 99
)

func (l Level) String() string {
	switch l {
	case INFO:
		return "INFO"
	case WARN:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		panic(fmt.Sprintf("invalid log level: %d", int(l)))
	}
}

type Logger struct {
	Writer   io.Writer
	Prefix   string
	MinLevel Level

	// Exit is called after a FATAL message. Defaults to os.Exit.
	Exit func(code int)
}

// New returns a Logger writing to w with the "gizmogen" prefix.
func New(w io.Writer) *Logger {
	return &Logger{Writer: w, Prefix: "gizmogen"}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{}
}

func (l *Logger) Log(level Level, format string, args ...any) {
	if l == nil || l.Writer == nil || level < l.MinLevel {
		if level == FATAL {
			l.exit(1)
		}
		return
	}
	var b bytes.Buffer
	if l.Prefix != "" {
		b.WriteString(l.Prefix)
		b.WriteString(" ")
	}
	b.WriteString(level.String())
	b.WriteString(":")
	s := fmt.Sprintf(format, args...)
	if strings.Contains(strings.TrimSuffix(s, "\n"), "\n") {
		b.WriteString("\n")
		s = textutils.IndentString(s, "  ", 1)
	} else {
		b.WriteString(" ")
	}
	b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		b.WriteString("\n")
	}
	// A broken log writer is not worth failing a generation run over.
	_, _ = io.Copy(l.Writer, &b)
	if level == FATAL {
		l.exit(1)
	}
}

func (l *Logger) exit(code int) {
	if l != nil && l.Exit != nil {
		l.Exit(code)
		return
	}
	os.Exit(code)
}

func (l *Logger) Infof(format string, args ...any)  { l.Log(INFO, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.Log(WARN, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.Log(ERROR, format, args...) }
func (l *Logger) Fatalf(format string, args ...any) { l.Log(FATAL, format, args...) }
