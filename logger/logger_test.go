package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogSingleLine(t *testing.T) {
	require := require.New(t)

	var b bytes.Buffer
	l := New(&b)
	l.Warnf("ImZoomSliderStl.h:12: %v", "Ignoring template function ImZoomSlider")
	require.Equal("gizmogen WARNING: ImZoomSliderStl.h:12: Ignoring template function ImZoomSlider\n", b.String())
}

func TestLogMultiLine(t *testing.T) {
	require := require.New(t)

	var b bytes.Buffer
	l := &Logger{Writer: &b}
	l.Errorf("first\nsecond")
	require.Equal("ERROR:\n  first\n  second\n", b.String())
}

func TestLogMinLevel(t *testing.T) {
	require := require.New(t)

	var b bytes.Buffer
	l := &Logger{Writer: &b, MinLevel: WARN}
	l.Infof("dropped")
	require.Empty(b.String())
	l.Warnf("kept")
	require.Equal("WARNING: kept\n", b.String())
}

func TestLogFatalExits(t *testing.T) {
	require := require.New(t)

	var b bytes.Buffer
	code := -1
	l := &Logger{Writer: &b, Exit: func(c int) { code = c }}
	l.Fatalf("boom")
	require.Equal(1, code)
	require.Equal("FATAL: boom\n", b.String())

	code = -1
	Discard().exitWith(func(c int) { code = c }).Fatalf("silent")
	require.Equal(1, code)
}

func (l *Logger) exitWith(fn func(int)) *Logger {
	l.Exit = fn
	return l
}
