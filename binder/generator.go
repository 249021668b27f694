// Package binder translates C++ headers into pybind11 binding code and a
// matching Python stub.
//
// A [Generator] is fed one header at a time with [Generator.ProcessCode]
// and writes everything it accumulated with [Generator.WriteGeneratedCode].
package binder

import (
	"context"
	"fmt"
	"path"
	"slices"

	"github.com/imguibundle/gizmogen/binder/binderio"
	"github.com/imguibundle/gizmogen/config"
	"github.com/imguibundle/gizmogen/cppdecl"
	"github.com/imguibundle/gizmogen/logger"
	"github.com/pelletier/go-toml/v2"
)

// Banner is the first line of both generated files (after the comment
// marker).
const Banner = "generated by gizmogen, do not edit"

type Generator struct {
	Context *Context
	Log     *logger.Logger

	stats []Stats
}

// NewGenerator returns a Generator whose baseline options are opts.
func NewGenerator(opts *config.Options, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Discard()
	}
	return &Generator{
		Context: NewContext(opts),
		Log:     log,
	}
}

// Stats returns the statistics of every successfully processed header.
func (g *Generator) Stats() []Stats {
	return slices.Clone(g.stats)
}

// ProcessCode translates code, reporting diagnostics against filename.
// opts is in effect for this call only; nil means the baseline options.
//
// On error nothing is added to the generated output.
func (g *Generator) ProcessCode(code, filename string, opts *config.Options) error {
	if opts == nil {
		opts = g.Context.Options
	}
	return g.Context.WithOptions(opts, func() error {
		return g.processCode(code, filename)
	})
}

func (g *Generator) processCode(code, filename string) error {
	opts := g.Context.Options
	c, err := opts.Compile()
	if err != nil {
		return fmt.Errorf("%v: %w", filename, err)
	}
	optsTOML, err := toml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("%v: %w", filename, err)
	}

	t := &translator{
		filename: filename,
		opts:     opts,
		c:        c,
	}
	t.stats.File = filename
	t.warn = func(line int, msg string) {
		if opts.IsWarningIgnored(msg) {
			t.stats.Suppressed++
			return
		}
		t.stats.Warnings++
		if line > 0 {
			g.Log.Warnf("%v:%v: %v", filename, line, msg)
		} else {
			g.Log.Warnf("%v: %v", filename, msg)
		}
	}

	f := cppdecl.Parse(code, cppdecl.Options{APIPrefixes: opts.APIPrefixes})
	for _, w := range f.Warnings {
		t.warn(w.Line, w.Message)
	}
	if err := t.translate(f); err != nil {
		return err
	}
	t.checkExclusions()

	g.Context.add(&fragments{
		filename:    filename,
		code:        code,
		options:     string(optsTOML),
		trampolines: t.tramp.String(),
		pydef:       t.pydef.String(),
		stub:        t.stub.String(),
	})
	g.stats = append(g.stats, t.stats)
	return nil
}

// WriteGeneratedCode writes the pybind11 code of every processed header
// to pydefPath and their stubs to stubPath. Both files are rendered
// before either is replaced, and each is replaced atomically.
func (g *Generator) WriteGeneratedCode(pydefPath, stubPath string) error {
	opts := g.Context.Options
	hash, err := g.Context.inputsHash()
	if err != nil {
		return err
	}

	var pydef binderio.CodeBuilder
	pydef.Linef("// %v", Banner)
	pydef.Linef("// inputs: %v", hash)
	pydef.Append(opts.PydefPreamble)
	for _, f := range g.Context.files {
		pydef.Linef("#include %q", path.Join(opts.PydefIncludeDir, f.filename))
	}
	pydef.Linef("")
	pydef.Linef("namespace py = pybind11;")
	pydef.Linef("")
	for _, f := range g.Context.files {
		pydef.Write(f.trampolines)
	}
	pydef.Linef("")
	pydef.Linef("void %v(py::module& m)", opts.ModuleInitFunction)
	pydef.Linef("{")
	for _, f := range g.Context.files {
		pydef.Write(f.pydef)
	}
	pydef.Linef("}")

	var stub binderio.CodeBuilder
	stub.Linef("# %v", Banner)
	stub.Linef("# inputs: %v", hash)
	stub.Append(opts.StubPreamble)
	stub.Linef("")
	for _, f := range g.Context.files {
		stub.Write(f.stub)
	}

	var formatter []string
	if opts.RunStubFormatter {
		formatter = opts.StubFormatterCommand
	}
	stubCode, fmtErr := stub.Render(context.Background(), formatter)
	if fmtErr != nil {
		g.Log.Warnf("stub formatter failed, writing unformatted %v: %v", stubPath, fmtErr)
	}
	return binderio.WriteFiles(
		binderio.File{Path: pydefPath, Code: pydef.String()},
		binderio.File{Path: stubPath, Code: stubCode},
	)
}
