package binder

import (
	"fmt"
	"io"
	"strings"

	"github.com/imguibundle/gizmogen/config"
	"golang.org/x/mod/sumdb/dirhash"
)

// fragments is the generated code for one processed header.
type fragments struct {
	filename string
	code     string
	// TOML encoding of the options the header was processed with.
	options string

	trampolines string
	pydef       string
	stub        string
}

// Context accumulates the output of every processed header, in
// processing order.
type Context struct {
	// Options currently in effect.
	Options *config.Options

	files []*fragments
}

func NewContext(opts *config.Options) *Context {
	if opts == nil {
		opts = config.Default()
	}
	return &Context{Options: opts}
}

// WithOptions runs fn with opts installed as the active options. The
// previous options are restored when fn returns, even on error.
func (c *Context) WithOptions(opts *config.Options, fn func() error) error {
	prev := c.Options
	c.Options = opts
	defer func() { c.Options = prev }()
	return fn()
}

// Files returns the processed header names in processing order.
func (c *Context) Files() []string {
	res := make([]string, len(c.files))
	for i, f := range c.files {
		res[i] = f.filename
	}
	return res
}

func (c *Context) add(f *fragments) {
	c.files = append(c.files, f)
}

// inputsHash hashes the processed code and options of every header.
func (c *Context) inputsHash() (string, error) {
	contents := map[string]string{}
	var names []string
	for i, f := range c.files {
		base := fmt.Sprintf("%02d-%v", i, f.filename)
		contents[base] = f.code
		contents[base+".toml"] = f.options
		names = append(names, base, base+".toml")
	}
	return dirhash.Hash1(names, func(name string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(contents[name])), nil
	})
}
