/*
Package autogen generates the Python bindings of the ImGuizmo add-on.

[Run] drives the pipeline:
 1. For every [Target] of a [Plan] that is not on its skip list, clone the baseline options and apply the target's concern
 2. Amalgamate the header into a single translation unit
 3. Hand the result to the binding generator, tagged with the bare header name
 4. Once all targets are processed, write both artifacts

The first error aborts the run before anything is written.
*/
package autogen

import (
	"fmt"
	"io"

	"github.com/imguibundle/gizmogen/amalgamate"
	"github.com/imguibundle/gizmogen/binder"
	"github.com/imguibundle/gizmogen/config"
	"github.com/imguibundle/gizmogen/logger"
	"github.com/olekukonko/tablewriter"
)

type Amalgamator interface {
	Amalgamate(opts amalgamate.Options) (string, error)
}

// AmalgamatorFunc adapts a function such as [amalgamate.Content].
type AmalgamatorFunc func(opts amalgamate.Options) (string, error)

func (f AmalgamatorFunc) Amalgamate(opts amalgamate.Options) (string, error) {
	return f(opts)
}

// Generator is the binding generator, implemented by [binder.Generator].
type Generator interface {
	ProcessCode(code, filename string, opts *config.Options) error
	WriteGeneratedCode(pydefPath, stubPath string) error
}

// Run processes the targets of plan in order and writes the artifacts
// named by l. baseline is only ever cloned.
func Run(l *Layout, baseline *config.Options, plan Plan, am Amalgamator, gen Generator, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	for _, t := range plan.Targets {
		if reason, ok := plan.SkipReason(t.Header); ok {
			log.Infof("Skipping %v: %v", t.Header, reason)
			continue
		}

		opts := baseline.Clone()
		if t.Customize != nil {
			t.Customize(opts)
		}

		code, err := am.Amalgamate(l.AmalgamationOptions(t.Header))
		if err != nil {
			return err
		}
		log.Infof("Processing %v", t.Header)
		if err := gen.ProcessCode(code, t.Header, opts); err != nil {
			return err
		}
	}
	if err := gen.WriteGeneratedCode(l.PydefFile, l.StubFile); err != nil {
		return err
	}
	log.Infof("Wrote %v and %v", l.PydefFile, l.StubFile)
	return nil
}

// Generate checks l and runs plan with the real amalgamator and binding
// generator. Per-header statistics are rendered to stats, if non-nil.
func Generate(l *Layout, baseline *config.Options, plan Plan, log *logger.Logger, stats io.Writer) error {
	if err := l.Check(); err != nil {
		return err
	}
	gen := binder.NewGenerator(baseline, log)
	if err := Run(l, baseline, plan, AmalgamatorFunc(amalgamate.Content), gen, log); err != nil {
		return err
	}
	if stats != nil {
		WriteStats(stats, gen.Stats())
	}
	return nil
}

// WriteStats renders per-header statistics, followed by a total row.
func WriteStats(w io.Writer, stats []binder.Stats) {
	var total binder.Stats
	row := func(name string, s binder.Stats) []string {
		return []string{
			name,
			fmt.Sprint(s.Functions),
			fmt.Sprint(s.Classes),
			fmt.Sprint(s.Methods),
			fmt.Sprint(s.Enums),
			fmt.Sprint(s.Excluded),
			fmt.Sprintf("%v/%v", s.Warnings, s.Warnings+s.Suppressed),
		}
	}

	tbl := tablewriter.NewWriter(w)
	tbl.SetAutoWrapText(false)
	tbl.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER,
	})
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	tbl.SetHeader([]string{"Header", "Functions", "Classes", "Methods", "Enums", "Excluded", "Warnings shown/total"})
	for _, s := range stats {
		tbl.Append(row(s.File, s))
		total.Functions += s.Functions
		total.Classes += s.Classes
		total.Methods += s.Methods
		total.Enums += s.Enums
		total.Excluded += s.Excluded
		total.Warnings += s.Warnings
		total.Suppressed += s.Suppressed
	}
	tbl.Append(row("==TOTAL==", total))
	tbl.Render()
}
