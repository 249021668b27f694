package autogen

import (
	"io"

	"github.com/imguibundle/gizmogen/config"
	"github.com/olekukonko/tablewriter"
)

// Target is one curated header and the single concern its options
// differ from the baseline in.
type Target struct {
	// Bare file name inside the STL subdirectory. Also used to tag
	// diagnostics.
	Header  string
	Concern string
	// Customize adjusts a private clone of the baseline options.
	Customize func(o *config.Options)
}

// Skip is a header that is deliberately never processed.
type Skip struct {
	Header string
	Reason string
}

type Plan struct {
	Targets []Target
	Skips   []Skip
}

// SkipReason reports whether header is on the skip list.
func (p Plan) SkipReason(header string) (string, bool) {
	for _, s := range p.Skips {
		if s.Header == header {
			return s.Reason, true
		}
	}
	return "", false
}

func excludeAccessors(o *config.Options) {
	o.FnExcludeByNameRegex = "^Edit$|^GetPointCount$|^GetPoints$"
}

// DefaultPlan returns the curated ImGuizmo headers in processing order.
func DefaultPlan() Plan {
	return Plan{
		Targets: []Target{
			{
				Header:    "ImCurveEditStl.h",
				Concern:   "exclude pointer-returning accessors",
				Customize: excludeAccessors,
			},
			{
				Header:    "ImGradientStl.h",
				Concern:   "exclude pointer-returning accessors",
				Customize: excludeAccessors,
			},
			{
				Header:  "ImZoomSliderStl.h",
				Concern: "rename ImGuiPopupFlags_ to ImGuiZoomSliderFlags_",
				Customize: func(o *config.Options) {
					o.IgnoredWarningParts = []string{"Ignoring template function"}
					o.VarNamesReplacements.AddLast("im_gui_zoom_slider_flags_", "")
					o.TypeReplacements.AddLast("ImGuiPopupFlags_", "ImGuiZoomSliderFlags_")
				},
			},
		},
		Skips: []Skip{
			{Header: "ImSequencerStl.h", Reason: "double pointer in the public API"},
			{Header: "GraphEditor.h", Reason: "double pointers in structs and pointer to enum in params"},
		},
	}
}

// WriteTable renders the targets and the skip list.
func (p Plan) WriteTable(w io.Writer) {
	tbl := tablewriter.NewWriter(w)
	// Cells are wrapped as they are added.
	tbl.SetAutoWrapText(false)
	tbl.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})
	tbl.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tbl.SetCenterSeparator("|")
	tbl.SetHeader([]string{"Header", "Status", "Details"})
	for _, t := range p.Targets {
		if reason, ok := p.SkipReason(t.Header); ok {
			tbl.Append([]string{t.Header, "skipped", reason})
			continue
		}
		tbl.Append([]string{t.Header, "processed", t.Concern})
	}
	for _, s := range p.Skips {
		tbl.Append([]string{s.Header, "skipped", s.Reason})
	}
	tbl.Render()
}
