// Package table renders bundle graphs as a plain text table, one row per bundle.
package table

import (
	"strconv"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/olekukonko/tablewriter"
)

// Formatter formats bundle graphs as a table.
type Formatter struct{}

// Format lists every bundle with its root kind, size, main entry and the bundles it loads.
func (f *Formatter) Format(bg *bundlegraph.BundleGraph, opts formatters.RenderOptions) (string, error) {
	view := formatters.NewView(bg)

	loads := make([][]string, len(view.Bundles))
	for _, e := range view.Edges {
		target := view.Bundles[e.To].Bundle.Name
		if e.Kind == bundlegraph.BundleAsyncLoads {
			target += " (async)"
		}
		loads[e.From] = append(loads[e.From], target)
	}

	var sb strings.Builder
	if opts.Label != "" {
		sb.WriteString(opts.Label)
		sb.WriteString("\n\n")
	}

	table := tablewriter.NewWriter(&sb)
	table.SetHeader([]string{"Bundle", "Type", "Root", "Assets", "Entry", "Loads"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for i, bv := range view.Bundles {
		table.Append([]string{
			bv.Bundle.Name,
			bv.Bundle.Type,
			formatters.KindLabel(bv.RootKind),
			strconv.Itoa(len(bv.Assets)),
			bv.MainEntry().FilePath,
			strings.Join(loads[i], ", "),
		})
	}
	table.Render()

	return strings.TrimSuffix(sb.String(), "\n"), nil
}
