// Package dot renders bundle graphs as Graphviz DOT, one cluster per bundle.
package dot

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
)

const rootNodeID = "root"

// Formatter formats bundle graphs as Graphviz DOT.
type Formatter struct{}

// Format converts the bundle graph to Graphviz DOT format.
func (f *Formatter) Format(bg *bundlegraph.BundleGraph, opts formatters.RenderOptions) (string, error) {
	view := formatters.NewView(bg)

	var sb strings.Builder
	sb.WriteString("digraph bundles {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  compound=true;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %q [label=%q, shape=circle];\n", rootNodeID, "root"))
	sb.WriteString("\n")

	filePaths := view.FilePaths()
	nodeNames := formatters.BuildNodeNames(filePaths)
	extensionColors := formatters.ExtensionColors(filePaths)
	majorityExtension, hasMultipleExtensions := formatters.MajorityExtension(filePaths)

	colorFor := func(path string) string {
		ext := filepath.Ext(path)
		if !hasMultipleExtensions || ext == majorityExtension {
			return "white"
		}
		if color, ok := extensionColors[ext]; ok {
			return color
		}
		return "white"
	}

	// Edges attach to the node of each bundle's main entry.
	anchors := make([]string, len(view.Bundles))
	nodeCounter := 0
	for i, bv := range view.Bundles {
		main := bv.MainEntry()
		sb.WriteString(fmt.Sprintf("  subgraph cluster_%d {\n", i))
		sb.WriteString(fmt.Sprintf("    label=%q;\n", bv.Bundle.Name))
		sb.WriteString("    style=rounded;\n")
		sb.WriteString("    color=gray50;\n")
		for _, a := range bv.Assets {
			nodeID := fmt.Sprintf("a%d", nodeCounter)
			nodeCounter++
			if a == main {
				anchors[i] = nodeID
			}
			sb.WriteString(fmt.Sprintf("    %q [label=%q, style=filled, fillcolor=%s];\n", nodeID, nodeNames[a.FilePath], colorFor(a.FilePath)))
		}
		sb.WriteString("  }\n")
	}
	if len(view.Bundles) > 0 {
		sb.WriteString("\n")
	}

	for i, bv := range view.Bundles {
		sb.WriteString(fmt.Sprintf("  %q -> %q [lhead=cluster_%d, label=%q];\n", rootNodeID, anchors[i], i, formatters.KindLabel(bv.RootKind)))
	}
	for _, e := range view.Edges {
		attrs := fmt.Sprintf("ltail=cluster_%d, lhead=cluster_%d", e.From, e.To)
		if e.Kind == bundlegraph.BundleAsyncLoads {
			attrs += ", style=dashed"
		}
		sb.WriteString(fmt.Sprintf("  %q -> %q [%s];\n", anchors[e.From], anchors[e.To], attrs))
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}
