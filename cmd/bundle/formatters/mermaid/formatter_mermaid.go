// Package mermaid renders bundle graphs as Mermaid.js flowcharts.
package mermaid

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
)

// Formatter formats bundle graphs as Mermaid.js flowcharts.
type Formatter struct{}

// Format converts the bundle graph to a Mermaid flowchart with one subgraph per bundle.
func (f *Formatter) Format(bg *bundlegraph.BundleGraph, opts formatters.RenderOptions) (string, error) {
	view := formatters.NewView(bg)

	var sb strings.Builder
	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}
	sb.WriteString("flowchart LR\n")
	sb.WriteString("    root((root))\n")

	filePaths := view.FilePaths()
	nodeNames := formatters.BuildNodeNames(filePaths)
	majorityExtension, hasMultipleExtensions := formatters.MajorityExtension(filePaths)

	var majorityExtensionNodes []string
	nodeCounter := 0
	for i, bv := range view.Bundles {
		sb.WriteString(fmt.Sprintf("    subgraph b%d[\"%s\"]\n", i, escapeLabel(bv.Bundle.Name)))
		for _, a := range bv.Assets {
			nodeID := fmt.Sprintf("n%d", nodeCounter)
			nodeCounter++
			sb.WriteString(fmt.Sprintf("        %s[\"%s\"]\n", nodeID, escapeLabel(nodeNames[a.FilePath])))
			if hasMultipleExtensions && filepath.Ext(a.FilePath) == majorityExtension {
				majorityExtensionNodes = append(majorityExtensionNodes, nodeID)
			}
		}
		sb.WriteString("    end\n")
	}

	if len(view.Bundles) > 0 {
		sb.WriteString("\n")
		for i, bv := range view.Bundles {
			sb.WriteString(fmt.Sprintf("    root -->|%s| b%d\n", formatters.KindLabel(bv.RootKind), i))
		}
		for _, e := range view.Edges {
			arrow := "-->"
			if e.Kind == bundlegraph.BundleAsyncLoads {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    b%d %s|%s| b%d\n", e.From, arrow, formatters.KindLabel(e.Kind), e.To))
		}
	}

	if len(majorityExtensionNodes) > 0 {
		sb.WriteString("\n")
		sb.WriteString("    classDef majorityExtension fill:#FFFFFF,stroke:#999999,color:#000000\n")
		sb.WriteString(fmt.Sprintf("    class %s majorityExtension\n", strings.Join(majorityExtensionNodes, ",")))
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
