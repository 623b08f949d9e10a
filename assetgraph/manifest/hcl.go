package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclManifest is the top-level structure of an HCL manifest.
type hclManifest struct {
	Assets       []*hclAsset      `hcl:"asset,block"`
	Dependencies []*hclDependency `hcl:"dependency,block"`
}

type hclAsset struct {
	ID     string `hcl:"id,label"`
	Path   string `hcl:"path"`
	Type   string `hcl:"type,optional"`
	Source *bool  `hcl:"source,optional"`
}

type hclDependency struct {
	ID        string            `hcl:"id,label"`
	From      string            `hcl:"from,optional"`
	To        string            `hcl:"to"`
	Specifier string            `hcl:"specifier,optional"`
	Priority  string            `hcl:"priority,optional"`
	Meta      map[string]string `hcl:"meta,optional"`
}

func parseHCL(data []byte, filename string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var root hclManifest
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	m := &Manifest{}
	for _, a := range root.Assets {
		m.Assets = append(m.Assets, AssetSpec{
			ID:     a.ID,
			Path:   a.Path,
			Type:   a.Type,
			Source: a.Source,
		})
	}
	for _, d := range root.Dependencies {
		m.Dependencies = append(m.Dependencies, DependencySpec{
			ID:        d.ID,
			From:      d.From,
			To:        d.To,
			Specifier: d.Specifier,
			Priority:  d.Priority,
			Meta:      d.Meta,
		})
	}
	return m, nil
}
