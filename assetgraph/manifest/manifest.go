// Package manifest loads an asset graph from a JSON, YAML or HCL description.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/vcs"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for manifest files with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown manifest format")

// Format identifies a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the manifest format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s (valid extensions: .json, .yaml, .yml, .hcl)", ErrUnknownFormat, path)
	}
}

// Manifest is the decoded form of a manifest file.
type Manifest struct {
	Assets       []AssetSpec      `json:"assets" yaml:"assets"`
	Dependencies []DependencySpec `json:"dependencies" yaml:"dependencies"`
}

// AssetSpec describes one asset.
type AssetSpec struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
	// Type defaults to the extension of Path.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Source defaults to true.
	Source *bool `json:"source,omitempty" yaml:"source,omitempty"`
}

// DependencySpec describes one import. An empty From makes it an entry.
type DependencySpec struct {
	ID        string            `json:"id,omitempty" yaml:"id,omitempty"`
	From      string            `json:"from,omitempty" yaml:"from,omitempty"`
	To        string            `json:"to" yaml:"to"`
	Specifier string            `json:"specifier,omitempty" yaml:"specifier,omitempty"`
	Priority  string            `json:"priority,omitempty" yaml:"priority,omitempty"`
	Meta      map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Parse decodes a manifest. filename is only used in diagnostics.
func Parse(data []byte, format Format, filename string) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode JSON manifest %s: %w", filename, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode YAML manifest %s: %w", filename, err)
		}
	case FormatHCL:
		decoded, err := parseHCL(data, filename)
		if err != nil {
			return nil, err
		}
		m = *decoded
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return &m, nil
}

// Graph builds and validates the asset graph the manifest describes.
func (m *Manifest) Graph() (*assetgraph.AssetGraph, error) {
	b := assetgraph.NewBuilder()

	for _, spec := range m.Assets {
		if spec.ID == "" {
			return nil, fmt.Errorf("asset with path %q has no id", spec.Path)
		}
		fileType := spec.Type
		if fileType == "" {
			fileType = assetgraph.FileTypeFromPath(spec.Path)
		}
		isSource := true
		if spec.Source != nil {
			isSource = *spec.Source
		}
		b.AddAsset(&assetgraph.Asset{
			ID:       spec.ID,
			FilePath: spec.Path,
			FileType: fileType,
			IsSource: isSource,
		})
	}

	for _, spec := range m.Dependencies {
		priority, err := assetgraph.ParsePriority(spec.Priority)
		if err != nil {
			return nil, fmt.Errorf("dependency %s -> %s: %w", describeFrom(spec.From), spec.To, err)
		}
		b.AddDependency(spec.From, spec.To, &assetgraph.Dependency{
			ID:        spec.ID,
			Specifier: spec.Specifier,
			Priority:  priority,
			Meta:      spec.Meta,
		})
	}

	return b.Build()
}

func describeFrom(from string) string {
	if from == "" {
		return "root"
	}
	return from
}

// Load reads and decodes the manifest at path.
func Load(path string, reader vcs.ContentReader) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := reader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	return Parse(data, format, path)
}

// Request returns an asset graph request backed by the manifest at path.
func Request(path string, reader vcs.ContentReader) assetgraph.Request {
	return assetgraph.RequestFunc(func(ctx context.Context) (*assetgraph.AssetGraph, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := Load(path, reader)
		if err != nil {
			return nil, err
		}
		g, err := m.Graph()
		if err != nil {
			return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
		}
		return g, nil
	})
}
