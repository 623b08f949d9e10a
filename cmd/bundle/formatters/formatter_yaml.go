package formatters

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats bundle graphs as YAML.
type YAMLFormatter struct{}

// Format converts the bundle graph to YAML.
func (f *YAMLFormatter) Format(bg *bundlegraph.BundleGraph, opts RenderOptions) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(bg, opts)); err != nil {
		return "", fmt.Errorf("failed to marshal bundle graph: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to marshal bundle graph: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
