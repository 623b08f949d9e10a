package formatters

import (
	"encoding/json"
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/bundlegraph"
)

// JSONFormatter formats bundle graphs as indented JSON.
type JSONFormatter struct{}

// Format converts the bundle graph to JSON.
func (f *JSONFormatter) Format(bg *bundlegraph.BundleGraph, opts RenderOptions) (string, error) {
	data, err := json.MarshalIndent(NewDocument(bg, opts), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal bundle graph: %w", err)
	}
	return string(data), nil
}
