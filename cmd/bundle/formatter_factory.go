package bundle

import (
	"fmt"

	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/dot"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/mermaid"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/table"
)

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (formatters.Formatter, error) {
	f, err := formatters.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case formatters.OutputFormatDOT:
		return &dot.Formatter{}, nil
	case formatters.OutputFormatMermaid:
		return &mermaid.Formatter{}, nil
	case formatters.OutputFormatJSON:
		return &formatters.JSONFormatter{}, nil
	case formatters.OutputFormatYAML:
		return &formatters.YAMLFormatter{}, nil
	case formatters.OutputFormatTable:
		return &table.Formatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}
}
