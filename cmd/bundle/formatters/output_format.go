package formatters

import (
	"fmt"
	"strings"
)

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT     OutputFormat = "dot"
	OutputFormatMermaid OutputFormat = "mermaid"
	OutputFormatJSON    OutputFormat = "json"
	OutputFormatYAML    OutputFormat = "yaml"
	OutputFormatTable   OutputFormat = "table"
)

var allOutputFormats = []OutputFormat{
	OutputFormatDOT,
	OutputFormatMermaid,
	OutputFormatJSON,
	OutputFormatYAML,
	OutputFormatTable,
}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat accepts any supported format name, case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	for _, f := range allOutputFormats {
		if strings.EqualFold(s, f.String()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format: %s (valid options: %s)", s, SupportedFormats())
}

// SupportedFormats returns the format names joined for help and error text.
func SupportedFormats() string {
	names := make([]string, 0, len(allOutputFormats))
	for _, f := range allOutputFormats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
