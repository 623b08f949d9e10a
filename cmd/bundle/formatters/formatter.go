// Package formatters renders bundle graphs for the bundle and watch commands.
package formatters

import "github.com/LegacyCodeHQ/bundlegraph/bundlegraph"

// RenderOptions contains optional parameters for rendering bundle graphs.
type RenderOptions struct {
	// Label is an optional title for the graph
	Label string
}

// Formatter is the interface that all bundle graph formatters implement.
type Formatter interface {
	// Format converts a bundle graph to a string representation.
	Format(bg *bundlegraph.BundleGraph, opts RenderOptions) (string, error)
}

// URLGenerator is implemented by formatters whose output can be opened in an online viewer.
type URLGenerator interface {
	GenerateURL(output string) (string, bool)
}
