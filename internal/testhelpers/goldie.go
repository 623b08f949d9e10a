// Package testhelpers holds golden-file fixtures shared by formatter and command tests.
package testhelpers

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// DotGoldie compares against testdata/<name>.gold.dot.
func DotGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.dot"))
}

// MermaidGoldie compares against testdata/<name>.gold.mmd.
func MermaidGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.mmd"))
}

// TextGoldie compares against testdata/<name>.gold.txt.
func TextGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t, goldie.WithNameSuffix(".gold.txt"))
}
