package table_test

import (
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters"
	"github.com/LegacyCodeHQ/bundlegraph/cmd/bundle/formatters/table"
	"github.com/LegacyCodeHQ/bundlegraph/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(output string) [][]string {
	var result [][]string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		// Data rows end with the padding separator, the header does not.
		line = strings.TrimSuffix(line, "\t")
		var cells []string
		for _, cell := range strings.Split(line, "\t") {
			cells = append(cells, strings.TrimSpace(cell))
		}
		result = append(result, cells)
	}
	return result
}

func TestFormatter_OneRowPerBundle(t *testing.T) {
	formatter := &table.Formatter{}
	output, err := formatter.Format(testhelpers.PageBundles(t), formatters.RenderOptions{})
	require.NoError(t, err)

	got := rows(output)
	require.Len(t, got, 6)
	assert.Equal(t, []string{"BUNDLE", "TYPE", "ROOT", "ASSETS", "ENTRY", "LOADS"}, got[0])
	assert.Equal(t, []string{"app.js", "js", "type-change", "1", "app.js", "route.js (async), util.js"}, got[1])
	assert.Equal(t, []string{"index.html", "html", "entry", "1", "index.html", "app.js, style.css"}, got[2])
	assert.Equal(t, []string{"util.js", "js", "shared", "1", "src/util.js", ""}, got[5])
}

func TestFormatter_Label(t *testing.T) {
	formatter := &table.Formatter{}
	output, err := formatter.Format(testhelpers.PageBundles(t), formatters.RenderOptions{Label: "checkout"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(output, "checkout\n\n"))
}
