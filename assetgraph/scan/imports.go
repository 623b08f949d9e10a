package scan

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Import is one module reference found in a source file.
type Import struct {
	Specifier string
	// Dynamic is set for import() expressions.
	Dynamic bool
}

// ParseImports extracts the runtime imports of source. fileType is the file
// extension without the dot. Unsupported types have no imports.
func ParseImports(ctx context.Context, source []byte, fileType string) ([]Import, error) {
	lang := languageFor(fileType)
	if lang == nil {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s source: %w", fileType, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	switch fileType {
	case "css":
		return cssImports(root, source), nil
	case "html", "htm":
		return htmlImports(root, source), nil
	default:
		return scriptImports(root, source, lang), nil
	}
}

// SupportsFileType reports whether imports of the file type are scanned.
func SupportsFileType(fileType string) bool {
	return languageFor(fileType) != nil
}

func languageFor(fileType string) *sitter.Language {
	switch fileType {
	case "js", "jsx", "mjs", "cjs":
		return javascript.GetLanguage()
	case "ts", "mts", "cts":
		return typescript.GetLanguage()
	case "tsx":
		return tsx.GetLanguage()
	case "css":
		return css.GetLanguage()
	case "html", "htm":
		return html.GetLanguage()
	default:
		return nil
	}
}

const staticImportQuery = `
(import_statement
  source: (string) @source)
(export_statement
  source: (string) @source)
`

const requireQuery = `
(call_expression
  function: (identifier) @fn
  arguments: (arguments . (string) @source)
  (#eq? @fn "require"))
`

// scriptImports collects static imports and re-exports, require() calls and
// import() expressions, in source order within each group.
func scriptImports(root *sitter.Node, source []byte, lang *sitter.Language) []Import {
	var imports []Import

	static, err := executeQuery(root, source, lang, staticImportQuery)
	if err != nil {
		static = extractStaticImportsManually(root, source)
	}
	imports = append(imports, static...)

	required, err := executeQuery(root, source, lang, requireQuery)
	if err == nil {
		imports = append(imports, required...)
	}

	return append(imports, dynamicImports(root, source)...)
}

// executeQuery runs a tree-sitter query and turns every @source capture into an import.
func executeQuery(root *sitter.Node, source []byte, lang *sitter.Language, pattern string) ([]Import, error) {
	query, err := sitter.NewQuery([]byte(pattern), lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create query: %w", err)
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var imports []Import
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)

		for _, capture := range match.Captures {
			if query.CaptureNameForId(capture.Index) != "source" {
				continue
			}
			if isTypeOnly(capture.Node, source) {
				continue
			}
			if specifier := cleanImportPath(capture.Node.Content(source)); specifier != "" {
				imports = append(imports, Import{Specifier: specifier})
			}
		}
	}
	return imports, nil
}

// extractStaticImportsManually walks the tree when the query cannot be compiled.
func extractStaticImportsManually(root *sitter.Node, source []byte) []Import {
	var imports []Import
	walk(root, func(n *sitter.Node) {
		if n.Type() != "import_statement" && n.Type() != "export_statement" {
			return
		}
		if hasTypeKeyword(n, source) {
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child != nil && child.Type() == "string" {
				if specifier := cleanImportPath(child.Content(source)); specifier != "" {
					imports = append(imports, Import{Specifier: specifier})
				}
				return
			}
		}
	})
	return imports
}

func dynamicImports(root *sitter.Node, source []byte) []Import {
	var imports []Import
	walk(root, func(n *sitter.Node) {
		if n.Type() != "call_expression" {
			return
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Type() != "import" {
			return
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return
		}
		if specifier, ok := literalString(args.NamedChild(0), source); ok {
			imports = append(imports, Import{Specifier: specifier, Dynamic: true})
		}
	})
	return imports
}

// literalString returns the value of a string or substitution-free template literal.
func literalString(n *sitter.Node, source []byte) (string, bool) {
	switch n.Type() {
	case "string":
		s := cleanImportPath(n.Content(source))
		return s, s != ""
	case "template_string":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "template_substitution" {
				return "", false
			}
		}
		s := strings.TrimSpace(strings.Trim(n.Content(source), "`"))
		return s, s != ""
	default:
		return "", false
	}
}

// isTypeOnly reports whether the capture belongs to an `import type` or `export type` statement.
func isTypeOnly(node *sitter.Node, source []byte) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		if parent.Type() == "import_statement" || parent.Type() == "export_statement" {
			return hasTypeKeyword(parent, source)
		}
	}
	return false
}

func hasTypeKeyword(statement *sitter.Node, source []byte) bool {
	for i := 0; i < int(statement.ChildCount()); i++ {
		child := statement.Child(i)
		if child != nil && child.Content(source) == "type" {
			return true
		}
	}
	return false
}

func cssImports(root *sitter.Node, source []byte) []Import {
	var imports []Import
	walk(root, func(n *sitter.Node) {
		if n.Type() != "import_statement" {
			return
		}
		var found string
		walk(n, func(c *sitter.Node) {
			if found != "" {
				return
			}
			switch c.Type() {
			case "string_value":
				found = cleanImportPath(c.Content(source))
			case "plain_value":
				if p := c.Parent(); p != nil && p.Type() == "arguments" {
					found = strings.TrimSpace(c.Content(source))
				}
			}
		})
		if found != "" {
			imports = append(imports, Import{Specifier: found})
		}
	})
	return imports
}

// htmlImports collects <script src> and <link rel="stylesheet" href> references.
func htmlImports(root *sitter.Node, source []byte) []Import {
	var imports []Import
	walk(root, func(n *sitter.Node) {
		if n.Type() != "start_tag" && n.Type() != "self_closing_tag" {
			return
		}

		var tag string
		attrs := make(map[string]string)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "tag_name":
				tag = strings.ToLower(child.Content(source))
			case "attribute":
				name, value := htmlAttribute(child, source)
				attrs[name] = value
			}
		}

		switch {
		case tag == "script" && attrs["src"] != "":
			imports = append(imports, Import{Specifier: attrs["src"]})
		case tag == "link" && attrs["href"] != "" && strings.Contains(strings.ToLower(attrs["rel"]), "stylesheet"):
			imports = append(imports, Import{Specifier: attrs["href"]})
		}
	})
	return imports
}

func htmlAttribute(attr *sitter.Node, source []byte) (string, string) {
	var name, value string
	for i := 0; i < int(attr.NamedChildCount()); i++ {
		child := attr.NamedChild(i)
		switch child.Type() {
		case "attribute_name":
			name = strings.ToLower(child.Content(source))
		case "attribute_value":
			value = child.Content(source)
		case "quoted_attribute_value":
			value = cleanImportPath(child.Content(source))
		}
	}
	return name, strings.TrimSpace(value)
}

func walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), visit)
	}
}

// cleanImportPath removes quotes from import path strings
func cleanImportPath(raw string) string {
	cleaned := strings.Trim(raw, "'\"")
	return strings.TrimSpace(cleaned)
}
