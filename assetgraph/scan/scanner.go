// Package scan builds an asset graph by parsing source files reachable from
// a set of entry files.
package scan

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/assetgraph"
	"github.com/LegacyCodeHQ/bundlegraph/vcs"
	"github.com/rs/zerolog"
)

// ErrUnresolved is wrapped when a relative specifier matches no file.
var ErrUnresolved = errors.New("unresolved import")

// probeSuffixes are tried, in order, after a relative specifier.
var probeSuffixes = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".css"}

// indexFiles are tried, in order, when the specifier names a directory.
var indexFiles = []string{"index.ts", "index.tsx", "index.js", "index.jsx", "index.mjs", "index.cjs"}

// Scanner walks imports breadth-first from entry files under a directory.
// It implements assetgraph.Request.
type Scanner struct {
	dir     string
	entries []string
	reader  vcs.ContentReader
	logger  zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger for resolution diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New returns a scanner rooted at dir. Entries are paths relative to dir.
func New(dir string, entries []string, reader vcs.ContentReader, opts ...Option) *Scanner {
	s := &Scanner{
		dir:     dir,
		entries: entries,
		reader:  reader,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run parses every file reachable from the entries and returns the asset graph.
func (s *Scanner) Run(ctx context.Context) (*assetgraph.AssetGraph, error) {
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("no entry files given")
	}

	b := assetgraph.NewBuilder()
	seen := make(map[string]bool)
	var queue []string

	enqueue := func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		b.Asset(id, id)
		queue = append(queue, id)
	}

	for _, entry := range s.entries {
		id, err := s.normalize(entry)
		if err != nil {
			return nil, err
		}
		if _, err := s.reader(s.absolute(id)); err != nil {
			return nil, fmt.Errorf("failed to read entry %s: %w", entry, err)
		}
		enqueue(id)
		b.AddDependency("", id, &assetgraph.Dependency{Specifier: entry, Priority: assetgraph.PrioritySync})
	}

	importCount := 0
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		imports, err := s.imports(ctx, current)
		if err != nil {
			return nil, err
		}

		for _, imp := range imports {
			target, ok, err := s.resolve(current, imp.Specifier)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.logger.Debug().
					Str("from", current).
					Str("specifier", imp.Specifier).
					Msg("skipping external import")
				continue
			}

			priority := assetgraph.PrioritySync
			if imp.Dynamic {
				priority = assetgraph.PriorityLazy
			}

			enqueue(target)
			importCount++
			b.AddDependency(current, target, &assetgraph.Dependency{Specifier: imp.Specifier, Priority: priority})
		}
	}

	g, err := b.Build()
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("assets", len(seen)).
		Int("imports", importCount).
		Msg("scanned sources")
	return g, nil
}

func (s *Scanner) imports(ctx context.Context, id string) ([]Import, error) {
	fileType := assetgraph.FileTypeFromPath(id)
	if !SupportsFileType(fileType) {
		return nil, nil
	}

	content, err := s.reader(s.absolute(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", id, err)
	}

	imports, err := ParseImports(ctx, content, fileType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imports in %s: %w", id, err)
	}
	return dedupe(imports), nil
}

// resolve maps a specifier to an asset id. Bare specifiers report false.
func (s *Scanner) resolve(from, specifier string) (string, bool, error) {
	spec := stripQueryAndHash(specifier)

	var base string
	switch {
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		base = path.Join(path.Dir(from), spec)
	case strings.HasPrefix(spec, "/") && !strings.HasPrefix(spec, "//"):
		base = path.Clean(strings.TrimPrefix(spec, "/"))
	case isMarkupOrStyle(from) && !strings.Contains(spec, ":") && !strings.HasPrefix(spec, "//") && spec != "":
		// HTML and CSS URLs are relative without a leading ./
		base = path.Join(path.Dir(from), spec)
	default:
		return "", false, nil
	}

	if base == ".." || strings.HasPrefix(base, "../") {
		return "", false, fmt.Errorf("%w: %q from %s escapes %s", ErrUnresolved, specifier, from, s.dir)
	}

	candidates := make([]string, 0, len(probeSuffixes)+len(indexFiles))
	for _, suffix := range probeSuffixes {
		candidates = append(candidates, base+suffix)
	}
	for _, index := range indexFiles {
		candidates = append(candidates, path.Join(base, index))
	}

	for _, candidate := range candidates {
		_, err := s.reader(s.absolute(candidate))
		if err == nil {
			return candidate, true, nil
		}
		if !errors.Is(err, vcs.ErrNotFound) {
			return "", false, fmt.Errorf("failed to read %s: %w", candidate, err)
		}
	}

	return "", false, fmt.Errorf("%w: %q from %s", ErrUnresolved, specifier, from)
}

// normalize turns an entry path into an asset id relative to dir.
func (s *Scanner) normalize(entry string) (string, error) {
	rel := entry
	if filepath.IsAbs(entry) {
		var err error
		rel, err = filepath.Rel(s.dir, entry)
		if err != nil {
			return "", fmt.Errorf("entry %s is not inside %s: %w", entry, s.dir, err)
		}
	}
	id := path.Clean(filepath.ToSlash(rel))
	if id == ".." || strings.HasPrefix(id, "../") {
		return "", fmt.Errorf("entry %s is not inside %s", entry, s.dir)
	}
	return id, nil
}

func (s *Scanner) absolute(id string) string {
	return filepath.Join(s.dir, filepath.FromSlash(id))
}

func isMarkupOrStyle(id string) bool {
	switch assetgraph.FileTypeFromPath(id) {
	case "html", "htm", "css":
		return true
	default:
		return false
	}
}

func stripQueryAndHash(specifier string) string {
	if i := strings.IndexAny(specifier, "?#"); i >= 0 {
		return specifier[:i]
	}
	return specifier
}

// dedupe drops repeated imports of the same specifier. A static import wins
// over a dynamic one.
func dedupe(imports []Import) []Import {
	position := make(map[string]int, len(imports))
	var out []Import
	for _, imp := range imports {
		if i, ok := position[imp.Specifier]; ok {
			if !imp.Dynamic {
				out[i].Dynamic = false
			}
			continue
		}
		position[imp.Specifier] = len(out)
		out = append(out, imp)
	}
	return out
}
