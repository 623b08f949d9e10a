package assetgraph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
)

// Builder assembles an AssetGraph from assets addressed by id. The first
// error encountered is kept and returned by Build.
type Builder struct {
	graph  *AssetGraph
	assets map[string]arena.NodeIndex
	deps   int
	err    error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		graph:  New(),
		assets: make(map[string]arena.NodeIndex),
	}
}

// FileTypeFromPath returns the extension of path without the leading dot.
func FileTypeFromPath(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// Asset adds a source asset whose file type is derived from its path.
func (b *Builder) Asset(id, path string) *Builder {
	return b.AddAsset(&Asset{ID: id, FilePath: path, FileType: FileTypeFromPath(path), IsSource: true})
}

// AddAsset adds asset. Duplicate ids are an error.
func (b *Builder) AddAsset(asset *Asset) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.assets[asset.ID]; exists {
		b.err = fmt.Errorf("duplicate asset id: %s", asset.ID)
		return b
	}
	if asset.FileType == "" {
		asset.FileType = FileTypeFromPath(asset.FilePath)
	}
	b.assets[asset.ID] = b.graph.AddAsset(asset)
	return b
}

// Entry marks the asset id as a build entry point with a sync dependency from the root.
func (b *Builder) Entry(id string) *Builder {
	return b.AddDependency("", id, &Dependency{Specifier: id, Priority: PrioritySync})
}

// Import adds a dependency from one asset to another.
func (b *Builder) Import(from, to string, priority Priority) *Builder {
	return b.AddDependency(from, to, &Dependency{Specifier: to, Priority: priority})
}

// AddDependency adds dep between from and to. An empty from means the root.
func (b *Builder) AddDependency(from, to string, dep *Dependency) *Builder {
	if b.err != nil {
		return b
	}

	importer := b.graph.Root()
	if from != "" {
		idx, ok := b.assets[from]
		if !ok {
			b.err = fmt.Errorf("dependency references unknown asset: %s", from)
			return b
		}
		importer = idx
	}

	target, ok := b.assets[to]
	if !ok {
		b.err = fmt.Errorf("dependency references unknown asset: %s", to)
		return b
	}

	b.deps++
	if dep.ID == "" {
		dep.ID = fmt.Sprintf("dep-%d", b.deps)
	}
	if _, err := b.graph.Connect(importer, target, dep); err != nil {
		b.err = err
	}
	return b
}

// AssetNode returns the node index of the asset id.
func (b *Builder) AssetNode(id string) (arena.NodeIndex, bool) {
	idx, ok := b.assets[id]
	return idx, ok
}

// Build validates and returns the graph.
func (b *Builder) Build() (*AssetGraph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return b.graph, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *AssetGraph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
