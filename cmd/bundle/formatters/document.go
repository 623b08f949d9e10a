package formatters

import "github.com/LegacyCodeHQ/bundlegraph/bundlegraph"

// Document is the serialized form of a bundle graph used by the json and
// yaml formats and by the watch server.
type Document struct {
	Label   string           `json:"label,omitempty" yaml:"label,omitempty"`
	Bundles []BundleDocument `json:"bundles" yaml:"bundles"`
	Edges   []EdgeDocument   `json:"edges" yaml:"edges"`
}

type BundleDocument struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Type        string          `json:"type" yaml:"type"`
	Root        string          `json:"root" yaml:"root"`
	MainEntry   string          `json:"mainEntry" yaml:"mainEntry"`
	EntryAssets []string        `json:"entryAssets" yaml:"entryAssets"`
	Splittable  bool            `json:"splittable" yaml:"splittable"`
	Behavior    string          `json:"behavior" yaml:"behavior"`
	Assets      []AssetDocument `json:"assets" yaml:"assets"`
}

type AssetDocument struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
	Type string `json:"type" yaml:"type"`
}

// EdgeDocument links two bundles by id.
type EdgeDocument struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Kind string `json:"kind" yaml:"kind"`
}

// NewDocument builds the serialized form of bg.
func NewDocument(bg *bundlegraph.BundleGraph, opts RenderOptions) Document {
	view := NewView(bg)
	doc := Document{
		Label:   opts.Label,
		Bundles: make([]BundleDocument, 0, len(view.Bundles)),
		Edges:   make([]EdgeDocument, 0, len(view.Edges)),
	}

	for _, bv := range view.Bundles {
		b := bv.Bundle
		assets := make([]AssetDocument, 0, len(bv.Assets))
		for _, a := range bv.Assets {
			assets = append(assets, AssetDocument{ID: a.ID, Path: a.FilePath, Type: a.FileType})
		}
		doc.Bundles = append(doc.Bundles, BundleDocument{
			ID:          b.ID,
			Name:        b.Name,
			Type:        b.Type,
			Root:        KindLabel(bv.RootKind),
			MainEntry:   b.MainEntryID,
			EntryAssets: append([]string(nil), b.EntryAssetIDs...),
			Splittable:  b.IsSplittable,
			Behavior:    b.Behavior.String(),
			Assets:      assets,
		})
	}

	for _, e := range view.Edges {
		doc.Edges = append(doc.Edges, EdgeDocument{
			From: view.Bundles[e.From].Bundle.ID,
			To:   view.Bundles[e.To].Bundle.ID,
			Kind: KindLabel(e.Kind),
		})
	}

	return doc
}
