package bundlegraph

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/bundlegraph/internal/arena"
	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Stage names an intermediate graph of the pipeline.
type Stage string

const (
	StageSimplified Stage = "simplified"
	StageAcyclic    Stage = "acyclic"
	StageDominator  Stage = "dominator"
)

// ParseStage converts a stage name.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StageSimplified, StageAcyclic, StageDominator:
		return Stage(s), nil
	default:
		return "", fmt.Errorf("unknown stage: %s (valid options: %s, %s, %s)", s, StageSimplified, StageAcyclic, StageDominator)
	}
}

// WriteStageDOT renders one intermediate graph as Graphviz DOT. Parallel
// edges between the same pair of nodes are merged into one labelled edge.
func (r *Result) WriteStageDOT(w io.Writer, stage Stage) error {
	switch stage {
	case StageSimplified:
		return writeArenaDOT(r.Simplified.Graph, w, func(n SimplifiedNode) string {
			if n.Kind == SimplifiedRoot {
				return "root"
			}
			return filepath.Base(n.Asset.Asset.FilePath)
		})
	case StageAcyclic:
		return writeArenaDOT(r.Acyclic.Graph, w, acyclicLabel)
	case StageDominator:
		return writeArenaDOT(r.Tree.Graph, w, acyclicLabel)
	default:
		return fmt.Errorf("unknown stage: %s", stage)
	}
}

func acyclicLabel(n AcyclicNode) string {
	switch n.Kind {
	case AcyclicRoot:
		return "root"
	case AcyclicAsset:
		return filepath.Base(n.Asset.Asset.FilePath)
	case AcyclicCycle:
		names := make([]string, 0, len(n.Cycle))
		for _, ref := range n.Cycle {
			names = append(names, filepath.Base(ref.Asset.FilePath))
		}
		return "cycle(" + strings.Join(names, ", ") + ")"
	default:
		return fmt.Sprintf("AcyclicNodeKind(%d)", int(n.Kind))
	}
}

func writeArenaDOT[N any](g *arena.Graph[N, Edge], w io.Writer, label func(N) string) error {
	lib := graphlib.New(graphlib.IntHash, graphlib.Directed())
	for _, idx := range g.NodeIndices() {
		if err := lib.AddVertex(int(idx), graphlib.VertexAttribute("label", label(g.Node(idx)))); err != nil {
			return fmt.Errorf("failed to add vertex %d: %w", idx, err)
		}
	}

	type pair struct{ from, to arena.NodeIndex }
	var order []pair
	labels := make(map[pair][]string)
	for _, e := range g.Edges() {
		key := pair{e.From, e.To}
		if _, ok := labels[key]; !ok {
			order = append(order, key)
		}
		labels[key] = append(labels[key], e.Weight.Kind.String())
	}

	for _, key := range order {
		err := lib.AddEdge(int(key.from), int(key.to), graphlib.EdgeAttribute("label", strings.Join(labels[key], ", ")))
		if err != nil {
			return fmt.Errorf("failed to add edge %d -> %d: %w", key.from, key.to, err)
		}
	}

	return draw.DOT(lib, w)
}
