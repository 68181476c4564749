package metrics

import (
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// communityHint builds a co-occurrence graph over tags (an edge exists
// when two tags' co-occurrence rate across samples meets the configured
// threshold) and reports its connected components as a coarse community
// structure, the way the teacher's dependency-graph analyzer leans on
// gonum's graph package for structural summaries.
func communityHint(freq tagFrequency, sampleCount int, edgeWeightThreshold float64, previewSize int) model.CommunityHint {
	n := len(freq.order)
	if n == 0 {
		return model.CommunityHint{}
	}

	g := simple.NewUndirectedGraph()
	for i := range freq.order {
		g.AddNode(simple.Node(i))
	}

	type edge struct {
		a, b int
	}
	var edges []edge

	sampleTotal := sampleCount
	if sampleTotal <= 0 {
		sampleTotal = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			count := freq.docs.cooccurrence(freq.order[i], freq.order[j])
			if count == 0 {
				continue
			}
			rate := float64(count) / float64(sampleTotal)
			if rate < edgeWeightThreshold {
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
			edges = append(edges, edge{i, j})
		}
	}

	components := topo.ConnectedComponents(g)
	sort.Slice(components, func(i, j int) bool {
		return minNodeID(components[i]) < minNodeID(components[j])
	})

	var previews [][]string
	for _, comp := range components {
		ids := make([]int, 0, len(comp))
		for _, node := range comp {
			ids = append(ids, int(node.ID()))
		}
		sort.Ints(ids)

		previewCount := previewSize
		if previewCount <= 0 || previewCount > len(ids) {
			previewCount = len(ids)
		}
		preview := make([]string, 0, previewCount)
		for _, id := range ids[:previewCount] {
			preview = append(preview, freq.order[id])
		}
		previews = append(previews, preview)
	}

	// Coarse scalar per §4.3 M9, specified literally rather than true
	// modularity: (components / nodes) * (edges / max(edges, 1)).
	edgeDenominator := float64(len(edges))
	if edgeDenominator < 1 {
		edgeDenominator = 1
	}
	modularity := (float64(len(components)) / float64(n)) * (float64(len(edges)) / edgeDenominator)

	return model.CommunityHint{
		CommunityCount:    len(components),
		ModularityHint:    modularity,
		CommunityPreviews: previews,
	}
}

func minNodeID(nodes []graph.Node) int64 {
	min := nodes[0].ID()
	for _, n := range nodes[1:] {
		if n.ID() < min {
			min = n.ID()
		}
	}
	return min
}
