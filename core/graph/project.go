package graph

import (
	"sort"

	"github.com/polinet/tradegraph/model"
)

// PartnerEdge is one edge of the politician-only projection: two politicians
// and the number of co-trade links between their transactions
type PartnerEdge struct {
	PoliticianA string
	PoliticianB string
	Weight      float64
}

// Project collapses the co-trade layer into a politician-to-politician view.
// Every co-trade edge between a transaction of A and a transaction of B
// contributes its weight to the A-B partner edge. The result is sorted by
// (PoliticianA, PoliticianB) with A < B, so it is stable across runs.
func Project(g *model.Graph) []PartnerEdge {
	weights := make(map[[2]string]float64)

	for _, edge := range g.Edges() {
		if edge.Kind != model.EdgeKindCoTrade {
			continue
		}
		source, okS := g.Node(edge.Source)
		target, okT := g.Node(edge.Target)
		if !okS || !okT || source.Transaction == nil || target.Transaction == nil {
			continue
		}
		a, b := source.Transaction.PoliticianID, target.Transaction.PoliticianID
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		weights[[2]string{a, b}] += edge.Weight
	}

	edges := make([]PartnerEdge, 0, len(weights))
	for pair, weight := range weights {
		edges = append(edges, PartnerEdge{PoliticianA: pair[0], PoliticianB: pair[1], Weight: weight})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].PoliticianA != edges[j].PoliticianA {
			return edges[i].PoliticianA < edges[j].PoliticianA
		}
		return edges[i].PoliticianB < edges[j].PoliticianB
	})
	return edges
}
