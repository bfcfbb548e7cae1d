package community

import "github.com/polinet/tradegraph/model"

// Modularity computes the quality Q of a community assignment over the
// co-trade layer of the graph. It compares intra-community edge weight to the
// weight expected under random rewiring with the same degree sequence.
// Nodes missing from the assignment are ignored.
func Modularity(graph *model.Graph, assignment map[string]int) float64 {
	var m float64
	degree := make(map[string]float64)
	intra := make(map[int]float64)

	for _, edge := range graph.Edges() {
		if edge.Kind != model.EdgeKindCoTrade {
			continue
		}
		m += edge.Weight
		degree[edge.Source] += edge.Weight
		degree[edge.Target] += edge.Weight

		cs, okS := assignment[edge.Source]
		ct, okT := assignment[edge.Target]
		if okS && okT && cs == ct {
			intra[cs] += edge.Weight
		}
	}

	if m == 0 {
		return 0
	}

	total := make(map[int]float64)
	for key, k := range degree {
		if c, ok := assignment[key]; ok {
			total[c] += k
		}
	}

	var q float64
	for _, in := range intra {
		q += in / m
	}
	for _, tot := range total {
		q -= (tot / (2 * m)) * (tot / (2 * m))
	}
	return q
}
