package community

import (
	"log/slog"
	"sort"

	"github.com/polinet/tradegraph/model"
)

// Detector partitions the co-trade layer of a graph into communities by
// greedy modularity optimization (Louvain). Politician nodes inherit the
// community holding the majority of their transaction nodes.
//
// The algorithm itself is order-sensitive; the detector pins iteration to
// lexicographically sorted node keys and breaks merge-gain ties by lowest
// community id, so results are reproducible for identical input.
type Detector struct {
	config model.DetectConfig
	log    *slog.Logger
}

// NewDetector creates a detector for the given configuration
func NewDetector(config model.DetectConfig, logger *slog.Logger) *Detector {
	return &Detector{
		config: config,
		log:    logger,
	}
}

// Detect computes the node-to-community assignment. Nodes isolated in the
// co-trade layer get a singleton community each, or are left out of the
// mapping entirely, per the isolated node policy. A graph without co-trade
// edges yields the trivial assignment rather than an error.
func (d *Detector) Detect(graph *model.Graph) (map[string]int, error) {
	lg := newLouvainGraph(graph)

	assignment := make(map[string]int)
	next := 0

	if lg.n > 0 {
		partition := lg.run()
		// renumber communities in order of first appearance over sorted keys
		renumber := make(map[int]int)
		for i, key := range lg.keys {
			c := partition[i]
			if _, ok := renumber[c]; !ok {
				renumber[c] = next
				next++
			}
			assignment[key] = renumber[c]
		}
	}

	d.inheritPoliticianCommunities(graph, assignment)

	// isolated remainder: singleton or excluded, per configuration
	if d.config.IsolatedNodePolicy == model.IsolatedSingleton {
		for _, key := range graph.NodeKeys() {
			if _, ok := assignment[key]; !ok {
				assignment[key] = next
				next++
			}
		}
	}

	d.log.Info("Detected communities",
		slog.Int("communities", next),
		slog.Int("assigned_nodes", len(assignment)),
		slog.Int("cotrade_nodes", lg.n))

	return assignment, nil
}

// inheritPoliticianCommunities labels each politician with the community
// holding the majority of its transaction nodes, ties broken by lowest
// community id. Politicians without a labeled transaction stay unlabeled
// here and fall under the isolated node policy.
func (d *Detector) inheritPoliticianCommunities(graph *model.Graph, assignment map[string]int) {
	for _, node := range graph.Nodes() {
		if node.Kind != model.NodeKindPolitician {
			continue
		}
		counts := make(map[int]int)
		for _, edge := range graph.EdgesOf(node.Key) {
			if edge.Kind != model.EdgeKindParticipation {
				continue
			}
			txKey, _ := edge.Other(node.Key)
			if c, ok := assignment[txKey]; ok {
				counts[c]++
			}
		}
		if len(counts) == 0 {
			continue
		}
		best, bestCount := -1, -1
		for c, count := range counts {
			if count > bestCount || (count == bestCount && c < best) {
				best, bestCount = c, count
			}
		}
		assignment[node.Key] = best
	}
}

// louvainGraph is the weighted working graph over the co-trade layer,
// indexed by position in the sorted key list
type louvainGraph struct {
	n     int
	keys  []string
	adj   []map[int]float64
	loops []float64
	m     float64 // total edge weight
}

// newLouvainGraph extracts the co-trade subgraph: transaction nodes with at
// least one co-trade edge, indexed in sorted key order
func newLouvainGraph(graph *model.Graph) *louvainGraph {
	var keys []string
	for _, node := range graph.Nodes() {
		if node.Kind != model.NodeKindTransaction {
			continue
		}
		for _, edge := range graph.EdgesOf(node.Key) {
			if edge.Kind == model.EdgeKindCoTrade {
				keys = append(keys, node.Key)
				break
			}
		}
	}
	sort.Strings(keys)

	index := make(map[string]int, len(keys))
	for i, key := range keys {
		index[key] = i
	}

	lg := &louvainGraph{
		n:     len(keys),
		keys:  keys,
		adj:   make([]map[int]float64, len(keys)),
		loops: make([]float64, len(keys)),
	}
	for i := range lg.adj {
		lg.adj[i] = make(map[int]float64)
	}

	for _, edge := range graph.Edges() {
		if edge.Kind != model.EdgeKindCoTrade {
			continue
		}
		u, okU := index[edge.Source]
		v, okV := index[edge.Target]
		if !okU || !okV {
			continue
		}
		lg.adj[u][v] += edge.Weight
		lg.adj[v][u] += edge.Weight
		lg.m += edge.Weight
	}

	return lg
}

// run executes Louvain levels until the partition stops improving, returning
// the community of every original node index
func (lg *louvainGraph) run() []int {
	assignment := make([]int, lg.n)
	for i := range assignment {
		assignment[i] = i
	}

	level := lg
	for {
		partition, moved := level.localMove()
		if !moved {
			break
		}
		compact := compactPartition(partition)
		for i := range assignment {
			assignment[i] = compact[assignment[i]]
		}
		coarse := level.aggregate(compact)
		if coarse.n == level.n {
			break
		}
		level = coarse
	}

	return assignment
}

// localMove is the first Louvain phase: repeatedly move single nodes to the
// neighboring community with the greatest modularity gain until a full pass
// makes no move
func (lg *louvainGraph) localMove() ([]int, bool) {
	comm := make([]int, lg.n)
	degree := make([]float64, lg.n)
	commTotal := make([]float64, lg.n)

	for i := 0; i < lg.n; i++ {
		comm[i] = i
		degree[i] = 2 * lg.loops[i]
		for _, w := range lg.adj[i] {
			degree[i] += w
		}
		commTotal[i] = degree[i]
	}

	if lg.m == 0 {
		return comm, false
	}

	anyMove := false
	for {
		movedInPass := false
		for i := 0; i < lg.n; i++ {
			current := comm[i]
			commTotal[current] -= degree[i]

			// weight from i into each neighboring community
			neighWeight := map[int]float64{current: 0}
			for j, w := range lg.adj[i] {
				neighWeight[comm[j]] += w
			}

			candidates := make([]int, 0, len(neighWeight))
			for c := range neighWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			best, bestGain := current, gain(neighWeight[current], commTotal[current], degree[i], lg.m)
			for _, c := range candidates {
				g := gain(neighWeight[c], commTotal[c], degree[i], lg.m)
				if g > bestGain {
					best, bestGain = c, g
				}
			}

			commTotal[best] += degree[i]
			if best != current {
				comm[i] = best
				movedInPass = true
				anyMove = true
			}
		}
		if !movedInPass {
			break
		}
	}

	return comm, anyMove
}

// gain is the modularity change of adding a node with degree k and weight
// wic into community c, up to constants shared by all candidates
func gain(wic, commTotal, k, m float64) float64 {
	return wic - commTotal*k/(2*m)
}

// aggregate is the second Louvain phase: collapse every community into a
// super-node, turning intra-community weight into self-loops
func (lg *louvainGraph) aggregate(compact []int) *louvainGraph {
	n := 0
	for _, c := range compact {
		if c+1 > n {
			n = c + 1
		}
	}

	coarse := &louvainGraph{
		n:     n,
		keys:  make([]string, n),
		adj:   make([]map[int]float64, n),
		loops: make([]float64, n),
		m:     lg.m,
	}
	for i := range coarse.adj {
		coarse.adj[i] = make(map[int]float64)
	}

	for i := 0; i < lg.n; i++ {
		ci := compact[i]
		coarse.loops[ci] += lg.loops[i]
		for j, w := range lg.adj[i] {
			cj := compact[j]
			if ci == cj {
				if i < j {
					coarse.loops[ci] += w
				}
				continue
			}
			coarse.adj[ci][cj] += w / 2
			coarse.adj[cj][ci] += w / 2
		}
	}

	return coarse
}

// compactPartition renumbers community labels to 0..C-1 by lowest member
// index, which keeps the aggregation deterministic
func compactPartition(partition []int) []int {
	renumber := make(map[int]int)
	next := 0
	compact := make([]int, len(partition))
	for i, c := range partition {
		if _, ok := renumber[c]; !ok {
			renumber[c] = next
			next++
		}
		compact[i] = renumber[c]
	}
	return compact
}
