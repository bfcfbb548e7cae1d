package tradegraph

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/polinet/tradegraph/core/community"
	coregraph "github.com/polinet/tradegraph/core/graph"
	"github.com/polinet/tradegraph/model"
)

// report caps, matching what the downstream reporting consumes
const (
	topPoliticianLimit = 15
	topSecurityLimit   = 5
	topPairLimit       = 3
)

// PoliticianRank is one entry of the influence ranking
type PoliticianRank struct {
	PoliticianID string  `json:"politician_id"`
	Name         string  `json:"name"`
	Score        float64 `json:"score"`
	Community    int     `json:"community"`
}

// SecurityCount counts how often a security was traded inside a community
type SecurityCount struct {
	Security string `json:"security"`
	Count    int    `json:"count"`
}

// SecurityPair counts politicians of a community that traded both securities
type SecurityPair struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// CommunitySummary describes one detected community
type CommunitySummary struct {
	ID            int             `json:"id"`
	Politicians   []string        `json:"politicians"`
	Transactions  int             `json:"transactions"`
	TopSecurities []SecurityCount `json:"top_securities,omitempty"`
	CoTradedPairs []SecurityPair  `json:"co_traded_pairs,omitempty"`
}

// AnalysisReport summarizes one pipeline run over the annotated graph
type AnalysisReport struct {
	RunID               uuid.UUID               `json:"run_id"`
	GeneratedAt         time.Time               `json:"generated_at"`
	Nodes               int                     `json:"nodes"`
	Edges               int                     `json:"edges"`
	CoTradeEdges        int                     `json:"cotrade_edges"`
	DroppedTransactions int                     `json:"dropped_transactions"`
	Converged           bool                    `json:"converged"`
	Modularity          float64                 `json:"modularity"`
	Communities         []CommunitySummary      `json:"communities"`
	TopPoliticians      []PoliticianRank        `json:"top_politicians"`
	Partners            []coregraph.PartnerEdge `json:"partners,omitempty"`
}

func newReport(graph *model.Graph, communities map[string]int, scores map[string]float64) *AnalysisReport {
	report := &AnalysisReport{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Nodes:       graph.NodeCount(),
		Edges:       graph.EdgeCount(),
		Modularity:  community.Modularity(graph, communities),
		Partners:    coregraph.Project(graph),
	}

	for _, edge := range graph.Edges() {
		if edge.Kind == model.EdgeKindCoTrade {
			report.CoTradeEdges++
		}
	}

	report.TopPoliticians = rankPoliticians(graph, communities, scores)
	report.Communities = summarizeCommunities(graph, communities)

	return report
}

// rankPoliticians returns the politician nodes ordered by descending score,
// ties broken by key for stable output
func rankPoliticians(graph *model.Graph, communities map[string]int, scores map[string]float64) []PoliticianRank {
	var ranks []PoliticianRank
	for _, node := range graph.Nodes() {
		if node.Kind != model.NodeKindPolitician {
			continue
		}
		ranks = append(ranks, PoliticianRank{
			PoliticianID: node.Key,
			Name:         node.Politician.Name,
			Score:        scores[node.Key],
			Community:    communities[node.Key],
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Score != ranks[j].Score {
			return ranks[i].Score > ranks[j].Score
		}
		return ranks[i].PoliticianID < ranks[j].PoliticianID
	})
	if len(ranks) > topPoliticianLimit {
		ranks = ranks[:topPoliticianLimit]
	}
	return ranks
}

// summarizeCommunities groups the assignment into per-community membership,
// trade counts and frequent securities
func summarizeCommunities(graph *model.Graph, communities map[string]int) []CommunitySummary {
	members := make(map[int][]string)
	transactions := make(map[int]int)

	for _, node := range graph.Nodes() {
		c, ok := communities[node.Key]
		if !ok {
			continue
		}
		switch node.Kind {
		case model.NodeKindPolitician:
			members[c] = append(members[c], node.Key)
		case model.NodeKindTransaction:
			transactions[c]++
		}
	}

	ids := make([]int, 0, len(members))
	for c := range members {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	summaries := make([]CommunitySummary, 0, len(ids))
	for _, c := range ids {
		sort.Strings(members[c])
		summaries = append(summaries, CommunitySummary{
			ID:            c,
			Politicians:   members[c],
			Transactions:  transactions[c],
			TopSecurities: topSecurities(graph, members[c]),
			CoTradedPairs: coTradedPairs(graph, members[c]),
		})
	}
	return summaries
}

// topSecurities counts the securities traded by a community's politicians
func topSecurities(graph *model.Graph, politicians []string) []SecurityCount {
	counts := make(map[string]int)
	for _, key := range politicians {
		for _, security := range securitiesOf(graph, key) {
			counts[security]++
		}
	}
	return topCounts(counts, topSecurityLimit)
}

// coTradedPairs counts, per pair of securities, how many politicians of the
// community traded both
func coTradedPairs(graph *model.Graph, politicians []string) []SecurityPair {
	counts := make(map[[2]string]int)
	for _, key := range politicians {
		securities := securitiesOf(graph, key)
		distinct := make(map[string]bool)
		for _, s := range securities {
			distinct[s] = true
		}
		sorted := make([]string, 0, len(distinct))
		for s := range distinct {
			sorted = append(sorted, s)
		}
		sort.Strings(sorted)
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				counts[[2]string{sorted[i], sorted[j]}]++
			}
		}
	}

	pairs := make([]SecurityPair, 0, len(counts))
	for pair, count := range counts {
		pairs = append(pairs, SecurityPair{A: pair[0], B: pair[1], Count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if len(pairs) > topPairLimit {
		pairs = pairs[:topPairLimit]
	}
	return pairs
}

// securitiesOf lists the securities of a politician's transaction nodes,
// one entry per transaction
func securitiesOf(graph *model.Graph, politicianKey string) []string {
	var securities []string
	for _, edge := range graph.EdgesOf(politicianKey) {
		if edge.Kind != model.EdgeKindParticipation {
			continue
		}
		txKey, _ := edge.Other(politicianKey)
		if node, ok := graph.Node(txKey); ok && node.Transaction != nil {
			securities = append(securities, node.Transaction.Security)
		}
	}
	return securities
}

func topCounts(counts map[string]int, limit int) []SecurityCount {
	list := make([]SecurityCount, 0, len(counts))
	for s, c := range counts {
		list = append(list, SecurityCount{Security: s, Count: c})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Security < list[j].Security
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
