package build

import (
	"log/slog"
	"sort"
	"time"

	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
)

// Builder consumes a ledger of transaction records and produces the bipartite
// graph of politician and transaction nodes, with co-trade edges between
// transactions of the same security inside the configured day window.
type Builder struct {
	config model.BuildConfig
	log    *slog.Logger
}

// NewBuilder creates a builder for the given configuration
func NewBuilder(config model.BuildConfig, logger *slog.Logger) *Builder {
	return &Builder{
		config: config,
		log:    logger,
	}
}

// Result is the outcome of a build: the populated graph and the number of
// malformed rows that were dropped
type Result struct {
	Graph   *model.Graph
	Dropped int
}

// Build constructs the graph. Malformed rows are dropped and counted; an
// input that filters down to nothing fails with ErrEmptyInput unless the
// configuration allows an empty graph. The co-trade join groups transaction
// nodes by security first, which keeps group sizes small in practice, and
// runs a two-pointer pass over each date-sorted group: O(k log k) per group
// of size k plus the emitted edges, instead of the naive O(k^2) pairwise
// comparison. The edge set is identical to the pairwise join.
func (b *Builder) Build(transactions []model.Transaction) (*Result, error) {
	byPolitician := make(map[string][]model.Transaction)
	var politicianOrder []string
	dropped := 0

	for _, tx := range transactions {
		if err := tx.Validate(); err != nil {
			dropped++
			b.log.Warn("Dropping malformed transaction",
				slog.String("politician_id", tx.PoliticianID),
				slog.String("security_id", tx.Security),
				slog.Any("error", err))
			continue
		}
		if !b.config.DateRange.Contains(tx.Date) {
			continue
		}
		if _, ok := byPolitician[tx.PoliticianID]; !ok {
			politicianOrder = append(politicianOrder, tx.PoliticianID)
		}
		byPolitician[tx.PoliticianID] = append(byPolitician[tx.PoliticianID], tx)
	}

	if dropped > 0 {
		b.log.Warn("Dropped malformed transactions", slog.Int("count", dropped))
	}

	truncate := truncatorFor(b.config.TruncationOrder)
	surviving := 0
	for _, id := range politicianOrder {
		group := byPolitician[id]
		if b.config.MaxTransactionsPerPolitician > 0 && len(group) > b.config.MaxTransactionsPerPolitician {
			group = truncate(group, b.config.MaxTransactionsPerPolitician)
		}
		// chronological order within a politician keeps node keys stable
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].Date.Equal(group[j].Date) {
				return group[i].Date.Before(group[j].Date)
			}
			return group[i].Security < group[j].Security
		})
		byPolitician[id] = group
		surviving += len(group)
	}

	if surviving == 0 && !b.config.AllowEmpty {
		return nil, helper.NewError("build graph", model.ErrEmptyInput)
	}

	graph := model.NewGraph()
	bySecurity := make(map[string][]*model.Node)
	var securityOrder []string
	sequence := make(map[string]int)

	for _, id := range politicianOrder {
		group := byPolitician[id]
		if len(group) == 0 {
			continue
		}

		politician := graph.AddNode(model.NewPoliticianNode(id, model.PoliticianAttributes{
			Name:    group[0].PoliticianName,
			Party:   group[0].Party,
			Chamber: group[0].Chamber,
		}))

		for _, tx := range group {
			seqKey := tx.Security + "|" + tx.PoliticianID + "|" + tx.Date.Format("2006-01-02")
			node := graph.AddNode(model.NewTransactionNode(model.TransactionAttributes{
				PoliticianID: tx.PoliticianID,
				Security:     tx.Security,
				Date:         tx.Date,
				Side:         tx.Side,
				Value:        tx.Value,
				Suspicious:   tx.Suspicious(),
			}, sequence[seqKey]))
			sequence[seqKey]++

			if err := graph.AddEdge(model.NewParticipationEdge(politician.Key, node.Key)); err != nil {
				return nil, helper.NewError("add participation edge", err)
			}
			politician.Politician.TradeCount++

			if _, ok := bySecurity[tx.Security]; !ok {
				securityOrder = append(securityOrder, tx.Security)
			}
			bySecurity[tx.Security] = append(bySecurity[tx.Security], node)
		}
	}

	cotrades := 0
	for _, security := range securityOrder {
		added, err := b.joinCoTrades(graph, bySecurity[security])
		if err != nil {
			return nil, helper.NewError("join co-trades", err)
		}
		cotrades += added
	}

	b.log.Info("Built transaction graph",
		slog.Int("nodes", graph.NodeCount()),
		slog.Int("participation_edges", surviving),
		slog.Int("cotrade_edges", cotrades),
		slog.Int("dropped", dropped))

	return &Result{Graph: graph, Dropped: dropped}, nil
}

// joinCoTrades links every pair of transaction nodes of different politicians
// in a single security group whose dates are at most WindowDays apart. The
// group is date-sorted and a trailing pointer bounds the candidate window.
func (b *Builder) joinCoTrades(graph *model.Graph, nodes []*model.Node) (int, error) {
	sort.SliceStable(nodes, func(i, j int) bool {
		di, dj := nodes[i].Transaction.Date, nodes[j].Transaction.Date
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return nodes[i].Key < nodes[j].Key
	})

	added := 0
	lo := 0
	for i, node := range nodes {
		for dayGap(nodes[lo].Transaction.Date, node.Transaction.Date) > b.config.WindowDays {
			lo++
		}
		for j := lo; j < i; j++ {
			if nodes[j].Transaction.PoliticianID == node.Transaction.PoliticianID {
				continue
			}
			gap := dayGap(nodes[j].Transaction.Date, node.Transaction.Date)
			if err := graph.AddEdge(model.NewCoTradeEdge(nodes[j].Key, node.Key, gap)); err != nil {
				return added, err
			}
			added++
		}
	}
	return added, nil
}

// dayGap returns the absolute gap between two calendar dates in whole days
func dayGap(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	gap := int(b.Sub(a) / (24 * time.Hour))
	if gap < 0 {
		gap = -gap
	}
	return gap
}
