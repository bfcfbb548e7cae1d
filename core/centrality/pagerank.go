package centrality

import (
	"log/slog"
	"math"

	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
)

// Ranker computes a PageRank importance score per node:
//
//	score(v) = (1-d)/N + d * sum over in-neighbors u of score(u)/outdeg(u)
//
// The graph is undirected, so every edge counts as two directed edges.
// Dangling nodes (degree 0) redistribute their rank mass uniformly.
type Ranker struct {
	config model.RankConfig
	log    *slog.Logger
}

// NewRanker creates a ranker for the given configuration
func NewRanker(config model.RankConfig, logger *slog.Logger) *Ranker {
	return &Ranker{
		config: config,
		log:    logger,
	}
}

// Rank iterates to a fixed point, stopping when the L1 change between
// iterations drops below the configured tolerance. When the iteration budget
// runs out first, the best-effort scores are returned together with
// ErrNonConvergence; the caller decides whether to accept them.
func (r *Ranker) Rank(graph *model.Graph) (map[string]float64, error) {
	keys := graph.NodeKeys()
	n := len(keys)
	if n == 0 {
		return map[string]float64{}, nil
	}

	d := r.config.DampingFactor
	scores := make(map[string]float64, n)
	for _, key := range keys {
		scores[key] = 1.0 / float64(n)
	}

	for iteration := 0; iteration < r.config.MaxIterations; iteration++ {
		// dangling mass is spread uniformly over all nodes
		var dangling float64
		for _, key := range keys {
			if graph.Degree(key) == 0 {
				dangling += scores[key]
			}
		}

		next := make(map[string]float64, n)
		base := (1-d)/float64(n) + d*dangling/float64(n)
		for _, key := range keys {
			next[key] = base
		}
		for _, key := range keys {
			deg := graph.Degree(key)
			if deg == 0 {
				continue
			}
			share := d * scores[key] / float64(deg)
			for _, edge := range graph.EdgesOf(key) {
				other, _ := edge.Other(key)
				next[other] += share
			}
		}

		var delta float64
		for _, key := range keys {
			delta += math.Abs(next[key] - scores[key])
		}
		scores = next

		if delta < r.config.Tolerance {
			r.log.Info("PageRank converged",
				slog.Int("iterations", iteration+1),
				slog.Float64("delta", delta))
			return scores, nil
		}
	}

	r.log.Warn("PageRank did not converge within iteration budget",
		slog.Int("max_iterations", r.config.MaxIterations))
	return scores, helper.NewError("rank nodes", model.ErrNonConvergence)
}
