package centrality

import (
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/polinet/tradegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func defaultRankConfig() model.RankConfig {
	return model.RankConfig{
		DampingFactor: 0.85,
		MaxIterations: 100,
		Tolerance:     1e-6,
	}
}

func txNode(key string) *model.Node {
	return &model.Node{
		Key:         key,
		Kind:        model.NodeKindTransaction,
		Transaction: &model.TransactionAttributes{Security: "XYZ"},
		Annotations: model.Metadata{},
	}
}

func TestRankerRank(t *testing.T) {
	t.Run("Edgeless graph scores uniformly", func(t *testing.T) {
		g := model.NewGraph()
		g.AddNode(txNode("a"))
		g.AddNode(txNode("b"))
		g.AddNode(txNode("c"))
		g.AddNode(txNode("d"))
		ranker := NewRanker(defaultRankConfig(), testLogger())

		scores, err := ranker.Rank(g)

		require.NoError(t, err)
		require.Len(t, scores, 4)
		for key, score := range scores {
			assert.InDelta(t, 0.25, score, 1e-9, "Expected uniform score for %s", key)
		}
	})

	t.Run("Scores sum to one and stay positive", func(t *testing.T) {
		g := model.NewGraph()
		for _, key := range []string{"a", "b", "c", "d", "lonely"} {
			g.AddNode(txNode(key))
		}
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("a", "b", 1)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("b", "c", 2)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("c", "d", 3)))
		ranker := NewRanker(defaultRankConfig(), testLogger())

		scores, err := ranker.Rank(g)

		require.NoError(t, err)
		var sum float64
		for key, score := range scores {
			assert.Greater(t, score, 0.0, "Score of %s must stay positive", key)
			sum += score
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
	})

	t.Run("Hub outranks spokes in a star", func(t *testing.T) {
		g := model.NewGraph()
		for _, key := range []string{"hub", "s1", "s2", "s3", "s4"} {
			g.AddNode(txNode(key))
		}
		for _, spoke := range []string{"s1", "s2", "s3", "s4"} {
			require.NoError(t, g.AddEdge(model.NewCoTradeEdge("hub", spoke, 1)))
		}
		ranker := NewRanker(defaultRankConfig(), testLogger())

		scores, err := ranker.Rank(g)

		require.NoError(t, err)
		for _, spoke := range []string{"s1", "s2", "s3", "s4"} {
			assert.Greater(t, scores["hub"], scores[spoke])
		}
	})

	t.Run("Symmetric nodes score identically", func(t *testing.T) {
		g := model.NewGraph()
		for _, key := range []string{"a", "mid", "b"} {
			g.AddNode(txNode(key))
		}
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("a", "mid", 1)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("mid", "b", 1)))
		ranker := NewRanker(defaultRankConfig(), testLogger())

		scores, err := ranker.Rank(g)

		require.NoError(t, err)
		assert.InDelta(t, scores["a"], scores["b"], 1e-9)
	})

	t.Run("Exhausted budget returns best-effort scores with ErrNonConvergence", func(t *testing.T) {
		g := model.NewGraph()
		for _, key := range []string{"a", "b", "c"} {
			g.AddNode(txNode(key))
		}
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("a", "b", 1)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("b", "c", 1)))
		config := defaultRankConfig()
		config.MaxIterations = 1
		config.Tolerance = 1e-12
		ranker := NewRanker(config, testLogger())

		scores, err := ranker.Rank(g)

		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrNonConvergence), "Expected ErrNonConvergence, got %v", err)
		require.Len(t, scores, 3, "Best-effort scores must still be returned")
		for _, score := range scores {
			assert.False(t, math.IsNaN(score))
		}
	})

	t.Run("Empty graph yields empty scores", func(t *testing.T) {
		ranker := NewRanker(defaultRankConfig(), testLogger())

		scores, err := ranker.Rank(model.NewGraph())

		require.NoError(t, err)
		assert.Empty(t, scores)
	})
}
