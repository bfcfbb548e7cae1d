package build

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/polinet/tradegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func tx(politician, security, day string) model.Transaction {
	return model.Transaction{
		PoliticianID:   politician,
		PoliticianName: politician,
		Security:       security,
		Date:           date(day),
		Side:           model.TradeSideBuy,
	}
}

func defaultBuildConfig() model.BuildConfig {
	return model.BuildConfig{
		WindowDays:      10,
		TruncationOrder: model.TruncateMostRecent,
	}
}

func TestBuilderBuild(t *testing.T) {
	t.Run("Co-trade edges inside the window only", func(t *testing.T) {
		// A and B trade XYZ 7 days apart, C trades it 24 days after B
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("B", "XYZ", "2024-01-08"),
			tx("C", "XYZ", "2024-02-01"),
		}

		result, err := builder.Build(transactions)

		require.NoError(t, err)
		g := result.Graph
		assert.Equal(t, 6, g.NodeCount(), "Expected 3 politician and 3 transaction nodes")

		cotrades := coTradeEdges(g)
		require.Len(t, cotrades, 1, "Expected exactly one co-trade edge (A-B)")
		assert.Equal(t, 7, cotrades[0].DayGap)

		source, _ := g.Node(cotrades[0].Source)
		target, _ := g.Node(cotrades[0].Target)
		politicians := []string{source.Transaction.PoliticianID, target.Transaction.PoliticianID}
		assert.ElementsMatch(t, []string{"A", "B"}, politicians)
	})

	t.Run("Every transaction node has exactly one participation edge", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("A", "ABC", "2024-01-02"),
			tx("B", "XYZ", "2024-01-03"),
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		for _, node := range result.Graph.Nodes() {
			if node.Kind != model.NodeKindTransaction {
				continue
			}
			var participations int
			for _, edge := range result.Graph.EdgesOf(node.Key) {
				if edge.Kind != model.EdgeKindParticipation {
					continue
				}
				participations++
				politician, _ := edge.Other(node.Key)
				assert.Equal(t, node.Transaction.PoliticianID, politician,
					"Participation edge must connect to the transaction's politician")
			}
			assert.Equal(t, 1, participations, "Expected exactly one participation edge for %s", node.Key)
		}
	})

	t.Run("Window boundary is inclusive", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())

		result, err := builder.Build([]model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("B", "XYZ", "2024-01-11"),
		})
		require.NoError(t, err)
		assert.Len(t, coTradeEdges(result.Graph), 1, "A 10-day gap should co-trade with window 10")

		result, err = builder.Build([]model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("B", "XYZ", "2024-01-12"),
		})
		require.NoError(t, err)
		assert.Empty(t, coTradeEdges(result.Graph), "An 11-day gap should not co-trade with window 10")
	})

	t.Run("No co-trade edges between transactions of the same politician", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("A", "XYZ", "2024-01-03"),
			tx("A", "XYZ", "2024-01-05"),
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		assert.Empty(t, coTradeEdges(result.Graph))
	})

	t.Run("No co-trade edges across different securities", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("B", "ABC", "2024-01-02"),
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		assert.Empty(t, coTradeEdges(result.Graph))
	})

	t.Run("Two-pointer join matches pairwise join", func(t *testing.T) {
		// dense cluster where every cross-politician pair within 10 days links
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("B", "XYZ", "2024-01-04"),
			tx("C", "XYZ", "2024-01-08"),
			tx("D", "XYZ", "2024-01-20"),
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		// A-B (3), A-C (7), B-C (4); D is 12+ days from everyone
		assert.Len(t, coTradeEdges(result.Graph), 3)
	})

	t.Run("Same-day repeats get distinct node keys", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			tx("A", "XYZ", "2024-01-01"),
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Graph.NodeCount(), "Expected one politician and two transaction nodes")
		politician, ok := result.Graph.Node("A")
		require.True(t, ok)
		assert.Equal(t, 2, politician.Politician.TradeCount)
	})

	t.Run("Malformed rows are dropped and counted", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("A", "XYZ", "2024-01-01"),
			{PoliticianID: "", Security: "XYZ", Date: date("2024-01-02")},
			{PoliticianID: "B", Security: "", Date: date("2024-01-03")},
			{PoliticianID: "C", Security: "XYZ"},
		}

		result, err := builder.Build(transactions)
		require.NoError(t, err)

		assert.Equal(t, 3, result.Dropped)
		assert.Equal(t, 2, result.Graph.NodeCount(), "Only the valid row should survive")
	})

	t.Run("Empty input fails with ErrEmptyInput", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())

		_, err := builder.Build(nil)

		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrEmptyInput), "Expected ErrEmptyInput, got %v", err)
	})

	t.Run("Empty input allowed by configuration", func(t *testing.T) {
		config := defaultBuildConfig()
		config.AllowEmpty = true
		builder := NewBuilder(config, testLogger())

		result, err := builder.Build(nil)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Graph.NodeCount())
	})

	t.Run("Date range filters transactions", func(t *testing.T) {
		config := defaultBuildConfig()
		config.DateRange = model.DateRange{Start: date("2024-01-01"), End: date("2024-01-31")}
		builder := NewBuilder(config, testLogger())

		result, err := builder.Build([]model.Transaction{
			tx("A", "XYZ", "2024-01-15"),
			tx("B", "XYZ", "2024-02-15"),
		})
		require.NoError(t, err)

		_, hasA := result.Graph.Node("A")
		_, hasB := result.Graph.Node("B")
		assert.True(t, hasA)
		assert.False(t, hasB, "Out-of-range transactions should not create nodes")
	})

	t.Run("Per-politician cap keeps most recent transactions", func(t *testing.T) {
		config := defaultBuildConfig()
		config.MaxTransactionsPerPolitician = 2
		builder := NewBuilder(config, testLogger())

		result, err := builder.Build([]model.Transaction{
			tx("A", "OLD", "2024-01-01"),
			tx("A", "MID", "2024-02-01"),
			tx("A", "NEW", "2024-03-01"),
		})
		require.NoError(t, err)

		politician, _ := result.Graph.Node("A")
		assert.Equal(t, 2, politician.Politician.TradeCount)

		securities := survivingSecurities(result.Graph)
		assert.ElementsMatch(t, []string{"MID", "NEW"}, securities)
	})

	t.Run("Per-politician cap keeps highest value transactions", func(t *testing.T) {
		config := defaultBuildConfig()
		config.MaxTransactionsPerPolitician = 1
		config.TruncationOrder = model.TruncateHighestValue
		builder := NewBuilder(config, testLogger())

		small := tx("A", "SMALL", "2024-03-01")
		small.Value = 1000
		big := tx("A", "BIG", "2024-01-01")
		big.Value = 500000

		result, err := builder.Build([]model.Transaction{small, big})
		require.NoError(t, err)

		securities := survivingSecurities(result.Graph)
		assert.Equal(t, []string{"BIG"}, securities)
	})

	t.Run("Identical input builds identical graphs", func(t *testing.T) {
		builder := NewBuilder(defaultBuildConfig(), testLogger())
		transactions := []model.Transaction{
			tx("B", "XYZ", "2024-01-08"),
			tx("A", "XYZ", "2024-01-01"),
			tx("C", "ABC", "2024-01-05"),
		}

		first, err := builder.Build(transactions)
		require.NoError(t, err)
		second, err := builder.Build(transactions)
		require.NoError(t, err)

		assert.Equal(t, first.Graph.NodeKeys(), second.Graph.NodeKeys())
		require.Equal(t, first.Graph.EdgeCount(), second.Graph.EdgeCount())
		for i, edge := range first.Graph.Edges() {
			assert.Equal(t, *edge, *second.Graph.Edges()[i])
		}
	})
}

func coTradeEdges(g *model.Graph) []*model.Edge {
	var edges []*model.Edge
	for _, edge := range g.Edges() {
		if edge.Kind == model.EdgeKindCoTrade {
			edges = append(edges, edge)
		}
	}
	return edges
}

func survivingSecurities(g *model.Graph) []string {
	var securities []string
	for _, node := range g.Nodes() {
		if node.Kind == model.NodeKindTransaction {
			securities = append(securities, node.Transaction.Security)
		}
	}
	return securities
}
