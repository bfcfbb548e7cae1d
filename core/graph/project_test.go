package graph

import (
	"testing"
	"time"

	"github.com/polinet/tradegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTransaction(t *testing.T, g *model.Graph, politician, key string) {
	t.Helper()
	g.AddNode(&model.Node{
		Key:  key,
		Kind: model.NodeKindTransaction,
		Transaction: &model.TransactionAttributes{
			PoliticianID: politician,
			Security:     "XYZ",
			Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Annotations: model.Metadata{},
	})
}

func TestProject(t *testing.T) {
	t.Run("Co-trade weights aggregate per politician pair", func(t *testing.T) {
		g := model.NewGraph()
		addTransaction(t, g, "B", "tb1")
		addTransaction(t, g, "A", "ta1")
		addTransaction(t, g, "A", "ta2")
		addTransaction(t, g, "C", "tc1")
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("ta1", "tb1", 1)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("ta2", "tb1", 3)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("tb1", "tc1", 5)))

		partners := Project(g)

		require.Len(t, partners, 2)
		assert.Equal(t, PartnerEdge{PoliticianA: "A", PoliticianB: "B", Weight: 2}, partners[0])
		assert.Equal(t, PartnerEdge{PoliticianA: "B", PoliticianB: "C", Weight: 1}, partners[1])
	})

	t.Run("Pairs are ordered with the lower id first", func(t *testing.T) {
		g := model.NewGraph()
		addTransaction(t, g, "Z", "tz")
		addTransaction(t, g, "A", "ta")
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("tz", "ta", 2)))

		partners := Project(g)

		require.Len(t, partners, 1)
		assert.Equal(t, "A", partners[0].PoliticianA)
		assert.Equal(t, "Z", partners[0].PoliticianB)
	})

	t.Run("Participation edges do not project", func(t *testing.T) {
		g := model.NewGraph()
		g.AddNode(model.NewPoliticianNode("A", model.PoliticianAttributes{Name: "A"}))
		addTransaction(t, g, "A", "ta")
		require.NoError(t, g.AddEdge(model.NewParticipationEdge("A", "ta")))

		assert.Empty(t, Project(g))
	})
}

func TestComponents(t *testing.T) {
	t.Run("Disjoint clusters form separate components", func(t *testing.T) {
		g := model.NewGraph()
		addTransaction(t, g, "A", "ta")
		addTransaction(t, g, "B", "tb")
		addTransaction(t, g, "C", "tc")
		addTransaction(t, g, "D", "td")
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("ta", "tb", 1)))
		require.NoError(t, g.AddEdge(model.NewCoTradeEdge("tc", "td", 1)))

		components := Components(g)

		require.Len(t, components, 2)
		assert.ElementsMatch(t, []string{"ta", "tb"}, components[0])
		assert.ElementsMatch(t, []string{"tc", "td"}, components[1])
	})

	t.Run("Isolated nodes are singleton components", func(t *testing.T) {
		g := model.NewGraph()
		addTransaction(t, g, "A", "ta")

		components := Components(g)

		require.Len(t, components, 1)
		assert.Equal(t, []string{"ta"}, components[0])
	})
}

func TestConnectedKeys(t *testing.T) {
	g := model.NewGraph()
	addTransaction(t, g, "A", "ta")
	addTransaction(t, g, "B", "tb")
	addTransaction(t, g, "C", "lonely")
	require.NoError(t, g.AddEdge(model.NewCoTradeEdge("ta", "tb", 1)))

	assert.Equal(t, []string{"ta", "tb"}, ConnectedKeys(g))
}
