// Package export serializes annotated graphs to GEXF 1.2, an
// attribute-preserving graph exchange format. Downstream tooling can re-load
// the file with its community ids, centrality scores and display sizes
// intact, without recomputation.
package export

import (
	"encoding/xml"
	"io"
	"os"
	"strconv"

	"github.com/polinet/tradegraph/core/graph"
	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
)

// Options controls the exported subgraph
type Options struct {
	// ConnectedOnly drops nodes without any edge, as the rendering path does
	ConnectedOnly bool
}

// node attribute ids declared in the GEXF header
const (
	attrKind        = "kind"
	attrName        = "name"
	attrParty       = "party"
	attrChamber     = "chamber"
	attrTradeCount  = "trade_count"
	attrSecurity    = "security_id"
	attrDate        = "date"
	attrSide        = "side"
	attrValue       = "value"
	attrSuspicious  = "suspicious"
	attrCommunity   = "community_id"
	attrPageRank    = "pagerank_score"
	attrDisplaySize = "display_size"
	attrDayGap      = "day_gap"
)

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfGraph struct {
	Mode            string           `xml:"mode,attr"`
	DefaultEdgeType string           `xml:"defaultedgetype,attr"`
	Attributes      []gexfAttributes `xml:"attributes"`
	Nodes           gexfNodes        `xml:"nodes"`
	Edges           gexfEdges        `xml:"edges"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNodes struct {
	Nodes []gexfNode `xml:"node"`
}

type gexfNode struct {
	ID        string         `xml:"id,attr"`
	Label     string         `xml:"label,attr"`
	AttValues *gexfAttValues `xml:"attvalues,omitempty"`
}

type gexfAttValues struct {
	Values []gexfAttValue `xml:"attvalue"`
}

type gexfAttValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

type gexfEdges struct {
	Edges []gexfEdge `xml:"edge"`
}

type gexfEdge struct {
	ID        string         `xml:"id,attr"`
	Source    string         `xml:"source,attr"`
	Target    string         `xml:"target,attr"`
	Weight    float64        `xml:"weight,attr"`
	AttValues *gexfAttValues `xml:"attvalues,omitempty"`
}

// Write serializes the full graph to w
func Write(w io.Writer, g *model.Graph) error {
	return WriteWithOptions(w, g, Options{})
}

// WriteWithOptions serializes the graph to w
func WriteWithOptions(w io.Writer, g *model.Graph, opts Options) error {
	doc := gexfDoc{
		XMLNS:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
		Graph: gexfGraph{
			Mode:            "static",
			DefaultEdgeType: "undirected",
			Attributes: []gexfAttributes{
				{
					Class: "node",
					Attributes: []gexfAttribute{
						{ID: attrKind, Title: attrKind, Type: "string"},
						{ID: attrName, Title: attrName, Type: "string"},
						{ID: attrParty, Title: attrParty, Type: "string"},
						{ID: attrChamber, Title: attrChamber, Type: "string"},
						{ID: attrTradeCount, Title: attrTradeCount, Type: "integer"},
						{ID: attrSecurity, Title: attrSecurity, Type: "string"},
						{ID: attrDate, Title: attrDate, Type: "string"},
						{ID: attrSide, Title: attrSide, Type: "string"},
						{ID: attrValue, Title: attrValue, Type: "double"},
						{ID: attrSuspicious, Title: attrSuspicious, Type: "boolean"},
						{ID: attrCommunity, Title: attrCommunity, Type: "integer"},
						{ID: attrPageRank, Title: attrPageRank, Type: "double"},
						{ID: attrDisplaySize, Title: attrDisplaySize, Type: "double"},
					},
				},
				{
					Class: "edge",
					Attributes: []gexfAttribute{
						{ID: attrKind, Title: attrKind, Type: "string"},
						{ID: attrDayGap, Title: attrDayGap, Type: "integer"},
					},
				},
			},
		},
	}

	included := make(map[string]bool)
	keys := g.NodeKeys()
	if opts.ConnectedOnly {
		keys = graph.ConnectedKeys(g)
	}
	for _, key := range keys {
		included[key] = true
	}

	for _, key := range keys {
		node, _ := g.Node(key)
		doc.Graph.Nodes.Nodes = append(doc.Graph.Nodes.Nodes, toGEXFNode(node))
	}

	for i, edge := range g.Edges() {
		if !included[edge.Source] || !included[edge.Target] {
			continue
		}
		doc.Graph.Edges.Edges = append(doc.Graph.Edges.Edges, toGEXFEdge(edge, i))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return helper.NewError("write gexf header", err)
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return helper.NewError("encode gexf", err)
	}
	return nil
}

// WriteFile serializes the graph to a file at path
func WriteFile(path string, g *model.Graph, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return helper.NewError("create gexf file", err)
	}
	if err := WriteWithOptions(f, g, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toGEXFNode(node *model.Node) gexfNode {
	values := []gexfAttValue{{For: attrKind, Value: string(node.Kind)}}
	label := node.Key

	switch node.Kind {
	case model.NodeKindPolitician:
		label = node.Politician.Name
		values = append(values,
			gexfAttValue{For: attrName, Value: node.Politician.Name},
			gexfAttValue{For: attrParty, Value: node.Politician.Party},
			gexfAttValue{For: attrChamber, Value: node.Politician.Chamber},
			gexfAttValue{For: attrTradeCount, Value: strconv.Itoa(node.Politician.TradeCount)},
		)
	case model.NodeKindTransaction:
		values = append(values,
			gexfAttValue{For: attrSecurity, Value: node.Transaction.Security},
			gexfAttValue{For: attrDate, Value: node.Transaction.Date.Format("2006-01-02")},
			gexfAttValue{For: attrSide, Value: string(node.Transaction.Side)},
			gexfAttValue{For: attrValue, Value: formatFloat(node.Transaction.Value)},
			gexfAttValue{For: attrSuspicious, Value: strconv.FormatBool(node.Transaction.Suspicious)},
		)
	}

	if c, ok := node.CommunityID(); ok {
		values = append(values, gexfAttValue{For: attrCommunity, Value: strconv.Itoa(c)})
	}
	if s, ok := node.PageRankScore(); ok {
		values = append(values, gexfAttValue{For: attrPageRank, Value: formatFloat(s)})
	}
	if s, ok := node.DisplaySize(); ok {
		values = append(values, gexfAttValue{For: attrDisplaySize, Value: formatFloat(s)})
	}

	return gexfNode{
		ID:        node.Key,
		Label:     label,
		AttValues: &gexfAttValues{Values: values},
	}
}

func toGEXFEdge(edge *model.Edge, index int) gexfEdge {
	values := []gexfAttValue{{For: attrKind, Value: string(edge.Kind)}}
	if edge.Kind == model.EdgeKindCoTrade {
		values = append(values, gexfAttValue{For: attrDayGap, Value: strconv.Itoa(edge.DayGap)})
	}
	return gexfEdge{
		ID:        strconv.Itoa(index),
		Source:    edge.Source,
		Target:    edge.Target,
		Weight:    edge.Weight,
		AttValues: &gexfAttValues{Values: values},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
