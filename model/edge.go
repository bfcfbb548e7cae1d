package model

// EdgeKind represents the type of relationship between nodes
type EdgeKind string

const (
	// EdgeKindParticipation links a politician node to a transaction node it
	// performed. A transaction node has exactly one participation edge.
	EdgeKindParticipation EdgeKind = "participation"
	// EdgeKindCoTrade links two transaction nodes of different politicians
	// that share a security within the configured day window.
	EdgeKindCoTrade EdgeKind = "cotrade"
)

// Edge represents an undirected relationship between two nodes. Source and
// Target carry no direction; they only name the endpoints.
type Edge struct {
	Kind   EdgeKind `json:"kind"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Weight float64  `json:"weight"`
	// DayGap is the absolute date gap in days between the two transactions.
	// Only set on co-trade edges.
	DayGap int `json:"day_gap,omitempty"`
}

// NewParticipationEdge creates an edge from a politician node to one of its
// transaction nodes
func NewParticipationEdge(politicianKey, transactionKey string) *Edge {
	return &Edge{
		Kind:   EdgeKindParticipation,
		Source: politicianKey,
		Target: transactionKey,
		Weight: 1,
	}
}

// NewCoTradeEdge creates an edge between two transaction nodes of different
// politicians trading the same security within the window
func NewCoTradeEdge(a, b string, dayGap int) *Edge {
	return &Edge{
		Kind:   EdgeKindCoTrade,
		Source: a,
		Target: b,
		Weight: 1,
		DayGap: dayGap,
	}
}

// Other returns the endpoint opposite to key, and whether key is an endpoint
// of this edge at all
func (e *Edge) Other(key string) (string, bool) {
	switch key {
	case e.Source:
		return e.Target, true
	case e.Target:
		return e.Source, true
	default:
		return "", false
	}
}
