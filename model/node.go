package model

import (
	"fmt"
	"time"
)

// NodeKind discriminates the two node variants of the graph
type NodeKind string

const (
	NodeKindPolitician  NodeKind = "politician"
	NodeKindTransaction NodeKind = "transaction"
)

// Annotation keys written by the analysis stages
const (
	AnnotationCommunityID   = "community_id"
	AnnotationPageRankScore = "pagerank_score"
	AnnotationDisplaySize   = "display_size"
)

// PoliticianAttributes holds the fixed attribute schema of a politician node
type PoliticianAttributes struct {
	Name       string `json:"name"`
	Party      string `json:"party,omitempty"`
	Chamber    string `json:"chamber,omitempty"`
	TradeCount int    `json:"trade_count"`
}

// TransactionAttributes holds the fixed attribute schema of a transaction node
type TransactionAttributes struct {
	PoliticianID string    `json:"politician_id"`
	Security     string    `json:"security_id"`
	Date         time.Time `json:"date"`
	Side         TradeSide `json:"side,omitempty"`
	Value        float64   `json:"value,omitempty"`
	Suspicious   bool      `json:"suspicious,omitempty"`
}

// Node is a tagged variant: exactly one of Politician or Transaction is set,
// matching Kind. Annotations is a typed extension map for attributes added by
// later pipeline stages (community id, centrality score, display size).
type Node struct {
	Key         string                 `json:"key"`
	Kind        NodeKind               `json:"kind"`
	Politician  *PoliticianAttributes  `json:"politician,omitempty"`
	Transaction *TransactionAttributes `json:"transaction,omitempty"`
	Annotations Metadata               `json:"annotations,omitempty"`
}

// NewPoliticianNode creates a politician node keyed by the politician id
func NewPoliticianNode(id string, attrs PoliticianAttributes) *Node {
	return &Node{
		Key:         id,
		Kind:        NodeKindPolitician,
		Politician:  &attrs,
		Annotations: Metadata{},
	}
}

// NewTransactionNode creates a transaction node with a stable composite key.
// The sequence number disambiguates same-day repeats of the same security by
// the same politician.
func NewTransactionNode(attrs TransactionAttributes, sequence int) *Node {
	return &Node{
		Key:         TransactionNodeKey(attrs.Security, attrs.PoliticianID, attrs.Date, sequence),
		Kind:        NodeKindTransaction,
		Transaction: &attrs,
		Annotations: Metadata{},
	}
}

// TransactionNodeKey builds the composite key of a transaction node
func TransactionNodeKey(security, politicianID string, date time.Time, sequence int) string {
	return fmt.Sprintf("%s_%s_%s_%d", security, politicianID, date.Format("2006-01-02"), sequence)
}

// Annotate sets a single annotation, allocating the map if needed
func (n *Node) Annotate(key string, value interface{}) {
	if n.Annotations == nil {
		n.Annotations = Metadata{}
	}
	n.Annotations[key] = value
}

// CommunityID returns the community annotation if the detector has run
func (n *Node) CommunityID() (int, bool) {
	return n.Annotations.Int(AnnotationCommunityID)
}

// PageRankScore returns the centrality annotation if the analyzer has run
func (n *Node) PageRankScore() (float64, bool) {
	return n.Annotations.Float(AnnotationPageRankScore)
}

// DisplaySize returns the derived render size if attribute fusion has run.
// Only politician nodes carry it.
func (n *Node) DisplaySize() (float64, bool) {
	return n.Annotations.Float(AnnotationDisplaySize)
}
