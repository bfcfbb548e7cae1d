package model

import (
	"fmt"
	"time"
)

// TradeSide represents the direction of a transaction
type TradeSide string

const (
	TradeSideBuy  TradeSide = "buy"
	TradeSideSell TradeSide = "sell"
)

// Transaction represents a single disclosed trade by a public official.
// Records are immutable inputs to the graph builder; the builder never
// mutates them.
type Transaction struct {
	PoliticianID   string    `json:"politician_id"`
	PoliticianName string    `json:"politician_name"`
	Party          string    `json:"party,omitempty"`
	Chamber        string    `json:"chamber,omitempty"`
	Security       string    `json:"security_id"`
	Date           time.Time `json:"date"`
	Side           TradeSide `json:"side,omitempty"`
	Value          float64   `json:"value,omitempty"`
	Metadata       Metadata  `json:"metadata,omitempty"`
}

// Validate checks the record invariants: politician id and security id are
// non-empty and the date is a real calendar date. Violations are reported as
// ErrMalformedTransaction so callers can count and drop the row.
func (t *Transaction) Validate() error {
	if t.PoliticianID == "" {
		return fmt.Errorf("%w: missing politician id", ErrMalformedTransaction)
	}
	if t.Security == "" {
		return fmt.Errorf("%w: missing security id", ErrMalformedTransaction)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: missing or unparseable date", ErrMalformedTransaction)
	}
	return nil
}

// Suspicious reports whether the record carries the suspicious flag in its
// metadata. The flag is carried through to the graph as an attribute and is
// never consulted by the analysis algorithms.
func (t *Transaction) Suspicious() bool {
	if t.Metadata == nil {
		return false
	}
	v, ok := t.Metadata["suspicious"].(bool)
	return ok && v
}
