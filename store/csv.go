// Package store provides concrete transaction sources for the pipeline
// driver: a CSV reader over disclosure exports and a PostgreSQL-backed
// handler. The analysis core itself never performs I/O; it consumes the
// in-memory records these sources produce.
package store

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/polinet/tradegraph/helper"
	"github.com/polinet/tradegraph/model"
)

// Source supplies the transaction ledger to the pipeline driver
type Source interface {
	Transactions(ctx context.Context) ([]model.Transaction, error)
}

// CSVSource reads transaction records from a header-based CSV stream.
// Column matching is case-insensitive and accepts the column names of the
// raw disclosure dataset (Name, Ticker, Traded_Date) as aliases for the
// canonical schema. Rows are never rejected here: fields that fail to parse
// stay zero, and the graph builder counts and drops the malformed rows.
type CSVSource struct {
	r io.Reader
}

// NewCSVSource creates a source reading from r
func NewCSVSource(r io.Reader) *CSVSource {
	return &CSVSource{r: r}
}

// NewCSVFileSource creates a source reading the file at path
func NewCSVFileSource(path string) (*CSVSource, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, helper.NewError("open csv file", err)
	}
	return NewCSVSource(f), f.Close, nil
}

// column aliases, canonical name first
var csvColumns = map[string][]string{
	"politician_id":   {"politician_id", "name"},
	"politician_name": {"politician_name", "name"},
	"party":           {"party"},
	"chamber":         {"chamber", "state"},
	"security_id":     {"security_id", "ticker"},
	"date":            {"date", "traded_date"},
	"side":            {"side", "transaction", "type"},
	"value":           {"value", "amount", "value_range"},
	"suspicious":      {"suspicious"},
}

// dateLayouts tried in order when parsing the transaction date
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// Transactions reads the full stream into memory
func (s *CSVSource) Transactions(ctx context.Context) ([]model.Transaction, error) {
	reader := csv.NewReader(s.r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, helper.NewError("read csv header", err)
	}
	columns := indexColumns(header)

	var transactions []model.Transaction
	for {
		if err := ctx.Err(); err != nil {
			return nil, helper.NewError("read csv", err)
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, helper.NewError("read csv record", err)
		}

		tx := model.Transaction{
			PoliticianID:   field(record, columns, "politician_id"),
			PoliticianName: field(record, columns, "politician_name"),
			Party:          field(record, columns, "party"),
			Chamber:        field(record, columns, "chamber"),
			Security:       field(record, columns, "security_id"),
			Date:           parseDate(field(record, columns, "date")),
			Side:           parseSide(field(record, columns, "side")),
			Value:          parseValue(field(record, columns, "value")),
		}
		if suspicious := field(record, columns, "suspicious"); suspicious != "" {
			if v, err := strconv.ParseBool(strings.ToLower(suspicious)); err == nil && v {
				tx.Metadata = model.Metadata{"suspicious": true}
			}
		}
		transactions = append(transactions, tx)
	}

	return transactions, nil
}

// indexColumns maps canonical column names to record indices via the alias
// table, first alias present wins
func indexColumns(header []string) map[string]int {
	position := make(map[string]int, len(header))
	for i, name := range header {
		position[strings.ToLower(strings.TrimSpace(name))] = i
	}

	columns := make(map[string]int)
	for canonical, aliases := range csvColumns {
		for _, alias := range aliases {
			if i, ok := position[alias]; ok {
				columns[canonical] = i
				break
			}
		}
	}
	return columns
}

func field(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseDate returns the zero time when no layout matches, leaving the row
// for the builder to count as malformed
func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseSide(s string) model.TradeSide {
	switch strings.ToLower(s) {
	case "buy", "purchase", "bought":
		return model.TradeSideBuy
	case "sell", "sale", "sold":
		return model.TradeSideSell
	default:
		return model.TradeSide(strings.ToLower(s))
	}
}

// parseValue handles plain numbers and disclosure ranges like
// "$1,001 - $15,000", which collapse to the range midpoint
func parseValue(s string) float64 {
	if s == "" {
		return 0
	}
	clean := func(v string) float64 {
		v = strings.NewReplacer("$", "", ",", "", " ", "").Replace(v)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}

	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		low, high := clean(parts[0]), clean(parts[1])
		if high > 0 {
			return (low + high) / 2
		}
		return low
	}
	return clean(s)
}
