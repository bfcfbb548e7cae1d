package store

import (
	"context"
	"strings"
	"testing"

	"github.com/polinet/tradegraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSourceTransactions(t *testing.T) {
	t.Run("Canonical header parses all fields", func(t *testing.T) {
		input := strings.Join([]string{
			"politician_id,politician_name,party,chamber,security_id,date,side,value,suspicious",
			"P1,Jane Doe,D,House,XYZ,2024-01-15,buy,15000,true",
			"P2,John Roe,R,Senate,ABC,2024-01-16,sell,5000,",
		}, "\n")
		source := NewCSVSource(strings.NewReader(input))

		transactions, err := source.Transactions(context.Background())

		require.NoError(t, err)
		require.Len(t, transactions, 2)

		first := transactions[0]
		assert.Equal(t, "P1", first.PoliticianID)
		assert.Equal(t, "Jane Doe", first.PoliticianName)
		assert.Equal(t, "D", first.Party)
		assert.Equal(t, "House", first.Chamber)
		assert.Equal(t, "XYZ", first.Security)
		assert.Equal(t, "2024-01-15", first.Date.Format("2006-01-02"))
		assert.Equal(t, model.TradeSideBuy, first.Side)
		assert.Equal(t, 15000.0, first.Value)
		assert.True(t, first.Suspicious())

		assert.Equal(t, model.TradeSideSell, transactions[1].Side)
		assert.False(t, transactions[1].Suspicious())
	})

	t.Run("Disclosure dataset aliases are accepted", func(t *testing.T) {
		input := strings.Join([]string{
			"Name,Ticker,Traded_Date,Transaction,Amount",
			"Jane Doe,XYZ,01/15/2024,Purchase,\"$1,001 - $15,000\"",
		}, "\n")
		source := NewCSVSource(strings.NewReader(input))

		transactions, err := source.Transactions(context.Background())

		require.NoError(t, err)
		require.Len(t, transactions, 1)

		tx := transactions[0]
		assert.Equal(t, "Jane Doe", tx.PoliticianID, "Name stands in for the politician id")
		assert.Equal(t, "XYZ", tx.Security)
		assert.Equal(t, "2024-01-15", tx.Date.Format("2006-01-02"))
		assert.Equal(t, model.TradeSideBuy, tx.Side)
		assert.Equal(t, 8000.5, tx.Value, "Value ranges collapse to the midpoint")
	})

	t.Run("Unparseable dates stay zero for the builder to drop", func(t *testing.T) {
		input := strings.Join([]string{
			"politician_id,security_id,date",
			"P1,XYZ,not-a-date",
		}, "\n")
		source := NewCSVSource(strings.NewReader(input))

		transactions, err := source.Transactions(context.Background())

		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.True(t, transactions[0].Date.IsZero())
	})

	t.Run("Short records leave missing fields empty", func(t *testing.T) {
		input := strings.Join([]string{
			"politician_id,security_id,date,side",
			"P1,XYZ",
		}, "\n")
		source := NewCSVSource(strings.NewReader(input))

		transactions, err := source.Transactions(context.Background())

		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.True(t, transactions[0].Date.IsZero())
		assert.Empty(t, transactions[0].Side)
	})

	t.Run("Cancelled context aborts the read", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		source := NewCSVSource(strings.NewReader("politician_id\nP1\n"))

		_, err := source.Transactions(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Header only yields no transactions", func(t *testing.T) {
		source := NewCSVSource(strings.NewReader("politician_id,security_id,date\n"))

		transactions, err := source.Transactions(context.Background())

		require.NoError(t, err)
		assert.Empty(t, transactions)
	})
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 5000.0, parseValue("5000"))
	assert.Equal(t, 5000.0, parseValue("$5,000"))
	assert.Equal(t, 8000.5, parseValue("$1,001 - $15,000"))
	assert.Equal(t, 0.0, parseValue(""))
	assert.Equal(t, 0.0, parseValue("undisclosed"))
}
