package build

import (
	"sort"

	"github.com/polinet/tradegraph/model"
)

// TruncateFunc selects which of a politician's transactions survive the
// per-politician cap. It receives the politician's full group and the cap and
// returns the kept records.
type TruncateFunc func(transactions []model.Transaction, max int) []model.Transaction

// MostRecentTruncator keeps the max most recent transactions
func MostRecentTruncator() TruncateFunc {
	return func(transactions []model.Transaction, max int) []model.Transaction {
		kept := make([]model.Transaction, len(transactions))
		copy(kept, transactions)
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Date.After(kept[j].Date)
		})
		if len(kept) > max {
			kept = kept[:max]
		}
		return kept
	}
}

// HighestValueTruncator keeps the max highest-value transactions
func HighestValueTruncator() TruncateFunc {
	return func(transactions []model.Transaction, max int) []model.Transaction {
		kept := make([]model.Transaction, len(transactions))
		copy(kept, transactions)
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Value > kept[j].Value
		})
		if len(kept) > max {
			kept = kept[:max]
		}
		return kept
	}
}

// truncatorFor maps the configured order to its truncation function
func truncatorFor(order model.TruncationOrder) TruncateFunc {
	if order == model.TruncateHighestValue {
		return HighestValueTruncator()
	}
	return MostRecentTruncator()
}
