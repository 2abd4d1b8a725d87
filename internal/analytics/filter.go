// Package analytics derives summary statistics and chart-ready aggregates
// from a parsed transaction sequence. Every function is pure and
// deterministic over its inputs; views are recomputed from scratch on each
// call and never mutated in place.
package analytics

import (
	"time"

	"github.com/dvloznov/finview/internal/ingest"
)

// CategoryAll disables the category constraint of a Filter.
const CategoryAll = "all"

// Filter restricts the transaction sequence before aggregation. Date
// bounds are inclusive and applied independently when set; the category
// match is exact and case-sensitive. The zero Filter passes everything
// through.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Category string
}

// Matches reports whether a single transaction satisfies the filter.
func (f Filter) Matches(tx ingest.Transaction) bool {
	if f.From != nil && tx.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Date.After(*f.To) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && tx.Category != f.Category {
		return false
	}
	return true
}

// Apply returns the transactions satisfying the filter, preserving the
// input order. An unconstrained filter returns a copy with identical
// content and order.
func Apply(txs []ingest.Transaction, f Filter) []ingest.Transaction {
	out := make([]ingest.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}
