package analytics

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/finview/internal/ingest"
)

// Default truncation depths used by the chart consumers.
const (
	TopCategoriesBar = 10
	TopCategoriesPie = 5
)

// CategoryTotal is one entry of a ranked total-by-category view.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DailyTotal is one entry of a chronological total-by-day view.
type DailyTotal struct {
	Day   civil.Date `json:"day"`
	Total float64    `json:"total"`
}

// Summary holds the headline numbers for the summary cards. Values are
// unrounded; formatting is a presentation concern.
type Summary struct {
	TotalSpending      float64 `json:"total_spending"`
	TransactionCount   int     `json:"transaction_count"`
	AverageTransaction float64 `json:"average_transaction"`
}

// CategoryTotals sums the absolute value of spending (negative-amount)
// transactions per category, ranked by descending total and truncated to
// topN entries. Categories with no qualifying spend are omitted. Ties
// keep the first-encountered order of the input (stable sort over
// insertion order).
func CategoryTotals(txs []ingest.Transaction, topN int) []CategoryTotal {
	totals := make(map[string]float64)
	var order []string

	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] += math.Abs(tx.Amount)
	}

	view := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		view = append(view, CategoryTotal{Category: cat, Total: totals[cat]})
	}

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Total > view[j].Total
	})

	if topN > 0 && len(view) > topN {
		view = view[:topN]
	}
	return view
}

// DailyTotals sums the absolute value of spending transactions per
// calendar day, truncating time-of-day, ordered chronologically
// ascending. Consumers treat fewer than two buckets as insufficient for
// trend display; that policy lives with them, not here.
func DailyTotals(txs []ingest.Transaction) []DailyTotal {
	totals := make(map[civil.Date]float64)

	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		day := civil.DateOf(tx.Date)
		totals[day] += math.Abs(tx.Amount)
	}

	view := make([]DailyTotal, 0, len(totals))
	for day, total := range totals {
		view = append(view, DailyTotal{Day: day, Total: total})
	}

	sort.Slice(view, func(i, j int) bool {
		return view[i].Day.Before(view[j].Day)
	})
	return view
}

// Summarize computes the headline spending numbers over negative-amount
// transactions. The average is zero when there is no spending.
func Summarize(txs []ingest.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		s.TotalSpending += math.Abs(tx.Amount)
		s.TransactionCount++
	}
	if s.TransactionCount > 0 {
		s.AverageTransaction = s.TotalSpending / float64(s.TransactionCount)
	}
	return s
}

// Categories returns the distinct categories of the input in
// first-encountered order. The presentation layer prepends its own
// "all" entry for the filter dropdown.
func Categories(txs []ingest.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range txs {
		if !seen[tx.Category] {
			seen[tx.Category] = true
			out = append(out, tx.Category)
		}
	}
	return out
}
