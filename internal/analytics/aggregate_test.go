package analytics

import (
	"testing"
	"time"

	"github.com/dvloznov/finview/internal/ingest"
)

func TestCategoryTotals_SignFilterAndRanking(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-01"), Category: "Food", Amount: -50},
		{Date: day("2024-01-02"), Category: "Food", Amount: 30}, // income, excluded
		{Date: day("2024-01-03"), Category: "Gas", Amount: -20},
	}

	got := CategoryTotals(txs, TopCategoriesBar)
	if len(got) != 2 {
		t.Fatalf("CategoryTotals() returned %d entries, want 2", len(got))
	}
	if got[0].Category != "Food" || got[0].Total != 50 {
		t.Errorf("got[0] = %+v, want Food: 50", got[0])
	}
	if got[1].Category != "Gas" || got[1].Total != 20 {
		t.Errorf("got[1] = %+v, want Gas: 20", got[1])
	}
}

func TestCategoryTotals_TopNTruncation(t *testing.T) {
	var txs []ingest.Transaction
	categories := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, c := range categories {
		txs = append(txs, ingest.Transaction{
			Date:     day("2024-01-01"),
			Category: c,
			Amount:   float64(-10 * (i + 1)),
		})
	}

	got := CategoryTotals(txs, TopCategoriesPie)
	if len(got) != TopCategoriesPie {
		t.Fatalf("CategoryTotals() returned %d entries, want %d", len(got), TopCategoriesPie)
	}
	// Largest spender is the last category in the input.
	if got[0].Category != "G" || got[0].Total != 70 {
		t.Errorf("got[0] = %+v, want G: 70", got[0])
	}
}

func TestCategoryTotals_TieBreakFirstSeen(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-01"), Category: "Zeta", Amount: -25},
		{Date: day("2024-01-02"), Category: "Alpha", Amount: -25},
		{Date: day("2024-01-03"), Category: "Mid", Amount: -25},
	}

	got := CategoryTotals(txs, 10)
	want := []string{"Zeta", "Alpha", "Mid"}
	for i, cat := range want {
		if got[i].Category != cat {
			t.Errorf("got[%d] = %q, want %q (ties keep first-seen order)", i, got[i].Category, cat)
		}
	}
}

func TestCategoryTotals_NoSpending(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-01"), Category: "Income", Amount: 100},
	}
	if got := CategoryTotals(txs, 10); len(got) != 0 {
		t.Errorf("CategoryTotals() = %+v, want empty (no zero-filling)", got)
	}
}

func TestDailyTotals(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-02").Add(14 * time.Hour), Category: "Food", Amount: -10}, // afternoon
		{Date: day("2024-01-01"), Category: "Food", Amount: -5},
		{Date: day("2024-01-02"), Category: "Gas", Amount: -20},
		{Date: day("2024-01-03"), Category: "Income", Amount: 100}, // excluded
	}

	got := DailyTotals(txs)
	if len(got) != 2 {
		t.Fatalf("DailyTotals() returned %d buckets, want 2", len(got))
	}
	if got[0].Day.String() != "2024-01-01" || got[0].Total != 5 {
		t.Errorf("got[0] = %+v, want 2024-01-01: 5", got[0])
	}
	// Time-of-day truncated: both Jan 2 entries share one bucket.
	if got[1].Day.String() != "2024-01-02" || got[1].Total != 30 {
		t.Errorf("got[1] = %+v, want 2024-01-02: 30", got[1])
	}
}

func TestSummarize(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-01"), Category: "Food", Amount: -50},
		{Date: day("2024-01-02"), Category: "Food", Amount: 30},
		{Date: day("2024-01-03"), Category: "Gas", Amount: -20},
	}

	got := Summarize(txs)
	if got.TotalSpending != 70 {
		t.Errorf("TotalSpending = %v, want 70", got.TotalSpending)
	}
	if got.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", got.TransactionCount)
	}
	if got.AverageTransaction != 35 {
		t.Errorf("AverageTransaction = %v, want 35", got.AverageTransaction)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	if got.TotalSpending != 0 || got.TransactionCount != 0 || got.AverageTransaction != 0 {
		t.Errorf("Summarize(nil) = %+v, want all zeros", got)
	}
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	txs := []ingest.Transaction{
		{Date: day("2024-01-01"), Category: "Food", Amount: -1},
		{Date: day("2024-01-02"), Category: "Gas", Amount: -1},
		{Date: day("2024-01-03"), Category: "Food", Amount: -1},
		{Date: day("2024-01-04"), Category: "Housing", Amount: -1},
	}

	got := Categories(txs)
	want := []string{"Food", "Gas", "Housing"}
	if len(got) != len(want) {
		t.Fatalf("Categories() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Categories()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
