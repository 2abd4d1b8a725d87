package ingest

import (
	"time"
)

// Sentinel values substituted when an optional column is missing or empty.
const (
	DefaultDescription = "N/A"
	DefaultCategory    = "Uncategorized"
)

// Transaction represents one normalized transaction parsed from a CSV row.
// Amount is signed: negative for spending, non-negative for income or
// neutral entries. Every Transaction returned by Parse has a valid Date
// and Amount; rows failing either are dropped before construction.
type Transaction struct {
	Date        time.Time // parsed from the date column, timezone-naive
	Description string    // from the description column or DefaultDescription
	Category    string    // from the category column or DefaultCategory
	Amount      float64   // signed, currency symbols stripped
}

// Stats reports per-parse observability counters.
type Stats struct {
	// Parsed is the number of rows that produced a Transaction.
	Parsed int

	// Skipped is the number of data rows dropped because the date or
	// amount cell was empty or unparseable, or the row was too short to
	// reach a mandatory column.
	Skipped int
}
