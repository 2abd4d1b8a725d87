package ingest

import (
	"strings"
)

// Accepted header names per logical field, in priority order. The first
// alias present in the header wins.
var (
	dateAliases        = []string{"date", "transaction date"}
	descriptionAliases = []string{"description", "details", "memo"}
	categoryAliases    = []string{"category", "type"}
	amountAliases      = []string{"amount", "value", "price"}
)

const noColumn = -1

// columnMapping resolves logical fields to header positions. Date and
// Amount are always valid after resolveColumns succeeds; Description and
// Category may be noColumn, in which case per-row sentinels apply.
type columnMapping struct {
	Date        int
	Description int
	Category    int
	Amount      int
}

// normalizeHeader lower-cases header cells and strips quotes and
// surrounding whitespace so alias matching is case-insensitive.
func normalizeHeader(headerLine string) []string {
	cells := strings.Split(headerLine, ",")
	header := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, `"`, "")
		header[i] = strings.ToLower(strings.TrimSpace(c))
	}
	return header
}

// resolveColumn returns the position of the first alias found in the
// header, or noColumn when none match.
func resolveColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if cell == alias {
				return i
			}
		}
	}
	return noColumn
}

// resolveColumns derives the column mapping from a normalized header.
// A missing date or amount column yields a SchemaError naming every
// missing field.
func resolveColumns(header []string) (columnMapping, error) {
	m := columnMapping{
		Date:        resolveColumn(header, dateAliases),
		Description: resolveColumn(header, descriptionAliases),
		Category:    resolveColumn(header, categoryAliases),
		Amount:      resolveColumn(header, amountAliases),
	}

	var missing []string
	if m.Date == noColumn {
		missing = append(missing, "date")
	}
	if m.Amount == noColumn {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return columnMapping{}, &SchemaError{Missing: missing}
	}

	return m, nil
}

// minFields is the smallest row length that still reaches every mandatory
// column position.
func (m columnMapping) minFields() int {
	n := m.Date
	if m.Amount > n {
		n = m.Amount
	}
	return n + 1
}
