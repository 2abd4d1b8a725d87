// Package ingest turns raw CSV text into normalized transactions.
//
// The parser is deliberately permissive: header names are matched against a
// prioritized alias list per logical field, quoted fields protect embedded
// commas, amounts are cleaned of currency decoration, and dates are tried
// against several common layouts. A header without a resolvable date and
// amount column aborts the whole parse with a SchemaError; an individual
// row that fails to parse is skipped and logged, never fatal.
package ingest

import (
	"strings"

	"github.com/rs/zerolog"
)

// Parser parses CSV text into transactions.
type Parser struct {
	log zerolog.Logger
}

// NewParser creates a parser that logs skipped rows to the given logger.
func NewParser(log zerolog.Logger) *Parser {
	return &Parser{log: log}
}

// Parse converts raw CSV text into a slice of transactions.
//
// Inputs with fewer than two lines (header plus at least one data row)
// produce an empty result and no error. A missing required column returns
// a *SchemaError and no transactions. Malformed data rows are counted in
// Stats.Skipped and logged at warn level.
func (p *Parser) Parse(raw string) ([]Transaction, Stats, error) {
	var stats Stats

	lines := splitLines(raw)
	if len(lines) < 2 {
		return nil, stats, nil
	}

	header := normalizeHeader(lines[0])
	mapping, err := resolveColumns(header)
	if err != nil {
		return nil, stats, err
	}

	txs := make([]Transaction, 0, len(lines)-1)

	for _, line := range lines[1:] {
		if line == "" {
			continue
		}

		values := splitFields(line)
		if len(values) < mapping.minFields() {
			p.skip(line, "row has fewer fields than the mandatory columns require")
			stats.Skipped++
			continue
		}

		date, err := parseDate(values[mapping.Date])
		if err != nil {
			p.skip(line, err.Error())
			stats.Skipped++
			continue
		}

		amount, err := parseAmount(values[mapping.Amount])
		if err != nil {
			p.skip(line, err.Error())
			stats.Skipped++
			continue
		}

		txs = append(txs, Transaction{
			Date:        date,
			Description: optionalValue(values, mapping.Description, DefaultDescription),
			Category:    optionalValue(values, mapping.Category, DefaultCategory),
			Amount:      amount,
		})
		stats.Parsed++
	}

	return txs, stats, nil
}

func (p *Parser) skip(line, reason string) {
	p.log.Warn().Str("row", line).Str("reason", reason).Msg("Skipping invalid row")
}

// splitLines splits on both CRLF and LF and trims outer whitespace so a
// trailing newline does not produce a phantom empty row.
func splitLines(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	normalized := strings.ReplaceAll(trimmed, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

// optionalValue reads an optional column, falling back to the sentinel
// when the column is unmapped, out of range, or empty after trimming.
func optionalValue(values []string, idx int, sentinel string) string {
	if idx == noColumn || idx >= len(values) {
		return sentinel
	}
	if v := values[idx]; v != "" {
		return v
	}
	return sentinel
}
