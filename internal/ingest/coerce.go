package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts is tried in order by parseDate. US month-first slash forms
// come before day-first ones to match how the source data is produced.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// parseDate parses a free-text date cell against a fixed set of layouts.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("parseDate: empty date cell")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parseDate: unrecognized date %q", s)
}

// parseAmount strips currency symbols, thousands separators and any other
// decoration from an amount cell, keeping digits, the decimal point and a
// leading minus sign, then parses the remainder as a base-10 decimal.
func parseAmount(s string) (float64, error) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return 0, fmt.Errorf("parseAmount: no numeric content in %q", s)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parseAmount: invalid amount %q: %w", s, err)
	}
	return amount, nil
}
