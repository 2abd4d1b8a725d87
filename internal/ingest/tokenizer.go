package ingest

import (
	"strings"
)

// splitFields tokenizes one CSV data line. It is an explicit two-state
// machine (unquoted, quoted): inside a quoted run commas are literal,
// outside they terminate the field. Quote characters themselves are
// consumed by the machine and never appear in the output, so a doubled
// quote inside a quoted field is dropped rather than unescaped. Each
// field is trimmed of surrounding whitespace.
func splitFields(line string) []string {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(field.String()))

	return fields
}
