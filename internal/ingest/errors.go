package ingest

import (
	"fmt"
	"strings"
)

// SchemaError indicates that one or more required columns could not be
// resolved from the CSV header. It is fatal to the whole parse: no
// transactions are produced.
type SchemaError struct {
	// Missing lists the logical fields that resolved to no column.
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv is missing required column(s): %s (accepted names: date/transaction date, amount/value/price)",
		strings.Join(e.Missing, ", "))
}
