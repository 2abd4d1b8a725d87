package insights

import (
	"fmt"
)

// AdapterError wraps a failed insight request: either the generation call
// itself failed or its response did not match the expected shape. It is
// non-fatal to the caller's primary path and is surfaced once as a
// notice.
type AdapterError struct {
	// Op names the failed operation, e.g. "describe_visualizations".
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("insights: %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}
