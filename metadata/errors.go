package metadata

import "fmt"

// ExtractionError wraps a catalog failure with the table it occurred on.
// It is the single error shape the assembler propagates; partial
// TableMetadata is never returned alongside it.
type ExtractionError struct {
	Table string
	Err   error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting metadata for table %s: %v", e.Table, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
