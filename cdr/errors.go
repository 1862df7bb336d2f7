package cdr

import (
	"fmt"
	"strings"
)

// UnsupportedCarrierError is returned when a carrier name matches none of the
// known export profiles.
type UnsupportedCarrierError struct {
	Carrier string
}

func (e *UnsupportedCarrierError) Error() string {
	return fmt.Sprintf("unsupported carrier %q", e.Carrier)
}

// MissingSheetError is returned when a carrier requires a named sheet that the
// workbook does not contain.
type MissingSheetError struct {
	Expected  []string
	Available []string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("sheet %s not found; workbook has [%s]",
		quoteAll(e.Expected), strings.Join(e.Available, ", "))
}

// SourceReadError wraps any failure to open or parse a tabular source.
type SourceReadError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *SourceReadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("read %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(q, " or ")
}
