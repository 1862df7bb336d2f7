package normalize

import (
	"strings"

	"github.com/jalad-shrimali/cdr-analyst/carrier"
	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// source holds the raw columns the profile resolved, keyed by field. A field
// the export lacks reads as a column of empty strings.
type source struct {
	n    int
	cols map[carrier.Field][]string
}

func (s source) has(f carrier.Field) bool {
	_, ok := s.cols[f]
	return ok
}

func (s source) get(f carrier.Field) []string {
	if c, ok := s.cols[f]; ok {
		return c
	}
	return make([]string, s.n)
}

// columns is the canonical record set, one slice per field, all of length n.
type columns struct {
	n                int
	caller, callee   []string
	txType           []cdr.TransactionType
	txLabel          []string
	date, time       []string
	duration         []string
	addrA, addrB     []string
	coordA, coordB   []string
	orientA, orientB []string
	cellA, cellB     []string
	imeiA, imeiB     []string
}

func (c *columns) record(i int) cdr.Record {
	return cdr.Record{
		Caller:           c.caller[i],
		Callee:           c.callee[i],
		TransactionType:  c.txType[i],
		TransactionLabel: c.txLabel[i],
		Date:             c.date[i],
		Time:             c.time[i],
		DurationOrSeg:    c.duration[i],
		AddressA:         c.addrA[i],
		AddressB:         c.addrB[i],
		CoordinatesA:     c.coordA[i],
		CoordinatesB:     c.coordB[i],
		OrientationA:     c.orientA[i],
		OrientationB:     c.orientB[i],
		CellA:            c.cellA[i],
		CellB:            c.cellB[i],
		IMEIA:            c.imeiA[i],
		IMEIB:            c.imeiB[i],
	}
}

/* ──────────── whole-column helpers ──────────── */

func mapCol(col []string, fn func(string) string) []string {
	out := make([]string, len(col))
	for i, v := range col {
		out[i] = fn(v)
	}
	return out
}

func zipCol(a, b []string, fn func(a, b string) string) []string {
	out := make([]string, len(a))
	for i := range a {
		out[i] = fn(a[i], b[i])
	}
	return out
}

// fillEmpty replaces placeholder cells of dst with the matching cell of src.
func fillEmpty(dst, src []string) {
	for i := range dst {
		if cdr.IsPlaceholder(dst[i]) && !cdr.IsPlaceholder(src[i]) {
			dst[i] = src[i]
		}
	}
}

func text(s string) string {
	if cdr.IsPlaceholder(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func joinDot(a, b string) string { return cdr.JoinNonEmpty(" . ", a, b) }

// splitDateTime cuts "2024-01-15 10:22:03" once at the first space.
func splitDateTime(s string) (date, clock string) {
	s = text(s)
	date, clock, _ = strings.Cut(s, " ")
	return date, strings.TrimSpace(clock)
}

// firstSegment returns the text before the first "-", trimmed.
func firstSegment(s string) string {
	head, _, _ := strings.Cut(text(s), "-")
	return strings.TrimSpace(head)
}
