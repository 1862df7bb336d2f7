// Package analysis answers the two questions asked of a normalized export:
// where the target was reached and who it talks to most.
package analysis

import (
	"iter"
	"slices"
	"strings"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// FindByCallee returns, in source order, the records that name target as
// callee and carry a usable callee-side address. No match is an empty slice.
func FindByCallee(records iter.Seq[cdr.Record], target string) []cdr.BTSMatch {
	target = cdr.CleanNumber(target)
	out := []cdr.BTSMatch{}
	if target == "" {
		return out
	}
	for r := range records {
		if r.Callee != target || cdr.IsPlaceholder(r.AddressB) {
			continue
		}
		out = append(out, cdr.BTSMatch{Record: r})
	}
	return out
}

// LocationStay groups BTS matches seen at the same callee-side address.
type LocationStay struct {
	Address     string `json:"direccion"`
	Coordinates string `json:"coordenadas"`
	Cell        string `json:"celda,omitempty"`
	Total       int    `json:"total"`
	First       string `json:"primera"`
	Last        string `json:"ultima"`
}

// SummarizeLocations collapses matches by address, busiest first. First and
// Last compare "date time" strings the same way contact dates are compared.
func SummarizeLocations(matches []cdr.BTSMatch) []LocationStay {
	idx := map[string]int{}
	var stays []LocationStay
	for _, m := range matches {
		key := strings.TrimSpace(m.AddressB)
		ts := strings.TrimSpace(m.Date + " " + m.Time)
		i, ok := idx[key]
		if !ok {
			idx[key] = len(stays)
			stays = append(stays, LocationStay{
				Address:     key,
				Coordinates: m.CoordinatesB,
				Cell:        m.CellB,
				Total:       1,
				First:       ts,
				Last:        ts,
			})
			continue
		}
		s := &stays[i]
		s.Total++
		s.First = earlier(s.First, ts)
		s.Last = max(s.Last, ts)
		if s.Coordinates == "" {
			s.Coordinates = m.CoordinatesB
		}
		if s.Cell == "" {
			s.Cell = m.CellB
		}
	}
	slices.SortStableFunc(stays, func(a, b LocationStay) int { return b.Total - a.Total })
	return stays
}
