package analysis

import (
	"iter"
	"slices"

	"github.com/jalad-shrimali/cdr-analyst/cdr"
)

// DefaultTopK is the ranking length used when the caller asks for k <= 0.
const DefaultTopK = 10

// TopContacts ranks the numbers that communicate with target. A record
// counts once for its counterpart whichever side the target is on; records
// where the target talks to itself, or the counterpart is blank, are not
// counted. Ties keep first-appearance order. Fewer than k counterparts are
// returned as they are.
func TopContacts(records iter.Seq[cdr.Record], target string, k int) []cdr.ContactFrequency {
	if k <= 0 {
		k = DefaultTopK
	}
	target = cdr.CleanNumber(target)
	if target == "" {
		return []cdr.ContactFrequency{}
	}

	idx := map[string]int{}
	groups := []cdr.ContactFrequency{}
	for r := range records {
		var other string
		switch {
		case r.Caller == target && r.Callee == target:
			continue
		case r.Caller == target:
			other = r.Callee
		case r.Callee == target:
			other = r.Caller
		default:
			continue
		}
		if other == "" {
			continue
		}

		i, ok := idx[other]
		if !ok {
			idx[other] = len(groups)
			groups = append(groups, cdr.ContactFrequency{
				Number:       other,
				Frequency:    1,
				FirstContact: r.Date,
				LastContact:  r.Date,
			})
			continue
		}
		g := &groups[i]
		g.Frequency++
		g.FirstContact = earlier(g.FirstContact, r.Date)
		g.LastContact = max(g.LastContact, r.Date)
	}

	slices.SortStableFunc(groups, func(a, b cdr.ContactFrequency) int {
		return b.Frequency - a.Frequency
	})
	return groups[:min(k, len(groups))]
}

// earlier is the lexicographic min that ignores blank dates.
func earlier(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return min(a, b)
}
