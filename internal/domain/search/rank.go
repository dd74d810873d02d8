package search

import (
	"sort"

	"github.com/corey/acnh/internal/domain/catalog"
)

// MaxResults caps the number of ranked results returned by a search.
const MaxResults = 20

type candidate struct {
	entry    catalog.Entry
	evidence Evidence
}

// less orders candidates best-first:
//
//  1. more total token matches
//  2. more name matches
//  3. higher best single score
//  4. name+variant, byte-wise ascending
//  5. id ascending
//
// The final id key makes the order total, so results never depend on map
// iteration or sort stability.
func less(a, b *candidate) bool {
	if at, bt := a.evidence.Total(), b.evidence.Total(); at != bt {
		return at > bt
	}
	if an, bn := len(a.evidence.Name), len(b.evidence.Name); an != bn {
		return an > bn
	}
	if as, bs := a.evidence.BestScore(), b.evidence.BestScore(); as != bs {
		return as > bs
	}
	if an, bn := a.entry.SortName(), b.entry.SortName(); an != bn {
		return an < bn
	}
	return a.entry.ID < b.entry.ID
}

// rank sorts candidates and truncates to limit.
func rank(cands []*candidate, limit int) []*candidate {
	sort.Slice(cands, func(i, j int) bool { return less(cands[i], cands[j]) })
	if len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}
