package resolve

import (
	"irlink/internal/ir"
)

// minSimilarity is the normalized similarity a candidate needs to be
// suggested for an unresolved symbol.
const minSimilarity = 0.75

// Catalog is implemented by providers that can list what they supply.
type Catalog interface {
	Symbols() []ir.Symbol
}

// suggest returns the supplied symbol closest to sym. Providers are scanned
// in order and the first best candidate wins ties.
func suggest(sym ir.Symbol, providers []Provider) (ir.Symbol, bool) {
	var (
		best  ir.Symbol
		score float64
	)

	want := sym.String()

	for _, p := range providers {
		c, ok := p.(Catalog)
		if !ok {
			continue
		}

		for _, cand := range c.Symbols() {
			if s := similarity(want, cand.String()); s > score {
				best, score = cand, s
			}
		}
	}

	return best, score >= minSimilarity
}

// similarity is 1 - distance/maxLen over runes; 1.0 means identical.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}

	return 1.0 - float64(levenshtein(ra, rb))/float64(max(len(ra), len(rb)))
}

// levenshtein computes the edit distance between a and b using two rows.
func levenshtein(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j

		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(a)]
}
