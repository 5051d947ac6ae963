package profile

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// NameSimilarity resolves which candidate name best matches a given name.
// It is the only fuzzy-matching capability the classifier depends on, so
// tests can swap in a stub.
type NameSimilarity interface {
	// BestMatch returns the candidate most similar to name and its score in
	// [0,1]. Ties keep the earliest candidate. An empty pool returns
	// ("", 0).
	BestMatch(name string, pool []string) (string, float64)
}

// InflectionSimilarity scores names after normalizing them: lowercase, a
// trailing id marker stripped, and plural table names singularized. The
// score is a difflib-style ratio over the normalized strings, so
// "customer_id" resolves to "customers" ahead of "orders".
type InflectionSimilarity struct{}

func (InflectionSimilarity) BestMatch(name string, pool []string) (string, float64) {
	target := normalizeName(name)
	best := ""
	bestScore := -1.0
	for _, candidate := range pool {
		score := matchRatio(target, normalizeName(candidate))
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}

func normalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, "_id")
	s = strings.TrimSuffix(s, "id")
	s = strings.Trim(s, "_")
	return inflection.Singular(s)
}

// matchRatio is 2*LCS(a,b) / (len(a)+len(b)), the classic sequence-matcher
// similarity over runes.
func matchRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
