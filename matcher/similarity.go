package matcher

import (
	"math"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"faq-bot/textnorm"
)

// TokenSetRatio scores two strings in [0,100] using a token-order-insensitive
// set similarity: both inputs are tokenized into sorted unique token sets, and
// the best Levenshtein ratio over the intersection/difference recombinations
// is taken. Word reordering and small phrasing changes therefore still score
// highly. The measure is symmetric and returns 100 for identical inputs.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 100
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersection, onlyA, onlyB []string
	for _, tok := range setA {
		if contains(setB, tok) {
			intersection = append(intersection, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for _, tok := range setB {
		if !contains(setA, tok) {
			onlyB = append(onlyB, tok)
		}
	}

	common := strings.Join(intersection, " ")
	combinedA := strings.TrimSpace(common + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(common + " " + strings.Join(onlyB, " "))

	// One side being a token-subset of the other scores a full 100.
	best := ratio(common, combinedA)
	if r := ratio(common, combinedB); r > best {
		best = r
	}
	if r := ratio(combinedA, combinedB); r > best {
		best = r
	}
	return best
}

func ratio(a, b string) int {
	if a == "" && b == "" {
		return 100
	}
	return int(math.Round(levenshtein.Similarity(a, b, nil) * 100))
}

func tokenSet(text string) []string {
	tokens := textnorm.Tokens(text)
	if len(tokens) == 0 {
		return nil
	}
	unique := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		unique = append(unique, tok)
	}
	sort.Strings(unique)
	return unique
}

func contains(sorted []string, tok string) bool {
	i := sort.SearchStrings(sorted, tok)
	return i < len(sorted) && sorted[i] == tok
}
