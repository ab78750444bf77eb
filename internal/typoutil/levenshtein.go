// Package typoutil finds near misses among short identifiers, such as a
// misspelled field key in a closet query.
package typoutil

import "sort"

// Distance returns the Damerau-Levenshtein distance between a and b, counting
// insertions, deletions, substitutions and adjacent transpositions. It works
// on runes so multi-byte characters count as one edit.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Three rolling rows: two back, previous, current.
	prev2 := make([]int, len(rb)+1)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := prev2[j-2] + 1; t < cur[j] {
					cur[j] = t
				}
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// ClosestMatch returns the candidate nearest to term when it is within
// maxDistance edits, and false otherwise. Exact matches are not suggestions.
// Ties go to the lexicographically smaller candidate.
func ClosestMatch(term string, candidates []string, maxDistance int) (string, bool) {
	if term == "" || maxDistance <= 0 {
		return "", false
	}

	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	termLen := len([]rune(term))
	best, bestDist := "", maxDistance+1
	for _, c := range sorted {
		if c == term {
			continue
		}
		diff := len([]rune(c)) - termLen
		if diff < 0 {
			diff = -diff
		}
		if diff > maxDistance {
			continue
		}
		if d := Distance(term, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist <= maxDistance
}
