package search

import (
	"sort"

	"github.com/gcbaptista/go-wardrobe-search/index"
	"github.com/gcbaptista/go-wardrobe-search/model"
)

// Hit is a candidate item and the number of query values it holds.
type Hit[T any] struct {
	Item T
	Hits int
}

// Ranking is the outcome of Rank.
type Ranking[T any] struct {
	Hits  []Hit[T] // Ascending by hit count, ties in Compare order
	Total int      // Candidates before the limit was applied
}

// Rank scores every item of idx against addr. Each queried value, the dirty
// flag included, adds one hit to every item in its bucket. Values of the same
// dimension that normalize to the same key count once.
//
// Items with no hits are excluded. The rest are returned weakest first; when
// addr is bounded only the last addr.Limit candidates are kept.
func Rank[T index.Indexable[T]](idx *index.CategoryIndex[T], addr *model.ClothingAddress) Ranking[T] {
	counts := make(map[T]int)
	for d, values := range addr.Terms() {
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			key := model.NormalizeValue(v)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			for _, item := range idx.Lookup(d, key) {
				counts[item]++
			}
		}
	}

	hits := make([]Hit[T], 0, len(counts))
	for item, n := range counts {
		hits = append(hits, Hit[T]{Item: item, Hits: n})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Hits != hits[j].Hits {
			return hits[i].Hits < hits[j].Hits
		}
		return hits[i].Item.Compare(hits[j].Item) < 0
	})

	total := len(hits)
	if !addr.Unbounded() && addr.Limit < total {
		hits = hits[total-addr.Limit:]
	}
	return Ranking[T]{Hits: hits, Total: total}
}
