// Package index keeps clothing items bucketed by attribute value so a query
// can find every item sharing a brand, size, color and so on.
package index

import (
	"sort"

	"github.com/gcbaptista/go-wardrobe-search/model"
)

// Indexable is anything a CategoryIndex can hold. Compare must be a total
// order consistent with identity: two values comparing equal are the same item.
type Indexable[T any] interface {
	comparable
	Attributes(d model.Dimension) []string
	Compare(other T) int
}

// CategoryIndex maps every (dimension, value) pair to the sorted,
// duplicate-free sequence of items holding that value. Values are keyed by
// model.NormalizeValue, so "Nike" and "nike " share a bucket.
//
// CategoryIndex does no locking. Callers must not run Add or Remove
// concurrently with each other or with reads.
type CategoryIndex[T Indexable[T]] struct {
	buckets map[model.Dimension]map[string][]T
	size    int
}

// NewCategoryIndex creates an empty index.
func NewCategoryIndex[T Indexable[T]]() *CategoryIndex[T] {
	return &CategoryIndex[T]{buckets: make(map[model.Dimension]map[string][]T)}
}

// Add inserts item into the bucket of every value it holds. Adding an item
// already present is a no-op.
func (ci *CategoryIndex[T]) Add(item T) {
	inserted := false
	for _, d := range model.AllDimensions {
		for _, value := range item.Attributes(d) {
			key := model.NormalizeValue(value)
			byValue := ci.buckets[d]
			if byValue == nil {
				byValue = make(map[string][]T)
				ci.buckets[d] = byValue
			}
			bucket, ok := insertSorted(byValue[key], item)
			byValue[key] = bucket
			inserted = inserted || ok
		}
	}
	if inserted {
		ci.size++
	}
}

// Remove deletes item from every bucket it appears in and drops buckets that
// become empty. item must carry the attributes it was added with. Removing an
// absent item is a no-op.
func (ci *CategoryIndex[T]) Remove(item T) {
	removed := false
	for _, d := range model.AllDimensions {
		byValue := ci.buckets[d]
		if byValue == nil {
			continue
		}
		for _, value := range item.Attributes(d) {
			key := model.NormalizeValue(value)
			bucket, ok := removeSorted(byValue[key], item)
			if !ok {
				continue
			}
			removed = true
			if len(bucket) == 0 {
				delete(byValue, key)
			} else {
				byValue[key] = bucket
			}
		}
		if len(byValue) == 0 {
			delete(ci.buckets, d)
		}
	}
	if removed {
		ci.size--
	}
}

// Lookup returns the items holding value in dimension d, in Compare order.
// The returned slice must not be modified.
func (ci *CategoryIndex[T]) Lookup(d model.Dimension, value string) []T {
	return ci.buckets[d][model.NormalizeValue(value)]
}

// Values returns the normalized values of dimension d in sorted order.
func (ci *CategoryIndex[T]) Values(d model.Dimension) []string {
	values := make([]string, 0, len(ci.buckets[d]))
	for v := range ci.buckets[d] {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// BucketCount returns the number of non-empty buckets across all dimensions.
func (ci *CategoryIndex[T]) BucketCount() int {
	n := 0
	for _, byValue := range ci.buckets {
		n += len(byValue)
	}
	return n
}

// Len returns the number of indexed items that hold at least one value.
func (ci *CategoryIndex[T]) Len() int {
	return ci.size
}

// Clear empties the index.
func (ci *CategoryIndex[T]) Clear() {
	ci.buckets = make(map[model.Dimension]map[string][]T)
	ci.size = 0
}

func search[T Indexable[T]](bucket []T, item T) (int, bool) {
	i := sort.Search(len(bucket), func(i int) bool {
		return bucket[i].Compare(item) >= 0
	})
	return i, i < len(bucket) && bucket[i].Compare(item) == 0
}

func insertSorted[T Indexable[T]](bucket []T, item T) ([]T, bool) {
	i, found := search(bucket, item)
	if found {
		return bucket, false
	}
	var zero T
	bucket = append(bucket, zero)
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = item
	return bucket, true
}

func removeSorted[T Indexable[T]](bucket []T, item T) ([]T, bool) {
	i, found := search(bucket, item)
	if !found {
		return bucket, false
	}
	return append(bucket[:i], bucket[i+1:]...), true
}
