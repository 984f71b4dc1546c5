// Package listindex is the flat baseline: a sorted slice with binary search.
// Inserts and deletes shift the tail, so writes are O(n).
package listindex

import (
	"cmp"
	"iter"
	"slices"
	"sort"

	"github.com/btree-query-bench/bdtree/index"
)

var _ index.Index[int64] = (*ListIndex[int64])(nil)

type ListIndex[K cmp.Ordered] struct {
	Data []K
}

func NewListIndex[K cmp.Ordered]() *ListIndex[K] {
	return &ListIndex[K]{
		Data: make([]K, 0),
	}
}

func (l *ListIndex[K]) Insert(key K) error {
	i := sort.Search(len(l.Data), func(i int) bool { return l.Data[i] > key })
	l.Data = slices.Insert(l.Data, i, key)
	return nil
}

func (l *ListIndex[K]) Search(key K) (bool, error) {
	_, found := slices.BinarySearch(l.Data, key)
	return found, nil
}

func (l *ListIndex[K]) Update(oldKey, newKey K) (bool, error) {
	found, err := l.Delete(oldKey)
	if err != nil || !found {
		return false, err
	}
	return true, l.Insert(newKey)
}

func (l *ListIndex[K]) Delete(key K) (bool, error) {
	i, found := slices.BinarySearch(l.Data, key)
	if !found {
		return false, nil
	}
	l.Data = slices.Delete(l.Data, i, i+1)
	return true, nil
}

func (l *ListIndex[K]) Traversal() iter.Seq[K] { return slices.Values(l.Data) }
func (l *ListIndex[K]) Len() int               { return len(l.Data) }
func (l *ListIndex[K]) Close() error           { return nil }
