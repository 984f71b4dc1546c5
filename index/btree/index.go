package btree

import (
	"cmp"
	"iter"

	"github.com/btree-query-bench/bdtree/index"
)

var _ index.Index[int64] = (*Indexed[int64])(nil)

// Indexed exposes a BTree through index.Index.
type Indexed[K cmp.Ordered] struct {
	Tree *BTree[K]
}

func AsIndex[K cmp.Ordered](bt *BTree[K]) *Indexed[K] {
	return &Indexed[K]{Tree: bt}
}

func (ix *Indexed[K]) Insert(key K) error {
	ix.Tree.Insert(key)
	return nil
}

func (ix *Indexed[K]) Search(key K) (bool, error) { return ix.Tree.Contains(key), nil }

func (ix *Indexed[K]) Update(oldKey, newKey K) (bool, error) {
	return ix.Tree.Update(oldKey, newKey), nil
}

func (ix *Indexed[K]) Delete(key K) (bool, error) { return ix.Tree.Delete(key), nil }
func (ix *Indexed[K]) Traversal() iter.Seq[K]     { return ix.Tree.Traversal() }
func (ix *Indexed[K]) Len() int                   { return ix.Tree.Len() }
func (ix *Indexed[K]) Close() error               { return nil }
