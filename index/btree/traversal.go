package btree

import (
	"iter"
	"slices"
)

// Traversal returns the stored keys in non-decreasing order. The sequence is
// lazy and can be ranged over any number of times; it must not be consumed
// while the tree is being mutated.
func (bt *BTree[K]) Traversal() iter.Seq[K] {
	return func(yield func(K) bool) {
		bt.root.walk(yield)
	}
}

// Keys collects Traversal into a slice.
func (bt *BTree[K]) Keys() []K {
	return slices.AppendSeq(make([]K, 0, bt.n), bt.Traversal())
}

func (n *Node[K]) walk(yield func(K) bool) bool {
	for i, k := range n.keys {
		if !n.leaf && !n.children[i].walk(yield) {
			return false
		}
		if !yield(k) {
			return false
		}
	}
	if !n.leaf {
		return n.children[len(n.keys)].walk(yield)
	}
	return true
}
