// Package btree implements an in-memory B-tree of minimum degree t over any
// ordered key type.
//
// Every node other than the root holds between t-1 and 2t-1 keys and all
// leaves sit at the same depth. Insertion splits full nodes on the way down,
// deletion fills thin nodes on the way down, so each operation touches only
// the path from the root to one leaf (plus siblings on delete).
//
// Duplicate keys are allowed. During descent keys strictly less than a
// separator go left and everything else goes right, so a run of equal keys
// is kept adjacent in traversal order.
//
// A BTree is not safe for concurrent use.
package btree

import (
	"cmp"
	"errors"
	"fmt"
)

// ErrInvalidDegree is returned by New when the minimum degree is below 2.
var ErrInvalidDegree = errors.New("btree: minimum degree must be at least 2")

// BTree is an in-memory B-tree of minimum degree t; see the package doc.
type BTree[K cmp.Ordered] struct {
	t    int
	root *Node[K]
	n    int
}

// New returns an empty tree of minimum degree t.
func New[K cmp.Ordered](t int) (*BTree[K], error) {
	if t < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDegree, t)
	}
	return &BTree[K]{t: t, root: newNode[K](true)}, nil
}

// Degree returns the minimum degree t.
func (bt *BTree[K]) Degree() int { return bt.t }

// Len returns the number of stored keys, duplicates included.
func (bt *BTree[K]) Len() int { return bt.n }

// Root returns the current root node. An empty tree has a leaf root with no
// keys.
func (bt *BTree[K]) Root() *Node[K] { return bt.root }

// Height returns the number of levels in the tree; a lone root is height 1.
func (bt *BTree[K]) Height() int {
	h := 1
	for x := bt.root; !x.leaf; x = x.children[0] {
		h++
	}
	return h
}

func (bt *BTree[K]) maxKeys() int { return 2*bt.t - 1 }

// ─── Search ───────────────────────────────────────────────────────────────────

// Search returns the node holding key and the key's index within it.
func (bt *BTree[K]) Search(key K) (*Node[K], int, bool) {
	return bt.search(bt.root, key)
}

func (bt *BTree[K]) search(x *Node[K], key K) (*Node[K], int, bool) {
	i := x.lowerBound(key)
	if i < len(x.keys) && x.keys[i] == key {
		return x, i, true
	}
	if x.leaf {
		return nil, -1, false
	}
	return bt.search(x.children[i], key)
}

// Contains reports whether at least one occurrence of key is stored.
func (bt *BTree[K]) Contains(key K) bool {
	_, _, ok := bt.Search(key)
	return ok
}

// ─── Insert ───────────────────────────────────────────────────────────────────

// Insert adds key to the tree. Equal keys are kept and placed after the
// existing ones.
func (bt *BTree[K]) Insert(key K) {
	root := bt.root
	if len(root.keys) == bt.maxKeys() {
		newRoot := newNode[K](false)
		newRoot.children = append(newRoot.children, root)
		bt.splitChild(newRoot, 0)
		bt.root = newRoot
	}
	bt.insertNonFull(bt.root, key)
	bt.n++
}

func (bt *BTree[K]) insertNonFull(x *Node[K], key K) {
	i := x.upperBound(key)
	if x.leaf {
		x.insertKeyAt(i, key)
		return
	}
	if len(x.children[i].keys) == bt.maxKeys() {
		bt.splitChild(x, i)
		if key >= x.keys[i] {
			i++
		}
	}
	bt.insertNonFull(x.children[i], key)
}

// splitChild splits the full child x.children[i], promoting its median into
// x at position i and linking the new right half at i+1.
func (bt *BTree[K]) splitChild(x *Node[K], i int) {
	mid, z := x.children[i].splitAt(bt.t - 1)
	x.insertKeyAt(i, mid)
	x.insertChildAt(i+1, z)
}

// ─── Update ───────────────────────────────────────────────────────────────────

// Update replaces one occurrence of oldKey with newKey. The replacement is a
// delete followed by an insert so newKey lands at its own sorted position.
// It reports false and leaves the tree untouched if oldKey is absent.
func (bt *BTree[K]) Update(oldKey, newKey K) bool {
	if !bt.Delete(oldKey) {
		return false
	}
	bt.Insert(newKey)
	return true
}
