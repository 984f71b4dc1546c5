package btree

import (
	"cmp"
	"slices"
	"sort"
)

// Node is a single B-tree node. A leaf has no children; an internal node
// always has exactly one more child than it has keys.
type Node[K cmp.Ordered] struct {
	keys     []K
	children []*Node[K]
	leaf     bool
}

func newNode[K cmp.Ordered](leaf bool) *Node[K] {
	return &Node[K]{leaf: leaf}
}

// Keys returns the node's keys. The slice is owned by the tree and must not
// be modified.
func (n *Node[K]) Keys() []K { return n.keys }

// Key returns the i-th key.
func (n *Node[K]) Key(i int) K { return n.keys[i] }

// NumKeys returns the number of keys held in the node.
func (n *Node[K]) NumKeys() int { return len(n.keys) }

// Children returns the node's child links, nil for a leaf.
func (n *Node[K]) Children() []*Node[K] { return n.children }

// Child returns the i-th child.
func (n *Node[K]) Child(i int) *Node[K] { return n.children[i] }

// IsLeaf reports whether the node is a leaf.
func (n *Node[K]) IsLeaf() bool { return n.leaf }

// lowerBound returns the index of the first key >= key.
func (n *Node[K]) lowerBound(key K) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return cmp.Compare(n.keys[i], key) >= 0
	})
}

// upperBound returns the index of the first key > key.
func (n *Node[K]) upperBound(key K) int {
	return sort.Search(len(n.keys), func(i int) bool {
		return cmp.Compare(n.keys[i], key) > 0
	})
}

func (n *Node[K]) insertKeyAt(i int, key K) {
	n.keys = slices.Insert(n.keys, i, key)
}

func (n *Node[K]) removeKeyAt(i int) K {
	k := n.keys[i]
	n.keys = slices.Delete(n.keys, i, i+1)
	return k
}

func (n *Node[K]) insertChildAt(i int, c *Node[K]) {
	n.children = slices.Insert(n.children, i, c)
}

func (n *Node[K]) removeChildAt(i int) *Node[K] {
	c := n.children[i]
	n.children = slices.Delete(n.children, i, i+1)
	return c
}

// splitAt cuts the node around keys[pivot]. The node keeps keys[:pivot] and
// children[:pivot+1]; the returned sibling takes everything to the right.
func (n *Node[K]) splitAt(pivot int) (K, *Node[K]) {
	mid := n.keys[pivot]
	right := newNode[K](n.leaf)
	right.keys = append(right.keys, n.keys[pivot+1:]...)
	clear(n.keys[pivot:])
	n.keys = n.keys[:pivot]
	if !n.leaf {
		right.children = append(right.children, n.children[pivot+1:]...)
		clear(n.children[pivot+1:])
		n.children = n.children[:pivot+1]
	}
	return mid, right
}
