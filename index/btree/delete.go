package btree

import "cmp"

// Delete removes one occurrence of key and reports whether one was found.
func (bt *BTree[K]) Delete(key K) bool {
	found := bt.delete(bt.root, key)
	if len(bt.root.keys) == 0 && !bt.root.leaf {
		bt.root = bt.root.children[0]
	}
	if found {
		bt.n--
	}
	return found
}

func (bt *BTree[K]) delete(x *Node[K], key K) bool {
	i := x.lowerBound(key)
	if i < len(x.keys) && x.keys[i] == key {
		if x.leaf {
			x.removeKeyAt(i)
			return true
		}
		return bt.deleteInternal(x, i)
	}
	if x.leaf {
		return false
	}

	if len(x.children[i].keys) < bt.t {
		bt.fill(x, i)
	}
	// A merge with the left sibling moves our subtree one slot to the left.
	if i > len(x.keys) {
		i--
	}
	return bt.delete(x.children[i], key)
}

// deleteInternal removes x.keys[i] from the internal node x.
func (bt *BTree[K]) deleteInternal(x *Node[K], i int) bool {
	key := x.keys[i]
	y, z := x.children[i], x.children[i+1]
	switch {
	case len(y.keys) >= bt.t:
		pred := predecessor(y)
		x.keys[i] = pred
		return bt.delete(y, pred)
	case len(z.keys) >= bt.t:
		succ := successor(z)
		x.keys[i] = succ
		return bt.delete(z, succ)
	default:
		bt.merge(x, i)
		return bt.delete(y, key)
	}
}

// predecessor returns the largest key in the subtree rooted at x.
func predecessor[K cmp.Ordered](x *Node[K]) K {
	for !x.leaf {
		x = x.children[len(x.children)-1]
	}
	return x.keys[len(x.keys)-1]
}

// successor returns the smallest key in the subtree rooted at x.
func successor[K cmp.Ordered](x *Node[K]) K {
	for !x.leaf {
		x = x.children[0]
	}
	return x.keys[0]
}

// ─── Rebalancing ──────────────────────────────────────────────────────────────

// fill brings x.children[i] up to at least t keys before the descent enters
// it, borrowing from a sibling when one can spare a key and merging
// otherwise.
func (bt *BTree[K]) fill(x *Node[K], i int) {
	switch {
	case i > 0 && len(x.children[i-1].keys) >= bt.t:
		bt.borrowPrev(x, i)
	case i < len(x.keys) && len(x.children[i+1].keys) >= bt.t:
		bt.borrowNext(x, i)
	case i < len(x.keys):
		bt.merge(x, i)
	default:
		bt.merge(x, i-1)
	}
}

// borrowPrev rotates the last key of the left sibling up into x and the
// separator down to the front of x.children[i].
func (bt *BTree[K]) borrowPrev(x *Node[K], i int) {
	c, s := x.children[i], x.children[i-1]
	c.insertKeyAt(0, x.keys[i-1])
	if !c.leaf {
		c.insertChildAt(0, s.removeChildAt(len(s.children)-1))
	}
	x.keys[i-1] = s.removeKeyAt(len(s.keys) - 1)
}

// borrowNext is the mirror of borrowPrev on the right side.
func (bt *BTree[K]) borrowNext(x *Node[K], i int) {
	c, s := x.children[i], x.children[i+1]
	c.keys = append(c.keys, x.keys[i])
	if !c.leaf {
		c.children = append(c.children, s.removeChildAt(0))
	}
	x.keys[i] = s.removeKeyAt(0)
}

// merge folds x.keys[i] and x.children[i+1] into x.children[i].
func (bt *BTree[K]) merge(x *Node[K], i int) {
	y := x.children[i]
	z := x.removeChildAt(i + 1)
	y.keys = append(y.keys, x.removeKeyAt(i))
	y.keys = append(y.keys, z.keys...)
	if !y.leaf {
		y.children = append(y.children, z.children...)
	}
}
