package btree

import (
	"cmp"
	"fmt"
)

// Check walks the whole tree and returns an error describing the first
// structural violation found: key counts outside [t-1, 2t-1] for a non-root
// node, a child count that is not keys+1, keys out of order with respect to
// their separators, leaves at different depths, or a Len that disagrees with
// the number of stored keys.
func (bt *BTree[K]) Check() error {
	if bt.root == nil {
		return fmt.Errorf("btree: nil root")
	}
	c := checker[K]{t: bt.t, leafDepth: -1}
	if err := c.node(bt.root, 0, nil, nil, true); err != nil {
		return err
	}
	if c.count != bt.n {
		return fmt.Errorf("btree: len %d but %d keys stored", bt.n, c.count)
	}
	return nil
}

type checker[K cmp.Ordered] struct {
	t         int
	leafDepth int
	count     int
}

func (c *checker[K]) node(x *Node[K], depth int, lo, hi *K, isRoot bool) error {
	nk := len(x.keys)
	if nk > 2*c.t-1 {
		return fmt.Errorf("btree: node at depth %d has %d keys, max %d", depth, nk, 2*c.t-1)
	}
	if !isRoot && nk < c.t-1 {
		return fmt.Errorf("btree: node at depth %d has %d keys, min %d", depth, nk, c.t-1)
	}
	if isRoot && !x.leaf && nk == 0 {
		return fmt.Errorf("btree: internal root has no keys")
	}
	for i, k := range x.keys {
		if i > 0 && k < x.keys[i-1] {
			return fmt.Errorf("btree: keys out of order at depth %d: %v after %v", depth, k, x.keys[i-1])
		}
		if lo != nil && k < *lo {
			return fmt.Errorf("btree: key %v below separator %v", k, *lo)
		}
		if hi != nil && k > *hi {
			return fmt.Errorf("btree: key %v above separator %v", k, *hi)
		}
	}
	c.count += nk

	if x.leaf {
		if len(x.children) != 0 {
			return fmt.Errorf("btree: leaf at depth %d has %d children", depth, len(x.children))
		}
		if c.leafDepth == -1 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return fmt.Errorf("btree: leaf at depth %d, expected %d", depth, c.leafDepth)
		}
		return nil
	}

	if len(x.children) != nk+1 {
		return fmt.Errorf("btree: internal node at depth %d has %d keys and %d children", depth, nk, len(x.children))
	}
	for i, child := range x.children {
		clo, chi := lo, hi
		if i > 0 {
			clo = &x.keys[i-1]
		}
		if i < nk {
			chi = &x.keys[i]
		}
		if err := c.node(child, depth+1, clo, chi, false); err != nil {
			return err
		}
	}
	return nil
}
