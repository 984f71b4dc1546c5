package console

import (
	"cmp"
	"fmt"

	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/xlab/treeprint"
)

// RenderTree draws the node structure of tree, one node per line, keys in
// brackets.
func RenderTree[K cmp.Ordered](tree *btree.BTree[K]) string {
	root := tree.Root()
	tp := treeprint.NewWithRoot(nodeLabel(root))
	addChildren(tp, root)
	return tp.String()
}

func addChildren[K cmp.Ordered](tp treeprint.Tree, n *btree.Node[K]) {
	for _, c := range n.Children() {
		if c.IsLeaf() {
			tp.AddNode(nodeLabel(c))
			continue
		}
		addChildren(tp.AddBranch(nodeLabel(c)), c)
	}
}

func nodeLabel[K cmp.Ordered](n *btree.Node[K]) string {
	return fmt.Sprint(n.Keys())
}
