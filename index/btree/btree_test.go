package btree

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/btree-query-bench/bdtree/index/listindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree[K int | string](t *testing.T, degree int, keys ...K) *BTree[K] {
	t.Helper()
	tree, err := New[K](degree)
	require.NoError(t, err)
	for _, k := range keys {
		tree.Insert(k)
		require.NoError(t, tree.Check(), "after insert %v", k)
	}
	return tree
}

func childKeys[K int | string](n *Node[K]) [][]K {
	var out [][]K
	for _, c := range n.Children() {
		out = append(out, slices.Clone(c.Keys()))
	}
	return out
}

func TestNewRejectsSmallDegree(t *testing.T) {
	for _, degree := range []int{-1, 0, 1} {
		tree, err := New[int](degree)
		assert.ErrorIs(t, err, ErrInvalidDegree, "degree %d", degree)
		assert.Nil(t, tree)
	}
	tree, err := New[int](2)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Degree())
}

func TestEmptyTree(t *testing.T) {
	tree := newTree[int](t, 3)

	_, _, ok := tree.Search(1)
	assert.False(t, ok)
	assert.False(t, tree.Delete(1))
	assert.False(t, tree.Update(1, 2))
	assert.Equal(t, 0, tree.Len())
	assert.Equal(t, 1, tree.Height())
	assert.Empty(t, tree.Keys())
	assert.True(t, tree.Root().IsLeaf())
	assert.NoError(t, tree.Check())
}

func TestInsertSplitsRootAtMedian(t *testing.T) {
	tree := newTree(t, 2, 10, 20, 5)
	assert.Equal(t, []int{5, 10, 20}, tree.Root().Keys())
	assert.Equal(t, 1, tree.Height())

	tree.Insert(6)
	require.NoError(t, tree.Check())
	root := tree.Root()
	assert.Equal(t, []int{10}, root.Keys())
	assert.Equal(t, [][]int{{5, 6}, {20}}, childKeys(root))
	assert.Equal(t, 2, tree.Height())

	tree.Insert(12)
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{10}, tree.Root().Keys())
	assert.Equal(t, [][]int{{5, 6}, {12, 20}}, childKeys(tree.Root()))

	for _, k := range []int{30, 7, 17} {
		tree.Insert(k)
		require.NoError(t, tree.Check())
	}
	assert.Equal(t, []int{10, 20}, tree.Root().Keys())
	assert.Equal(t, [][]int{{5, 6, 7}, {12, 17}, {30}}, childKeys(tree.Root()))
	assert.Equal(t, []int{5, 6, 7, 10, 12, 17, 20, 30}, tree.Keys())
	assert.Equal(t, 8, tree.Len())
}

func TestSearchReturnsLocation(t *testing.T) {
	tree := newTree(t, 2, 10, 20, 5, 6, 12, 30, 7, 17)
	for _, k := range tree.Keys() {
		n, i, ok := tree.Search(k)
		require.True(t, ok, "key %d", k)
		assert.Equal(t, k, n.Key(i))
	}
	n, i, ok := tree.Search(11)
	assert.False(t, ok)
	assert.Nil(t, n)
	assert.Equal(t, -1, i)

	n, _, ok = tree.Search(20)
	require.True(t, ok)
	assert.Same(t, tree.Root(), n)
}

func TestDeleteUnderflowBorrowsFromSibling(t *testing.T) {
	tree := newTree(t, 2, 10, 20, 5, 6, 12, 30, 7, 17)

	require.True(t, tree.Delete(5))
	require.NoError(t, tree.Check())
	require.True(t, tree.Delete(6))
	require.NoError(t, tree.Check())
	assert.Equal(t, [][]int{{7}, {12, 17}, {30}}, childKeys(tree.Root()))

	// The left child is at t-1 keys; descending into it again rotates 12
	// up from the right sibling and 10 down.
	require.True(t, tree.Delete(7))
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{12, 20}, tree.Root().Keys())
	assert.Equal(t, [][]int{{10}, {17}, {30}}, childKeys(tree.Root()))
	assert.Equal(t, []int{10, 12, 17, 20, 30}, tree.Keys())
}

func TestDeleteCollapsesRoot(t *testing.T) {
	tree := newTree(t, 2, 10, 20, 5, 6, 12, 30, 7, 17)
	for _, k := range []int{5, 6, 7} {
		require.True(t, tree.Delete(k))
	}

	require.True(t, tree.Delete(10))
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{20}, tree.Root().Keys())
	assert.Equal(t, [][]int{{12, 17}, {30}}, childKeys(tree.Root()))

	require.True(t, tree.Delete(12))
	require.NoError(t, tree.Check())
	assert.Equal(t, 2, tree.Height())

	require.True(t, tree.Delete(30))
	require.NoError(t, tree.Check())
	assert.Equal(t, 1, tree.Height())
	assert.True(t, tree.Root().IsLeaf())
	assert.Equal(t, []int{17, 20}, tree.Root().Keys())
}

func TestDeleteInternalKey(t *testing.T) {
	tree := newTree[int](t, 2)
	for k := 1; k <= 30; k++ {
		tree.Insert(k)
	}
	require.NoError(t, tree.Check())

	for tree.Len() > 0 {
		root := tree.Root()
		k := root.Key(root.NumKeys() / 2)
		require.True(t, tree.Delete(k), "delete root key %d", k)
		require.NoError(t, tree.Check())
		assert.False(t, tree.Contains(k))
	}
	assert.Equal(t, 1, tree.Height())
}

func TestDeleteMissing(t *testing.T) {
	tree := newTree(t, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	before := tree.Keys()
	assert.False(t, tree.Delete(42))
	assert.False(t, tree.Delete(0))
	require.NoError(t, tree.Check())
	assert.Equal(t, before, tree.Keys())
}

func TestEqualKeysGoRight(t *testing.T) {
	tree := newTree(t, 2, 1, 2, 3)

	tree.Insert(2)
	require.NoError(t, tree.Check())
	assert.Equal(t, []int{2}, tree.Root().Keys())
	assert.Equal(t, [][]int{{1}, {2, 3}}, childKeys(tree.Root()))
}

func TestDuplicates(t *testing.T) {
	tree := newTree[int](t, 2)
	for i := 0; i < 10; i++ {
		tree.Insert(5)
		tree.Insert(i)
		require.NoError(t, tree.Check())
	}
	assert.Equal(t, 11, count(tree.Keys(), 5))

	require.True(t, tree.Delete(5))
	require.NoError(t, tree.Check())
	assert.Equal(t, 10, count(tree.Keys(), 5))
	assert.True(t, tree.Contains(5))

	for i := 0; i < 10; i++ {
		require.True(t, tree.Delete(5))
		require.NoError(t, tree.Check())
	}
	assert.False(t, tree.Contains(5))
	assert.False(t, tree.Delete(5))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 6, 7, 8, 9}, tree.Keys())
}

func count[K comparable](keys []K, k K) int {
	n := 0
	for _, x := range keys {
		if x == k {
			n++
		}
	}
	return n
}

func TestUpdate(t *testing.T) {
	tree := newTree(t, 2, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	require.True(t, tree.Update(3, 100))
	require.NoError(t, tree.Check())
	assert.False(t, tree.Contains(3))
	assert.True(t, tree.Contains(100))
	assert.Equal(t, []int{1, 2, 4, 5, 6, 7, 8, 9, 10, 100}, tree.Keys())

	// Moving a key to the far left must still leave the tree ordered.
	require.True(t, tree.Update(9, -5))
	require.NoError(t, tree.Check())
	assert.True(t, slices.IsSorted(tree.Keys()))

	before := tree.Keys()
	assert.False(t, tree.Update(999, 1))
	assert.Equal(t, before, tree.Keys())
	assert.Equal(t, 10, tree.Len())
}

func TestTraversalStopsEarly(t *testing.T) {
	tree := newTree[int](t, 2)
	for k := 100; k > 0; k-- {
		tree.Insert(k)
	}

	var got []int
	for k := range tree.Traversal() {
		got = append(got, k)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	// Restartable.
	assert.Len(t, slices.Collect(tree.Traversal()), 100)
	assert.Len(t, slices.Collect(tree.Traversal()), 100)
}

func TestStringKeys(t *testing.T) {
	names := []string{"Mia", "Ana", "Zoe", "Bia", "Leo", "Caio", "Ana"}
	tree := newTree(t, 2, names...)

	want := slices.Clone(names)
	slices.Sort(want)
	assert.Equal(t, want, tree.Keys())
	require.True(t, tree.Update("Leo", "Aaron"))
	assert.Equal(t, "Aaron", tree.Keys()[0])
}

func TestCheckDetectsCorruption(t *testing.T) {
	tree := newTree(t, 2, 10, 20, 5, 6, 12, 30, 7, 17)
	tree.root.children[0].keys[0] = 99
	assert.Error(t, tree.Check())

	tree = newTree(t, 2, 10, 20, 5, 6, 12, 30, 7, 17)
	tree.root.children[2].keys = nil
	assert.Error(t, tree.Check())

	tree = newTree(t, 2, 10, 20, 5, 6)
	tree.n = 7
	assert.Error(t, tree.Check())
}

// TestRandomOpsMatchList drives the tree and the sorted-list baseline with the
// same random operations and compares them after every step.
func TestRandomOpsMatchList(t *testing.T) {
	for _, degree := range []int{2, 3, 4, 7} {
		t.Run(fmt.Sprintf("t=%d", degree), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(degree)))
			tree := newTree[int](t, degree)
			oracle := listindex.NewListIndex[int]()

			for step := 0; step < 3000; step++ {
				k := rng.Intn(200)
				switch op := rng.Intn(10); {
				case op < 5:
					tree.Insert(k)
					require.NoError(t, oracle.Insert(k))
				case op < 8:
					want, _ := oracle.Delete(k)
					require.Equal(t, want, tree.Delete(k), "step %d delete %d", step, k)
				default:
					nk := rng.Intn(200)
					want, _ := oracle.Update(k, nk)
					require.Equal(t, want, tree.Update(k, nk), "step %d update %d->%d", step, k, nk)
				}
				require.NoError(t, tree.Check(), "step %d", step)
				require.Equal(t, oracle.Data, tree.Keys(), "step %d", step)

				q := rng.Intn(200)
				want, _ := oracle.Search(q)
				require.Equal(t, want, tree.Contains(q), "step %d search %d", step, q)
			}
		})
	}
}
