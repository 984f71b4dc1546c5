package workload

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/btree-query-bench/bdtree/index/listindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeSourceUnique(t *testing.T) {
	src := NewFakeSource(7)
	keys := src.Keys(2000)
	require.Len(t, keys, 2000)

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}

func TestFakeSourceDeterministic(t *testing.T) {
	a := NewFakeSource(42).Keys(50)
	b := NewFakeSource(42).Keys(50)
	assert.Equal(t, a, b)
}

func TestExecuteMixes(t *testing.T) {
	src := NewFakeSource(3)
	idx := listindex.NewListIndex[string]()
	pool := src.Keys(200)
	for _, k := range pool {
		require.NoError(t, idx.Insert(k))
	}
	rng := rand.New(rand.NewSource(1))

	st, err := Execute(idx, OLTP, src, pool, 500, rng)
	require.NoError(t, err)
	assert.Equal(t, 500, st.Searches+st.Inserts)
	assert.Equal(t, st.Searches, st.Hits, "every pooled key is present")
	assert.Greater(t, st.Searches, st.Inserts)

	st, err = Execute(idx, OLAP, src, pool, 500, rng)
	require.NoError(t, err)
	assert.Greater(t, st.Inserts, st.Searches)

	before := idx.Len()
	st, err = Execute(idx, Churn, src, pool, 500, rng)
	require.NoError(t, err)
	assert.Equal(t, before+st.Inserts-st.Deletes, idx.Len())

	st, err = Execute(idx, Scan, src, pool, 3, rng)
	require.NoError(t, err)
	assert.Equal(t, 3*scanLimit, st.Scanned)

	_, err = Execute(idx, Mix("bogus"), src, pool, 1, rng)
	assert.Error(t, err)
}

func TestExecuteLeavesPoolUntouched(t *testing.T) {
	src := NewFakeSource(5)
	idx := listindex.NewListIndex[string]()
	pool := src.Keys(50)
	for _, k := range pool {
		require.NoError(t, idx.Insert(k))
	}
	want := slices.Clone(pool)
	rng := rand.New(rand.NewSource(2))

	for _, mix := range Mixes {
		_, err := Execute(idx, mix, src, pool, 200, rng)
		require.NoError(t, err)
		assert.Equal(t, want, pool, "mix %s", mix)
	}
}
