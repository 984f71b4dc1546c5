package workload

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/btree-query-bench/bdtree/index"
)

type Mix string

const (
	OLTP  Mix = "OLTP (90/10)"
	OLAP  Mix = "OLAP (10/90)"
	Churn Mix = "Churn (50/50)"
	Scan  Mix = "Scan (traversal)"
)

// Mixes lists every workload in the order the benchmark runs them.
var Mixes = []Mix{OLTP, OLAP, Churn, Scan}

// scanLimit caps how many keys a single Scan op walks.
const scanLimit = 100

// Stats counts what a workload did.
type Stats struct {
	Searches int
	Hits     int
	Inserts  int
	Deletes  int
	Scanned  int
}

// Execute runs ops operations of the given mix against idx. Reads and
// deletes pick keys from pool; inserts draw fresh keys from src and add them
// to a private copy of the pool, so the caller's slice is never modified.
func Execute(idx index.Index[string], mix Mix, src Source, pool []string, ops int, rng *rand.Rand) (Stats, error) {
	var st Stats
	pool = slices.Clone(pool)
	for i := 0; i < ops; i++ {
		choice := rng.Intn(100)

		var err error
		switch mix {
		case OLTP:
			if choice < 90 {
				err = search(idx, pool, rng, &st)
			} else {
				pool, err = insert(idx, src, pool, &st)
			}
		case OLAP:
			if choice < 10 {
				err = search(idx, pool, rng, &st)
			} else {
				pool, err = insert(idx, src, pool, &st)
			}
		case Churn:
			if choice < 50 || len(pool) == 0 {
				pool, err = insert(idx, src, pool, &st)
			} else {
				pool, err = remove(idx, pool, rng, &st)
			}
		case Scan:
			n := 0
			for range idx.Traversal() {
				n++
				if n == scanLimit {
					break
				}
			}
			st.Scanned += n
		default:
			return st, fmt.Errorf("workload: unknown mix %q", mix)
		}
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

func search(idx index.Index[string], pool []string, rng *rand.Rand, st *Stats) error {
	st.Searches++
	if len(pool) == 0 {
		return nil
	}
	ok, err := idx.Search(pool[rng.Intn(len(pool))])
	if ok {
		st.Hits++
	}
	return err
}

func insert(idx index.Index[string], src Source, pool []string, st *Stats) ([]string, error) {
	k := src.Key()
	st.Inserts++
	return append(pool, k), idx.Insert(k)
}

func remove(idx index.Index[string], pool []string, rng *rand.Rand, st *Stats) ([]string, error) {
	j := rng.Intn(len(pool))
	k := pool[j]
	pool[j] = pool[len(pool)-1]
	pool = pool[:len(pool)-1]
	ok, err := idx.Delete(k)
	if ok {
		st.Deletes++
	}
	return pool, err
}
