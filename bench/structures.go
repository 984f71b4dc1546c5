package bench

import (
	"fmt"
	"strconv"

	"github.com/btree-query-bench/bdtree/dbms/lsm"
	"github.com/btree-query-bench/bdtree/index"
	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/index/listindex"
	"github.com/cockroachdb/pebble/vfs"
)

func BTree(t int) Structure {
	return Structure{
		Name:   "B-Tree",
		Config: strconv.Itoa(t),
		New: func() (index.Index[string], error) {
			tree, err := btree.New[string](t)
			if err != nil {
				return nil, err
			}
			return btree.AsIndex(tree), nil
		},
	}
}

func List() Structure {
	return Structure{
		Name: "List",
		New: func() (index.Index[string], error) {
			return listindex.NewListIndex[string](), nil
		},
	}
}

// Pebble runs against an in-memory filesystem so the comparison measures
// the LSM itself rather than the disk.
func Pebble() Structure {
	return Structure{
		Name: "Pebble",
		New: func() (index.Index[string], error) {
			l, err := lsm.Open("bench", vfs.NewMem())
			if err != nil {
				return nil, err
			}
			return l, nil
		},
	}
}

// ParseStructures maps names (btree, list, pebble) to structures. btree is
// expanded once per degree.
func ParseStructures(names []string, degrees []int) ([]Structure, error) {
	var out []Structure
	for _, name := range names {
		switch name {
		case "btree":
			for _, t := range degrees {
				if t < 2 {
					return nil, fmt.Errorf("%w: got %d", btree.ErrInvalidDegree, t)
				}
				out = append(out, BTree(t))
			}
		case "list":
			out = append(out, List())
		case "pebble":
			out = append(out, Pebble())
		default:
			return nil, fmt.Errorf("bench: unknown structure %q", name)
		}
	}
	return out, nil
}
