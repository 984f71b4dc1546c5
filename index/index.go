package index

import (
	"cmp"
	"iter"
)

// Index is the common interface for every ordered multiset the benchmark
// drives. Search, Update and Delete report false on a missing key; the error
// return is reserved for storage failures.
type Index[K cmp.Ordered] interface {
	Insert(key K) error
	Search(key K) (bool, error)
	Update(oldKey, newKey K) (bool, error)
	Delete(key K) (bool, error)
	Traversal() iter.Seq[K]
	Len() int
	Close() error
}
