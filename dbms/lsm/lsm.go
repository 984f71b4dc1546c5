// Package lsm wraps Pebble (CockroachDB's LSM storage engine) behind the
// common Index interface so it can be benchmarked alongside the in-memory
// B-tree and the sorted-list baseline.
//
// Pebble stores one value per key, so duplicates are kept as an occurrence
// count: the value of every key is its multiplicity encoded as a uvarint.
package lsm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"

	"github.com/btree-query-bench/bdtree/index"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

var _ index.Index[string] = (*LSM)(nil)

type LSM struct {
	db  *pebble.DB
	n   int
	err error
}

// Open opens (or creates) a Pebble database at the given directory path.
// A nil fs uses the local disk; tests pass vfs.NewMem().
func Open(dir string, fs vfs.FS) (*LSM, error) {
	opts := &pebble.Options{
		// Use a 16 MB memtable
		MemTableSize: 16 << 20,
		// Keep 4 memtables queued before stalling writes.
		MemTableStopWritesThreshold: 4,
		// L0 compaction trigger.
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 12,
	}
	if fs != nil {
		opts.FS = fs
	}

	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("lsm: open: %w", err)
	}
	l := &LSM{db: db}
	if err := l.recount(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// Close cleanly shuts down Pebble, flushing any in-memory state.
func (l *LSM) Close() error {
	return l.db.Close()
}

// Len returns the number of stored occurrences.
func (l *LSM) Len() int { return l.n }

// Err returns the last error hit while iterating in Traversal.
func (l *LSM) Err() error { return l.err }

// Insert adds one occurrence of key.
func (l *LSM) Insert(key string) error {
	c, err := l.count(key)
	if err != nil {
		return err
	}
	if err := l.db.Set([]byte(key), encodeCount(c+1), pebble.NoSync); err != nil {
		return fmt.Errorf("lsm: insert: %w", err)
	}
	l.n++
	return nil
}

// Search reports whether key has at least one occurrence.
func (l *LSM) Search(key string) (bool, error) {
	c, err := l.count(key)
	return c > 0, err
}

// Delete removes one occurrence of key.
func (l *LSM) Delete(key string) (bool, error) {
	b := l.db.NewBatch()
	defer b.Close()
	ok, err := l.deleteIn(b, key)
	if err != nil || !ok {
		return false, err
	}
	if err := b.Commit(pebble.NoSync); err != nil {
		return false, fmt.Errorf("lsm: delete: %w", err)
	}
	l.n--
	return true, nil
}

// Update replaces one occurrence of oldKey with newKey in a single batch.
func (l *LSM) Update(oldKey, newKey string) (bool, error) {
	if oldKey == newKey {
		return l.Search(oldKey)
	}
	b := l.db.NewBatch()
	defer b.Close()
	ok, err := l.deleteIn(b, oldKey)
	if err != nil || !ok {
		return false, err
	}
	c, err := l.count(newKey)
	if err != nil {
		return false, err
	}
	if err := b.Set([]byte(newKey), encodeCount(c+1), nil); err != nil {
		return false, fmt.Errorf("lsm: update: %w", err)
	}
	if err := b.Commit(pebble.NoSync); err != nil {
		return false, fmt.Errorf("lsm: update: %w", err)
	}
	return true, nil
}

// Traversal yields every key in byte order, repeated by its count.
func (l *LSM) Traversal() iter.Seq[string] {
	return func(yield func(string) bool) {
		it, err := l.db.NewIter(nil)
		if err != nil {
			l.err = fmt.Errorf("lsm: traversal: %w", err)
			return
		}
		defer it.Close()
		for it.First(); it.Valid(); it.Next() {
			c, err := decodeCount(it.Value())
			if err != nil {
				l.err = err
				return
			}
			k := string(it.Key())
			for range c {
				if !yield(k) {
					return
				}
			}
		}
		if err := it.Error(); err != nil {
			l.err = fmt.Errorf("lsm: traversal: %w", err)
		}
	}
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func (l *LSM) count(key string) (uint64, error) {
	val, closer, err := l.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lsm: get: %w", err)
	}
	defer closer.Close()
	return decodeCount(val)
}

func (l *LSM) deleteIn(b *pebble.Batch, key string) (bool, error) {
	c, err := l.count(key)
	if err != nil || c == 0 {
		return false, err
	}
	if c == 1 {
		err = b.Delete([]byte(key), nil)
	} else {
		err = b.Set([]byte(key), encodeCount(c-1), nil)
	}
	if err != nil {
		return false, fmt.Errorf("lsm: delete: %w", err)
	}
	return true, nil
}

func (l *LSM) recount() error {
	it, err := l.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("lsm: recount: %w", err)
	}
	defer it.Close()
	n := 0
	for it.First(); it.Valid(); it.Next() {
		c, err := decodeCount(it.Value())
		if err != nil {
			return err
		}
		n += int(c)
	}
	l.n = n
	return it.Error()
}

func encodeCount(c uint64) []byte {
	return binary.AppendUvarint(nil, c)
}

func decodeCount(b []byte) (uint64, error) {
	c, n := binary.Uvarint(b)
	if n <= 0 {
		return 0, fmt.Errorf("lsm: corrupt count %x", b)
	}
	return c, nil
}
