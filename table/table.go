// Package table gives a B-tree a name and, optionally, a backing file.
//
// Every mutating call rewrites the backing file with the tree's full sorted
// key sequence as a JSON array. Opening a table whose file exists replays
// Insert for each stored key in file order, so the tree shape is rebuilt
// from scratch rather than restored.
package table

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/persist"
)

// ErrInvalidName is returned for table names that are empty or would escape
// the database directory.
var ErrInvalidName = errors.New("table: invalid name")

// ErrDropped is returned by mutations on a table removed with Database.Drop.
var ErrDropped = errors.New("table: dropped")

// Table is safe for concurrent use; one mutex guards the whole tree for the
// duration of each call.
//
// A mutation whose snapshot fails is rolled back, so the tree always matches
// the last snapshot written.
type Table[K cmp.Ordered] struct {
	mu      sync.Mutex
	name    string
	path    string
	tree    *btree.BTree[K]
	log     *slog.Logger
	dropped bool
}

// Open creates a table with a tree of minimum degree t. If path is empty the
// table lives only in memory. If path names a file that does not exist yet
// the table starts empty; the file is created on the first mutation.
func Open[K cmp.Ordered](name, path string, t int, logger *slog.Logger) (*Table[K], error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	tree, err := btree.New[K](t)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	tb := &Table[K]{
		name: name,
		path: path,
		tree: tree,
		log:  logger.With("system", "table", "table", name),
	}
	if path == "" {
		return tb, nil
	}

	var keys []K
	err = persist.Load(path, &keys)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		tb.log.Info("no backing file, starting empty", "path", path)
	case err != nil:
		return nil, fmt.Errorf("table %s: %w", name, err)
	default:
		for _, k := range keys {
			tree.Insert(k)
		}
		tb.log.Info("loaded table", "path", path, "keys", len(keys), "height", tree.Height())
	}
	tableKeys.WithLabelValues(name).Set(float64(tree.Len()))
	return tb, nil
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (tb *Table[K]) Name() string { return tb.name }
func (tb *Table[K]) Path() string { return tb.path }

// Insert adds key and snapshots the table.
func (tb *Table[K]) Insert(key K) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.dropped {
		return ErrDropped
	}

	tb.tree.Insert(key)
	observeOp(tb.name, "insert", true)
	if err := tb.save(); err != nil {
		tb.tree.Delete(key)
		return err
	}
	return nil
}

// InsertMany adds every key and snapshots once at the end.
func (tb *Table[K]) InsertMany(keys []K) error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.dropped {
		return ErrDropped
	}

	for _, k := range keys {
		tb.tree.Insert(k)
	}
	tableOps.WithLabelValues(tb.name, "insert", "hit").Add(float64(len(keys)))
	if err := tb.save(); err != nil {
		for _, k := range keys {
			tb.tree.Delete(k)
		}
		return err
	}
	return nil
}

// Search reports whether key is stored.
func (tb *Table[K]) Search(key K) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	ok := tb.tree.Contains(key)
	observeOp(tb.name, "search", ok)
	return ok
}

// Update replaces one occurrence of oldKey with newKey. Nothing is written
// when oldKey is absent.
func (tb *Table[K]) Update(oldKey, newKey K) (bool, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.dropped {
		return false, ErrDropped
	}

	ok := tb.tree.Update(oldKey, newKey)
	observeOp(tb.name, "update", ok)
	if !ok {
		return false, nil
	}
	if err := tb.save(); err != nil {
		tb.tree.Update(newKey, oldKey)
		return false, err
	}
	return true, nil
}

// Delete removes one occurrence of key. Nothing is written when key is
// absent.
func (tb *Table[K]) Delete(key K) (bool, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.dropped {
		return false, ErrDropped
	}

	ok := tb.tree.Delete(key)
	observeOp(tb.name, "delete", ok)
	if !ok {
		return false, nil
	}
	if err := tb.save(); err != nil {
		tb.tree.Insert(key)
		return false, err
	}
	return true, nil
}

// Keys returns the sorted key sequence.
func (tb *Table[K]) Keys() []K {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.tree.Keys()
}

func (tb *Table[K]) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.tree.Len()
}

// View runs fn with the table locked. fn must not retain the tree.
func (tb *Table[K]) View(fn func(tree *btree.BTree[K])) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	fn(tb.tree)
}

// Save writes a snapshot regardless of whether anything changed.
func (tb *Table[K]) Save() error {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if tb.dropped {
		return ErrDropped
	}
	return tb.save()
}

// drop makes every later mutation fail with ErrDropped.
func (tb *Table[K]) drop() {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.dropped = true
}

func (tb *Table[K]) save() error {
	tableKeys.WithLabelValues(tb.name).Set(float64(tb.tree.Len()))
	if tb.path == "" {
		return nil
	}
	start := time.Now()
	if err := persist.Save(tb.path, tb.tree.Keys()); err != nil {
		return fmt.Errorf("table %s: %w", tb.name, err)
	}
	snapshotDuration.WithLabelValues(tb.name).Observe(time.Since(start).Seconds())
	return nil
}
