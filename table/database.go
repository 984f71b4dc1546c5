package table

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/btree-query-bench/bdtree/index/btree"
)

const fileExt = ".json"

// Database maps table names to tables stored as <dir>/<name>.json. With an
// empty dir every table is memory-only.
type Database[K cmp.Ordered] struct {
	mu     sync.Mutex
	dir    string
	degree int
	tables map[string]*Table[K]
	log    *slog.Logger
}

func NewDatabase[K cmp.Ordered](dir string, degree int, logger *slog.Logger) (*Database[K], error) {
	if degree < 2 {
		return nil, fmt.Errorf("%w: got %d", btree.ErrInvalidDegree, degree)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("table: create database dir: %w", err)
		}
	}
	return &Database[K]{
		dir:    dir,
		degree: degree,
		tables: make(map[string]*Table[K]),
		log:    logger,
	}, nil
}

// Dir returns the database directory, empty for an in-memory database.
func (db *Database[K]) Dir() string { return db.dir }

// Degree returns the minimum degree used for every table.
func (db *Database[K]) Degree() int { return db.degree }

// Table returns the named table, opening (and loading) it on first use.
func (db *Database[K]) Table(name string) (*Table[K], error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if tb, ok := db.tables[name]; ok {
		return tb, nil
	}
	tb, err := Open[K](name, db.pathFor(name), db.degree, db.log)
	if err != nil {
		return nil, err
	}
	db.tables[name] = tb
	return tb, nil
}

// Names lists open tables and tables with a file in the directory.
func (db *Database[K]) Names() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	if db.dir != "" {
		ents, err := os.ReadDir(db.dir)
		if err != nil {
			return nil, fmt.Errorf("table: list: %w", err)
		}
		for _, ent := range ents {
			if ent.IsDir() || !strings.HasSuffix(ent.Name(), fileExt) {
				continue
			}
			names = append(names, strings.TrimSuffix(ent.Name(), fileExt))
		}
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Drop forgets the named table and removes its backing file. It reports
// whether anything was dropped. Handles to the table obtained earlier stay
// readable, but their mutations return ErrDropped.
func (db *Database[K]) Drop(name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	tb, dropped := db.tables[name]
	if dropped {
		tb.drop()
	}
	delete(db.tables, name)
	tableKeys.DeleteLabelValues(name)
	if db.dir == "" {
		return dropped, nil
	}
	err := os.Remove(db.pathFor(name))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return dropped, nil
	case err != nil:
		return dropped, fmt.Errorf("table: drop %s: %w", name, err)
	}
	db.log.Info("dropped table", "table", name)
	return true, nil
}

func (db *Database[K]) pathFor(name string) string {
	if db.dir == "" {
		return ""
	}
	return filepath.Join(db.dir, name+fileExt)
}
