package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase(t *testing.T) {
	dir := t.TempDir()
	db, err := NewDatabase[string](dir, 3, quietLogger())
	require.NoError(t, err)

	people, err := db.Table("people")
	require.NoError(t, err)
	require.NoError(t, people.InsertMany([]string{"Ana", "Bia"}))

	again, err := db.Table("people")
	require.NoError(t, err)
	assert.Same(t, people, again)

	_, err = db.Table("cities")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orphan.json"), []byte(`["x"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"cities", "orphan", "people"}, names)

	// A second database over the same directory reloads from disk.
	db2, err := NewDatabase[string](dir, 2, quietLogger())
	require.NoError(t, err)
	reloaded, err := db2.Table("people")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ana", "Bia"}, reloaded.Keys())

	dropped, err := db.Drop("people")
	require.NoError(t, err)
	assert.True(t, dropped)
	_, err = os.Stat(filepath.Join(dir, "people.json"))
	assert.True(t, os.IsNotExist(err))

	dropped, err = db.Drop("people")
	require.NoError(t, err)
	assert.False(t, dropped)

	// The old handle can still be read but no longer writes the file back.
	assert.Equal(t, []string{"Ana", "Bia"}, people.Keys())
	assert.ErrorIs(t, people.Insert("Caio"), ErrDropped)
	_, err = people.Delete("Ana")
	assert.ErrorIs(t, err, ErrDropped)
	assert.ErrorIs(t, people.Save(), ErrDropped)
	_, err = os.Stat(filepath.Join(dir, "people.json"))
	assert.True(t, os.IsNotExist(err))

	_, err = db.Drop("../etc")
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = db.Table("a/b")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestDatabaseInMemory(t *testing.T) {
	db, err := NewDatabase[int]("", 2, quietLogger())
	require.NoError(t, err)
	tb, err := db.Table("nums")
	require.NoError(t, err)
	require.NoError(t, tb.Insert(1))
	assert.Equal(t, "", tb.Path())

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"nums"}, names)

	dropped, err := db.Drop("nums")
	require.NoError(t, err)
	assert.True(t, dropped)
}

func TestDatabaseRejectsSmallDegree(t *testing.T) {
	_, err := NewDatabase[int]("", 1, quietLogger())
	assert.ErrorIs(t, err, btree.ErrInvalidDegree)
}
