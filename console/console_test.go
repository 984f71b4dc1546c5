package console

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/btree-query-bench/bdtree/bench"
	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/table"
	"github.com/btree-query-bench/bdtree/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tb, err := table.Open[string]("people", "", 2, logger)
	require.NoError(t, err)
	return &Session{
		Table:  tb,
		Source: workload.NewFakeSource(11),
		Structures: func() []bench.Structure {
			return []bench.Structure{bench.BTree(2)}
		},
		Bench: bench.Config{Sizes: []int{10}, Seed: 1},
		Log:   logger,
	}
}

func TestSession(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.Table.InsertMany([]string{"Ana", "Bia", "Caio"}))

	script := strings.Join([]string{
		"1", "5", // insert five names
		"3", "Bia", // update
		"3", "Nobody",
		"4", "Ana", // delete
		"4", "Ana",
		"2",
		"9",
		"5",
		"6",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), sess, strings.NewReader(script), &out))
	text := out.String()

	assert.Contains(t, text, "5 records inserted in")
	assert.Contains(t, text, "Record Bia updated to ")
	assert.Contains(t, text, "Record Nobody not found")
	assert.Contains(t, text, "Record Ana deleted")
	assert.Contains(t, text, "Record Ana not found")
	assert.Contains(t, text, "Showing all records:")
	assert.Contains(t, text, "7 keys, height")
	assert.Contains(t, text, "Invalid choice")
	assert.Contains(t, text, "INSERT")

	keys := sess.Table.Keys()
	assert.Len(t, keys, 7)
	assert.NotContains(t, keys, "Ana")
	assert.NotContains(t, keys, "Bia")
	assert.Contains(t, keys, "Caio")
}

func TestSessionEndOfInput(t *testing.T) {
	sess := newSession(t)
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), sess, strings.NewReader("1\n"), &out))
	assert.Equal(t, 0, sess.Table.Len())
}

func TestSessionBadCount(t *testing.T) {
	sess := newSession(t)
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), sess, strings.NewReader("insert\nlots\nexit\n"), &out))
	assert.Contains(t, out.String(), `Not a valid count: "lots"`)
}

func TestRenderTree(t *testing.T) {
	tree, err := btree.New[int](2)
	require.NoError(t, err)
	for _, k := range []int{10, 20, 5, 6, 12, 30, 7, 17} {
		tree.Insert(k)
	}

	out := RenderTree(tree)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "[10 20]", lines[0])
	assert.Contains(t, lines[1], "[5 6 7]")
	assert.Contains(t, lines[2], "[12 17]")
	assert.Contains(t, lines[3], "[30]")
}
