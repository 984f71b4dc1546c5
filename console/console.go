// Package console is the interactive menu loop over a single table.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/btree-query-bench/bdtree/bench"
	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/table"
	"github.com/btree-query-bench/bdtree/workload"
)

const menu = `
Choose an operation:
1. Insert
2. Select
3. Update
4. Delete
5. Evaluate performance
6. Exit
`

type Session struct {
	Table  *table.Table[string]
	Source workload.Source
	// Structures builds the indexes compared by "Evaluate performance".
	Structures func() []bench.Structure
	Bench      bench.Config
	Log        *slog.Logger
}

type shell struct {
	*Session
	in  *bufio.Scanner
	out io.Writer
}

var errExit = errors.New("exit")

// Run reads commands from in until "6", "exit" or end of input.
func Run(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	if s.Log == nil {
		s.Log = slog.Default()
	}
	sh := &shell{Session: s, in: bufio.NewScanner(in), out: out}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(out, menu)
		choice, ok := sh.prompt("Enter the operation number: ")
		if !ok {
			return sh.in.Err()
		}
		err := sh.dispatch(ctx, choice)
		if errors.Is(err, errExit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *shell) dispatch(ctx context.Context, choice string) error {
	switch strings.ToLower(choice) {
	case "1", "insert":
		return sh.insert()
	case "2", "select":
		sh.print()
		return nil
	case "3", "update":
		return sh.update()
	case "4", "delete":
		return sh.delete()
	case "5", "bench":
		return sh.bench(ctx)
	case "6", "exit", "quit":
		return errExit
	default:
		fmt.Fprintln(sh.out, "Invalid choice. Try again.")
		return nil
	}
}

func (sh *shell) insert() error {
	raw, ok := sh.prompt("How many records to insert? ")
	if !ok {
		return errExit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fmt.Fprintf(sh.out, "Not a valid count: %q\n", raw)
		return nil
	}
	keys := sh.Source.Keys(n)
	start := time.Now()
	if err := sh.Table.InsertMany(keys); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%d records inserted in %s\n", n, bench.FormatDuration(time.Since(start)))
	return nil
}

func (sh *shell) print() {
	fmt.Fprintln(sh.out, "Showing all records:")
	sh.Table.View(func(tree *btree.BTree[string]) {
		fmt.Fprintf(sh.out, "%d keys, height %d, t=%d\n", tree.Len(), tree.Height(), tree.Degree())
		fmt.Fprint(sh.out, RenderTree(tree))
	})
}

func (sh *shell) update() error {
	oldKey, ok := sh.prompt("Enter the current name: ")
	if !ok {
		return errExit
	}
	newKey := sh.Source.Key()
	updated, err := sh.Table.Update(oldKey, newKey)
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintf(sh.out, "Record %s updated to %s\n", oldKey, newKey)
	} else {
		fmt.Fprintf(sh.out, "Record %s not found\n", oldKey)
	}
	return nil
}

func (sh *shell) delete() error {
	key, ok := sh.prompt("Enter the name to delete: ")
	if !ok {
		return errExit
	}
	deleted, err := sh.Table.Delete(key)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Fprintf(sh.out, "Record %s deleted\n", key)
	} else {
		fmt.Fprintf(sh.out, "Record %s not found\n", key)
	}
	return nil
}

func (sh *shell) bench(ctx context.Context) error {
	if sh.Structures == nil {
		fmt.Fprintln(sh.out, "No structures configured for evaluation.")
		return nil
	}
	cfg := sh.Bench
	if cfg.Logger == nil {
		cfg.Logger = sh.Log
	}
	results, err := bench.Run(ctx, cfg, sh.Structures())
	if err != nil {
		return err
	}
	return bench.WriteText(sh.out, results)
}
