package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btree-query-bench/bdtree/bench"
	"github.com/btree-query-bench/bdtree/console"
	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/workload"

	"github.com/urfave/cli/v2"
)

var cmdShell = &cli.Command{
	Name:  "shell",
	Usage: "interactive menu over a table",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "table",
			Usage: "table to operate on",
			Value: "people",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "seed for generated names; 0 is random",
		},
	},
	Action: func(cctx *cli.Context) error {
		db, err := openDatabase(cctx)
		if err != nil {
			return err
		}
		tb, err := db.Table(cctx.String("table"))
		if err != nil {
			return err
		}
		degree := cctx.Int("degree")
		sess := &console.Session{
			Table:  tb,
			Source: workload.NewFakeSource(cctx.Int64("seed")),
			Structures: func() []bench.Structure {
				return []bench.Structure{bench.BTree(degree)}
			},
			Bench: bench.Config{Sizes: bench.DefaultSizes, Seed: cctx.Int64("seed")},
		}
		return console.Run(cctx.Context, sess, os.Stdin, os.Stdout)
	},
}

var cmdBench = &cli.Command{
	Name:  "bench",
	Usage: "time INSERT/SELECT/UPDATE/DELETE and mixed workloads",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "sizes",
			Usage: "comma-separated key counts",
			Value: "100,1000,10000",
		},
		&cli.StringFlag{
			Name:  "structures",
			Usage: "comma-separated structures: btree, list, pebble",
			Value: "btree",
		},
		&cli.StringFlag{
			Name:  "degrees",
			Usage: "comma-separated minimum degrees for btree; defaults to --degree",
		},
		&cli.IntFlag{
			Name:  "workload-ops",
			Usage: "operations per mixed workload; 0 skips them",
			Value: 1000,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "seed for generated keys and workload choices",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "csv",
			Usage: "write results to this CSV file",
		},
		&cli.StringFlag{
			Name:  "chart",
			Usage: "render a latency chart to this file (.png, .svg, .pdf)",
		},
	},
	Action: func(cctx *cli.Context) error {
		sizes, err := parseInts(cctx.String("sizes"))
		if err != nil {
			return fmt.Errorf("--sizes: %w", err)
		}
		degrees := []int{cctx.Int("degree")}
		if s := cctx.String("degrees"); s != "" {
			if degrees, err = parseInts(s); err != nil {
				return fmt.Errorf("--degrees: %w", err)
			}
		}
		structures, err := bench.ParseStructures(splitList(cctx.String("structures")), degrees)
		if err != nil {
			return err
		}

		results, err := bench.Run(cctx.Context, bench.Config{
			Sizes:       sizes,
			WorkloadOps: cctx.Int("workload-ops"),
			Seed:        cctx.Int64("seed"),
		}, structures)
		if err != nil {
			return err
		}
		if err := bench.WriteText(os.Stdout, results); err != nil {
			return err
		}

		if path := cctx.String("csv"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := bench.WriteCSV(f, results); err != nil {
				return err
			}
		}
		if path := cctx.String("chart"); path != "" {
			if err := bench.RenderChart(results, path); err != nil {
				return err
			}
		}
		return nil
	},
}

var cmdDump = &cli.Command{
	Name:      "dump",
	Usage:     "print a table's tree, optionally as Graphviz DOT/PNG",
	ArgsUsage: "<table>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "dot",
			Usage: "write the tree as Graphviz DOT to this file",
		},
		&cli.BoolFlag{
			Name:  "png",
			Usage: "also run 'dot -Tpng' next to the DOT file",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return cli.Exit("expected exactly one table name", 2)
		}
		db, err := openDatabase(cctx)
		if err != nil {
			return err
		}
		tb, err := db.Table(cctx.Args().First())
		if err != nil {
			return err
		}

		var dotErr error
		tb.View(func(tree *btree.BTree[string]) {
			fmt.Printf("%d keys, height %d, t=%d\n", tree.Len(), tree.Height(), tree.Degree())
			fmt.Print(console.RenderTree(tree))
			if path := cctx.String("dot"); path != "" {
				dotErr = writeDOT(tree, path)
			}
		})
		if dotErr != nil {
			return dotErr
		}

		if path := cctx.String("dot"); path != "" && cctx.Bool("png") {
			pngPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
			cmd := exec.CommandContext(cctx.Context, "dot", "-Tpng", path, "-o", pngPath)
			if out, err := cmd.CombinedOutput(); err != nil {
				return fmt.Errorf("graphviz (is 'dot' installed?): %w: %s", err, out)
			}
			fmt.Printf("tree exported to %s\n", pngPath)
		}
		return nil
	},
}

func writeDOT(tree *btree.BTree[string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tree.WriteDOT(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInts(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("value must be positive: %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}
