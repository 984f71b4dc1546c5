// bdtree is a small in-memory B-tree database: an interactive shell over a
// named table, a benchmark runner, and a tree dumper.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/btree-query-bench/bdtree/index/btree"
	"github.com/btree-query-bench/bdtree/table"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

func main() {
	// only try dotenv if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	app := &cli.App{
		Name:  "bdtree",
		Usage: "in-memory B-tree tables, benchmarks and tree dumps",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "degree",
				Aliases: []string{"t"},
				Usage:   "B-tree minimum degree t (>= 2)",
				Value:   3,
				EnvVars: []string{"BDTREE_DEGREE"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "directory holding table snapshots; empty keeps tables in memory",
				Value:   "data",
				EnvVars: []string{"BDTREE_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log verbosity: debug, info, warn, error",
				Value:   "info",
				EnvVars: []string{"BDTREE_LOG_LEVEL", "LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log output format: text or json",
				Value:   "text",
				EnvVars: []string{"BDTREE_LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "serve prometheus metrics on this address (e.g. :2471); empty disables",
				EnvVars: []string{"BDTREE_METRICS_ADDR"},
			},
		},
		Before: func(cctx *cli.Context) error {
			if cctx.Int("degree") < 2 {
				return fmt.Errorf("%w: got %d", btree.ErrInvalidDegree, cctx.Int("degree"))
			}
			logger, err := configLogging(cctx.String("log-level"), cctx.String("log-format"))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			if addr := cctx.String("metrics-addr"); addr != "" {
				go serveMetrics(addr)
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdShell,
			cmdBench,
			cmdDump,
		},
		DefaultCommand: "shell",
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunContext(ctx, args)
}

func configLogging(level, format string) (*slog.Logger, error) {
	var hopts slog.HandlerOptions
	switch strings.ToLower(level) {
	case "debug":
		hopts.Level = slog.LevelDebug
	case "info", "":
		hopts.Level = slog.LevelInfo
	case "warn":
		hopts.Level = slog.LevelWarn
	case "error":
		hopts.Level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %#v", level)
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text", "":
		handler = slog.NewTextHandler(os.Stderr, &hopts)
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", format)
	}
	return slog.New(handler), nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server failed", "err", err)
	}
}

func openDatabase(cctx *cli.Context) (*table.Database[string], error) {
	return table.NewDatabase[string](cctx.String("data-dir"), cctx.Int("degree"), slog.Default())
}
