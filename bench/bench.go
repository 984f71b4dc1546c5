// Package bench measures wall time and heap usage of index operations and
// reports the results as text, CSV and charts.
package bench

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"strconv"
	"time"

	"github.com/btree-query-bench/bdtree/index"
	"github.com/btree-query-bench/bdtree/workload"
)

type Op string

const (
	Insert Op = "INSERT"
	Select Op = "SELECT"
	Update Op = "UPDATE"
	Delete Op = "DELETE"
)

// Ops is the CRUD sequence run for every size.
var Ops = []Op{Insert, Select, Update, Delete}

// DefaultSizes mirrors the classic 100 / 1k / 10k sweep.
var DefaultSizes = []int{100, 1000, 10000}

// Result is one measured phase.
type Result struct {
	Structure string
	Config    string
	Operation string
	Size      int
	Elapsed   time.Duration
	LatencyNs int64
	AllocKB   float64 // live heap growth across the phase
	PeakKB    float64 // bytes allocated during the phase
	Objects   uint64
}

type MemoryStats struct {
	HeapAlloc   uint64
	TotalAlloc  uint64
	HeapObjects uint64
}

// GetDetailedMem forces a GC so the numbers reflect live data, not garbage.
func GetDetailedMem() MemoryStats {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemoryStats{
		HeapAlloc:   m.HeapAlloc,
		TotalAlloc:  m.TotalAlloc,
		HeapObjects: m.HeapObjects,
	}
}

func readMem() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		HeapAlloc:   m.HeapAlloc,
		TotalAlloc:  m.TotalAlloc,
		HeapObjects: m.HeapObjects,
	}
}

// Structure is a named factory for a fresh, empty index.
type Structure struct {
	Name   string
	Config string
	New    func() (index.Index[string], error)
}

type Config struct {
	Sizes []int
	// WorkloadOps is the number of operations per mixed workload; zero skips
	// the mixed workloads.
	WorkloadOps int
	Seed        int64
	// NewSource returns a data source for one size; nil uses gofakeit names.
	NewSource func(seed int64) workload.Source
	Logger    *slog.Logger
}

// Run drives every structure through the CRUD sequence at every size, then
// through the mixed workloads.
func Run(ctx context.Context, cfg Config, structures []Structure) ([]Result, error) {
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = DefaultSizes
	}
	if cfg.NewSource == nil {
		cfg.NewSource = func(seed int64) workload.Source { return workload.NewFakeSource(seed) }
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("system", "bench")

	var results []Result
	for _, s := range structures {
		for _, size := range cfg.Sizes {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			log.Info("running suite", "structure", s.Name, "config", s.Config, "size", size)
			rs, err := runSuite(ctx, cfg, s, size)
			results = append(results, rs...)
			if err != nil {
				return results, fmt.Errorf("bench: %s size %d: %w", s.Name, size, err)
			}
		}
	}
	return results, nil
}

func runSuite(ctx context.Context, cfg Config, s Structure, size int) ([]Result, error) {
	idx, err := s.New()
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	src := cfg.NewSource(cfg.Seed + int64(size))
	live := src.Keys(size)

	var results []Result
	for _, op := range Ops {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, next, err := Measure(idx, op, live, src)
		if err != nil {
			return results, err
		}
		res.Structure, res.Config = s.Name, s.Config
		results = append(results, res)
		live = next
	}

	if cfg.WorkloadOps <= 0 {
		return results, nil
	}
	pool := src.Keys(size)
	for _, k := range pool {
		if err := idx.Insert(k); err != nil {
			return results, err
		}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, mix := range workload.Mixes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		before := GetDetailedMem()
		start := time.Now()
		if _, err := workload.Execute(idx, mix, src, pool, cfg.WorkloadOps, rng); err != nil {
			return results, err
		}
		res := finish(string(mix), size, cfg.WorkloadOps, start, before)
		res.Structure, res.Config = s.Name, s.Config
		results = append(results, res)
	}
	return results, nil
}

// Measure runs op once for every key in keys. For Update each key is
// replaced with a fresh one from src; the returned slice is the set of keys
// live in idx afterwards.
func Measure(idx index.Index[string], op Op, keys []string, src workload.Source) (Result, []string, error) {
	next := keys
	var replacements []string
	if op == Update {
		replacements = src.Keys(len(keys))
	}

	before := GetDetailedMem()
	start := time.Now()
	var err error
	switch op {
	case Insert:
		for _, k := range keys {
			if err = idx.Insert(k); err != nil {
				break
			}
		}
	case Select:
		for _, k := range keys {
			if _, err = idx.Search(k); err != nil {
				break
			}
		}
	case Update:
		for i, k := range keys {
			if _, err = idx.Update(k, replacements[i]); err != nil {
				break
			}
		}
		next = replacements
	case Delete:
		for _, k := range keys {
			if _, err = idx.Delete(k); err != nil {
				break
			}
		}
		next = nil
	default:
		return Result{}, keys, fmt.Errorf("bench: unknown op %q", op)
	}
	if err != nil {
		return Result{}, keys, fmt.Errorf("bench: %s: %w", op, err)
	}
	return finish(string(op), len(keys), len(keys), start, before), next, nil
}

func finish(name string, size, ops int, start time.Time, before MemoryStats) Result {
	elapsed := time.Since(start)
	after := readMem()
	res := Result{
		Operation: name,
		Size:      size,
		Elapsed:   elapsed,
		PeakKB:    float64(after.TotalAlloc-before.TotalAlloc) / 1024,
	}
	if ops > 0 {
		res.LatencyNs = elapsed.Nanoseconds() / int64(ops)
	}
	if after.HeapAlloc > before.HeapAlloc {
		res.AllocKB = float64(after.HeapAlloc-before.HeapAlloc) / 1024
	}
	if after.HeapObjects > before.HeapObjects {
		res.Objects = after.HeapObjects - before.HeapObjects
	}
	return res
}

// FormatDuration picks a unit a person can read at a glance.
func FormatDuration(d time.Duration) string {
	s := d.Seconds()
	switch {
	case s < 0.001:
		return strconv.FormatFloat(s*1_000_000, 'f', 2, 64) + " µs"
	case s < 1:
		return strconv.FormatFloat(s*1_000, 'f', 2, 64) + " ms"
	case s < 60:
		return strconv.FormatFloat(s, 'f', 2, 64) + " s"
	default:
		return strconv.FormatFloat(s/60, 'f', 2, 64) + " min"
	}
}
