package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"Structure", "Config", "TestType", "Size", "TotalNs", "LatencyNs", "AllocKB", "PeakKB", "HeapObjects"}

// WriteCSV writes one row per result after a header row.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, res := range results {
		record(cw, res)
	}
	cw.Flush()
	return cw.Error()
}

func record(w *csv.Writer, res Result) {
	w.Write([]string{
		res.Structure,
		res.Config,
		res.Operation,
		strconv.Itoa(res.Size),
		strconv.FormatInt(res.Elapsed.Nanoseconds(), 10),
		strconv.FormatInt(res.LatencyNs, 10),
		strconv.FormatFloat(res.AllocKB, 'f', 2, 64),
		strconv.FormatFloat(res.PeakKB, 'f', 2, 64),
		strconv.FormatUint(res.Objects, 10),
	})
}

// WriteText prints a human-readable line per result.
func WriteText(w io.Writer, results []Result) error {
	for _, res := range results {
		_, err := fmt.Fprintf(w, "%-10s %-6s %-18s n=%-6d time %-12s current %8.2f KB  peak %10.2f KB\n",
			res.Structure, res.Config, res.Operation, res.Size,
			FormatDuration(res.Elapsed), res.AllocKB, res.PeakKB)
		if err != nil {
			return err
		}
	}
	return nil
}
