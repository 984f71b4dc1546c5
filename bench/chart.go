package bench

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RenderChart plots per-operation latency against input size, one line per
// structure/config/operation. The image format follows the file extension
// (.png, .svg, .pdf, ...).
func RenderChart(results []Result, path string) error {
	if len(results) == 0 {
		return errors.New("bench: no results to chart")
	}

	type series struct {
		name string
		xys  plotter.XYs
	}
	var order []string
	byName := make(map[string]*series)
	for _, res := range results {
		name := res.Structure
		if res.Config != "" {
			name += " t=" + res.Config
		}
		name += " " + res.Operation
		s, ok := byName[name]
		if !ok {
			s = &series{name: name}
			byName[name] = s
			order = append(order, name)
		}
		s.xys = append(s.xys, plotter.XY{X: float64(res.Size), Y: float64(res.LatencyNs)})
	}

	p := plot.New()
	p.Title.Text = "Latency per operation"
	p.X.Label.Text = "keys"
	p.Y.Label.Text = "ns/op"
	p.Legend.Top = true

	args := make([]any, 0, 2*len(order))
	for _, name := range order {
		s := byName[name]
		slices.SortFunc(s.xys, func(a, b plotter.XY) int {
			switch {
			case a.X < b.X:
				return -1
			case a.X > b.X:
				return 1
			}
			return 0
		})
		args = append(args, s.name, s.xys)
	}
	if err := plotutil.AddLinePoints(p, args...); err != nil {
		return fmt.Errorf("bench: chart: %w", err)
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("bench: chart: %w", err)
	}
	return nil
}
