package main

// Inspect prints and plots the batch layout a given configuration
// produces, without touching any model: the plain partition, the
// overlap-window partition, and the warm-up weight mask implied by the
// delay set. Handy for sanity-checking window coverage before spending
// time on training.
//
// Usage:
//   go run ./cmd/inspect -n 200 -batch 32 -overlap 8 -delays 10 -out output

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Noofbiz/timeBowl/batches"
	"github.com/Noofbiz/timeBowl/series"
)

func main() {
	n := flag.Int("n", 200, "length of the time axis")
	batchSize := flag.Int("batch", 32, "batch size")
	overlap := flag.Int("overlap", 8, "indices shared by consecutive windows")
	filt := flag.Int("filt", 5, "filter length (caller bookkeeping, not used in the arithmetic)")
	delays := flag.Int("delays", 10, "number of delays in the model")
	out := flag.String("out", "output", "directory for plot output")
	flag.Parse()

	plain, err := batches.Make(*n, *batchSize)
	if err != nil {
		log.Fatalf("plain partition: %v", err)
	}
	fmt.Printf("plain partition of [0,%d) by %d: %d batches\n", *n, *batchSize, len(plain))
	for _, r := range plain {
		fmt.Printf("  [%4d, %4d)\n", r.Start, r.End)
	}

	windows, err := batches.MakeOverlap(*n, *batchSize, *overlap, *filt)
	if err != nil {
		log.Fatalf("overlap partition: %v", err)
	}
	fmt.Printf("overlap partition of [0,%d) by %d with overlap %d: %d windows\n",
		*n, *batchSize, *overlap, len(windows))
	for _, w := range windows {
		fmt.Printf("  [%4d, %4d)\n", w.Start, w.End)
	}

	// Weight mask over the whole axis, as a run with no explicit
	// weights would see it.
	ids := make([]int, *n)
	for i := range ids {
		ids[i] = i
	}
	mask, err := series.BatchWeights(nil, ids, *delays-1)
	if err != nil {
		log.Fatalf("weight mask: %v", err)
	}
	zeroed := 0
	for _, w := range mask {
		if w == 0 {
			zeroed++
		}
	}
	fmt.Printf("weight mask for %d delays: %d of %d samples zeroed\n", *delays, zeroed, *n)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}
	windowsPath := filepath.Join(*out, "windows.png")
	if err := plotWindows(windows, windowsPath); err != nil {
		log.Fatalf("failed to plot windows: %v", err)
	}
	maskPath := filepath.Join(*out, "weights.png")
	if err := plotMask(mask, maskPath); err != nil {
		log.Fatalf("failed to plot weight mask: %v", err)
	}
	fmt.Printf("wrote %s and %s\n", windowsPath, maskPath)
}

// plotWindows draws each overlap window as a horizontal segment at its
// own height so coverage and overlap are visible at a glance.
func plotWindows(windows []batches.Range, path string) error {
	p := plot.New()
	p.Title.Text = "overlap windows"
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "window"
	for i, w := range windows {
		xys := plotter.XYs{
			{X: float64(w.Start), Y: float64(i)},
			{X: float64(w.End), Y: float64(i)},
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Width = vg.Points(1.5)
		p.Add(line)
	}
	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// plotMask draws the per-sample weight mask; the leading zeros are the
// warm-up frames whose delay window is incomplete.
func plotMask(mask []float32, path string) error {
	p := plot.New()
	p.Title.Text = "warm-up weight mask"
	p.X.Label.Text = "time step"
	p.Y.Label.Text = "weight"
	xys := make(plotter.XYs, len(mask))
	for i, w := range mask {
		xys[i] = plotter.XY{X: float64(i), Y: float64(w)}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 3*vg.Inch, path)
}
