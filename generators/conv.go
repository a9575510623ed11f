package generators

import (
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"

	"github.com/Noofbiz/timeBowl/batches"
	"github.com/Noofbiz/timeBowl/series"
)

// ConvWindows produces overlapping context windows of a single source
// array for convolutional models that consume whole slabs of the time
// axis rather than per-sample delay stacks. Window sizing follows the
// TR layout used for fMRI-style recordings: each window holds
// trsInModel repetitions of framesPerTR frames plus filtLength-1 warm-up
// frames for the filter, and consecutive windows share everything but
// one TR of fresh frames.
//
// The covered length is rounded up to whole TRs; indices past the end
// of the recording repeat the final frame. The window sequence is fixed
// (no shuffling) and finite: after one pass Yield returns io.EOF and
// Reset rewinds for another identical pass.
type ConvWindows struct {
	x      *series.Array
	index  []int
	ranges []batches.Range
	cursor int

	windowSize int
}

var _ train.Dataset = (*ConvWindows)(nil)

// NewConvWindows builds the window generator. All three sizing
// parameters must be positive and the derived window must fit in the
// source's time axis.
func NewConvWindows(x *series.Array, filtLength, framesPerTR, trsInModel int) (*ConvWindows, error) {
	if x == nil {
		return nil, errors.New("generators: source array is nil")
	}
	if filtLength <= 0 || framesPerTR <= 0 || trsInModel <= 0 {
		return nil, errors.Errorf("generators: filter length, frames per TR and TRs per model must be positive, got %d, %d, %d",
			filtLength, framesPerTR, trsInModel)
	}
	n := x.Steps()
	windowSize := framesPerTR*trsInModel + filtLength - 1
	if windowSize > n {
		return nil, errors.Errorf("generators: window of %d frames exceeds the %d available", windowSize, n)
	}
	expanded := (n-windowSize+framesPerTR-1)/framesPerTR*framesPerTR + windowSize
	overlap := framesPerTR*(trsInModel-1) + filtLength - 1
	ranges, err := batches.MakeOverlap(expanded, windowSize, overlap, filtLength)
	if err != nil {
		return nil, err
	}
	index := make([]int, expanded)
	for i := range index {
		if i < n {
			index[i] = i
		} else {
			index[i] = n - 1
		}
	}
	return &ConvWindows{
		x:          x,
		index:      index,
		ranges:     ranges,
		windowSize: windowSize,
	}, nil
}

// WindowSize returns the derived number of frames per window.
func (g *ConvWindows) WindowSize() int { return g.windowSize }

// Windows returns the fixed window ranges over the expanded time axis.
func (g *ConvWindows) Windows() []batches.Range {
	out := make([]batches.Range, len(g.ranges))
	copy(out, g.ranges)
	return out
}

// Name implements train.Dataset.
func (g *ConvWindows) Name() string { return "ConvWindows" }

// Reset implements train.Dataset. It rewinds to the first window.
func (g *ConvWindows) Reset() { g.cursor = 0 }

// Yield implements train.Dataset. Each call emits the next window as a
// single x_batch tensor with a singleton batch axis, shaped
// (1, window, trailing...). After the final window it returns io.EOF.
func (g *ConvWindows) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if g.cursor >= len(g.ranges) {
		return nil, nil, nil, io.EOF
	}
	r := g.ranges[g.cursor]
	g.cursor++

	win, err := series.Gather(g.x, g.index[r.Start:r.End])
	if err != nil {
		return nil, nil, nil, err
	}
	slab, err := series.NewArray(win.Data, append([]int{1}, win.Dims...)...)
	if err != nil {
		return nil, nil, nil, err
	}
	named, err := series.Standardize([]*series.Array{slab}, []string{"x_batch"})
	if err != nil {
		return nil, nil, nil, err
	}
	return g, []*tensors.Tensor{named[0].Tensor}, nil, nil
}
