package generators

import (
	"math/rand"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"

	"github.com/Noofbiz/timeBowl/batches"
	"github.com/Noofbiz/timeBowl/series"
)

// TimeDelayAE produces autoencoder batches: the label of each batch is
// the flattened copy of its delay-stacked input, so the model learns to
// reconstruct its own input window. Works over a single source array
// with the delay set [0, delays).
//
// With conv3d enabled the input keeps the 3-D convolution layout
// (batch, lead, delay, rest...) instead of (batch, delay, trailing...);
// the label is flattened either way.
type TimeDelayAE struct {
	x       *series.Array
	delays  []int
	shuffle bool
	conv3d  bool

	rand   *rand.Rand
	index  []int
	ranges []batches.Range
	cursor int
	fresh  bool
}

var _ train.Dataset = (*TimeDelayAE)(nil)

// NewTimeDelayAE builds the autoencoder generator. delays is a count:
// the delay set used is [0, delays).
func NewTimeDelayAE(x *series.Array, delays, batchSize int, shuffle, conv3d bool) (*TimeDelayAE, error) {
	if x == nil {
		return nil, errors.New("generators: source array is nil")
	}
	if delays <= 0 {
		return nil, errors.Errorf("generators: delay count must be positive, got %d", delays)
	}
	if conv3d && len(x.Dims) < 2 {
		return nil, errors.Errorf("generators: conv3d layout needs sources of rank >= 2, got shape %v", x.Dims)
	}
	ranges, err := batches.Make(x.Steps(), batchSize)
	if err != nil {
		return nil, err
	}
	index := make([]int, x.Steps())
	for i := range index {
		index[i] = i
	}
	return &TimeDelayAE{
		x:       x,
		delays:  series.SpanDelays(delays),
		shuffle: shuffle,
		conv3d:  conv3d,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		index:   index,
		ranges:  ranges,
		fresh:   true,
	}, nil
}

// Seed reseeds the shuffle source for reproducible epochs.
func (g *TimeDelayAE) Seed(seed int64) {
	g.rand = rand.New(rand.NewSource(seed))
}

// Name implements train.Dataset.
func (g *TimeDelayAE) Name() string { return "TimeDelayAE" }

// Reset implements train.Dataset.
func (g *TimeDelayAE) Reset() {
	g.cursor = 0
	g.fresh = true
}

// Yield implements train.Dataset. The input is the delay-stacked
// x_batch; the label is y_batch, the same values flattened to
// (batch, delays*sampleSize). Like TimeDelay it loops forever.
func (g *TimeDelayAE) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if g.cursor == 0 && g.fresh {
		if g.shuffle {
			g.rand.Shuffle(len(g.index), func(i, j int) {
				g.index[i], g.index[j] = g.index[j], g.index[i]
			})
		}
		g.fresh = false
	}
	r := g.ranges[g.cursor]
	batchIDs := g.index[r.Start:r.End]

	delayIDs, err := series.DelayIndices(batchIDs, g.delays, g.x.Steps())
	if err != nil {
		return nil, nil, nil, err
	}
	var xb *series.Array
	if g.conv3d {
		xb, err = series.AssembleDelayedConv3D(g.x, delayIDs)
	} else {
		xb, err = series.AssembleDelayed(g.x, delayIDs)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	flat := make([]float32, len(xb.Data))
	copy(flat, xb.Data)
	yb, err := series.NewArray(flat, xb.Dims[0], len(flat)/xb.Dims[0])
	if err != nil {
		return nil, nil, nil, err
	}

	named, err := series.Standardize([]*series.Array{xb, yb}, []string{"x_batch", "y_batch"})
	if err != nil {
		return nil, nil, nil, err
	}

	g.cursor++
	if g.cursor == len(g.ranges) {
		g.cursor = 0
		g.fresh = true
	}
	return g, []*tensors.Tensor{named[0].Tensor}, []*tensors.Tensor{named[1].Tensor}, nil
}
