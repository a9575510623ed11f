package generators

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"

	"github.com/Noofbiz/timeBowl/batches"
	"github.com/Noofbiz/timeBowl/series"
)

// Package generators provides gomlx train.Dataset implementations that
// slice time-indexed arrays into delay-stacked mini batches. Each
// generator keeps only a permuted index array and a cursor over its
// precomputed batch ranges; the source arrays are read-only and must
// not be mutated while batches are being pulled.

// TimeDelay produces batches for time-delay regression models: models
// where the target at a time step depends on the current and preceding
// values of the sources. Each yielded sample stacks the source values
// at the configured delays into an extra axis, so with sources of shape
// (n, 200), ten delays and a batch size of 100 the inputs come out as
// (100, 10, 200).
//
// TimeDelay implements gomlx's train.Dataset. It never exhausts: after
// the last range of an epoch the index array is reshuffled (when
// shuffling is on) and iteration starts over. Stopping is the caller's
// job.
type TimeDelay struct {
	xs       []*series.Array
	y        *series.Array
	weights  *series.Array
	delays   []int
	maxDelay int
	shuffle  bool

	rand   *rand.Rand
	index  []int
	ranges []batches.Range
	cursor int
	fresh  bool
	names  []string
}

var _ train.Dataset = (*TimeDelay)(nil)

// NewTimeDelay builds a time-delay generator over one or more source
// arrays sharing their leading time axis. y may be nil for prediction
// batches; weights may be nil to weight every sample equally. The delay
// set is an explicit ordered collection of non-negative lags.
func NewTimeDelay(xs []*series.Array, y, weights *series.Array, delays []int, batchSize int, shuffle bool) (*TimeDelay, error) {
	if len(xs) == 0 {
		return nil, errors.New("generators: at least one source array is required")
	}
	for i, x := range xs {
		if x == nil {
			return nil, errors.Errorf("generators: source array %d is nil", i+1)
		}
	}
	n := xs[0].Steps()
	for i, x := range xs[1:] {
		if x.Steps() != n {
			return nil, errors.Errorf("generators: source array %d has %d steps, expected %d", i+2, x.Steps(), n)
		}
	}
	if y != nil && y.Steps() != n {
		return nil, errors.Errorf("generators: targets have %d steps, expected %d", y.Steps(), n)
	}
	if weights != nil {
		if y == nil {
			return nil, errors.New("generators: weights supplied without targets")
		}
		if len(weights.Dims) != 1 {
			return nil, errors.Errorf("generators: weights must be 1-D, got shape %v", weights.Dims)
		}
		if weights.Steps() != n {
			return nil, errors.Errorf("generators: weights have %d steps, expected %d", weights.Steps(), n)
		}
	}
	if len(delays) == 0 {
		return nil, errors.New("generators: empty delay set")
	}
	for _, d := range delays {
		if d < 0 {
			return nil, errors.Errorf("generators: negative delay %d", d)
		}
	}
	ranges, err := batches.Make(n, batchSize)
	if err != nil {
		return nil, err
	}
	index := make([]int, n)
	for i := range index {
		index[i] = i
	}
	names := make([]string, len(xs))
	for i := range names {
		names[i] = "x_batch" + strconv.Itoa(i+1)
	}
	return &TimeDelay{
		xs:       xs,
		y:        y,
		weights:  weights,
		delays:   delays,
		maxDelay: series.MaxDelay(delays),
		shuffle:  shuffle,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		index:    index,
		ranges:   ranges,
		fresh:    true,
		names:    names,
	}, nil
}

// NewTimeDelayCount is NewTimeDelay with the delay set [0, delays).
func NewTimeDelayCount(xs []*series.Array, y, weights *series.Array, delays, batchSize int, shuffle bool) (*TimeDelay, error) {
	if delays <= 0 {
		return nil, errors.Errorf("generators: delay count must be positive, got %d", delays)
	}
	return NewTimeDelay(xs, y, weights, series.SpanDelays(delays), batchSize, shuffle)
}

// Seed reseeds the shuffle source for reproducible epochs.
func (g *TimeDelay) Seed(seed int64) {
	g.rand = rand.New(rand.NewSource(seed))
}

// Name implements train.Dataset.
func (g *TimeDelay) Name() string { return "TimeDelay" }

// Reset implements train.Dataset. It rewinds to the start of an epoch;
// the next Yield reshuffles when shuffling is enabled.
func (g *TimeDelay) Reset() {
	g.cursor = 0
	g.fresh = true
}

// Yield implements train.Dataset. Inputs hold one delay-stacked tensor
// per source array, named x_batch1, x_batch2, and so on. In training
// mode labels hold y_batch followed by w_batch, the per-sample weights
// with warm-up frames zeroed; in prediction mode (nil targets) labels
// are nil.
func (g *TimeDelay) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
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
	n := g.xs[0].Steps()

	delayIDs, err := series.DelayIndices(batchIDs, g.delays, n)
	if err != nil {
		return nil, nil, nil, err
	}
	arrays := make([]*series.Array, len(g.xs))
	for i, x := range g.xs {
		arrays[i], err = series.AssembleDelayed(x, delayIDs)
		if err != nil {
			return nil, nil, nil, err
		}
	}
	named, err := series.Standardize(arrays, g.names)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs = make([]*tensors.Tensor, len(named))
	for i, nt := range named {
		inputs[i] = nt.Tensor
	}

	if g.y != nil {
		yb, err := series.Gather(g.y, batchIDs)
		if err != nil {
			return nil, nil, nil, err
		}
		wb, err := series.BatchWeights(g.weights, batchIDs, g.maxDelay)
		if err != nil {
			return nil, nil, nil, err
		}
		wa, err := series.NewArray(wb, len(wb))
		if err != nil {
			return nil, nil, nil, err
		}
		out, err := series.Standardize([]*series.Array{yb, wa}, []string{"y_batch", "w_batch"})
		if err != nil {
			return nil, nil, nil, err
		}
		labels = []*tensors.Tensor{out[0].Tensor, out[1].Tensor}
	}

	g.cursor++
	if g.cursor == len(g.ranges) {
		g.cursor = 0
		g.fresh = true
	}
	return g, inputs, labels, nil
}
