package series

import "github.com/pkg/errors"

// checkDelayIDs validates the per-delay index rows against the source
// array and returns the batch size.
func checkDelayIDs(x *Array, delayIDs [][]int) (int, error) {
	if x == nil {
		return 0, errors.New("series: nil source array")
	}
	if len(delayIDs) == 0 {
		return 0, errors.New("series: empty delay index set")
	}
	batch := len(delayIDs[0])
	if batch == 0 {
		return 0, errors.New("series: empty batch")
	}
	n := x.Steps()
	for j, row := range delayIDs {
		if len(row) != batch {
			return 0, errors.Errorf("series: delay row %d has %d indices, expected %d", j, len(row), batch)
		}
		for _, id := range row {
			if id < 0 || id >= n {
				return 0, errors.Errorf("series: delay index %d out of range [0, %d)", id, n)
			}
		}
	}
	return batch, nil
}

// AssembleDelayed gathers x at each per-delay index row and lays the
// result out as (batch, delay, trailing...). The natural gather order
// is (delay, batch, trailing...); the batch and delay axes are swapped
// so each sample carries its own delay stack, with the trailing axes
// kept in their original order.
func AssembleDelayed(x *Array, delayIDs [][]int) (*Array, error) {
	batch, err := checkDelayIDs(x, delayIDs)
	if err != nil {
		return nil, err
	}
	nd := len(delayIDs)
	sz := x.SampleSize()
	out := make([]float32, batch*nd*sz)
	for d, row := range delayIDs {
		for b, id := range row {
			copy(out[(b*nd+d)*sz:(b*nd+d+1)*sz], x.Sample(id))
		}
	}
	dims := append([]int{batch, nd}, x.Dims[1:]...)
	return &Array{Data: out, Dims: dims}, nil
}

// AssembleDelayedConv3D is the 3-D convolution layout of the gather:
// (batch, lead, delay, rest...), where lead is the first trailing axis
// of x. Requires x to have rank at least 2.
func AssembleDelayedConv3D(x *Array, delayIDs [][]int) (*Array, error) {
	batch, err := checkDelayIDs(x, delayIDs)
	if err != nil {
		return nil, err
	}
	if len(x.Dims) < 2 {
		return nil, errors.Errorf("series: conv3d layout needs rank >= 2, got shape %v", x.Dims)
	}
	nd := len(delayIDs)
	lead := x.Dims[1]
	rest := 1
	for _, d := range x.Dims[2:] {
		rest *= d
	}
	out := make([]float32, batch*lead*nd*rest)
	for d, row := range delayIDs {
		for b, id := range row {
			src := x.Sample(id)
			for c := 0; c < lead; c++ {
				dst := ((b*lead+c)*nd + d) * rest
				copy(out[dst:dst+rest], src[c*rest:(c+1)*rest])
			}
		}
	}
	dims := append([]int{batch, lead, nd}, x.Dims[2:]...)
	return &Array{Data: out, Dims: dims}, nil
}

// Gather selects the given time steps of x in order, producing an array
// of shape (len(ids), trailing...). Targets are gathered this way, at
// the raw batch ids: they are never delay-stacked.
func Gather(x *Array, ids []int) (*Array, error) {
	if x == nil {
		return nil, errors.New("series: nil source array")
	}
	if len(ids) == 0 {
		return nil, errors.New("series: empty index set")
	}
	n := x.Steps()
	sz := x.SampleSize()
	out := make([]float32, len(ids)*sz)
	for j, id := range ids {
		if id < 0 || id >= n {
			return nil, errors.Errorf("series: index %d out of range [0, %d)", id, n)
		}
		copy(out[j*sz:(j+1)*sz], x.Sample(id))
	}
	dims := append([]int{len(ids)}, x.Dims[1:]...)
	return &Array{Data: out, Dims: dims}, nil
}
