package series

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// Package series holds the dense arrays the generators slice batches
// from. An Array stores its values in one contiguous float32 buffer
// with row-major layout, the same layout gomlx tensors use, so
// conversion in either direction is a single copy-free call. The
// leading dimension is always the time axis.

// Array is a dense row-major float32 array whose leading axis is time.
type Array struct {
	Data []float32
	Dims []int
}

// NewArray wraps data in an Array with the given dimensions. The
// element count implied by dims must match len(data).
func NewArray(data []float32, dims ...int) (*Array, error) {
	if len(dims) == 0 {
		return nil, errors.New("series: array needs at least the time dimension")
	}
	n := 1
	for _, d := range dims {
		if d <= 0 {
			return nil, errors.Errorf("series: dimensions must be positive, got %v", dims)
		}
		n *= d
	}
	if n != len(data) {
		return nil, errors.Errorf("series: dims %v require %d elements, got %d", dims, n, len(data))
	}
	return &Array{Data: data, Dims: dims}, nil
}

// Steps returns the length of the leading time axis.
func (a *Array) Steps() int { return a.Dims[0] }

// SampleSize returns the number of elements in a single time step.
func (a *Array) SampleSize() int {
	n := 1
	for _, d := range a.Dims[1:] {
		n *= d
	}
	return n
}

// Sample returns the flat values of time step i. The returned slice
// aliases the array's backing buffer.
func (a *Array) Sample(i int) []float32 {
	sz := a.SampleSize()
	return a.Data[i*sz : (i+1)*sz]
}

// Tensor converts the array into a gomlx tensor of the same shape.
func (a *Array) Tensor() *tensors.Tensor {
	return tensors.FromFlatDataAndDimensions(a.Data, a.Dims...)
}

// FromTensor copies a float32 tensor into an Array.
func FromTensor(t *tensors.Tensor) (*Array, error) {
	if t == nil {
		return nil, errors.New("series: nil tensor")
	}
	dims := t.Shape().Dimensions
	if len(dims) == 0 {
		return nil, errors.New("series: scalar tensors have no time axis")
	}
	return NewArray(tensors.CopyFlatData[float32](t), dims...)
}

// NamedTensor pairs a tensor with the name the training loop knows it
// by (x_batch1, y_batch, w_batch, ...).
type NamedTensor struct {
	Name   string
	Tensor *tensors.Tensor
}

// Standardize packages assembled arrays into the named container format
// the downstream training loop expects. It checks that names line up
// with the arrays one to one and that every array shares the same
// leading (batch) dimension, reporting the offending tensor by name
// with the expected and actual shapes.
func Standardize(arrays []*Array, names []string) ([]NamedTensor, error) {
	if len(arrays) != len(names) {
		return nil, errors.Errorf("series: %d arrays supplied for %d names", len(arrays), len(names))
	}
	if len(arrays) == 0 {
		return nil, errors.New("series: nothing to standardize")
	}
	for i, a := range arrays {
		if a == nil || len(a.Data) == 0 {
			return nil, errors.Errorf("series: tensor %q is empty", names[i])
		}
	}
	batch := arrays[0].Dims[0]
	out := make([]NamedTensor, len(arrays))
	for i, a := range arrays {
		if a.Dims[0] != batch {
			return nil, errors.Errorf("series: tensor %q has leading dimension %d, expected %d (shape %v)",
				names[i], a.Dims[0], batch, a.Dims)
		}
		out[i] = NamedTensor{Name: names[i], Tensor: a.Tensor()}
	}
	return out, nil
}
