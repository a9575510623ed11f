package batches

import "github.com/pkg/errors"

// This file holds the batch partitioning arithmetic: splitting a time
// axis of a given length into consecutive index ranges, either back to
// back for ordinary mini-batch training or overlapping for models that
// consume convolution-style context windows.

// Range is a half-open [Start, End) interval over the leading time axis.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Make splits [0, size) into consecutive ranges of batchSize indices.
// Ranges are contiguous and non-overlapping; the final range is clipped
// to size when batchSize does not divide it evenly.
func Make(size, batchSize int) ([]Range, error) {
	if size <= 0 {
		return nil, errors.Errorf("batches: size must be positive, got %d", size)
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("batches: batch size must be positive, got %d", batchSize)
	}
	n := (size + batchSize - 1) / batchSize
	ranges := make([]Range, 0, n)
	for i := 0; i < n; i++ {
		end := (i + 1) * batchSize
		if end > size {
			end = size
		}
		ranges = append(ranges, Range{Start: i * batchSize, End: end})
	}
	return ranges, nil
}

// MakeOverlap splits [0, size) into windows of batchSize indices where
// consecutive windows share exactly overlap indices. Only the final
// window may be shorter, clipped at size. filtLength is carried for
// callers sizing convolution filters; it does not enter the arithmetic.
//
// overlap must be smaller than batchSize: at overlap >= batchSize the
// step between windows stops being positive and the partition is
// undefined, so the configuration is rejected here.
func MakeOverlap(size, batchSize, overlap, filtLength int) ([]Range, error) {
	_ = filtLength
	if size <= 0 {
		return nil, errors.Errorf("batches: size must be positive, got %d", size)
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("batches: batch size must be positive, got %d", batchSize)
	}
	if batchSize > size {
		return nil, errors.Errorf("batches: batch size %d exceeds size %d", batchSize, size)
	}
	if overlap < 0 {
		return nil, errors.Errorf("batches: overlap must be non-negative, got %d", overlap)
	}
	if overlap >= batchSize {
		return nil, errors.Errorf("batches: overlap %d must be smaller than batch size %d", overlap, batchSize)
	}
	step := batchSize - overlap
	n := (size-batchSize+step-1)/step + 1
	ranges := make([]Range, 0, n)
	for i := 0; i < n; i++ {
		end := i*step + batchSize
		if end > size {
			end = size
		}
		ranges = append(ranges, Range{Start: i * step, End: end})
	}
	return ranges, nil
}
