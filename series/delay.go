package series

import "github.com/pkg/errors"

// SpanDelays returns the delay set [0, k): the current step plus the
// k-1 preceding ones.
func SpanDelays(k int) []int {
	delays := make([]int, k)
	for i := range delays {
		delays[i] = i
	}
	return delays
}

// MaxDelay returns the largest delay in the set, or 0 for an empty set.
func MaxDelay(delays []int) int {
	m := 0
	for _, d := range delays {
		if d > m {
			m = d
		}
	}
	return m
}

// DelayIndices builds one index row per delay: row j holds
// clamp(id - delays[j], 0, n-1) for every id in batchIDs. Lookups near
// the start of the recording clamp to 0, so the earliest frame repeats
// until the delay window is complete. Row order follows the delay set
// and fixes the time-axis ordering of the assembled tensor.
func DelayIndices(batchIDs, delays []int, n int) ([][]int, error) {
	if n <= 0 {
		return nil, errors.Errorf("series: valid length must be positive, got %d", n)
	}
	if len(delays) == 0 {
		return nil, errors.New("series: empty delay set")
	}
	for _, d := range delays {
		if d < 0 {
			return nil, errors.Errorf("series: negative delay %d", d)
		}
	}
	for _, id := range batchIDs {
		if id < 0 || id >= n {
			return nil, errors.Errorf("series: batch index %d out of range [0, %d)", id, n)
		}
	}
	rows := make([][]int, len(delays))
	for j, d := range delays {
		row := make([]int, len(batchIDs))
		for i, id := range batchIDs {
			v := id - d
			if v < 0 {
				v = 0
			}
			if v > n-1 {
				v = n - 1
			}
			row[i] = v
		}
		rows[j] = row
	}
	return rows, nil
}

// BatchWeights gathers per-sample weights for the batch, or synthesizes
// all-ones when weights is nil. Entries whose batch id is strictly
// below maxDelay are zeroed: their delay window would reach before the
// start of the recording, so the sample must not contribute to the
// loss.
func BatchWeights(weights *Array, batchIDs []int, maxDelay int) ([]float32, error) {
	w := make([]float32, len(batchIDs))
	if weights == nil {
		for i := range w {
			w[i] = 1
		}
	} else {
		if len(weights.Dims) != 1 {
			return nil, errors.Errorf("series: weights must be 1-D, got shape %v", weights.Dims)
		}
		for i, id := range batchIDs {
			if id < 0 || id >= weights.Steps() {
				return nil, errors.Errorf("series: weight index %d out of range [0, %d)", id, weights.Steps())
			}
			w[i] = weights.Data[id]
		}
	}
	for i, id := range batchIDs {
		if id < maxDelay {
			w[i] = 0
		}
	}
	return w, nil
}
