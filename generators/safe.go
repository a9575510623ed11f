package generators

import (
	"sync"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
)

// Safe wraps a dataset so that advancing it is mutually exclusive:
// worker goroutines pulling batches from the same instance serialize on
// "produce the next value" and never tear the cursor state or
// double-advance it. All other access patterns are unchanged.
func Safe(ds train.Dataset) train.Dataset {
	return &safeDataset{ds: ds}
}

type safeDataset struct {
	mu sync.Mutex
	ds train.Dataset
}

var _ train.Dataset = (*safeDataset)(nil)

// Name implements train.Dataset.
func (s *safeDataset) Name() string {
	return s.ds.Name() + " [Safe]"
}

// Reset implements train.Dataset.
func (s *safeDataset) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds.Reset()
}

// Yield implements train.Dataset.
func (s *safeDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ds.Yield()
}
