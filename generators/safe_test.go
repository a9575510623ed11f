package generators

import (
	"sync"
	"testing"

	"github.com/Noofbiz/timeBowl/series"
)

func TestSafe_DelegatesNameAndReset(t *testing.T) {
	x := rampSource(t, 10, 1)
	g, err := NewTimeDelayCount([]*series.Array{x}, nil, nil, 2, 5, false)
	if err != nil {
		t.Fatalf("NewTimeDelayCount error: %v", err)
	}
	s := Safe(g)
	if s.Name() != "TimeDelay [Safe]" {
		t.Fatalf("unexpected wrapped name: %q", s.Name())
	}
	if _, _, _, err := s.Yield(); err != nil {
		t.Fatalf("Yield error: %v", err)
	}
	s.Reset()
	_, inputs, _, err := s.Yield()
	if err != nil {
		t.Fatalf("Yield after Reset error: %v", err)
	}
	xb, err := series.FromTensor(inputs[0])
	if err != nil {
		t.Fatalf("FromTensor error: %v", err)
	}
	if xb.Data[0] != 0 {
		t.Fatalf("Reset through wrapper did not rewind: %v", xb.Data[0])
	}
}

func TestSafe_ConcurrentConsumersSeeEveryBatch(t *testing.T) {
	n := 100
	batchSize := 10
	x := rampSource(t, n, 1)
	y := rampSource(t, n, 1)
	g, err := NewTimeDelayCount([]*series.Array{x}, y, nil, 1, batchSize, false)
	if err != nil {
		t.Fatalf("NewTimeDelayCount error: %v", err)
	}
	s := Safe(g)

	// 4 workers pull 25 batches each: 10 full epochs in total. With the
	// cursor advance serialized, every epoch's worth of ids shows up
	// exactly once per epoch, so each id is seen exactly 10 times.
	const workers = 4
	const pullsPerWorker = 25

	var mu sync.Mutex
	seen := make(map[float32]int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < pullsPerWorker; i++ {
				_, _, labels, err := s.Yield()
				if err != nil {
					t.Errorf("Yield error: %v", err)
					return
				}
				yb, err := series.FromTensor(labels[0])
				if err != nil {
					t.Errorf("FromTensor error: %v", err)
					return
				}
				mu.Lock()
				for _, v := range yb.Data {
					seen[v]++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("saw %d distinct ids, want %d", len(seen), n)
	}
	for v, c := range seen {
		if c != workers*pullsPerWorker*batchSize/n {
			t.Fatalf("id %v pulled %d times, want %d", v, c, workers*pullsPerWorker*batchSize/n)
		}
	}
}
