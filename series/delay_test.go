package series

import "testing"

func TestSpanDelays_CountsFromZero(t *testing.T) {
	got := SpanDelays(3)
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("SpanDelays(3) = %v", got)
	}
	if MaxDelay(got) != 2 {
		t.Fatalf("MaxDelay = %d, want 2", MaxDelay(got))
	}
	if MaxDelay(nil) != 0 {
		t.Fatalf("MaxDelay(nil) = %d, want 0", MaxDelay(nil))
	}
}

func TestDelayIndices_ClampsAtStart(t *testing.T) {
	rows, err := DelayIndices([]int{0, 1, 4}, []int{0, 1}, 5)
	if err != nil {
		t.Fatalf("DelayIndices error: %v", err)
	}
	want := [][]int{{0, 1, 4}, {0, 0, 3}}
	for j := range want {
		for i := range want[j] {
			if rows[j][i] != want[j][i] {
				t.Fatalf("row %d: got %v, want %v", j, rows[j], want[j])
			}
		}
	}
}

func TestDelayIndices_StayInRange(t *testing.T) {
	n := 7
	ids := []int{0, 1, 3, 6}
	delays := []int{0, 2, 5, 9}
	rows, err := DelayIndices(ids, delays, n)
	if err != nil {
		t.Fatalf("DelayIndices error: %v", err)
	}
	for j, d := range delays {
		for i, id := range ids {
			got := rows[j][i]
			if got < 0 || got > n-1 {
				t.Fatalf("delay %d index %d out of range: %d", d, id, got)
			}
			if id-d >= 0 && got != id-d {
				t.Fatalf("delay %d index %d: got %d, want %d", d, id, got, id-d)
			}
			if id-d < 0 && got != 0 {
				t.Fatalf("delay %d index %d: got %d, want clamp to 0", d, id, got)
			}
		}
	}
}

func TestDelayIndices_RejectsBadInput(t *testing.T) {
	if _, err := DelayIndices([]int{0}, []int{0}, 0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
	if _, err := DelayIndices([]int{0}, nil, 5); err == nil {
		t.Fatal("expected error for empty delay set")
	}
	if _, err := DelayIndices([]int{0}, []int{-1}, 5); err == nil {
		t.Fatal("expected error for negative delay")
	}
	if _, err := DelayIndices([]int{5}, []int{0}, 5); err == nil {
		t.Fatal("expected error for out-of-range batch index")
	}
}

func TestBatchWeights_ZeroesWarmupFrames(t *testing.T) {
	// Delay count 3 means the largest delay is 2: ids 0 and 1 have
	// incomplete windows, id 2 is the first complete one.
	w, err := BatchWeights(nil, []int{0, 1, 2, 5}, MaxDelay(SpanDelays(3)))
	if err != nil {
		t.Fatalf("BatchWeights error: %v", err)
	}
	want := []float32{0, 0, 1, 1}
	for i := range want {
		if w[i] != want[i] {
			t.Fatalf("weights = %v, want %v", w, want)
		}
	}
}

func TestBatchWeights_GathersSuppliedWeights(t *testing.T) {
	weights := mustArray(t, []float32{10, 20, 30, 40, 50}, 5)
	w, err := BatchWeights(weights, []int{4, 0, 2}, 2)
	if err != nil {
		t.Fatalf("BatchWeights error: %v", err)
	}
	want := []float32{50, 0, 30}
	for i := range want {
		if w[i] != want[i] {
			t.Fatalf("weights = %v, want %v", w, want)
		}
	}
}

func TestBatchWeights_RejectsBadWeights(t *testing.T) {
	bad := mustArray(t, []float32{1, 2, 3, 4}, 2, 2)
	if _, err := BatchWeights(bad, []int{0}, 0); err == nil {
		t.Fatal("expected error for non-1-D weights")
	}
	weights := mustArray(t, []float32{1, 2}, 2)
	if _, err := BatchWeights(weights, []int{2}, 0); err == nil {
		t.Fatal("expected error for out-of-range weight index")
	}
}
