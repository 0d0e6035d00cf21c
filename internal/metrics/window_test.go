package metrics

import (
	"testing"
)

func TestWindow_EvictsOldest(t *testing.T) {
	w := NewWindow(WindowSize)
	for i := 1; i <= WindowSize+1; i++ {
		w.Push(float64(i))
	}

	if w.Len() != WindowSize {
		t.Fatalf("len: got %d, want %d", w.Len(), WindowSize)
	}
	vals := w.Values()
	if vals[0] != 2 {
		t.Errorf("oldest: got %v, want 2", vals[0])
	}
	if vals[len(vals)-1] != float64(WindowSize+1) {
		t.Errorf("newest: got %v, want %d", vals[len(vals)-1], WindowSize+1)
	}
}

func TestWindow_NeverExceedsCapacity(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 1000; i++ {
		w.Push(float64(i))
		if w.Len() > 3 {
			t.Fatalf("len %d exceeds capacity after %d pushes", w.Len(), i+1)
		}
	}
}

func TestWindow_Summary(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []float64{42}, Summary{Avg: 42, Min: 42, Max: 42}},
		{"mixed", []float64{10, 30, 20}, Summary{Avg: 20, Min: 10, Max: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(10)
			for _, v := range tt.in {
				w.Push(v)
			}
			if got := w.Summary(); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestWindow_SummaryAfterWrap(t *testing.T) {
	w := NewWindow(2)
	w.Push(100)
	w.Push(1)
	w.Push(3)
	if got := w.Summary(); got != (Summary{Avg: 2, Min: 1, Max: 3}) {
		t.Errorf("got %+v", got)
	}
}
