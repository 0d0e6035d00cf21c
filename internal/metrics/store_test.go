package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_UnknownProvider(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Snapshot("openai"))
	_, ok := s.AverageSatisfaction("openai")
	assert.False(t, ok)
}

func TestStore_RecordAndSnapshot(t *testing.T) {
	s := NewStore()
	s.Record("openai", Sample{ResponseTimeMs: 100, Satisfaction: 80, Accuracy: 50, Engagement: 2})
	s.Record("openai", Sample{ResponseTimeMs: 300, Satisfaction: 60, Accuracy: 100, Engagement: 4})

	avg, ok := s.AverageSatisfaction("openai")
	require.True(t, ok)
	assert.InDelta(t, 70, avg, 1e-9)

	m := s.Snapshot("openai")
	require.NotNil(t, m)
	assert.Equal(t, 2, m.TotalInteractions)
	assert.Equal(t, Summary{Avg: 200, Min: 100, Max: 300}, m.ResponseTime)
	assert.Equal(t, Summary{Avg: 75, Min: 50, Max: 100}, m.Accuracy)
	assert.Equal(t, Summary{Avg: 3, Min: 2, Max: 4}, m.Engagement)
}

func TestStore_WindowsCapAt100(t *testing.T) {
	s := NewStore()
	for i := 0; i < 150; i++ {
		s.Record("claude", Sample{ResponseTimeMs: float64(i), Satisfaction: float64(i), Accuracy: float64(i), Engagement: float64(i)})
	}

	rt, sat, acc, eng := s.Lengths("claude")
	for _, n := range []int{rt, sat, acc, eng} {
		assert.Equal(t, WindowSize, n)
	}
	m := s.Snapshot("claude")
	assert.Equal(t, 150, m.TotalInteractions)
	assert.Equal(t, float64(50), m.Satisfaction.Min)
}

func TestStore_ConcurrentRecord(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				s.Record("gemini", Sample{Satisfaction: 50})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 200, s.Snapshot("gemini").TotalInteractions)
}

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.ObserveRequest("openai", OutcomeSuccess, 120*time.Millisecond)
	r.ObserveRequest("openai", OutcomeError, time.Second)
	r.ObserveRequest("openai", OutcomeSuccess, 80*time.Millisecond)
	r.ObserveQuality("openai", 72)
	r.Fallback()
	r.Improvement()
	r.Improvement()

	assert.Equal(t, float64(2), testutil.ToFloat64(r.requests.WithLabelValues("openai", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.requests.WithLabelValues("openai", OutcomeError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.fallbacks))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.improvements))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveRequest("x", OutcomeSuccess, time.Second)
		r.ObserveQuality("x", 10)
		r.Fallback()
		r.Improvement()
	})
}
