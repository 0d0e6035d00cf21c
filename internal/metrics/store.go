package metrics

import "sync"

// #region sample
// Sample is one observation pushed after a scored response.
type Sample struct {
	ResponseTimeMs float64 // attempt wall time, improvement included
	Satisfaction   float64 // composite quality score
	Accuracy       float64 // relevance sub-score
	Engagement     float64 // conversation length after the turn
}

// AgentMetrics is the reduced view of one provider's windows.
type AgentMetrics struct {
	ResponseTime      Summary `json:"response_time"`
	Satisfaction      Summary `json:"satisfaction"`
	Accuracy          Summary `json:"accuracy"`
	Engagement        Summary `json:"engagement"`
	TotalInteractions int     `json:"total_interactions"`
}

// #endregion sample

// #region provider-window
type providerWindow struct {
	responseTime *Window
	satisfaction *Window
	accuracy     *Window
	engagement   *Window
	total        int
}

func newProviderWindow(size int) *providerWindow {
	return &providerWindow{
		responseTime: NewWindow(size),
		satisfaction: NewWindow(size),
		accuracy:     NewWindow(size),
		engagement:   NewWindow(size),
	}
}

// #endregion provider-window

// #region store
// Store holds rolling windows per provider id. Windows are created on the
// first recorded sample.
type Store struct {
	mu      sync.RWMutex
	size    int
	windows map[string]*providerWindow
}

// NewStore creates a store with WindowSize-sample windows.
func NewStore() *Store {
	return NewStoreWithSize(WindowSize)
}

// NewStoreWithSize is NewStore with a custom window capacity.
func NewStoreWithSize(size int) *Store {
	return &Store{size: size, windows: make(map[string]*providerWindow)}
}

func (s *Store) Record(providerID string, sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[providerID]
	if !ok {
		w = newProviderWindow(s.size)
		s.windows[providerID] = w
	}
	w.responseTime.Push(sample.ResponseTimeMs)
	w.satisfaction.Push(sample.Satisfaction)
	w.accuracy.Push(sample.Accuracy)
	w.engagement.Push(sample.Engagement)
	w.total++
}

// AverageSatisfaction returns the rolling mean quality score and whether
// any samples exist.
func (s *Store) AverageSatisfaction(providerID string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[providerID]
	if !ok || w.satisfaction.Len() == 0 {
		return 0, false
	}
	return w.satisfaction.Summary().Avg, true
}

// Snapshot returns the provider's summaries, or nil if nothing was recorded.
// TotalInteractions counts every sample ever recorded, not just the window.
func (s *Store) Snapshot(providerID string) *AgentMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[providerID]
	if !ok {
		return nil
	}
	return &AgentMetrics{
		ResponseTime:      w.responseTime.Summary(),
		Satisfaction:      w.satisfaction.Summary(),
		Accuracy:          w.accuracy.Summary(),
		Engagement:        w.engagement.Summary(),
		TotalInteractions: w.total,
	}
}

// Lengths reports the current size of each window, for diagnostics.
func (s *Store) Lengths(providerID string) (responseTime, satisfaction, accuracy, engagement int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.windows[providerID]
	if !ok {
		return 0, 0, 0, 0
	}
	return w.responseTime.Len(), w.satisfaction.Len(), w.accuracy.Len(), w.engagement.Len()
}

// #endregion store
