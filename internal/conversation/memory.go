package conversation

import (
	"errors"
	"sync"
)

// ErrEmptyID is returned when a conversation id is blank.
var ErrEmptyID = errors.New("conversation id is empty")

// #region memory-store
// MemoryStore is a process-lifetime Store backed by a map.
type MemoryStore struct {
	mu       sync.RWMutex
	maxTurns int // 0 = unbounded
	convs    map[string][]Turn
}

// NewMemoryStore creates a store. When maxTurns > 0 the oldest turns of a
// conversation are dropped once it grows past that many.
func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns < 0 {
		maxTurns = 0
	}
	return &MemoryStore{maxTurns: maxTurns, convs: make(map[string][]Turn)}
}

// #endregion memory-store

// #region append
// Append adds turns to the end of the conversation, creating it on first use.
// All turns of one call land together.
func (s *MemoryStore) Append(id string, turns ...Turn) error {
	if id == "" {
		return ErrEmptyID
	}
	if len(turns) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := append(s.convs[id], turns...)
	if s.maxTurns > 0 && len(h) > s.maxTurns {
		h = append([]Turn(nil), h[len(h)-s.maxTurns:]...)
	}
	s.convs[id] = h
	return nil
}

// #endregion append

// #region history
// History returns a copy of the conversation. Unknown ids yield an empty slice.
func (s *MemoryStore) History(id string) ([]Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := s.convs[id]
	out := make([]Turn, len(h))
	copy(out, h)
	return out, nil
}

// Len reports how many conversations are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

// #endregion history
