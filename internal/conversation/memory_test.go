package conversation

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendAndHistory(t *testing.T) {
	s := NewMemoryStore(0)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append("c1",
			Turn{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			Turn{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i), Agent: "openai"},
		))
	}

	h, err := s.History("c1")
	require.NoError(t, err)
	require.Len(t, h, 6)
	assert.Equal(t, "q0", h[0].Content)
	assert.Equal(t, "a2", h[5].Content)
	assert.Equal(t, "openai", h[5].Agent)
}

func TestMemoryStore_UnknownIsEmpty(t *testing.T) {
	h, err := NewMemoryStore(0).History("nope")
	require.NoError(t, err)
	assert.Empty(t, h)
}

func TestMemoryStore_EmptyID(t *testing.T) {
	err := NewMemoryStore(0).Append("", Turn{Role: RoleUser, Content: "x"})
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestMemoryStore_MaxTurnsDropsOldest(t *testing.T) {
	s := NewMemoryStore(4)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append("c", Turn{Role: RoleUser, Content: fmt.Sprint(i)}))
	}
	h, _ := s.History("c")
	require.Len(t, h, 4)
	assert.Equal(t, "1", h[0].Content)
	assert.Equal(t, "4", h[3].Content)
}

func TestMemoryStore_HistoryIsCopy(t *testing.T) {
	s := NewMemoryStore(0)
	require.NoError(t, s.Append("c", Turn{Role: RoleUser, Content: "original"}))

	h, _ := s.History("c")
	h[0].Content = "mutated"

	again, _ := s.History("c")
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	s := NewMemoryStore(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append("shared",
				Turn{Role: RoleUser, Content: "q"},
				Turn{Role: RoleAssistant, Content: "a"},
			)
		}()
	}
	wg.Wait()

	h, _ := s.History("shared")
	require.Len(t, h, 100)
	// pairs are never split
	for i := 0; i < len(h); i += 2 {
		assert.Equal(t, RoleUser, h[i].Role)
		assert.Equal(t, RoleAssistant, h[i+1].Role)
	}
	assert.Equal(t, 1, s.Len())
}
