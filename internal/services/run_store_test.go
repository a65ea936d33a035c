package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAt(id string, at time.Time) *Run {
	return &Run{ID: id, CreatedAt: at}
}

func TestMemoryRunStore_CRUD(t *testing.T) {
	store := NewMemoryRunStore(0)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	evicted, err := store.Create(runAt("a", base))
	require.NoError(t, err)
	assert.Empty(t, evicted)

	_, err = store.Create(runAt("a", base))
	assert.ErrorIs(t, err, ErrRunExists)

	got, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	require.NoError(t, store.Delete("a"))
	assert.ErrorIs(t, store.Delete("a"), ErrRunNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryRunStore_EvictsOldest(t *testing.T) {
	store := NewMemoryRunStore(2)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2"} {
		_, err := store.Create(runAt(id, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	evicted, err := store.Create(runAt("r3", base.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, evicted)
	assert.Equal(t, 2, store.Len())

	_, err = store.Get("r1")
	assert.ErrorIs(t, err, ErrRunNotFound)

	ids := []string{}
	for _, r := range store.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r3", "r2"}, ids, "newest first")
}

func TestMemoryRunStore_DeleteFreesSlot(t *testing.T) {
	store := NewMemoryRunStore(2)
	now := time.Now()
	_, _ = store.Create(runAt("a", now))
	_, _ = store.Create(runAt("b", now))
	require.NoError(t, store.Delete("a"))

	evicted, err := store.Create(runAt("c", now))
	require.NoError(t, err)
	assert.Empty(t, evicted)
}

func TestMemoryRunStore_Concurrent(t *testing.T) {
	store := NewMemoryRunStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("run-%d", n)
			_, _ = store.Create(runAt(id, time.Now()))
			_, _ = store.Get(id)
			_ = store.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, store.Len())
}
