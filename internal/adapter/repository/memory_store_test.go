package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"repo-insight/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(0)
	require.NoError(t, err)

	record := &domain.RepositoryRecord{ID: "1", FullName: "golang/go"}
	require.NoError(t, store.Put(ctx, record))

	got, ok, err := store.Get(ctx, "Golang/Go")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, record, got)

	got, ok, err = store.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, record, got)

	_, ok, err = store.Get(ctx, "golang/tools")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = store.GetByID(ctx, "404")
	assert.False(t, ok)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store, _ := NewMemoryStore(0)

	store.Put(ctx, &domain.RepositoryRecord{ID: "1", FullName: "a/b", Stars: "1"})
	store.Put(ctx, &domain.RepositoryRecord{ID: "1", FullName: "a/b", Stars: "2"})

	got, ok, _ := store.Get(ctx, "a/b")
	assert.True(t, ok)
	assert.Equal(t, "2", got.Stars)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_Unbounded(t *testing.T) {
	ctx := context.Background()
	store, _ := NewMemoryStore(0)

	for i := 0; i < 500; i++ {
		store.Put(ctx, &domain.RepositoryRecord{ID: fmt.Sprint(i), FullName: fmt.Sprintf("owner/repo-%d", i)})
	}
	assert.Equal(t, 500, store.Len())

	_, ok, _ := store.GetByID(ctx, "0")
	assert.True(t, ok)
}

func TestMemoryStore_BoundedEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore(2)
	require.NoError(t, err)

	store.Put(ctx, &domain.RepositoryRecord{ID: "1", FullName: "a/one"})
	store.Put(ctx, &domain.RepositoryRecord{ID: "2", FullName: "a/two"})
	store.Put(ctx, &domain.RepositoryRecord{ID: "3", FullName: "a/three"})

	assert.Equal(t, 2, store.Len())

	_, ok, _ := store.Get(ctx, "a/one")
	assert.False(t, ok)
	_, ok, _ = store.GetByID(ctx, "1")
	assert.False(t, ok)

	_, ok, _ = store.GetByID(ctx, "3")
	assert.True(t, ok)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store, _ := NewMemoryStore(0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Put(ctx, &domain.RepositoryRecord{ID: fmt.Sprint(i % 5), FullName: fmt.Sprintf("o/r%d", i%5)})
			store.Get(ctx, fmt.Sprintf("o/r%d", i%5))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, store.Len())
}
