package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
)

func TestMemoryStore_CreateGetUpdate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	j := newTestJob("job-1", 5)

	require.NoError(t, store.Create(ctx, j))
	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobPending, got.Status)

	err = store.Update(ctx, "job-1", func(job *domain.OptimizationJob) {
		job.Progress = 42
	})
	require.NoError(t, err)
	got, _ = store.Get(ctx, "job-1")
	assert.Equal(t, 42, got.Progress)
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.True(t, apperror.Is(err, apperror.CodeJobNotFound), "expected CodeJobNotFound, got %v", err)
}

func TestMemoryStore_ListPendingOrdersByPriority(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	store.Create(ctx, domain.OptimizationJob{ID: "low", Priority: 1, Status: domain.JobPending, CreatedAt: now})
	store.Create(ctx, domain.OptimizationJob{ID: "high", Priority: 9, Status: domain.JobPending, CreatedAt: now.Add(time.Second)})
	store.Create(ctx, domain.OptimizationJob{ID: "done", Priority: 9, Status: domain.JobCompleted, CreatedAt: now})

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "high", pending[0].ID)
}
