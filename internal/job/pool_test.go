package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
)

func newTestJob(id string, priority int) domain.OptimizationJob {
	return domain.OptimizationJob{
		ID:        id,
		Kind:      domain.JobLoadMatching,
		Priority:  priority,
		Status:    domain.JobPending,
		CreatedAt: time.Now(),
	}
}

func TestPool_ProcessesJobToCompletion(t *testing.T) {
	store := NewMemoryStore()
	queue := NewQueue()
	j := newTestJob("job-1", 5)
	store.Create(context.Background(), j)
	queue.Enqueue(j.ID, j.Priority, j.CreatedAt)

	handled := make(chan struct{})
	pool := NewPool(store, queue, func(ctx context.Context, job domain.OptimizationJob, report func(int)) error {
		report(50)
		close(handled)
		return nil
	}, 2, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { pool.Run(ctx); close(done) }()

	select {
	case <-handled:
	case <-time.After(time.Second):
		require.Fail(t, "handler never invoked")
	}

	// Give the worker a moment to persist the completed status after the
	// handler returns.
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	got, err := store.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
}

func TestPool_HandlerErrorMarksFailed(t *testing.T) {
	store := NewMemoryStore()
	queue := NewQueue()
	j := newTestJob("job-err", 1)
	store.Create(context.Background(), j)
	queue.Enqueue(j.ID, j.Priority, j.CreatedAt)

	handled := make(chan struct{})
	pool := NewPool(store, queue, func(ctx context.Context, job domain.OptimizationJob, report func(int)) error {
		defer close(handled)
		return errTestFailure{}
	}, 1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { pool.Run(ctx); close(done) }()

	<-handled
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	got, _ := store.Get(context.Background(), "job-err")
	assert.Equal(t, domain.JobFailed, got.Status)
	assert.NotNil(t, got.Error, "expected non-nil job error")
}

type errTestFailure struct{}

func (errTestFailure) Error() string { return "synthetic failure" }

func TestPool_CancelPendingJob(t *testing.T) {
	store := NewMemoryStore()
	queue := NewQueue()
	j := newTestJob("job-pending", 1)
	store.Create(context.Background(), j)
	queue.Enqueue(j.ID, j.Priority, j.CreatedAt)

	pool := NewPool(store, queue, func(ctx context.Context, job domain.OptimizationJob, report func(int)) error {
		return nil
	}, 1, time.Second)

	err := pool.Cancel(context.Background(), "job-pending")
	require.NoError(t, err)
	got, _ := store.Get(context.Background(), "job-pending")
	assert.Equal(t, domain.JobCancelled, got.Status)
}
