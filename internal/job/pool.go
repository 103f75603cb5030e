package job

import (
	"context"
	"sync"
	"time"

	"freightengine/internal/domain"
	"freightengine/pkg/apperror"
	"freightengine/pkg/logger"
	"freightengine/pkg/metrics"
)

// DefaultMaxConcurrentJobs is MAX_CONCURRENT_JOBS (spec §6).
const DefaultMaxConcurrentJobs = 10

// DefaultJobTimeout is JOB_TIMEOUT_MS (spec §6), used for both stall
// detection and the per-job cancellation deadline.
const DefaultJobTimeout = 300 * time.Second

// Handler executes one job's algorithm, given a context cancelled on
// timeout or explicit cancellation, and a progress reporter the handler
// should call at least on every algorithm milestone (spec §4.J step 3).
type Handler func(ctx context.Context, j domain.OptimizationJob, report func(progress int)) error

// Pool is the bounded worker pool draining Queue against Store, executing
// jobs through a caller-supplied Handler (spec §4.G/§5).
type Pool struct {
	store   Store
	queue   *Queue
	handler Handler
	workers int
	timeout time.Duration

	mu      sync.Mutex
	running map[string]context.CancelFunc
	lastProgressAt map[string]time.Time

	wg sync.WaitGroup
}

// NewPool constructs a Pool with the given worker count and per-job
// timeout; zero values fall back to the spec defaults.
func NewPool(store Store, queue *Queue, handler Handler, workers int, timeout time.Duration) *Pool {
	if workers <= 0 {
		workers = DefaultMaxConcurrentJobs
	}
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	return &Pool{
		store:          store,
		queue:          queue,
		handler:        handler,
		workers:        workers,
		timeout:        timeout,
		running:        make(map[string]context.CancelFunc),
		lastProgressAt: make(map[string]time.Time),
	}
}

// Run starts the worker goroutines; it returns once ctx is done and every
// in-flight job has finished or been cancelled.
func (p *Pool) Run(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
	<-ctx.Done()
	p.queue.Close()
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		jobID, ok := p.queue.Dequeue(ctx)
		if !ok {
			return
		}
		p.process(ctx, jobID)
		metrics.Get().SetWorkerUtilization(p.utilization())
	}
}

func (p *Pool) process(parent context.Context, jobID string) {
	j, err := p.store.Get(parent, jobID)
	if err != nil {
		logger.Log.Error("job vanished before processing", "job_id", jobID, "error", err)
		return
	}

	now := time.Now()
	if err := p.store.Update(parent, jobID, func(job *domain.OptimizationJob) {
		job.Status = domain.JobProcessing
		job.StartedAt = &now
		job.LastProgressAt = now
	}); err != nil {
		return
	}

	jobCtx, cancel := context.WithTimeout(parent, p.timeout)
	defer cancel()

	p.mu.Lock()
	p.running[jobID] = cancel
	p.lastProgressAt[jobID] = now
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		delete(p.running, jobID)
		delete(p.lastProgressAt, jobID)
		p.mu.Unlock()
	}()

	report := func(progress int) {
		ts := time.Now()
		p.mu.Lock()
		p.lastProgressAt[jobID] = ts
		p.mu.Unlock()
		_ = p.store.Update(parent, jobID, func(job *domain.OptimizationJob) {
			job.Progress = progress
			job.LastProgressAt = ts
		})
	}

	start := time.Now()
	err = p.handler(jobCtx, j, report)
	duration := time.Since(start)

	switch {
	case jobCtx.Err() == context.Canceled:
		p.finishCancelled(parent, jobID)
		metrics.Get().RecordJobCompleted("cancelled", duration)
	case err != nil:
		p.finishFailed(parent, jobID, err)
		metrics.Get().RecordJobCompleted("failed", duration)
	default:
		p.finishCompleted(parent, jobID, duration)
		metrics.Get().RecordJobCompleted("completed", duration)
	}
}

func (p *Pool) finishCompleted(ctx context.Context, jobID string, duration time.Duration) {
	completedAt := time.Now()
	_ = p.store.Update(ctx, jobID, func(job *domain.OptimizationJob) {
		job.Status = domain.JobCompleted
		job.CompletedAt = &completedAt
		job.ProcessingTimeMs = duration.Milliseconds()
		job.Progress = 100
	})
}

func (p *Pool) finishFailed(ctx context.Context, jobID string, cause error) {
	completedAt := time.Now()
	_ = p.store.Update(ctx, jobID, func(job *domain.OptimizationJob) {
		job.Status = domain.JobFailed
		job.CompletedAt = &completedAt
		job.Error = &domain.JobError{Message: cause.Error()}
	})
}

func (p *Pool) finishCancelled(ctx context.Context, jobID string) {
	completedAt := time.Now()
	_ = p.store.Update(ctx, jobID, func(job *domain.OptimizationJob) {
		job.Status = domain.JobCancelled
		job.CompletedAt = &completedAt
	})
}

func (p *Pool) utilization() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.workers == 0 {
		return 0
	}
	return float64(len(p.running)) / float64(p.workers)
}

// Cancel requests cancellation of jobID. A PENDING job is dequeued and
// transitioned directly; a PROCESSING job has its context cancelled so the
// worker observes it at its next suspension point (spec §4.G).
func (p *Pool) Cancel(ctx context.Context, jobID string) error {
	if p.queue.Remove(jobID) {
		return p.store.Update(ctx, jobID, func(job *domain.OptimizationJob) {
			job.Status = domain.JobCancelled
		})
	}

	p.mu.Lock()
	cancel, ok := p.running[jobID]
	p.mu.Unlock()
	if ok {
		cancel()
		return nil
	}

	j, err := p.store.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if j.IsTerminal() {
		return apperror.ErrJobTerminal
	}
	return apperror.ErrJobNotFound
}

// StalledJobIDs returns the ids of currently-processing jobs whose last
// progress update is older than the pool's timeout (spec §4.G stall
// detection).
func (p *Pool) StalledJobIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var stalled []string
	now := time.Now()
	for id, last := range p.lastProgressAt {
		if now.Sub(last) > p.timeout {
			stalled = append(stalled, id)
		}
	}
	return stalled
}
