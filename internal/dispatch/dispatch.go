// Package dispatch owns the worker pool's routing and retry policy: for
// each drained job it invokes the component matching the job's kind,
// persists the result, and on transient failure requeues with exponential
// backoff (spec §4.J). It supplies the internal/job.Handler consumed by
// internal/job.Pool.
package dispatch

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"freightengine/internal/domain"
	"freightengine/internal/job"
	"freightengine/internal/result"
	"freightengine/pkg/apperror"
	"freightengine/pkg/logger"
	"freightengine/pkg/metrics"
	"freightengine/pkg/telemetry"
)

// Router resolves a job's parameters into an OptimizationResult. One
// Router method is registered per job kind; internal/optimizer,
// internal/relay, internal/demand, and internal/hub each implement the
// matching method against their own domain types.
type Router interface {
	RunLoadMatching(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error)
	RunNetworkOptimization(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error)
	RunRelayPlanning(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error)
	RunDemandPrediction(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error)
	RunSmartHubIdentification(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error)
}

// BackoffParams tunes the retry schedule (spec §4.J step 5).
type BackoffParams struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Multiplier        float64
	JitterFraction    float64
}

// DefaultBackoffParams matches spec §4.J's documented schedule.
func DefaultBackoffParams() BackoffParams {
	return BackoffParams{MaxAttempts: 5, InitialBackoff: time.Second, MaxBackoff: 60 * time.Second, Multiplier: 2, JitterFraction: 0.2}
}

// Dispatcher routes drained jobs to a Router, persists results, publishes
// completion events, and requeues retryable failures with backoff.
type Dispatcher struct {
	router    Router
	results   result.Store
	publisher *result.Publisher
	queue     *job.Queue
	backoff   BackoffParams

	mu       sync.Mutex
	attempts map[string]int
}

// New constructs a Dispatcher.
func New(router Router, results result.Store, publisher *result.Publisher, queue *job.Queue, backoff BackoffParams) *Dispatcher {
	return &Dispatcher{
		router:    router,
		results:   results,
		publisher: publisher,
		queue:     queue,
		backoff:   backoff,
		attempts:  make(map[string]int),
	}
}

// Handler returns the job.Handler the worker pool invokes per dequeued job.
func (d *Dispatcher) Handler() job.Handler {
	return d.run
}

func (d *Dispatcher) run(ctx context.Context, j domain.OptimizationJob, report func(progress int)) error {
	attempt := d.attemptFor(j.ID)

	var res domain.OptimizationResult
	err := telemetry.WrapDispatch(ctx, string(j.Kind), attempt, func(ctx context.Context) error {
		var runErr error
		res, runErr = d.route(ctx, j)
		return runErr
	})
	report(90)

	if err != nil {
		return d.handleFailure(ctx, j, attempt, err)
	}

	d.clearAttempts(j.ID)
	res.ID = uuid.NewString()
	res.JobID = j.ID
	res.Kind = j.Kind
	if err := d.results.Create(ctx, res); err != nil {
		return err
	}
	if d.publisher != nil {
		if pubErr := d.publisher.Publish(ctx, res); pubErr != nil {
			logger.Log.Error("failed to publish result event", "job_id", j.ID, "error", pubErr)
		}
	}
	report(100)
	return nil
}

// handleFailure classifies err per §7: retryable errors below MaxAttempts
// are requeued with exponential backoff plus jitter; everything else
// propagates to the pool, which marks the job FAILED.
func (d *Dispatcher) handleFailure(ctx context.Context, j domain.OptimizationJob, attempt int, err error) error {
	if !apperror.IsRetryable(err) || attempt >= d.backoff.MaxAttempts {
		d.clearAttempts(j.ID)
		return err
	}

	d.mu.Lock()
	d.attempts[j.ID] = attempt
	d.mu.Unlock()
	metrics.Get().RecordDispatchRetry(string(apperror.Code(err)))

	delay := d.backoffDelay(attempt)
	logger.Log.Warn("retrying job after transient failure", "job_id", j.ID, "attempt", attempt, "delay", delay, "error", err)

	go func() {
		time.Sleep(delay)
		d.queue.Enqueue(j.ID, j.Priority, time.Now())
	}()
	return nil
}

func (d *Dispatcher) attemptFor(jobID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts[jobID] + 1
}

func (d *Dispatcher) clearAttempts(jobID string) {
	d.mu.Lock()
	delete(d.attempts, jobID)
	d.mu.Unlock()
}

// backoffDelay computes InitialBackoff * Multiplier^(attempt-1), capped at
// MaxBackoff, with ±JitterFraction multiplicative jitter.
func (d *Dispatcher) backoffDelay(attempt int) time.Duration {
	base := float64(d.backoff.InitialBackoff) * math.Pow(d.backoff.Multiplier, float64(attempt-1))
	if base > float64(d.backoff.MaxBackoff) {
		base = float64(d.backoff.MaxBackoff)
	}
	jitter := 1 + d.backoff.JitterFraction*(2*rand.Float64()-1)
	return time.Duration(base * jitter)
}

func (d *Dispatcher) route(ctx context.Context, j domain.OptimizationJob) (domain.OptimizationResult, error) {
	switch j.Kind {
	case domain.JobLoadMatching:
		return d.router.RunLoadMatching(ctx, j)
	case domain.JobNetworkOptimization:
		return d.router.RunNetworkOptimization(ctx, j)
	case domain.JobRelayPlanning:
		return d.router.RunRelayPlanning(ctx, j)
	case domain.JobDemandPrediction:
		return d.router.RunDemandPrediction(ctx, j)
	case domain.JobSmartHubIdentification:
		return d.router.RunSmartHubIdentification(ctx, j)
	default:
		return domain.OptimizationResult{}, apperror.New(apperror.CodeInvalidConstraint, "unknown job kind").WithField("kind")
	}
}
