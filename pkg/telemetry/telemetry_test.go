package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestConfig(t *testing.T) {
	cfg := Config{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		ServiceName: "test-service",
		Version:     "1.0.0",
		Environment: "test",
		SampleRate:  0.5,
	}

	assert.Equal(t, "test-service", cfg.ServiceName)
}

func TestInit_Disabled(t *testing.T) {
	cfg := Config{
		Enabled:     false,
		ServiceName: "test",
	}

	provider, err := Init(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.NotNil(t, provider.tracer, "tracer should not be nil even when disabled")
}

func TestGet_Uninitialized(t *testing.T) {
	// Reset global
	globalProvider = nil

	provider := Get()
	require.NotNil(t, provider, "Get() should return provider even when uninitialized")

	assert.NotNil(t, provider.tracer)
}

func TestStartSpan(t *testing.T) {
	globalProvider = nil

	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "test-span")

	assert.NotNil(t, span)

	// newCtx carries the span; it is not examined here.
	_ = newCtx

	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()
	span := SpanFromContext(ctx)

	// Should return noop span for context without span
	assert.NotNil(t, span, "SpanFromContext should return span (noop)")
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "test-span")
	defer span.End()

	// Should not panic
	AddEvent(newCtx, "test-event",
		attribute.String("key", "value"),
		attribute.Int("count", 42),
	)
}

func TestSetError(t *testing.T) {
	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "test-span")
	defer span.End()

	// Should not panic
	SetError(newCtx, context.DeadlineExceeded)
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "test-span")
	defer span.End()

	// Should not panic
	SetAttributes(newCtx,
		attribute.String("key1", "value1"),
		attribute.Int("key2", 42),
	)
}

func TestWithAttributes(t *testing.T) {
	opt := WithAttributes(
		attribute.String("key", "value"),
	)

	assert.NotNil(t, opt)
}

func TestProvider_Tracer(t *testing.T) {
	provider := &Provider{
		tracer: noop.NewTracerProvider().Tracer("test"),
	}

	tracer := provider.Tracer()
	assert.NotNil(t, tracer)
}

func TestProvider_Shutdown(t *testing.T) {
	provider := &Provider{
		tp:     nil,
		tracer: noop.NewTracerProvider().Tracer("test"),
	}

	err := provider.Shutdown(context.Background())
	assert.NoError(t, err)
}

func TestJobAttributes(t *testing.T) {
	attrs := JobAttributes("job-1", "position_update", 5)

	require.Len(t, attrs, 3)

	expected := map[string]bool{
		AttrJobID:       true,
		AttrJobTrigger:  true,
		AttrJobPriority: true,
	}

	for _, attr := range attrs {
		key := string(attr.Key)
		assert.True(t, expected[key], "unexpected attribute key: %s", key)
	}
}

func TestOptimizationAttributes(t *testing.T) {
	attrs := OptimizationAttributes(100, 50, 25, 1234.5)

	assert.Len(t, attrs, 4)
}

func TestRelayAttributes(t *testing.T) {
	attrs := RelayAttributes(3, 0.82)

	assert.Len(t, attrs, 2)
}

func TestPredictorAttributes(t *testing.T) {
	attrs := PredictorAttributes("eta", true, 0.91)

	assert.Len(t, attrs, 3)
}

func TestHubDiscoveryAttributes(t *testing.T) {
	attrs := HubDiscoveryAttributes(5, 15.0, 3)

	assert.Len(t, attrs, 3)
}

func TestWrapJobExecution(t *testing.T) {
	ctx := context.Background()

	called := false
	err := WrapJobExecution(ctx, "job-1", "position_update", 5, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called, "expected fn to be called")

	boom := context.DeadlineExceeded
	err = WrapJobExecution(ctx, "job-2", "manual", 1, func(ctx context.Context) error {
		return boom
	})
	assert.Equal(t, boom, err)
}

func TestWrapDispatch(t *testing.T) {
	ctx := context.Background()

	called := false
	err := WrapDispatch(ctx, "optimization.results", 1, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called, "expected fn to be called")
}
