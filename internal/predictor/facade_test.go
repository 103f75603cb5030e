package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
	"freightengine/pkg/cache"
)

type fakeModel struct {
	kind   domain.ModelKind
	calls  int
	output domain.PredictOutput
	err    error
}

func (f *fakeModel) Kind() domain.ModelKind { return f.kind }
func (f *fakeModel) Version() string        { return "v1" }
func (f *fakeModel) Predict(ctx context.Context, input domain.PredictInput) (domain.PredictOutput, error) {
	f.calls++
	return f.output, f.err
}

func newTestCache() *cache.PredictionCache {
	mem := cache.NewMemoryCache(cache.DefaultOptions())
	return cache.NewPredictionCache(mem, DefaultCacheTTL)
}

func TestFacade_Predict_CachesResult(t *testing.T) {
	model := &fakeModel{
		kind: domain.ModelDemand,
		output: domain.PredictOutput{
			Kind:   domain.ModelDemand,
			Demand: &domain.DemandOutput{PredictedVolume: 42, TrendDirection: "increasing"},
		},
	}

	f := New([]Model{model}, newTestCache(), true, 0.7)
	input := domain.PredictInput{Kind: domain.ModelDemand, Demand: &domain.DemandInput{Region: "midwest"}}

	out1, err := f.Predict(context.Background(), input, Options{})
	require.NoError(t, err)
	assert.Equal(t, 42.0, out1.Demand.PredictedVolume)

	out2, err := f.Predict(context.Background(), input, Options{})
	require.NoError(t, err, "second Predict()")
	assert.Equal(t, out1.Demand.PredictedVolume, out2.Demand.PredictedVolume, "cached result should match first call")
	assert.Equal(t, 1, model.calls, "second call should hit cache")
}

func TestFacade_Predict_UnknownKind(t *testing.T) {
	f := New(nil, newTestCache(), true, 0.7)
	_, err := f.Predict(context.Background(), domain.PredictInput{Kind: domain.ModelPrice}, Options{})
	assert.Error(t, err, "expected error for unregistered kind")
}

func TestFacade_Predict_SkipCache(t *testing.T) {
	model := &fakeModel{
		kind:   domain.ModelSupply,
		output: domain.PredictOutput{Kind: domain.ModelSupply, Supply: &domain.SupplyOutput{AvailableDrivers: 10}},
	}
	f := New([]Model{model}, newTestCache(), true, 0.7)
	input := domain.PredictInput{Kind: domain.ModelSupply, Supply: &domain.SupplyInput{Region: "northeast"}}

	f.Predict(context.Background(), input, Options{})
	f.Predict(context.Background(), input, Options{SkipCache: true})

	assert.Equal(t, 2, model.calls, "SkipCache should bypass cache")
}

func TestConfidenceFor_PriceHeuristic(t *testing.T) {
	out := domain.PredictOutput{
		Kind:  domain.ModelPrice,
		Price: &domain.PriceOutput{BaseRateUSD: 1000, LowUSD: 900, HighUSD: 1000},
	}
	conf := confidenceFor(out)
	assert.True(t, conf > 0 && conf < 1, "price confidence = %v, want in (0,1)", conf)
}
