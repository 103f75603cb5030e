package reporting

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightengine/internal/domain"
)

func sampleResult() domain.OptimizationResult {
	return domain.OptimizationResult{
		JobID: "job-1",
		Kind:  domain.JobNetworkOptimization,
		LoadMatches: []domain.LoadMatch{
			{DriverID: "d1", LoadID: "l1", Score: 0.91, EstimatedEarnings: 512.5, EmptyMilesSaved: 38},
		},
		NetworkMetrics: domain.NetworkMetricsSummary{
			TotalLoads: 1, MatchedLoads: 1, TotalDrivers: 1, MatchedDrivers: 1,
			EmptyMilesPct: 0.12, EfficiencyScore: 0.87,
		},
	}
}

func TestCSVGenerator_Generate(t *testing.T) {
	g := NewCSVGenerator()
	out, err := g.Generate(context.Background(), ReportData{Result: sampleResult()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "l1")
	assert.Contains(t, string(out), "d1")
}

func TestJSONGenerator_Generate(t *testing.T) {
	g := NewJSONGenerator()
	out, err := g.Generate(context.Background(), ReportData{Result: sampleResult()})
	require.NoError(t, err)
	var decoded map[string]interface{}
	err = json.Unmarshal(out, &decoded)
	require.NoError(t, err, "output is not valid JSON")
	assert.NotEqual(t, "", decoded["title"], "expected a non-empty title")
}

func TestExcelGenerator_Generate(t *testing.T) {
	g := NewExcelGenerator()
	out, err := g.Generate(context.Background(), ReportData{Result: sampleResult()})
	require.NoError(t, err)
	assert.NotEmpty(t, out, "expected non-empty xlsx bytes")
}

func TestPDFGenerator_Generate(t *testing.T) {
	g := NewPDFGenerator()
	out, err := g.Generate(context.Background(), ReportData{Result: sampleResult()})
	require.NoError(t, err)
	assert.NotEmpty(t, out, "expected non-empty pdf bytes")
}

func TestRegistry_GenerateUnsupportedFormat(t *testing.T) {
	r := NewRegistry()
	_, err := r.Generate(context.Background(), Format("yaml"), ReportData{Result: sampleResult()})
	assert.Error(t, err, "expected an error for an unsupported format")
}
