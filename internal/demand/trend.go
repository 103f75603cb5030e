package demand

import (
	"context"
	"time"
)

// TrendDirection classifies a demand series' overall movement.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// TrendThreshold is the fractional change below which a series is
// classified stable rather than increasing/decreasing (spec §4.F).
const TrendThreshold = 0.10

// Trend is the result of sampling a region's demand at uniform intervals.
type Trend struct {
	Samples      []float64
	RateOfChange float64 // fractional change across the whole window
	Acceleration float64 // change in rate of change between the first and second half
	Direction    TrendDirection
}

// Trend samples region's demand at numSamples uniform points between start
// and end (inclusive), then computes rate-of-change, acceleration, and a
// direction classification (spec §4.F).
func (p *Predictor) Trend(ctx context.Context, region string, start, end time.Time, numSamples int, horizon string) (Trend, error) {
	if numSamples < 2 {
		numSamples = 2
	}

	samples := make([]float64, numSamples)
	step := end.Sub(start) / time.Duration(numSamples-1)
	for i := 0; i < numSamples; i++ {
		asOf := start.Add(step * time.Duration(i))
		forecast, err := p.Regional(ctx, region, horizon, asOf)
		if err != nil {
			return Trend{}, err
		}
		samples[i] = forecast.PredictedVolume
	}

	return analyzeTrend(samples), nil
}

func analyzeTrend(samples []float64) Trend {
	n := len(samples)
	first, last := samples[0], samples[n-1]

	rateOfChange := 0.0
	if first != 0 {
		rateOfChange = (last - first) / first
	}

	mid := n / 2
	firstHalfRate := halfRate(samples[:mid+1])
	secondHalfRate := halfRate(samples[mid:])
	acceleration := secondHalfRate - firstHalfRate

	direction := TrendStable
	switch {
	case rateOfChange > TrendThreshold:
		direction = TrendIncreasing
	case rateOfChange < -TrendThreshold:
		direction = TrendDecreasing
	}

	return Trend{
		Samples:      samples,
		RateOfChange: rateOfChange,
		Acceleration: acceleration,
		Direction:    direction,
	}
}

func halfRate(samples []float64) float64 {
	if len(samples) < 2 || samples[0] == 0 {
		return 0
	}
	return (samples[len(samples)-1] - samples[0]) / samples[0]
}
