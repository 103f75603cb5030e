package optimizer

import (
	"context"
	"sort"
	"time"

	"freightengine/internal/domain"
	"freightengine/pkg/logger"
)

// DefaultSpeedMph is the speed factor used to translate distance into
// travel time for HOS and time-window constraints when a job doesn't
// override it.
const DefaultSpeedMph = 55.0

// CostPerLoadedMile prices estimated earnings and relay cost metrics.
const CostPerLoadedMile = 1.80

// Output bundles the optimizer's result pieces (spec §4.D "Output").
type Output struct {
	Matches []domain.LoadMatch
	Metrics domain.NetworkMetricsSummary

	// Infeasible is true when no assignment could be made; the caller
	// should treat this as a successful run with zero matches, not a
	// failure (spec §4.D: the optimizer must tolerate no feasible
	// solution and report a clear reason instead of erroring).
	Infeasible bool
	Reason     string
}

type candidate struct {
	driverIdx, loadIdx int
	score              pairScore
}

// Optimize builds the compatibility matrix for drivers x loads, applies
// hard constraints, and solves for the assignment maximizing total
// weighted score (spec §4.D). ctx is checked once per driver so a
// cancelled job abandons the scoring pass promptly.
func Optimize(ctx context.Context, drivers []domain.Driver, loads []domain.Load, params domain.JobParameters, now time.Time) (Output, error) {
	drivers, loads = applyHardConstraints(drivers, loads, params.Constraints)

	weights := params.Weights
	if weights == (domain.FactorWeights{}) {
		weights = DefaultWeights()
	}

	candidates, err := buildCandidates(ctx, drivers, loads, weights, DefaultSpeedMph, now)
	if err != nil {
		return Output{}, err
	}

	if len(candidates) == 0 {
		logger.Log.Info("optimizer found no feasible driver-load pairs", "drivers", len(drivers), "loads", len(loads))
		return Output{Infeasible: true, Reason: "no driver-load pair satisfies equipment, HOS, and time-window constraints"}, nil
	}

	sortCandidatesByTieBreak(candidates, drivers)

	matches := assignGreedy(candidates, drivers, loads)
	matches = improveBySwap(matches, candidates, drivers, loads)

	metrics := aggregateMetrics(matches, drivers, loads)
	return Output{Matches: matches, Metrics: metrics}, nil
}

func buildCandidates(ctx context.Context, drivers []domain.Driver, loads []domain.Load, weights domain.FactorWeights, speedMph float64, now time.Time) ([]candidate, error) {
	var candidates []candidate
	for di, d := range drivers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for li, l := range loads {
			if l.Status != domain.LoadAvailable && l.Status != domain.LoadPending {
				continue
			}
			score, ok := scorePair(d, l, weights, speedMph, now)
			if !ok {
				continue
			}
			candidates = append(candidates, candidate{driverIdx: di, loadIdx: li, score: score})
		}
	}
	return candidates, nil
}

// sortCandidatesByTieBreak orders candidates by descending score; ties break
// first on lower empty-miles percentage, then on driver ID for determinism
// (spec §4.D tie-breaking rules).
func sortCandidatesByTieBreak(candidates []candidate, drivers []domain.Driver) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score.total != b.score.total {
			return a.score.total > b.score.total
		}
		aEmptyPct, bEmptyPct := emptyPct(a.score), emptyPct(b.score)
		if aEmptyPct != bEmptyPct {
			return aEmptyPct < bEmptyPct
		}
		return drivers[a.driverIdx].ID < drivers[b.driverIdx].ID
	})
}

// assignGreedy walks candidates in score order, taking each pair whose
// driver and load are both still free. This is the assignment heuristic
// standing in for the full MIP/Hungarian solver spec.md treats as an
// external collaborator.
func assignGreedy(candidates []candidate, drivers []domain.Driver, loads []domain.Load) []domain.LoadMatch {
	driverTaken := make([]bool, len(drivers))
	loadTaken := make([]bool, len(loads))
	var matches []domain.LoadMatch

	for _, c := range candidates {
		if driverTaken[c.driverIdx] || loadTaken[c.loadIdx] {
			continue
		}
		driverTaken[c.driverIdx] = true
		loadTaken[c.loadIdx] = true
		matches = append(matches, buildMatch(drivers[c.driverIdx], loads[c.loadIdx], c.score))
	}
	return matches
}

// improveBySwap runs a bounded local-search pass: for each pair of matches,
// swap their loads if doing so raises the combined score. This recovers
// some of the quality the greedy pass sacrifices without the cost of an
// exact solver.
func improveBySwap(matches []domain.LoadMatch, candidates []candidate, drivers []domain.Driver, loads []domain.Load) []domain.LoadMatch {
	if len(matches) < 2 {
		return matches
	}

	scoreOf := make(map[[2]string]pairScore, len(candidates))
	for _, c := range candidates {
		scoreOf[[2]string{drivers[c.driverIdx].ID, loads[c.loadIdx].ID}] = c.score
	}

	const maxPasses = 4
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 0; i < len(matches); i++ {
			for j := i + 1; j < len(matches); j++ {
				a, b := matches[i], matches[j]
				sa, okA := scoreOf[[2]string{a.DriverID, a.LoadID}]
				sb, okB := scoreOf[[2]string{b.DriverID, b.LoadID}]
				if !okA || !okB {
					continue
				}
				swappedA, okSA := scoreOf[[2]string{a.DriverID, b.LoadID}]
				swappedB, okSB := scoreOf[[2]string{b.DriverID, a.LoadID}]
				if !okSA || !okSB {
					continue
				}
				if swappedA.total+swappedB.total > sa.total+sb.total {
					matches[i] = buildMatch(driverByID(drivers, a.DriverID), loadByID(loads, b.LoadID), swappedA)
					matches[j] = buildMatch(driverByID(drivers, b.DriverID), loadByID(loads, a.LoadID), swappedB)
					improved = true
				}
			}
		}
		if !improved {
			break
		}
	}
	return matches
}

func driverByID(drivers []domain.Driver, id string) domain.Driver {
	for _, d := range drivers {
		if d.ID == id {
			return d
		}
	}
	return domain.Driver{ID: id}
}

func loadByID(loads []domain.Load, id string) domain.Load {
	for _, l := range loads {
		if l.ID == id {
			return l
		}
	}
	return domain.Load{ID: id}
}

func emptyPct(s pairScore) float64 {
	total := s.emptyMiles + s.loadedMiles
	if total <= 0 {
		return 0
	}
	return s.emptyMiles / total
}

func buildMatch(d domain.Driver, l domain.Load, s pairScore) domain.LoadMatch {
	return domain.LoadMatch{
		DriverID:                d.ID,
		LoadID:                  l.ID,
		Score:                   s.total * 100,
		EmptyMilesSaved:         s.loadedMiles - s.emptyMiles,
		NetworkContribution:     s.networkContribution,
		EstimatedEarnings:       s.loadedMiles * CostPerLoadedMile,
		CompatibilityBreakdown:  s.breakdown,
	}
}

// aggregateMetrics sums empty/loaded miles over the matches the optimizer
// actually chose, recovering each pair's loaded miles from
// EstimatedEarnings and its empty miles from EmptyMilesSaved; buildMatch
// sets both from the pair's own distances, including pairs rewritten by
// the swap pass.
func aggregateMetrics(matches []domain.LoadMatch, drivers []domain.Driver, loads []domain.Load) domain.NetworkMetricsSummary {
	byID := make(map[string]domain.Driver, len(drivers))
	for _, d := range drivers {
		byID[d.ID] = d
	}
	loadByIDMap := make(map[string]domain.Load, len(loads))
	for _, l := range loads {
		loadByIDMap[l.ID] = l
	}

	var loadedMiles, emptyMiles float64
	for _, m := range matches {
		loaded := m.EstimatedEarnings / CostPerLoadedMile
		loadedMiles += loaded
		emptyMiles += loaded - m.EmptyMilesSaved
	}

	totalMiles := loadedMiles + emptyMiles
	emptyPctTotal := 0.0
	if totalMiles > 0 {
		emptyPctTotal = emptyMiles / totalMiles * 100
	}

	efficiency := 0.0
	if len(matches) > 0 {
		var sum float64
		for _, m := range matches {
			sum += m.Score
		}
		efficiency = sum / float64(len(matches))
	}

	return domain.NetworkMetricsSummary{
		TotalLoads:      len(loads),
		MatchedLoads:    len(matches),
		TotalDrivers:    len(drivers),
		MatchedDrivers:  len(matches),
		TotalMiles:      totalMiles,
		LoadedMiles:     loadedMiles,
		EmptyMiles:      emptyMiles,
		EmptyMilesPct:   emptyPctTotal,
		EfficiencyScore: efficiency,
	}
}
