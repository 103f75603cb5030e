package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
)

// CSVGenerator renders a flat load-match table. CSV has no third-party
// idiom in the example pack worth adopting here — encoding/csv already
// covers flat tabular output with no styling requirement, so this
// generator is one of two (with JSON) built on the standard library.
type CSVGenerator struct {
	BaseGenerator
}

func NewCSVGenerator() *CSVGenerator { return &CSVGenerator{} }

func (g *CSVGenerator) Format() Format { return FormatCSV }

func (g *CSVGenerator) Generate(ctx context.Context, data ReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"load_id", "driver_id", "score", "estimated_earnings", "empty_miles_saved"}); err != nil {
		return nil, err
	}
	for _, m := range data.Result.LoadMatches {
		row := []string{
			m.LoadID,
			m.DriverID,
			g.formatFloat(m.Score, 4),
			g.formatFloat(m.EstimatedEarnings, 2),
			g.formatFloat(m.EmptyMilesSaved, 1),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if len(data.Result.HubRecommendations) > 0 {
		if err := w.Write(nil); err != nil {
			return nil, err
		}
		if err := w.Write([]string{"hub_candidate_lat", "hub_candidate_lon", "score", "cluster_size"}); err != nil {
			return nil, err
		}
		for _, h := range data.Result.HubRecommendations {
			row := []string{
				g.formatFloat(h.Location.Lat, 6),
				g.formatFloat(h.Location.Lon, 6),
				g.formatFloat(h.Score, 4),
				strconv.Itoa(h.ClusterSize),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
