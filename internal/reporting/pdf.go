package reporting

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"freightengine/internal/domain"
)

// PDFGenerator renders a printable summary, grounded on the report
// service's maroto v2 layout: a title header, metric-card sections, and
// bordered tables per result section.
type PDFGenerator struct {
	BaseGenerator
}

func NewPDFGenerator() *PDFGenerator { return &PDFGenerator{} }

func (g *PDFGenerator) Format() Format { return FormatPDF }

var (
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241}
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141}

	titleStyle = props.Text{Size: 24, Style: fontstyle.Bold, Align: align.Center, Color: headerBgColor}
	h2Style    = props.Text{Size: 16, Style: fontstyle.Bold, Color: headerBgColor, Top: 5}
	smallStyle = props.Text{Size: 8, Color: darkGrayColor}
	boldStyle  = props.Text{Size: 10, Style: fontstyle.Bold}
	normalStyle = props.Text{Size: 10}

	metricValueStyle = props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Center, Color: primaryColor}
	metricLabelStyle = props.Text{Size: 9, Align: align.Center, Color: darkGrayColor}

	tableHeaderStyle      = &props.Cell{BackgroundColor: primaryColor}
	tableHeaderTextStyle  = props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}, Align: align.Center}
	tableCellStyle        = &props.Cell{BorderType: border.Bottom, BorderColor: lightGrayColor}
	tableCellTextStyle    = props.Text{Size: 9, Align: align.Center}
)

type metricCard struct {
	Label     string
	Value     string
	Highlight bool
}

func (g *PDFGenerator) Generate(ctx context.Context, data ReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	g.addHeader(m, data)
	if r := data.Result.NetworkMetrics; r.TotalLoads > 0 || r.TotalDrivers > 0 {
		g.addSection(m, "Network Metrics")
		g.addMetricCards(m, []metricCard{
			{Label: "Matched Loads", Value: fmt.Sprintf("%d/%d", r.MatchedLoads, r.TotalLoads), Highlight: true},
			{Label: "Empty Miles %", Value: g.formatPercent(r.EmptyMilesPct), Highlight: true},
			{Label: "Efficiency Score", Value: g.formatFloat(r.EfficiencyScore, 4)},
		})
	}
	if len(data.Result.LoadMatches) > 0 {
		g.addSection(m, "Load Matches")
		g.addLoadMatchesTable(m, data.Result.LoadMatches)
	}
	if len(data.Result.HubRecommendations) > 0 {
		g.addSection(m, "Hub Recommendations")
		g.addHubTable(m, data.Result.HubRecommendations)
	}
	if len(data.Result.RelayPlans) > 0 {
		g.addSection(m, "Relay Plans")
		g.addRelayTable(m, data.Result.RelayPlans)
	}
	if len(data.Result.DemandForecasts) > 0 {
		g.addSection(m, "Demand Forecasts")
		g.addDemandTable(m, data.Result.DemandForecasts)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data ReportData) {
	m.AddRow(15, text.NewCol(12, g.title(data), titleStyle))
	m.AddRow(5, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Job: %s", data.Result.JobID), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", g.generatedAt(data).Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)
	m.AddRow(8)
}

func (g *PDFGenerator) addSection(m core.Maroto, title string) {
	m.AddRow(10, text.NewCol(12, title, h2Style))
}

func (g *PDFGenerator) addMetricCards(m core.Maroto, cards []metricCard) {
	width := 12 / len(cards)
	cols := make([]core.Col, 0, len(cards))
	for _, c := range cards {
		valueStyle := metricValueStyle
		if !c.Highlight {
			valueStyle.Color = darkGrayColor
		}
		cols = append(cols, col.New(width).Add(
			text.New(c.Value, valueStyle),
			text.New(c.Label, metricLabelStyle),
		))
	}
	m.AddRow(20, cols...)
}

func (g *PDFGenerator) addLoadMatchesTable(m core.Maroto, matches []domain.LoadMatch) {
	g.addTableHeader(m, "Load", "Driver", "Score", "Earnings", "Empty Mi Saved")
	for _, row := range matches {
		g.addTableRow(m, row.LoadID, row.DriverID, g.formatFloat(row.Score, 4), g.formatFloat(row.EstimatedEarnings, 2), g.formatFloat(row.EmptyMilesSaved, 1))
	}
}

func (g *PDFGenerator) addHubTable(m core.Maroto, recs []domain.HubRecommendation) {
	g.addTableHeader(m, "Hub", "Lat", "Lon", "Score", "Cluster Size")
	for _, r := range recs {
		g.addTableRow(m, r.Name, g.formatFloat(r.Location.Lat, 4), g.formatFloat(r.Location.Lon, 4), g.formatFloat(r.Score, 4), fmt.Sprintf("%d", r.ClusterSize))
	}
}

func (g *PDFGenerator) addRelayTable(m core.Maroto, plans []domain.RelayPlan) {
	g.addTableHeader(m, "Plan", "Load", "Status", "Segments", "Efficiency")
	for _, p := range plans {
		g.addTableRow(m, p.ID, p.LoadID, string(p.Status), fmt.Sprintf("%d", len(p.Segments)), g.formatFloat(p.Efficiency.OverallScore, 2))
	}
}

func (g *PDFGenerator) addDemandTable(m core.Maroto, forecasts []domain.DemandForecast) {
	g.addTableHeader(m, "Region", "Horizon", "Volume", "Confidence")
	for _, f := range forecasts {
		g.addTableRow(m, f.Region, f.Horizon, g.formatFloat(f.PredictedVolume, 1), g.formatPercent(f.Confidence))
	}
}

func (g *PDFGenerator) addTableHeader(m core.Maroto, headers ...string) {
	width := 12 / len(headers)
	cols := make([]core.Col, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, text.NewCol(width, h, tableHeaderTextStyle).WithStyle(tableHeaderStyle))
	}
	m.AddRow(8, cols...)
}

func (g *PDFGenerator) addTableRow(m core.Maroto, values ...string) {
	width := 12 / len(values)
	cols := make([]core.Col, 0, len(values))
	for _, v := range values {
		cols = append(cols, text.NewCol(width, v, tableCellTextStyle).WithStyle(tableCellStyle))
	}
	m.AddRow(7, cols...)
}
