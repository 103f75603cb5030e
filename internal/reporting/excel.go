package reporting

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelGenerator writes one workbook with a summary sheet plus a sheet per
// non-empty result section, grounded on the report service's per-section
// sheet layout (headerStyle fill/font, MergeCell title row, column-letter
// cell addressing).
type ExcelGenerator struct {
	BaseGenerator
}

func NewExcelGenerator() *ExcelGenerator { return &ExcelGenerator{} }

func (g *ExcelGenerator) Format() Format { return FormatExcel }

func (g *ExcelGenerator) Generate(ctx context.Context, data ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	g.writeSummarySheet(f, data, headerStyle)
	if len(data.Result.LoadMatches) > 0 {
		g.writeLoadMatchesSheet(f, data, headerStyle)
	}
	if len(data.Result.HubRecommendations) > 0 {
		g.writeHubSheet(f, data, headerStyle)
	}
	if len(data.Result.RelayPlans) > 0 {
		g.writeRelaySheet(f, data, headerStyle)
	}
	if len(data.Result.DemandForecasts) > 0 {
		g.writeDemandSheet(f, data, headerStyle)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellAddr(col string, row int) string { return fmt.Sprintf("%s%d", col, row) }

func colLetter(i int) string { return string(rune('A' + i)) }

func (g *ExcelGenerator) writeSummarySheet(f *excelize.File, data ReportData, headerStyle int) {
	const sheet = "Summary"
	f.NewSheet(sheet)

	row := 1
	f.SetCellValue(sheet, cellAddr("A", row), g.title(data))
	f.MergeCell(sheet, cellAddr("A", row), cellAddr("D", row))
	row += 2

	f.SetCellValue(sheet, cellAddr("A", row), "Job ID")
	f.SetCellValue(sheet, cellAddr("B", row), data.Result.JobID)
	row++
	f.SetCellValue(sheet, cellAddr("A", row), "Kind")
	f.SetCellValue(sheet, cellAddr("B", row), string(data.Result.Kind))
	row++
	f.SetCellValue(sheet, cellAddr("A", row), "Generated At")
	f.SetCellValue(sheet, cellAddr("B", row), g.generatedAt(data).Format("2006-01-02 15:04:05"))
	row += 2

	m := data.Result.NetworkMetrics
	if m.TotalLoads > 0 || m.TotalDrivers > 0 {
		f.SetCellValue(sheet, cellAddr("A", row), "Network Metrics")
		f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("B", row), headerStyle)
		row++
		metrics := []struct {
			label string
			value interface{}
		}{
			{"Total Loads", m.TotalLoads},
			{"Matched Loads", m.MatchedLoads},
			{"Total Drivers", m.TotalDrivers},
			{"Matched Drivers", m.MatchedDrivers},
			{"Total Miles", g.formatFloat(m.TotalMiles, 1)},
			{"Empty Miles", g.formatFloat(m.EmptyMiles, 1)},
			{"Empty Miles %", g.formatPercent(m.EmptyMilesPct)},
			{"Efficiency Score", g.formatFloat(m.EfficiencyScore, 4)},
		}
		for _, e := range metrics {
			f.SetCellValue(sheet, cellAddr("A", row), e.label)
			f.SetCellValue(sheet, cellAddr("B", row), e.value)
			row++
		}
	}
}

func (g *ExcelGenerator) writeLoadMatchesSheet(f *excelize.File, data ReportData, headerStyle int) {
	const sheet = "Load Matches"
	f.NewSheet(sheet)

	headers := []string{"Load ID", "Driver ID", "Score", "Estimated Earnings", "Empty Miles Saved", "Network Contribution"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(colLetter(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellAddr(colLetter(len(headers)-1), 1), headerStyle)

	for i, m := range data.Result.LoadMatches {
		row := i + 2
		f.SetCellValue(sheet, cellAddr("A", row), m.LoadID)
		f.SetCellValue(sheet, cellAddr("B", row), m.DriverID)
		f.SetCellValue(sheet, cellAddr("C", row), m.Score)
		f.SetCellValue(sheet, cellAddr("D", row), m.EstimatedEarnings)
		f.SetCellValue(sheet, cellAddr("E", row), m.EmptyMilesSaved)
		f.SetCellValue(sheet, cellAddr("F", row), m.NetworkContribution)
	}
}

func (g *ExcelGenerator) writeHubSheet(f *excelize.File, data ReportData, headerStyle int) {
	const sheet = "Hub Recommendations"
	f.NewSheet(sheet)

	headers := []string{"Hub ID", "Name", "Lat", "Lon", "Score", "New Discovery", "Cluster Size"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(colLetter(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellAddr(colLetter(len(headers)-1), 1), headerStyle)

	for i, h := range data.Result.HubRecommendations {
		row := i + 2
		f.SetCellValue(sheet, cellAddr("A", row), h.HubID)
		f.SetCellValue(sheet, cellAddr("B", row), h.Name)
		f.SetCellValue(sheet, cellAddr("C", row), h.Location.Lat)
		f.SetCellValue(sheet, cellAddr("D", row), h.Location.Lon)
		f.SetCellValue(sheet, cellAddr("E", row), h.Score)
		f.SetCellValue(sheet, cellAddr("F", row), h.IsNewDiscovery)
		f.SetCellValue(sheet, cellAddr("G", row), h.ClusterSize)
	}
}

func (g *ExcelGenerator) writeRelaySheet(f *excelize.File, data ReportData, headerStyle int) {
	const sheet = "Relay Plans"
	f.NewSheet(sheet)

	headers := []string{"Plan ID", "Load ID", "Status", "Segments", "Handoffs", "Efficiency Score"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(colLetter(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellAddr(colLetter(len(headers)-1), 1), headerStyle)

	for i, p := range data.Result.RelayPlans {
		row := i + 2
		f.SetCellValue(sheet, cellAddr("A", row), p.ID)
		f.SetCellValue(sheet, cellAddr("B", row), p.LoadID)
		f.SetCellValue(sheet, cellAddr("C", row), string(p.Status))
		f.SetCellValue(sheet, cellAddr("D", row), len(p.Segments))
		f.SetCellValue(sheet, cellAddr("E", row), len(p.Handoffs))
		f.SetCellValue(sheet, cellAddr("F", row), p.Efficiency.OverallScore)
	}
}

func (g *ExcelGenerator) writeDemandSheet(f *excelize.File, data ReportData, headerStyle int) {
	const sheet = "Demand Forecasts"
	f.NewSheet(sheet)

	headers := []string{"Region", "Horizon", "Predicted Volume", "Confidence"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(colLetter(i), 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellAddr(colLetter(len(headers)-1), 1), headerStyle)

	for i, fc := range data.Result.DemandForecasts {
		row := i + 2
		f.SetCellValue(sheet, cellAddr("A", row), fc.Region)
		f.SetCellValue(sheet, cellAddr("B", row), fc.Horizon)
		f.SetCellValue(sheet, cellAddr("C", row), fc.PredictedVolume)
		f.SetCellValue(sheet, cellAddr("D", row), fc.Confidence)
	}
}
