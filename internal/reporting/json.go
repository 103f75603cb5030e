package reporting

import (
	"context"
	"encoding/json"
)

// JSONGenerator renders the full OptimizationResult verbatim. Like CSV,
// this is a case where encoding/json already is the idiomatic choice
// across the example pack for wire/at-rest serialization — no
// third-party marshaler earns its place over a structural dump.
type JSONGenerator struct {
	BaseGenerator
}

func NewJSONGenerator() *JSONGenerator { return &JSONGenerator{} }

func (g *JSONGenerator) Format() Format { return FormatJSON }

type jsonReport struct {
	Title       string      `json:"title"`
	GeneratedAt string      `json:"generated_at"`
	Result      interface{} `json:"result"`
}

func (g *JSONGenerator) Generate(ctx context.Context, data ReportData) ([]byte, error) {
	out := jsonReport{
		Title:       g.title(data),
		GeneratedAt: g.generatedAt(data).Format("2006-01-02T15:04:05Z07:00"),
		Result:      data.Result,
	}
	return json.MarshalIndent(out, "", "  ")
}
