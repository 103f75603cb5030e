// Package reporting exports a completed OptimizationResult as CSV, JSON,
// Excel, or PDF; relay plans are exported only as part of a result's
// RelayPlans, never on their own. It is grounded on the report service's
// per-format Generator pattern: one Generate(ctx, data) implementation per
// output format, selected by Format().
package reporting

import (
	"context"
	"fmt"
	"time"

	"freightengine/internal/domain"
)

// Format identifies an export format (spec §12 supplemented feature).
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ReportData is everything a Generator needs: the result itself plus
// caller-supplied presentation options.
type ReportData struct {
	Result      domain.OptimizationResult
	Title       string
	GeneratedAt time.Time
}

// Generator renders a ReportData to bytes in one output format.
type Generator interface {
	Generate(ctx context.Context, data ReportData) ([]byte, error)
	Format() Format
}

// BaseGenerator holds formatting helpers shared by every Generator
// implementation (spec §12; mirrors the report service's BaseGenerator).
type BaseGenerator struct{}

func (b BaseGenerator) title(data ReportData) string {
	if data.Title != "" {
		return data.Title
	}
	return fmt.Sprintf("%s Report", data.Result.Kind)
}

func (b BaseGenerator) generatedAt(data ReportData) time.Time {
	if data.GeneratedAt.IsZero() {
		return time.Now()
	}
	return data.GeneratedAt
}

func (b BaseGenerator) formatFloat(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}

func (b BaseGenerator) formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Registry selects a Generator by Format.
type Registry struct {
	byFormat map[Format]Generator
}

// NewRegistry constructs a Registry with every built-in Generator.
func NewRegistry() *Registry {
	r := &Registry{byFormat: make(map[Format]Generator)}
	for _, g := range []Generator{
		NewCSVGenerator(), NewJSONGenerator(), NewExcelGenerator(), NewPDFGenerator(),
	} {
		r.byFormat[g.Format()] = g
	}
	return r
}

// Generate renders data in the requested format.
func (r *Registry) Generate(ctx context.Context, format Format, data ReportData) ([]byte, error) {
	g, ok := r.byFormat[format]
	if !ok {
		return nil, fmt.Errorf("reporting: unsupported format %q", format)
	}
	return g.Generate(ctx, data)
}
