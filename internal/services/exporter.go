package services

import (
	"context"
	"fmt"

	"backoffice/internal/core"
	"backoffice/internal/log"
	"backoffice/internal/sheets"
)

// MonthlyReporter is the slice of ReportService the exporter needs.
type MonthlyReporter interface {
	Monthly(ctx context.Context, year int) (core.MonthlyReport, error)
}

// ReportExporter recomputes a year's monthly report and hands it to the
// configured spreadsheet writer.
type ReportExporter struct {
	reports MonthlyReporter
	writer  sheets.ReportWriter
	logger  *log.Logger
}

func NewReportExporter(reports MonthlyReporter, writer sheets.ReportWriter, logger *log.Logger) *ReportExporter {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportExporter{reports: reports, writer: writer, logger: logger.WithComponent(log.ComponentSheets)}
}

// Export writes the current figures for year.
func (e *ReportExporter) Export(ctx context.Context, year int) error {
	report, err := e.reports.Monthly(ctx, year)
	if err != nil {
		return fmt.Errorf("compute report %d: %w", year, err)
	}
	ref, err := e.writer.WriteMonthlyReport(ctx, report)
	if err != nil {
		return fmt.Errorf("write report %d: %w", year, err)
	}
	e.logger.InfoContext(ctx, "Report exported",
		log.FieldOperation, log.OpExport,
		log.FieldYear, year,
		"sheets_ref", ref,
		"total_profit", report.Summary.TotalProfit.String())
	return nil
}
