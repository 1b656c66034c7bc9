package sheets

import (
	"context"

	"backoffice/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportWriter publishes a yearly profit report to an external sheet.
	ReportWriter interface {
		WriteMonthlyReport(ctx context.Context, r core.MonthlyReport) (rowRef string, err error)
	}
)

// Header is the first row of every exported report range.
var Header = []string{"Month", "Product profit", "Project profit", "Total profit"}

// Rows flattens a report into the cell values written below Header: one row
// per month followed by a totals row.
func Rows(r core.MonthlyReport) [][]string {
	rows := make([][]string, 0, len(r.Buckets)+1)
	for _, b := range r.Buckets {
		rows = append(rows, []string{b.Month, b.ProductProfit.String(), b.ProjectProfit.String(), b.TotalProfit.String()})
	}
	s := r.Summary
	rows = append(rows, []string{"Total", s.TotalProductProfit.String(), s.TotalProjectProfit.String(), s.TotalProfit.String()})
	return rows
}
